package backend_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/kitchen-service/kitchen/backend"
	"github.com/kitchen-service/kitchen/backend/config"
	"github.com/kitchen-service/kitchen/backend/handlers"
	webmodels "github.com/kitchen-service/kitchen/backend/models"
	webservices "github.com/kitchen-service/kitchen/backend/services"
	"github.com/kitchen-service/kitchen/kitchen"
	"github.com/kitchen-service/kitchen/kitchen/database/models"
	"github.com/kitchen-service/kitchen/kitchen/database/repositories"
	"github.com/kitchen-service/kitchen/kitchen/database/repositories/mock"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type testEnv struct {
	app         *fiber.App
	webApp      *handlers.WebApp
	cooks       *mock.MockCookRepository
	dishes      *mock.MockDishRepository
	dishTypes   *mock.MockDishTypeRepository
	ingredients *mock.MockIngredientRepository
}

func newTestEnv(t *testing.T, db handlers.Pinger, opts ...func(*kitchen.Config)) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)

	cfg := kitchen.DefaultConfig()
	cfg.Web.SessionKey = strings.Repeat("s", 32)
	cfg.Web.CSRF = false
	for _, opt := range opts {
		opt(cfg)
	}
	require.NoError(t, cfg.Validate())

	env := &testEnv{
		cooks:       mock.NewMockCookRepository(ctrl),
		dishes:      mock.NewMockDishRepository(ctrl),
		dishTypes:   mock.NewMockDishTypeRepository(ctrl),
		ingredients: mock.NewMockIngredientRepository(ctrl),
	}
	repos := webmodels.NewRepositories(env.cooks, env.dishes, env.dishTypes, env.ingredients)
	env.webApp = handlers.NewWebApp(config.NewWebAppConfig(cfg), db, repos, "test", "abc123")
	env.webApp.AuthService.WithCost(bcrypt.MinCost)
	env.app = backend.NewApp(env.webApp)
	return env
}

func (e *testEnv) sessionCookie(t *testing.T, visits int) *http.Cookie {
	t.Helper()
	value, err := e.webApp.SessionService.Encode(&webmodels.UserSession{
		ID:        "test-session",
		CookID:    1,
		Username:  "chef",
		NumVisits: visits,
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	return &http.Cookie{Name: webservices.SessionCookieName, Value: value}
}

func (e *testEnv) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (e *testEnv) get(t *testing.T, target string, authed bool) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authed {
		req.AddCookie(e.sessionCookie(t, 0))
	}
	return e.do(t, req)
}

func (e *testEnv) post(t *testing.T, target string, form url.Values, authed bool) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if authed {
		req.AddCookie(e.sessionCookie(t, 0))
	}
	return e.do(t, req)
}

func responseCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestUnauthenticatedRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, path := range []string{"/", "/cooks/", "/cooks/3/", "/dishes/create/", "/dish-types/", "/ingredients/2/update/"} {
		t.Run(path, func(t *testing.T) {
			resp, _ := env.get(t, path, false)
			assert.Equal(t, fiber.StatusFound, resp.StatusCode)
			assert.Equal(t, "/accounts/login/?next="+path, resp.Header.Get("Location"))
		})
	}
}

func TestUnauthenticatedRedirectKeepsQuery(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, _ := env.get(t, "/cooks/?username=bob", false)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/accounts/login/?next=/cooks/%3Fusername%3Dbob", resp.Header.Get("Location"))
}

func TestUnauthenticatedJSONGets401(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/cooks/", nil)
	req.Header.Set("Accept", "application/json")
	resp, body := env.do(t, req)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Authentication required")
}

func TestIndexCountsAndVisits(t *testing.T) {
	env := newTestEnv(t, nil)
	env.cooks.EXPECT().Count(gomock.Any()).Return(3, nil).Times(2)
	env.dishes.EXPECT().Count(gomock.Any()).Return(7, nil).Times(2)
	env.dishTypes.EXPECT().Count(gomock.Any()).Return(2, nil).Times(2)
	env.ingredients.EXPECT().Count(gomock.Any()).Return(11, nil).Times(2)

	resp, body := env.get(t, "/", true)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<strong id="num-visits">1</strong>`)
	assert.Contains(t, body, `id="num-cooks">3<`)
	assert.Contains(t, body, `id="num-dishes">7<`)
	assert.Contains(t, body, `id="num-dish-types">2<`)
	assert.Contains(t, body, `id="num-ingredients">11<`)

	cookie := responseCookie(resp, webservices.SessionCookieName)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	resp, body = env.do(t, req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<strong id="num-visits">2</strong>`)
}

func TestIndexStatsFailure(t *testing.T) {
	env := newTestEnv(t, nil)
	env.cooks.EXPECT().Count(gomock.Any()).Return(0, errors.New("db down")).AnyTimes()
	env.dishes.EXPECT().Count(gomock.Any()).Return(0, nil).AnyTimes()
	env.dishTypes.EXPECT().Count(gomock.Any()).Return(0, nil).AnyTimes()
	env.ingredients.EXPECT().Count(gomock.Any()).Return(0, nil).AnyTimes()

	resp, _ := env.get(t, "/", true)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestCooksListFilter(t *testing.T) {
	env := newTestEnv(t, nil)
	env.cooks.EXPECT().
		List(gomock.Any(), repositories.ListFilter{Query: "ann", Offset: 0, Limit: 5}).
		Return([]*models.Cook{{ID: 1, Username: "anna"}, {ID: 4, Username: "joann"}}, 2, nil)

	resp, body := env.get(t, "/cooks/?username=ann", true)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, ">anna</a>")
	assert.Contains(t, body, ">joann</a>")
	assert.Contains(t, body, `value="ann"`)
}

func TestCooksListSuggestsOnEmptyFilter(t *testing.T) {
	env := newTestEnv(t, nil)
	env.cooks.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, 0, nil)
	env.cooks.EXPECT().Names(gomock.Any()).Return([]string{"gordon", "jamie"}, nil)

	resp, body := env.get(t, "/cooks/?username=grdon", true)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `id="suggestions"`)
	assert.Contains(t, body, ">gordon</a>")
	assert.NotContains(t, body, ">jamie</a>")
}

func TestListPagination(t *testing.T) {
	env := newTestEnv(t, nil)
	env.dishTypes.EXPECT().
		List(gomock.Any(), repositories.ListFilter{Offset: 5, Limit: 5}).
		Return([]*models.DishType{{ID: 6, Name: "Soup"}}, 6, nil)

	resp, body := env.get(t, "/dish-types/?page=2", true)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Soup")
	assert.Contains(t, body, "2 of 2")
	assert.Contains(t, body, "?page=1")
}

func TestListPageOutOfRange(t *testing.T) {
	env := newTestEnv(t, nil)
	env.ingredients.EXPECT().
		List(gomock.Any(), repositories.ListFilter{Offset: 5, Limit: 5}).
		Return(nil, 3, nil)

	resp, body := env.get(t, "/ingredients/?page=2", true)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, `id="error-code">404<`)

	resp, _ = env.get(t, "/ingredients/?page=abc", true)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCookDetail(t *testing.T) {
	env := newTestEnv(t, nil)
	env.cooks.EXPECT().GetByID(gomock.Any(), int64(2)).Return(&models.Cook{
		ID:                2,
		Username:          "gordon",
		FirstName:         "Gordon",
		LastName:          "Ramsay",
		YearsOfExperience: 30,
		Dishes: []*models.Dish{
			{ID: 9, Name: "Beef Wellington", DishType: &models.DishType{ID: 1, Name: "Main"}},
		},
	}, nil)

	resp, body := env.get(t, "/cooks/2/", true)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Gordon Ramsay")
	assert.Contains(t, body, `id="years-of-experience">30<`)
	assert.Contains(t, body, "Beef Wellington")
	assert.Contains(t, body, "Main")
}

func TestUnknownRecordIs404(t *testing.T) {
	env := newTestEnv(t, nil)
	env.cooks.EXPECT().GetByID(gomock.Any(), int64(99)).Return(nil, &repositories.NotFoundError{Entity: "cook", ID: 99})
	env.dishes.EXPECT().GetByID(gomock.Any(), int64(99)).Return(nil, &repositories.NotFoundError{Entity: "dish", ID: 99})

	resp, _ := env.get(t, "/cooks/99/", true)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = env.get(t, "/dishes/99/update/", true)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = env.get(t, "/cooks/abc/", true)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = env.get(t, "/no-such-page/", true)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func validCookForm() url.Values {
	return url.Values{
		"username":            {"remy"},
		"password1":           {"ratatouille1"},
		"password2":           {"ratatouille1"},
		"first_name":          {"Remy"},
		"last_name":           {"Rat"},
		"years_of_experience": {"3"},
	}
}

func TestCookCreate(t *testing.T) {
	env := newTestEnv(t, nil)
	env.cooks.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, cook *models.Cook) error {
		assert.Equal(t, "remy", cook.Username)
		assert.Equal(t, 3, cook.YearsOfExperience)
		assert.True(t, cook.IsActive)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(cook.PasswordHash), []byte("ratatouille1")))
		cook.ID = 5
		return nil
	})

	resp, _ := env.post(t, "/cooks/create/", validCookForm(), true)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/cooks/", resp.Header.Get("Location"))
}

func TestCookCreateDuplicateUsername(t *testing.T) {
	env := newTestEnv(t, nil)
	env.cooks.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(&repositories.ConflictError{Entity: "cook", Field: "username", Value: "remy"})

	resp, body := env.post(t, "/cooks/create/", validCookForm(), true)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "A user with that username already exists.")
}

func TestCookCreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		want  string
	}{
		{"years too high", "years_of_experience", "51", "Ensure this value is less than or equal to 50."},
		{"years negative", "years_of_experience", "-1", "Ensure this value is greater than or equal to 0."},
		{"years not a number", "years_of_experience", "ten", "Enter a whole number."},
		{"bad username", "username", "no spaces", "Enter a valid username."},
		{"numeric password", "password1", "12345678", "This password is entirely numeric."},
		{"missing username", "username", "", "This field is required."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			form := validCookForm()
			form.Set(tt.field, tt.value)
			if tt.field == "password1" {
				form.Set("password2", tt.value)
			}

			resp, body := env.post(t, "/cooks/create/", form, true)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Contains(t, body, tt.want)
		})
	}
}

func TestCookUpdateExperience(t *testing.T) {
	env := newTestEnv(t, nil)
	env.cooks.EXPECT().GetByID(gomock.Any(), int64(3)).Return(&models.Cook{ID: 3, Username: "remy"}, nil)
	env.cooks.EXPECT().UpdateExperience(gomock.Any(), int64(3), 50).Return(nil)

	resp, _ := env.post(t, "/cooks/3/update/", url.Values{"years_of_experience": {"50"}}, true)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/cooks/", resp.Header.Get("Location"))
}

func TestCookUpdateRejectsOutOfRange(t *testing.T) {
	env := newTestEnv(t, nil)
	env.cooks.EXPECT().GetByID(gomock.Any(), int64(3)).Return(&models.Cook{ID: 3, Username: "remy"}, nil).Times(2)

	for _, years := range []string{"51", "-1"} {
		resp, body := env.post(t, "/cooks/3/update/", url.Values{"years_of_experience": {years}}, true)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "Ensure this value is")
	}
}

func TestCookDelete(t *testing.T) {
	env := newTestEnv(t, nil)
	env.cooks.EXPECT().GetByID(gomock.Any(), int64(3)).Return(&models.Cook{ID: 3, Username: "remy"}, nil)
	env.cooks.EXPECT().Delete(gomock.Any(), int64(3)).Return(nil)

	resp, body := env.get(t, "/cooks/3/delete/", true)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "remy")

	resp, _ = env.post(t, "/cooks/3/delete/", url.Values{}, true)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/cooks/", resp.Header.Get("Location"))
}

func expectDishOptions(env *testEnv) {
	env.dishTypes.EXPECT().All(gomock.Any()).Return([]*models.DishType{{ID: 1, Name: "Main"}, {ID: 2, Name: "Dessert"}}, nil)
	env.cooks.EXPECT().All(gomock.Any()).Return([]*models.Cook{{ID: 1, Username: "chef"}, {ID: 2, Username: "remy"}}, nil)
	env.ingredients.EXPECT().All(gomock.Any()).Return([]*models.Ingredient{{ID: 4, Name: "Salt"}}, nil)
}

func TestDishCreate(t *testing.T) {
	env := newTestEnv(t, nil)
	expectDishOptions(env)
	env.dishes.EXPECT().
		Create(gomock.Any(), gomock.Any(), []int64{1, 2}, []int64{4}).
		DoAndReturn(func(_ context.Context, dish *models.Dish, _, _ []int64) error {
			assert.Equal(t, "Ratatouille", dish.Name)
			assert.Equal(t, int64(1), dish.DishTypeID)
			assert.True(t, dish.Price.Equal(decimal.RequireFromString("12.50")))
			return nil
		})

	resp, _ := env.post(t, "/dishes/create/", url.Values{
		"name":        {"Ratatouille"},
		"description": {"Stewed vegetables"},
		"price":       {"12.50"},
		"dish_type":   {"1"},
		"cooks":       {"1", "2"},
		"ingredients": {"4"},
	}, true)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dishes/", resp.Header.Get("Location"))
}

func TestDishCreateValidation(t *testing.T) {
	env := newTestEnv(t, nil)
	expectDishOptions(env)

	resp, body := env.post(t, "/dishes/create/", url.Values{
		"name":      {"Soup"},
		"price":     {"1.234"},
		"dish_type": {"9"},
		"cooks":     {"7"},
	}, true)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Ensure that there are no more than 2 decimal places.")
	assert.Contains(t, body, "Select a valid choice. That choice is not one of the available choices.")
	assert.Contains(t, body, "Select a valid choice. 7 is not one of the available choices.")
}

func TestDishDetail(t *testing.T) {
	env := newTestEnv(t, nil)
	env.dishes.EXPECT().GetByID(gomock.Any(), int64(4)).Return(&models.Dish{
		ID:          4,
		Name:        "Crème brûlée",
		Price:       decimal.RequireFromString("7.5"),
		DishTypeID:  2,
		DishType:    &models.DishType{ID: 2, Name: "Dessert"},
		Cooks:       []*models.Cook{{ID: 1, Username: "chef"}},
		Ingredients: []*models.Ingredient{{ID: 3, Name: "Cream"}},
	}, nil)

	resp, body := env.get(t, "/dishes/4/", true)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `id="dish-price">7.50<`)
	assert.Contains(t, body, "Dessert")
	assert.Contains(t, body, "chef")
	assert.Contains(t, body, "Cream")
}

func TestDishUpdateReplacesLinks(t *testing.T) {
	env := newTestEnv(t, nil)
	env.dishes.EXPECT().GetByID(gomock.Any(), int64(4)).Return(&models.Dish{ID: 4, Name: "Old", DishTypeID: 1}, nil)
	expectDishOptions(env)
	env.dishes.EXPECT().Update(gomock.Any(), gomock.Any(), []int64{}, []int64{}).Return(nil)

	resp, _ := env.post(t, "/dishes/4/update/", url.Values{
		"name":      {"New"},
		"price":     {"3"},
		"dish_type": {"2"},
	}, true)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dishes/", resp.Header.Get("Location"))
}

func TestDishTypeCreateAndConflict(t *testing.T) {
	env := newTestEnv(t, nil)
	gomock.InOrder(
		env.dishTypes.EXPECT().Create(gomock.Any(), &models.DishType{Name: "Soup"}).Return(nil),
		env.dishTypes.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(&repositories.ConflictError{Entity: "dish type", Field: "name", Value: "Soup"}),
	)

	resp, _ := env.post(t, "/dish-types/create/", url.Values{"name": {" Soup "}}, true)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dish-types/", resp.Header.Get("Location"))

	resp, body := env.post(t, "/dish-types/create/", url.Values{"name": {"Soup"}}, true)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Dish type with this Name already exists.")
}

func TestIngredientUpdateAndDelete(t *testing.T) {
	env := newTestEnv(t, nil)
	env.ingredients.EXPECT().GetByID(gomock.Any(), int64(8)).Return(&models.Ingredient{ID: 8, Name: "Salt"}, nil)
	env.ingredients.EXPECT().Update(gomock.Any(), &models.Ingredient{ID: 8, Name: "Sea salt"}).Return(nil)
	env.ingredients.EXPECT().Delete(gomock.Any(), int64(8)).Return(nil)

	resp, _ := env.post(t, "/ingredients/8/update/", url.Values{"name": {"Sea salt"}}, true)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/ingredients/", resp.Header.Get("Location"))

	resp, _ = env.post(t, "/ingredients/8/delete/", url.Values{}, true)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/ingredients/", resp.Header.Get("Location"))
}

func TestLoginFlow(t *testing.T) {
	env := newTestEnv(t, nil)
	hash, err := bcrypt.GenerateFromPassword([]byte("ratatouille1"), bcrypt.MinCost)
	require.NoError(t, err)
	cook := &models.Cook{ID: 5, Username: "remy", PasswordHash: string(hash), IsActive: true}

	env.cooks.EXPECT().GetByUsername(gomock.Any(), "remy").Return(cook, nil).Times(2)
	env.cooks.EXPECT().UpdateLastLogin(gomock.Any(), int64(5), gomock.Any()).Return(nil)

	resp, body := env.get(t, "/accounts/login/?next=/dishes/", false)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `value="/dishes/"`)

	resp, body = env.post(t, "/accounts/login/", url.Values{
		"username": {"remy"},
		"password": {"wrong-password"},
		"next":     {"/dishes/"},
	}, false)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Please enter a correct username and password.")

	resp, _ = env.post(t, "/accounts/login/", url.Values{
		"username": {"remy"},
		"password": {"ratatouille1"},
		"next":     {"/dishes/"},
	}, false)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dishes/", resp.Header.Get("Location"))

	cookie := responseCookie(resp, webservices.SessionCookieName)
	require.NotNil(t, cookie)
	session, err := env.webApp.SessionService.Decode(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, int64(5), session.CookID)
	assert.Equal(t, 0, session.NumVisits)
}

func TestLoginIgnoresExternalNext(t *testing.T) {
	env := newTestEnv(t, nil)
	hash, err := bcrypt.GenerateFromPassword([]byte("ratatouille1"), bcrypt.MinCost)
	require.NoError(t, err)
	env.cooks.EXPECT().GetByUsername(gomock.Any(), "remy").
		Return(&models.Cook{ID: 5, Username: "remy", PasswordHash: string(hash), IsActive: true}, nil)
	env.cooks.EXPECT().UpdateLastLogin(gomock.Any(), int64(5), gomock.Any()).Return(nil)

	resp, _ := env.post(t, "/accounts/login/", url.Values{
		"username": {"remy"},
		"password": {"ratatouille1"},
		"next":     {"https://evil.example/"},
	}, false)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/accounts/logout/", nil)
	req.AddCookie(env.sessionCookie(t, 3))
	resp, body := env.do(t, req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `id="logged-out"`)

	cookie := responseCookie(resp, webservices.SessionCookieName)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, pingFunc(func(context.Context) error { return nil }))
	resp, body := env.get(t, "/health", false)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"status":"healthy"`)
	assert.Contains(t, body, `"version":"test"`)

	env = newTestEnv(t, pingFunc(func(context.Context) error { return errors.New("connection refused") }))
	resp, body = env.get(t, "/health", false)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, body, `"success":false`)
	assert.Contains(t, body, `"code":"SERVICE_UNAVAILABLE"`)
	assert.Contains(t, body, "database unreachable")
	assert.NotContains(t, body, "connection refused")
}

func TestDishesListFilter(t *testing.T) {
	env := newTestEnv(t, nil)
	env.dishes.EXPECT().
		List(gomock.Any(), repositories.ListFilter{Query: "soup", Offset: 0, Limit: 5}).
		Return([]*models.Dish{{ID: 2, Name: "Onion soup", DishType: &models.DishType{ID: 1, Name: "Starter"}}}, 1, nil)

	resp, body := env.get(t, "/dishes/?name=soup", true)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, ">Onion soup</a>")
	assert.Contains(t, body, "Starter")
	assert.Contains(t, body, `value="soup"`)
}

func TestDeleteRoutes(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		location string
		expect   func(env *testEnv) *gomock.Call
	}{
		{
			name: "cook", target: "/cooks/3/delete/", location: "/cooks/",
			expect: func(env *testEnv) *gomock.Call { return env.cooks.EXPECT().Delete(gomock.Any(), int64(3)) },
		},
		{
			name: "dish", target: "/dishes/4/delete/", location: "/dishes/",
			expect: func(env *testEnv) *gomock.Call { return env.dishes.EXPECT().Delete(gomock.Any(), int64(4)) },
		},
		{
			name: "dish type", target: "/dish-types/6/delete/", location: "/dish-types/",
			expect: func(env *testEnv) *gomock.Call { return env.dishTypes.EXPECT().Delete(gomock.Any(), int64(6)) },
		},
		{
			name: "ingredient", target: "/ingredients/8/delete/", location: "/ingredients/",
			expect: func(env *testEnv) *gomock.Call { return env.ingredients.EXPECT().Delete(gomock.Any(), int64(8)) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			tt.expect(env).Return(nil)

			resp, _ := env.post(t, tt.target, url.Values{}, true)
			assert.Equal(t, fiber.StatusFound, resp.StatusCode)
			assert.Equal(t, tt.location, resp.Header.Get("Location"))
		})

		t.Run(tt.name+" missing", func(t *testing.T) {
			env := newTestEnv(t, nil)
			tt.expect(env).Return(&repositories.NotFoundError{Entity: tt.name, ID: 1})

			resp, _ := env.post(t, tt.target, url.Values{}, true)
			assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		})
	}
}

func TestCatalogUpdateRoutes(t *testing.T) {
	conflict := func(entity string) error {
		return &repositories.ConflictError{Entity: entity, Field: "name", Value: "Salt"}
	}

	tests := []struct {
		name     string
		target   string
		setup    func(env *testEnv, result error)
		result   error
		status   int
		location string
		message  string
	}{
		{
			name: "dish type renamed", target: "/dish-types/6/update/",
			setup:  expectDishTypeUpdate,
			status: fiber.StatusFound, location: "/dish-types/",
		},
		{
			name: "dish type conflict", target: "/dish-types/6/update/",
			setup: expectDishTypeUpdate, result: conflict("dish type"),
			status: fiber.StatusOK, message: "Dish type with this Name already exists.",
		},
		{
			name: "ingredient renamed", target: "/ingredients/8/update/",
			setup:  expectIngredientUpdate,
			status: fiber.StatusFound, location: "/ingredients/",
		},
		{
			name: "ingredient conflict", target: "/ingredients/8/update/",
			setup: expectIngredientUpdate, result: conflict("ingredient"),
			status: fiber.StatusOK, message: "Ingredient with this Name already exists.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			tt.setup(env, tt.result)

			resp, body := env.post(t, tt.target, url.Values{"name": {" Salt "}}, true)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.location != "" {
				assert.Equal(t, tt.location, resp.Header.Get("Location"))
			}
			if tt.message != "" {
				assert.Contains(t, body, tt.message)
			}
		})
	}
}

func expectDishTypeUpdate(env *testEnv, result error) {
	env.dishTypes.EXPECT().GetByID(gomock.Any(), int64(6)).Return(&models.DishType{ID: 6, Name: "Spice"}, nil)
	env.dishTypes.EXPECT().Update(gomock.Any(), &models.DishType{ID: 6, Name: "Salt"}).Return(result)
}

func expectIngredientUpdate(env *testEnv, result error) {
	env.ingredients.EXPECT().GetByID(gomock.Any(), int64(8)).Return(&models.Ingredient{ID: 8, Name: "Pepper"}, nil)
	env.ingredients.EXPECT().Update(gomock.Any(), &models.Ingredient{ID: 8, Name: "Salt"}).Return(result)
}

func TestDishCreateMissingReference(t *testing.T) {
	tests := []struct {
		constraint string
		message    string
	}{
		{"dishes_dish_type_id_fkey", "Select a valid choice. That choice is not one of the available choices."},
		{"dish_cooks_cook_id_fkey", "Select a valid choice. One of the selected cooks no longer exists."},
		{"dish_ingredients_ingredient_id_fkey", "Select a valid choice. One of the selected ingredients no longer exists."},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			env := newTestEnv(t, nil)
			expectDishOptions(env)
			env.dishes.EXPECT().
				Create(gomock.Any(), gomock.Any(), []int64{1}, []int64{4}).
				Return(&repositories.ReferenceError{Entity: "dish", Constraint: tt.constraint})

			resp, body := env.post(t, "/dishes/create/", url.Values{
				"name":        {"Stew"},
				"price":       {"9"},
				"dish_type":   {"1"},
				"cooks":       {"1"},
				"ingredients": {"4"},
			}, true)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Contains(t, body, tt.message)
		})
	}
}

func TestDishUpdateMissingReference(t *testing.T) {
	env := newTestEnv(t, nil)
	env.dishes.EXPECT().GetByID(gomock.Any(), int64(4)).Return(&models.Dish{ID: 4, Name: "Old", DishTypeID: 1}, nil)
	expectDishOptions(env)
	env.dishes.EXPECT().Update(gomock.Any(), gomock.Any(), []int64{}, []int64{}).
		Return(&repositories.ReferenceError{Entity: "dish", Constraint: "dishes_dish_type_id_fkey"})

	resp, body := env.post(t, "/dishes/4/update/", url.Values{
		"name":      {"New"},
		"price":     {"3"},
		"dish_type": {"2"},
	}, true)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Select a valid choice. That choice is not one of the available choices.")
}

func TestFormErrorsAsJSON(t *testing.T) {
	env := newTestEnv(t, nil)
	env.cooks.EXPECT().GetByID(gomock.Any(), int64(3)).Return(&models.Cook{ID: 3, Username: "remy"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/cooks/3/update/",
		strings.NewReader(url.Values{"years_of_experience": {"51"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.AddCookie(env.sessionCookie(t, 0))
	resp, body := env.do(t, req)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, `"code":"VALIDATION_ERROR"`)
	assert.Contains(t, body, `"years_of_experience":"Ensure this value is less than or equal to 50."`)

	req = httptest.NewRequest(http.MethodPost, "/dish-types/create/",
		strings.NewReader(url.Values{"name": {"  "}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	req.AddCookie(env.sessionCookie(t, 0))
	resp, body = env.do(t, req)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, `"name":"This field is required."`)
}

func TestUnknownPathJSON404(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/menu/", nil)
	req.Header.Set("Accept", "application/json")
	resp, body := env.do(t, req)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, `"code":"NOT_FOUND"`)
}

var csrfFieldPattern = regexp.MustCompile(`name="_csrf" value="([^"]+)"`)

func TestCSRFProtectsForms(t *testing.T) {
	env := newTestEnv(t, nil, func(cfg *kitchen.Config) { cfg.Web.CSRF = true })
	env.dishTypes.EXPECT().Create(gomock.Any(), &models.DishType{Name: "Soup"}).Return(nil)

	resp, _ := env.post(t, "/dish-types/create/", url.Values{"name": {"Soup"}}, true)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, body := env.get(t, "/dish-types/create/", true)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	match := csrfFieldPattern.FindStringSubmatch(body)
	require.Len(t, match, 2, "form carries a csrf field")
	csrfCookie := responseCookie(resp, "kitchen_csrf")
	require.NotNil(t, csrfCookie)
	assert.Equal(t, match[1], csrfCookie.Value)

	submit := func(token string) *http.Response {
		form := url.Values{"name": {"Soup"}, "_csrf": {token}}
		req := httptest.NewRequest(http.MethodPost, "/dish-types/create/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(env.sessionCookie(t, 0))
		req.AddCookie(&http.Cookie{Name: csrfCookie.Name, Value: csrfCookie.Value})
		resp, _ := env.do(t, req)
		return resp
	}

	assert.Equal(t, fiber.StatusForbidden, submit("forged-token").StatusCode)

	resp = submit(match[1])
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dish-types/", resp.Header.Get("Location"))
}
