package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kitchen-service/kitchen/kitchen/database/models"
)

// UserSession is the signed payload of the session cookie.
type UserSession struct {
	ID        string    `json:"id"`
	CookID    int64     `json:"cook_id"`
	Username  string    `json:"username"`
	IsStaff   bool      `json:"is_staff"`
	NumVisits int       `json:"num_visits"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *UserSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// DashboardStats holds the home page counters.
type DashboardStats struct {
	NumCooks       int `json:"num_cooks"`
	NumDishes      int `json:"num_dishes"`
	NumDishTypes   int `json:"num_dish_types"`
	NumIngredients int `json:"num_ingredients"`
}

// LoginForm mirrors the login page fields.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

type CookCreateForm struct {
	Username          string `form:"username" validate:"required,max=150,username"`
	Password1         string `form:"password1" validate:"required,min=8,notnumeric"`
	Password2         string `form:"password2" validate:"required,eqfield=Password1"`
	FirstName         string `form:"first_name" validate:"max=150"`
	LastName          string `form:"last_name" validate:"max=150"`
	YearsOfExperience string `form:"years_of_experience" validate:"required,integer,experience"`
}

// Years is valid only after the form passed validation.
func (f *CookCreateForm) Years() int {
	n, _ := strconv.Atoi(f.YearsOfExperience)
	return n
}

// Cook builds the model; the password hash is set by the caller.
func (f *CookCreateForm) Cook() *models.Cook {
	return &models.Cook{
		Username:          f.Username,
		FirstName:         f.FirstName,
		LastName:          f.LastName,
		YearsOfExperience: f.Years(),
		IsActive:          true,
	}
}

type CookExperienceForm struct {
	YearsOfExperience string `form:"years_of_experience" validate:"required,integer,experience"`
}

func (f *CookExperienceForm) Years() int {
	n, _ := strconv.Atoi(f.YearsOfExperience)
	return n
}

// DishForm keeps raw strings so invalid input can be re-rendered as typed.
type DishForm struct {
	Name        string   `form:"name" validate:"required,max=255"`
	Description string   `form:"description"`
	Price       string   `form:"price" validate:"required,decimal,nonnegative,decimalplaces,maxdigits,wholedigits"`
	DishType    string   `form:"dish_type" validate:"required,integer"`
	Cooks       []string `form:"cooks" validate:"dive,integer"`
	Ingredients []string `form:"ingredients" validate:"dive,integer"`
}

func NewDishForm(dish *models.Dish) DishForm {
	form := DishForm{
		Name:        dish.Name,
		Description: dish.Description,
		Price:       dish.Price.StringFixed(2),
		DishType:    strconv.FormatInt(dish.DishTypeID, 10),
	}
	for _, id := range dish.CookIDs() {
		form.Cooks = append(form.Cooks, strconv.FormatInt(id, 10))
	}
	for _, id := range dish.IngredientIDs() {
		form.Ingredients = append(form.Ingredients, strconv.FormatInt(id, 10))
	}
	return form
}

// ApplyTo copies the validated scalar fields onto dish.
func (f *DishForm) ApplyTo(dish *models.Dish) {
	price, _ := decimal.NewFromString(strings.TrimSpace(f.Price))
	dish.Name = f.Name
	dish.Description = f.Description
	dish.Price = price
	dish.DishTypeID = f.DishTypeID()
}

func (f *DishForm) DishTypeID() int64 {
	id, _ := strconv.ParseInt(f.DishType, 10, 64)
	return id
}

func (f *DishForm) CookIDs() []int64 {
	return parseIDs(f.Cooks)
}

func (f *DishForm) IngredientIDs() []int64 {
	return parseIDs(f.Ingredients)
}

// NamedForm serves both dish types and ingredients.
type NamedForm struct {
	Name string `form:"name" validate:"required,max=255"`
}

// FormErrors maps a form field name to its messages. NonFieldErrors holds form-wide ones.
type FormErrors map[string][]string

const NonFieldErrors = "__all__"

func (e FormErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e FormErrors) Has(field string) bool {
	return len(e[field]) > 0
}

func (e FormErrors) Any() bool {
	return len(e) > 0
}

func parseIDs(values []string) []int64 {
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Normalize strips surrounding whitespace from every text field except passwords.
func (f *CookCreateForm) Normalize() {
	f.Username = strings.TrimSpace(f.Username)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.YearsOfExperience = strings.TrimSpace(f.YearsOfExperience)
}

func (f *CookExperienceForm) Normalize() {
	f.YearsOfExperience = strings.TrimSpace(f.YearsOfExperience)
}

func (f *DishForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.Price = strings.TrimSpace(f.Price)
	f.DishType = strings.TrimSpace(f.DishType)
}

func (f *NamedForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
}

func (f *LoginForm) Normalize() {
	f.Username = strings.TrimSpace(f.Username)
}
