package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/kitchen-service/kitchen/backend/config"
	"github.com/kitchen-service/kitchen/backend/models"
	dbmodels "github.com/kitchen-service/kitchen/kitchen/database/models"
)

const SessionCookieName = "kitchen_session"

var (
	ErrNoSession      = errors.New("no session cookie found")
	ErrSessionExpired = errors.New("session expired")
)

// SessionService keeps the whole session in an HMAC-signed cookie.
type SessionService struct {
	config *config.WebAppConfig
	now    func() time.Time
}

func NewSessionService(cfg *config.WebAppConfig) *SessionService {
	return &SessionService{
		config: cfg,
		now:    time.Now,
	}
}

// CreateSession starts a fresh session for cook and sets the cookie.
func (s *SessionService) CreateSession(c *fiber.Ctx, cook *dbmodels.Cook) (*models.UserSession, error) {
	userSession := &models.UserSession{
		ID:        uuid.NewString(),
		CookID:    cook.ID,
		Username:  cook.Username,
		IsStaff:   cook.IsStaff,
		ExpiresAt: s.now().Add(s.config.SessionTTL()),
	}
	if err := s.SaveSession(c, userSession); err != nil {
		return nil, err
	}

	slog.Info("Session created",
		slog.String("type", "auth"),
		slog.String("session_id", userSession.ID),
		slog.Int64("cook_id", userSession.CookID),
		slog.String("username", userSession.Username))
	return userSession, nil
}

// SaveSession re-signs the session and writes it back without extending its expiry.
func (s *SessionService) SaveSession(c *fiber.Ctx, userSession *models.UserSession) error {
	value, err := s.Encode(userSession)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  userSession.ExpiresAt,
		Secure:   s.config.SecureCookies(),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return nil
}

// GetSession retrieves and validates the user session from the request
func (s *SessionService) GetSession(c *fiber.Ctx) (*models.UserSession, error) {
	cookie := c.Cookies(SessionCookieName)
	if cookie == "" {
		return nil, ErrNoSession
	}

	userSession, err := s.Decode(cookie)
	if err != nil {
		return nil, err
	}

	if userSession.Expired(s.now()) {
		s.DestroySession(c)
		return nil, ErrSessionExpired
	}
	return userSession, nil
}

// DestroySession removes the session cookie and invalidates the session
func (s *SessionService) DestroySession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   s.config.SecureCookies(),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	slog.Debug("Session destroyed",
		slog.String("type", "auth"),
		slog.String("ip", c.IP()))
}

// Encode serializes and signs a session into a cookie value.
func (s *SessionService) Encode(userSession *models.UserSession) (string, error) {
	data, err := json.Marshal(userSession)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}
	signed, err := s.signData(data)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, nil
}

// Decode verifies a cookie value and returns the session inside.
func (s *SessionService) Decode(value string) (*models.UserSession, error) {
	data, err := s.verifyAndDecodeData(value)
	if err != nil {
		return nil, fmt.Errorf("invalid session signature: %w", err)
	}

	var userSession models.UserSession
	if err := json.Unmarshal(data, &userSession); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	if userSession.CookID == 0 {
		return nil, errors.New("session has no cook")
	}
	return &userSession, nil
}

// signData signs data using HMAC-SHA256
func (s *SessionService) signData(data []byte) (string, error) {
	key := s.config.Config.Web.SessionKey
	if key == "" {
		return "", errors.New("session key not configured")
	}

	h := hmac.New(sha256.New, []byte(key))
	h.Write(data)
	signature := h.Sum(nil)

	combined := make([]byte, 0, len(data)+len(signature))
	combined = append(combined, data...)
	combined = append(combined, signature...)

	return base64.URLEncoding.EncodeToString(combined), nil
}

// verifyAndDecodeData verifies the signature and returns the original data
func (s *SessionService) verifyAndDecodeData(encoded string) ([]byte, error) {
	key := s.config.Config.Web.SessionKey
	if key == "" {
		return nil, errors.New("session key not configured")
	}

	combined, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data: %w", err)
	}

	// signature is the trailing sha256.Size bytes
	if len(combined) < sha256.Size {
		return nil, errors.New("invalid data length")
	}

	data := combined[:len(combined)-sha256.Size]
	received := combined[len(combined)-sha256.Size:]

	h := hmac.New(sha256.New, []byte(key))
	h.Write(data)
	if !hmac.Equal(received, h.Sum(nil)) {
		return nil, errors.New("signature verification failed")
	}

	return data, nil
}
