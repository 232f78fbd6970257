package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/bursary-hub/model"
	"github.com/sahilchouksey/bursary-hub/utils/auth"
	"github.com/sahilchouksey/bursary-hub/utils/logger"
	"github.com/sahilchouksey/bursary-hub/utils/response"
)

// UserProvisioner resolves a verified token identity to a local user
type UserProvisioner interface {
	Provision(ctx context.Context, subject, email, name, role string) (*model.User, error)
}

// AuthMiddleware handles bearer token authentication
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	users      UserProvisioner
	log        *logger.Logger
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, users UserProvisioner, log *logger.Logger) *AuthMiddleware {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthMiddleware{jwtManager: jwtManager, users: users, log: log}
}

var errNoToken = errors.New("missing authorization token")

func (m *AuthMiddleware) authenticate(c *fiber.Ctx) (*model.User, *auth.Claims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, nil, errNoToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, nil, auth.ErrInvalidToken
	}

	claims, err := m.jwtManager.ValidateToken(parts[1])
	if err != nil {
		return nil, nil, err
	}

	user, err := m.users.Provision(c.UserContext(), claims.Subject, claims.Email, claims.Name, claims.Role)
	if err != nil {
		return nil, nil, err
	}
	return user, claims, nil
}

func setIdentity(c *fiber.Ctx, user *model.User, claims *auth.Claims) {
	c.Locals("user_id", user.ID)
	c.Locals("user_role", user.Role)
	c.Locals("claims", claims)
	c.Locals("user", user)
}

// Required is middleware that requires a valid bearer token
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, claims, err := m.authenticate(c)
		switch {
		case err == nil:
		case errors.Is(err, errNoToken):
			return response.Unauthorized(c, "Missing authorization token")
		case errors.Is(err, auth.ErrExpiredToken):
			return response.Unauthorized(c, "Token has expired")
		case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidClaims):
			return response.Unauthorized(c, "Invalid token")
		default:
			m.log.Error("failed to provision user", "error", err)
			return response.InternalServerError(c, "Failed to load user")
		}

		setIdentity(c, user, claims)
		return c.Next()
	}
}

// Optional is middleware that identifies the caller when a valid token is
// present and lets anonymous requests through
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, claims, err := m.authenticate(c)
		if err == nil {
			setIdentity(c, user, claims)
		}
		return c.Next()
	}
}

// RequireStaff must run after Required
func (m *AuthMiddleware) RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := GetUser(c)
		if !ok {
			return response.Unauthorized(c, "User not authenticated")
		}
		if !user.IsStaff() {
			return response.Forbidden(c, "Staff access required")
		}
		return c.Next()
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *fiber.Ctx) (uint, bool) {
	userID := c.Locals("user_id")
	if userID == nil {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetUser extracts full user object from context
func GetUser(c *fiber.Ctx) (*model.User, bool) {
	user := c.Locals("user")
	if user == nil {
		return nil, false
	}
	u, ok := user.(*model.User)
	return u, ok
}
