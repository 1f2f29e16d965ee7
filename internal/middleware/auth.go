package middleware

import (
	"context"
	"errors"
	"strings"

	"blogapi/internal/auth"
	"blogapi/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by AuthRequired.
const (
	LocalUser   = "user"
	LocalUserID = "userID"
	LocalClaims = "claims"
)

const (
	msgLoginRequired   = "login required"
	msgInvalidSession  = "invalid session"
	msgAlreadyLoggedIn = "already logged in"
)

// TokenParser verifies a bearer token.
type TokenParser interface {
	Parse(ctx context.Context, token string) (*auth.Claims, error)
}

// UserLookup resolves the user named by a token.
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// Authenticator guards routes with the session token from the Authorization header.
type Authenticator struct {
	tokens TokenParser
	users  UserLookup
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(tokens TokenParser, users UserLookup) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// bearerToken splits the header on a single space and returns the token when the scheme is Bearer.
func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// AuthRequired rejects requests without a valid session and stores the resolved user in locals.
func (a *Authenticator) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(msgLoginRequired))
		}

		ctx := c.UserContext()
		claims, err := a.tokens.Parse(ctx, tokenString)
		if err != nil {
			Logger.DebugContext(ctx, "token rejected", "error", err)
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(msgInvalidSession))
		}

		userID, err := claims.UserID()
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(msgInvalidSession))
		}

		user, err := a.users.GetByID(ctx, userID)
		if err != nil {
			var appErr *models.AppError
			if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError(msgInvalidSession))
			}
			return models.RespondWithAppError(c, err)
		}
		if user == nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(msgInvalidSession))
		}

		c.Locals(LocalUser, user)
		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalClaims, claims)
		c.SetUserContext(WithUserID(ctx, user.ID))

		return c.Next()
	}
}

// NotLoggedIn lets anonymous requests through and turns away callers that already hold a session.
func (a *Authenticator) NotLoggedIn() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return c.Next()
		}

		if _, err := a.tokens.Parse(c.UserContext(), tokenString); err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(msgInvalidSession))
		}

		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError(msgAlreadyLoggedIn))
	}
}

// CurrentUser returns the user stored by AuthRequired.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(LocalUser).(*models.User)
	return user, ok && user != nil
}

// CurrentClaims returns the token claims stored by AuthRequired.
func CurrentClaims(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals(LocalClaims).(*auth.Claims)
	return claims, ok && claims != nil
}
