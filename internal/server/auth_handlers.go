package server

import (
	"time"

	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/service"

	"github.com/gofiber/fiber/v2"
)

const tokenCookie = "token"

type signupRequest struct {
	Email         string `json:"email"`
	Nickname      string `json:"nickname"`
	Password      string `json:"password"`
	PasswordCheck string `json:"passwordCheck"`
}

type loginRequest struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

// Signup handles POST /api/auth/signup
// @Summary User signup
// @Description Register a new account. Every validation failure answers 412.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body signupRequest true "Signup request"
// @Success 200 {object} models.Response
// @Failure 412 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /auth/signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	_, err := s.authService.Signup(c.UserContext(), service.SignupInput{
		Email:         req.Email,
		Nickname:      req.Nickname,
		Password:      req.Password,
		PasswordCheck: req.PasswordCheck,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return respond(c, "signup succeeded", nil)
}

// Login handles POST /api/auth/login
// @Summary User login
// @Description Check the credentials and return a session token, also set as an HttpOnly cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "Login credentials"
// @Success 200 {object} models.Response
// @Failure 412 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	token, _, err := s.authService.Login(c.UserContext(), service.LoginInput{
		Nickname: req.Nickname,
		Password: req.Password,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	cookie := &fiber.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if ttl := s.config.TokenTTL(); ttl > 0 {
		cookie.Expires = time.Now().Add(ttl)
	}
	c.Cookie(cookie)

	return c.Status(fiber.StatusOK).JSON(models.Response{
		Result:  "success",
		Message: "login succeeded",
		Token:   token,
	})
}

// Logout handles POST /api/auth/logout
// @Summary User logout
// @Description Revoke the current session token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("login required"))
	}

	if err := s.authService.Logout(c.UserContext(), claims); err != nil {
		return models.RespondWithAppError(c, err)
	}

	c.ClearCookie(tokenCookie)
	return respond(c, "logout succeeded", nil)
}
