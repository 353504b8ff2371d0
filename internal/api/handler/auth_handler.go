package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minnseong/security-study/internal/api/metrics"
	"github.com/minnseong/security-study/internal/core/domain"
	"github.com/minnseong/security-study/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=3,max=100"`
	Nickname string `json:"nickname" validate:"max=50"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Signup creates a new account with ROLE_USER.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Signup(c.Request().Context(), req.Username, req.Password, req.Nickname)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.SignupsTotal.WithLabelValues("conflict").Inc()
		} else {
			metrics.SignupsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.SignupsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusOK, user)
}

// Authenticate verifies credentials and returns a signed bearer token. The
// token rides in the body and in the Authorization response header. Every
// rejection looks the same from outside: unknown usernames, wrong passwords
// and inactive accounts all yield the identical 401.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/authenticate [post]
func (h *AuthHandler) Authenticate(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tok, _, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound),
			errors.Is(err, domain.ErrInvalidCredentials),
			errors.Is(err, domain.ErrUserInactive):
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		default:
			metrics.LoginsTotal.WithLabelValues("error").Inc()
			return err
		}
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.TokensIssuedTotal.Inc()

	c.Response().Header().Set("Authorization", "Bearer "+tok)
	return c.JSON(http.StatusOK, tokenResponse{Token: tok})
}
