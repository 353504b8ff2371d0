package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minnseong/security-study/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Hello is a public liveness-style endpoint that never requires a token.
//
// @Summary      Public hello
// @Tags         user
// @Produce      plain
// @Success      200  {string}  string
// @Router       /api/hello [get]
func (h *UserHandler) Hello(c echo.Context) error {
	return c.String(http.StatusOK, "hello")
}

// Me returns the caller's own profile, resolved from the identity the auth
// middleware bound to the request.
//
// @Summary      Current user's profile
// @Tags         user
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/user [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := h.userService.GetMyUser(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ByUsername returns any user's profile. Admin only; the required role is
// declared on the route, not here.
//
// @Summary      Profile by username
// @Tags         user
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  domain.User
// @Failure      403       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Router       /api/user/{username} [get]
func (h *UserHandler) ByUsername(c echo.Context) error {
	user, err := h.userService.GetUserWithRoles(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
