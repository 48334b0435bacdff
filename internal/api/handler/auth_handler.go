package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/craftmarket/auth-api/internal/api/metrics"
	"github.com/craftmarket/auth-api/internal/core/domain"
	"github.com/craftmarket/auth-api/internal/core/ports"
)

// refreshTokenHeader carries the refresh token on the refresh and logout
// endpoints.
const refreshTokenHeader = "Refresh-Token"

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Nickname string `json:"nickname" validate:"required,min=2,max=30"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type passwordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type tokenResponse struct {
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	Member       *ports.MemberSummary `json:"member"`
}

// Register creates a new member account.
//
// @Summary      Register a new member
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Member registration details"
// @Success      201   {object}  domain.Member
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	member, err := h.authService.Register(c.Request().Context(), req.Email, req.Password, req.Nickname)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, member)
}

// Login authenticates a member and returns an access/refresh token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pair, member, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Member:       member,
	})
}

// Refresh rotates a refresh token, returning a new token pair. The old token
// is single-use: presenting it again yields 409.
//
// @Summary      Rotate a refresh token
// @Tags         auth
// @Produce      json
// @Param        Refresh-Token  header    string  true  "Refresh token"
// @Success      200            {object}  tokenResponse
// @Failure      401            {object}  map[string]string
// @Failure      404            {object}  map[string]string
// @Failure      409            {object}  map[string]string
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	refreshToken := c.Request().Header.Get(refreshTokenHeader)
	if refreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing refresh token header")
	}

	pair, member, err := h.authService.Refresh(c.Request().Context(), refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrRefreshTokenReused) {
			metrics.RefreshReuseDetectedTotal.Inc()
		}
		metrics.TokenRefreshesTotal.WithLabelValues(refreshResult(err)).Inc()
		return err
	}
	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Member:       member,
	})
}

// Logout revokes the presented refresh token and deletes every outstanding
// refresh token for the member — a "log out everywhere" policy.
//
// @Summary      Logout
// @Tags         auth
// @Param        Refresh-Token  header  string  true  "Refresh token"
// @Success      204
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	refreshToken := c.Request().Header.Get(refreshTokenHeader)
	if refreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing refresh token header")
	}

	if err := h.authService.Logout(c.Request().Context(), refreshToken); err != nil {
		return err
	}
	metrics.LogoutsTotal.Inc()

	return c.NoContent(http.StatusNoContent)
}

// ChangePassword updates the authenticated member's password.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  changePasswordRequest  true  "Current and new passwords"
// @Success      200
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/password [put]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	email, err := ctxEmail(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ChangePassword(c.Request().Context(), email, req.CurrentPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "password changed"})
}

// RequestPasswordReset is a stub carried over from the original service;
// always responds 501.
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req passwordResetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.authService.RequestPasswordReset(c.Request().Context(), req.Email)
}

// VerifyEmail is a stub carried over from the original service; always
// responds 501.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	return h.authService.VerifyEmail(c.Request().Context(), c.QueryParam("token"))
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	default:
		return "error"
	}
}

func refreshResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidRefreshToken):
		return "invalid_token"
	case errors.Is(err, domain.ErrRefreshTokenNotFound), errors.Is(err, domain.ErrMemberNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrRefreshTokenReused):
		return "reused"
	default:
		return "error"
	}
}
