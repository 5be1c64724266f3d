package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/goldennest/internal/api/dto"
	"github.com/spec-kit/goldennest/internal/config"
	"github.com/spec-kit/goldennest/internal/service"
)

// AuthHandler exposes login, refresh, logout, registration and the current account.
type AuthHandler struct {
	auth   *service.AuthService
	cookie config.AuthConfig
}

// NewAuthHandler constructs handler. Cookie attributes come from cfg.
func NewAuthHandler(authService *service.AuthService, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{auth: authService, cookie: cfg}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if _, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	}); err != nil {
		return err
	}
	return c.JSON(dto.StatusResponse{Status: "ok"})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	res, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	c.Cookie(h.refreshCookie(res.RefreshToken, int(h.auth.Tokens().RefreshTTL()/time.Second)))
	return c.JSON(dto.AccessTokenResponse{AccessToken: res.AccessToken})
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token, _, err := h.auth.Refresh(c.UserContext(), c.Cookies(h.cookie.RefreshCookieName))
	if err != nil {
		return err
	}
	return c.JSON(dto.AccessTokenResponse{AccessToken: token})
}

// Logout handles POST /api/auth/logout. Only the browser copy of the refresh
// token is discarded; the token stays valid until it expires.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	// fasthttp drops a zero Max-Age, so the clearing cookie is rendered by net/http.
	expired := &http.Cookie{
		Name:     h.cookie.RefreshCookieName,
		Value:    "",
		Path:     h.cookie.RefreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.CookieSecure,
		SameSite: sameSiteMode(h.cookie.CookieSameSite),
	}
	c.Append(fiber.HeaderSetCookie, expired.String())
	return c.Status(http.StatusOK).JSON(dto.StatusResponse{Status: "logged out"})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	user, err := h.auth.Me(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.MeResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
	})
}

func (h *AuthHandler) refreshCookie(value string, maxAge int) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     h.cookie.RefreshCookieName,
		Value:    value,
		Path:     h.cookie.RefreshCookiePath,
		MaxAge:   maxAge,
		HTTPOnly: true,
		Secure:   h.cookie.CookieSecure,
		SameSite: h.cookie.CookieSameSite,
	}
}

func sameSiteMode(value string) http.SameSite {
	switch strings.ToLower(value) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	case "lax":
		return http.SameSiteLaxMode
	}
	return http.SameSiteDefaultMode
}
