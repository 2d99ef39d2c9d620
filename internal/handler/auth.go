package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/commartapp/commart-server/internal/config"
	"github.com/commartapp/commart-server/internal/model"
	"github.com/commartapp/commart-server/internal/repository"
	"github.com/commartapp/commart-server/internal/utils"
)

// UserStore is the slice of the user repository the auth endpoints need.
// *repository.UserRepo satisfies it; tests plug in fakes.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string) (uint64, error)
	GetByIdentifier(ctx context.Context, identifier string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error
}

// ResetStore persists password reset tokens. *repository.ResetTokenRepo
// satisfies it.
type ResetStore interface {
	Store(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	Consume(ctx context.Context, tokenHash string) (uint64, error)
}

// AuthHandler bundles dependencies for registration, login and password
// recovery.
type AuthHandler struct {
	Cfg    config.Config
	Users  UserStore
	Resets ResetStore
}

func NewAuthHandler(cfg config.Config, u UserStore, r ResetStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Resets: r}
}

// ----- DTOs -----

type registerReq struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}
type loginReq struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}
type forgotReq struct {
	Email string `json:"email"`
}
type resetReq struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Register creates a user account. All failures return a flat message in
// the same shape the frontend renders directly.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Solicitud inválida."})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" || req.ConfirmPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Todos los campos son obligatorios."})
	}
	if req.Password != req.ConfirmPassword {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Las contraseñas no coinciden."})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return serverError(c, "register: hash", err)
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Users.Create(ctx, req.Username, req.Email, hash); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "El correo ya está registrado."})
		case errors.Is(err, repository.ErrUsernameTaken):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "El nombre de usuario ya está en uso."})
		}
		return serverError(c, "register: create user", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Usuario registrado correctamente."})
}

// Login verifies credentials by email or username and issues the session
// token. Unknown identifier and wrong password are distinct statuses (404
// vs 401), matching what the frontend shows on each.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Solicitud inválida."})
	}
	if strings.TrimSpace(req.Identifier) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Todos los campos son obligatorios."})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByIdentifier(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Usuario no encontrado."})
		}
		return serverError(c, "login: query user", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Contraseña incorrecta."})
	}

	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, u.ID, u.Username, u.Email, h.Cfg.TokenTTLMin)
	if err != nil {
		return serverError(c, "login: sign token", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Inicio de sesión exitoso.",
		"token":   tok.Token,
	})
}

// ForgotPassword issues a reset token for the account matching the given
// email or recovery email. The response is the same whether or not the
// account exists, so the endpoint cannot be used to enumerate emails.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "El correo es obligatorio."})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	resp := echo.Map{"message": "Si el correo está registrado, recibirás instrucciones."}

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusOK, resp)
		}
		return serverError(c, "forgot: query user", err)
	}

	raw, err := utils.NewResetToken()
	if err != nil {
		return serverError(c, "forgot: token", err)
	}
	exp := time.Now().UTC().Add(time.Duration(h.Cfg.ResetTTLMin) * time.Minute)
	if err := h.Resets.Store(ctx, u.ID, utils.HashToken(raw), exp); err != nil {
		return serverError(c, "forgot: store token", err)
	}
	// The raw token is a live credential: surface it in dev logs only,
	// where it stands in for the reset email.
	if h.Cfg.Env == "dev" {
		log.Printf("password reset token for user %d: %s", u.ID, raw)
	}
	return c.JSON(http.StatusOK, resp)
}

// ResetPassword consumes a reset token and replaces the password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Solicitud inválida."})
	}
	if strings.TrimSpace(req.Token) == "" || req.Password == "" || req.ConfirmPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Todos los campos son obligatorios."})
	}
	if req.Password != req.ConfirmPassword {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Las contraseñas no coinciden."})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	userID, err := h.Resets.Consume(ctx, utils.HashToken(strings.TrimSpace(req.Token)))
	if err != nil {
		if errors.Is(err, repository.ErrResetTokenInvalid) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Token inválido o expirado."})
		}
		return serverError(c, "reset: consume token", err)
	}
	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return serverError(c, "reset: hash", err)
	}
	if err := h.Users.UpdatePassword(ctx, userID, hash); err != nil {
		return serverError(c, "reset: update password", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Contraseña actualizada correctamente."})
}
