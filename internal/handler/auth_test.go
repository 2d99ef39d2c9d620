package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/commartapp/commart-server/internal/config"
	"github.com/commartapp/commart-server/internal/model"
	"github.com/commartapp/commart-server/internal/repository"
)

// fakeUsers implements UserStore with pluggable behavior per test.
type fakeUsers struct {
	createFn       func(username, email, hash string) (uint64, error)
	byIdentifierFn func(identifier string) (model.User, error)
	byEmailFn      func(email string) (model.User, error)
	updatePassFn   func(id uint64, hash string) error
}

func (f *fakeUsers) Create(_ context.Context, username, email, hash string) (uint64, error) {
	return f.createFn(username, email, hash)
}
func (f *fakeUsers) GetByIdentifier(_ context.Context, identifier string) (model.User, error) {
	return f.byIdentifierFn(identifier)
}
func (f *fakeUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	return f.byEmailFn(email)
}
func (f *fakeUsers) UpdatePassword(_ context.Context, id uint64, hash string) error {
	return f.updatePassFn(id, hash)
}

// fakeResets implements ResetStore.
type fakeResets struct {
	storeFn   func(userID uint64, hash string, exp time.Time) error
	consumeFn func(hash string) (uint64, error)
}

func (f *fakeResets) Store(_ context.Context, userID uint64, hash string, exp time.Time) error {
	return f.storeFn(userID, hash, exp)
}
func (f *fakeResets) Consume(_ context.Context, hash string) (uint64, error) {
	return f.consumeFn(hash)
}

func testCfg() config.Config {
	return config.Config{JWTSecret: "test-secret", TokenTTLMin: 15, ResetTTLMin: 30, BcryptCost: 4}
}

func doJSON(t *testing.T, h echo.HandlerFunc, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestRegisterValidation(t *testing.T) {
	h := NewAuthHandler(testCfg(), &fakeUsers{}, &fakeResets{})

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{
			name:    "missing fields",
			body:    `{"username":"ana","email":"","password":"x","confirmPassword":"x"}`,
			message: "Todos los campos son obligatorios.",
		},
		{
			name:    "password mismatch",
			body:    `{"username":"ana","email":"ana@example.com","password":"abc","confirmPassword":"abd"}`,
			message: "Las contraseñas no coinciden.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := doJSON(t, h.Register, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, resp["message"])
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := &fakeUsers{
		createFn: func(string, string, string) (uint64, error) {
			return 0, repository.ErrEmailTaken
		},
	}
	h := NewAuthHandler(testCfg(), users, &fakeResets{})

	rec, resp := doJSON(t, h.Register,
		`{"username":"ana","email":"ana@example.com","password":"abc","confirmPassword":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "El correo ya está registrado.", resp["message"])
}

func TestRegisterSuccess(t *testing.T) {
	var gotUsername, gotEmail, gotHash string
	users := &fakeUsers{
		createFn: func(username, email, hash string) (uint64, error) {
			gotUsername, gotEmail, gotHash = username, email, hash
			return 1, nil
		},
	}
	h := NewAuthHandler(testCfg(), users, &fakeResets{})

	rec, resp := doJSON(t, h.Register,
		`{"username":"ana","email":"Ana@Example.com","password":"abc","confirmPassword":"abc"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Usuario registrado correctamente.", resp["message"])
	assert.Equal(t, "ana", gotUsername)
	assert.Equal(t, "ana@example.com", gotEmail) // normalized
	// The stored value must be a bcrypt hash of the password, never the
	// plain text.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(gotHash), []byte("abc")))
}

func TestLoginUnknownUser(t *testing.T) {
	users := &fakeUsers{
		byIdentifierFn: func(string) (model.User, error) {
			return model.User{}, repository.ErrUserNotFound
		},
	}
	h := NewAuthHandler(testCfg(), users, &fakeResets{})

	rec, resp := doJSON(t, h.Login, `{"identifier":"ghost","password":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Usuario no encontrado.", resp["message"])
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("right"), 4)
	require.NoError(t, err)
	users := &fakeUsers{
		byIdentifierFn: func(string) (model.User, error) {
			return model.User{ID: 7, Username: "ana", Email: "ana@example.com", PasswordHash: string(hash)}, nil
		},
	}
	h := NewAuthHandler(testCfg(), users, &fakeResets{})

	rec, resp := doJSON(t, h.Login, `{"identifier":"ana","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Contraseña incorrecta.", resp["message"])
}

func TestLoginSuccessIssuesToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("right"), 4)
	require.NoError(t, err)
	users := &fakeUsers{
		byIdentifierFn: func(identifier string) (model.User, error) {
			assert.Equal(t, "ana", identifier)
			return model.User{ID: 7, Username: "ana", Email: "ana@example.com", PasswordHash: string(hash)}, nil
		},
	}
	h := NewAuthHandler(testCfg(), users, &fakeResets{})

	rec, resp := doJSON(t, h.Login, `{"identifier":"ana","password":"right"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Inicio de sesión exitoso.", resp["message"])

	raw, ok := resp["token"].(string)
	require.True(t, ok)
	parsed, err := jwt.Parse(raw, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(7), claims["sub"])
	assert.Equal(t, "ana", claims["username"])
	assert.Equal(t, "ana@example.com", claims["email"])
}

func TestResetPasswordInvalidToken(t *testing.T) {
	resets := &fakeResets{
		consumeFn: func(string) (uint64, error) {
			return 0, repository.ErrResetTokenInvalid
		},
	}
	h := NewAuthHandler(testCfg(), &fakeUsers{}, resets)

	rec, resp := doJSON(t, h.ResetPassword,
		`{"token":"deadbeef","password":"new","confirmPassword":"new"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Token inválido o expirado.", resp["message"])
}

// Outside dev the raw reset token must never reach the server log; only
// its hash is stored.
func TestForgotPasswordDoesNotLogTokenOutsideDev(t *testing.T) {
	var logBuf bytes.Buffer
	log.SetOutput(&logBuf)
	defer log.SetOutput(os.Stderr)

	users := &fakeUsers{
		byEmailFn: func(string) (model.User, error) {
			return model.User{ID: 4, Email: "ana@example.com"}, nil
		},
	}
	var storedHash string
	resets := &fakeResets{
		storeFn: func(_ uint64, hash string, _ time.Time) error {
			storedHash = hash
			return nil
		},
	}
	cfg := testCfg()
	cfg.Env = "prod"
	h := NewAuthHandler(cfg, users, resets)

	rec, _ := doJSON(t, h.ForgotPassword, `{"email":"ana@example.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, storedHash)
	assert.NotContains(t, logBuf.String(), "password reset token")
}

func TestForgotPasswordUnknownEmailStillOK(t *testing.T) {
	users := &fakeUsers{
		byEmailFn: func(string) (model.User, error) {
			return model.User{}, repository.ErrUserNotFound
		},
	}
	h := NewAuthHandler(testCfg(), users, &fakeResets{})

	rec, resp := doJSON(t, h.ForgotPassword, `{"email":"ghost@example.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Si el correo está registrado, recibirás instrucciones.", resp["message"])
}
