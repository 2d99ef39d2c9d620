package handler

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/commartapp/commart-server/internal/config"
	"github.com/commartapp/commart-server/internal/middleware"
	"github.com/commartapp/commart-server/internal/model"
	"github.com/commartapp/commart-server/internal/queue"
	"github.com/commartapp/commart-server/internal/repository"
	queue_publisher "github.com/commartapp/commart-server/internal/service"
	"github.com/commartapp/commart-server/internal/utils"
)

// Conventional length caps for the artist profile text fields.
const (
	maxBioLen         = 120
	maxPricePolicyLen = 300
)

// ProfileStore is the aggregation/reconciliation slice of the artist
// repository used by the profile endpoints.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID uint64, portfolioLimit int) (*model.Profile, error)
	Reconcile(ctx context.Context, userID uint64, in repository.ReconcileInput) error
}

// ProfileUserStore is the user-repository slice used by PUT/DELETE /profile.
type ProfileUserStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
	UpdateBasic(ctx context.Context, id uint64, up repository.BasicUpdate) error
	Delete(ctx context.Context, id uint64) error
}

// PortfolioStore handles the standalone portfolio operations.
type PortfolioStore interface {
	Delete(ctx context.Context, imageID, artistID uint64) (string, error)
}

// ProfileHandler serves the authenticated profile endpoints.
type ProfileHandler struct {
	Cfg       config.Config
	Users     ProfileUserStore
	Artists   ProfileStore
	Portfolio PortfolioStore
}

func NewProfileHandler(cfg config.Config, u ProfileUserStore, a ProfileStore, p PortfolioStore) *ProfileHandler {
	return &ProfileHandler{Cfg: cfg, Users: u, Artists: a, Portfolio: p}
}

// Get returns the caller's full aggregated profile.
func (h *ProfileHandler) Get(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No autorizado."})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	p, err := h.Artists.GetProfile(ctx, uid, h.Cfg.PortfolioImages)
	if err != nil {
		return serverError(c, "profile: aggregate", err)
	}
	if p == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Usuario no encontrado."})
	}
	return c.JSON(http.StatusOK, p)
}

// Update applies a partial multipart update: optional base-user fields
// (recovery_email, profile_image, is_artist activation) plus the artist
// fields that trigger profile reconciliation. Fields absent from the form
// keep their stored values; a present-but-empty styles/languages list
// clears the set.
func (h *ProfileHandler) Update(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No autorizado."})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Usuario no encontrado."})
		}
		return serverError(c, "profile: load user", err)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Formulario inválido."})
	}

	var up repository.BasicUpdate
	if v, present := formField(form, "recovery_email"); present {
		up.RecoveryEmail = &v
	}
	makeArtist := false
	if v, present := formField(form, "is_artist"); present && (v == "true" || v == "1") && !u.IsArtist {
		makeArtist = true
		up.MakeArtist = true
	}
	if fhs := form.File["profile_image"]; len(fhs) > 0 {
		img, err := utils.SaveImage(fhs[0], h.Cfg.UploadDir, h.Cfg.MaxUploadBytes)
		if err != nil {
			return uploadError(c, err)
		}
		up.ProfileImage = &img.RelPath
	}
	if err := h.Users.UpdateBasic(ctx, uid, up); err != nil {
		return serverError(c, "profile: update user", err)
	}

	isArtist := u.IsArtist || makeArtist
	if isArtist && hasArtistFields(form) {
		if err := h.reconcile(ctx, c, uid, u.Username, form); err != nil {
			return err // response already written
		}
	}

	p, err := h.Artists.GetProfile(ctx, uid, h.Cfg.PortfolioImages)
	if err != nil {
		return serverError(c, "profile: reread aggregate", err)
	}
	return c.JSON(http.StatusOK, p)
}

// reconcile assembles the desired artist state from the form, defaulting
// absent fields to their stored values, and runs the reconciliation
// routine. On success the matching event is published; a broker outage is
// not the client's problem.
func (h *ProfileHandler) reconcile(ctx context.Context, c echo.Context, uid uint64, username string, form *multipartForm) error {
	current, err := h.Artists.GetProfile(ctx, uid, 0)
	if err != nil {
		return serverError(c, "profile: read current", err)
	}

	in := repository.ReconcileInput{Availability: true}
	if current != nil && current.Artist != nil {
		in.Bio = current.Artist.Bio
		in.Availability = current.Artist.Availability
		in.PricePolicy = current.Artist.PricePolicy
		in.StyleNames = current.Artist.Styles
		in.LanguageNames = current.Artist.Languages
	}

	if v, present := formField(form, "bio"); present {
		if len([]rune(v)) > maxBioLen {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "La biografía es demasiado larga."})
		}
		in.Bio = v
	}
	if v, present := formField(form, "availability"); present {
		in.Availability = v == "true" || v == "1"
	}
	if v, present := formField(form, "price_policy"); present {
		if len([]rune(v)) > maxPricePolicyLen {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "La política de precios es demasiado larga."})
		}
		in.PricePolicy = v
	}
	if vs, present := form.Value["styles"]; present {
		in.StyleNames = vs
	}
	if vs, present := form.Value["languages"]; present {
		in.LanguageNames = vs
	}
	for _, fh := range form.File["portfolio_images"] {
		img, err := utils.SaveImage(fh, h.Cfg.UploadDir, h.Cfg.MaxUploadBytes)
		if err != nil {
			return uploadError(c, err)
		}
		in.Images = append(in.Images, img)
	}

	if err := h.Artists.Reconcile(ctx, uid, in); err != nil {
		return serverError(c, "profile: reconcile", err)
	}

	_ = queue_publisher.PublishProfileUpdated(ctx, queue.ProfileUpdatedEvent{
		ArtistID:  uid,
		Username:  username,
		Styles:    in.StyleNames,
		Languages: in.LanguageNames,
		NewImages: len(in.Images),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

// Delete removes the caller's account. The endpoint exists for parity with
// the frontend settings screen; aggregation never depends on it.
func (h *ProfileHandler) Delete(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No autorizado."})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Users.Delete(ctx, uid); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Usuario no encontrado."})
		}
		return serverError(c, "profile: delete user", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Cuenta eliminada."})
}

// DeletePortfolioImage removes one of the caller's portfolio images and
// unlinks the stored file.
func (h *ProfileHandler) DeletePortfolioImage(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No autorizado."})
	}
	imageID, err := strconv.ParseUint(c.Param("imageId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Identificador inválido."})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	path, err := h.Portfolio.Delete(ctx, imageID, uid)
	if err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Imagen no encontrada."})
		}
		return serverError(c, "portfolio: delete image", err)
	}
	_ = os.Remove(filepath.Join(h.Cfg.UploadDir, path))
	return c.JSON(http.StatusOK, echo.Map{"message": "Imagen eliminada."})
}

// ----- form helpers -----

type multipartForm = multipart.Form

// formField returns a trimmed form value and whether the key was present.
func formField(form *multipartForm, key string) (string, bool) {
	vs, ok := form.Value[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return strings.TrimSpace(vs[0]), true
}

// hasArtistFields reports whether the form carries anything that should
// trigger reconciliation.
func hasArtistFields(form *multipartForm) bool {
	for _, k := range []string{"bio", "availability", "price_policy", "styles", "languages"} {
		if _, ok := form.Value[k]; ok {
			return true
		}
	}
	return len(form.File["portfolio_images"]) > 0
}

func uploadError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, utils.ErrUploadTooLarge):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "La imagen supera el tamaño máximo."})
	case errors.Is(err, utils.ErrBadImageType):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Formato de imagen no soportado."})
	}
	return serverError(c, "upload", err)
}
