package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commartapp/commart-server/internal/config"
	"github.com/commartapp/commart-server/internal/middleware"
	"github.com/commartapp/commart-server/internal/model"
	"github.com/commartapp/commart-server/internal/repository"
)

type fakeProfileUsers struct {
	user    model.User
	updates []repository.BasicUpdate
}

func (f *fakeProfileUsers) GetByID(context.Context, uint64) (model.User, error) {
	return f.user, nil
}
func (f *fakeProfileUsers) UpdateBasic(_ context.Context, _ uint64, up repository.BasicUpdate) error {
	f.updates = append(f.updates, up)
	return nil
}
func (f *fakeProfileUsers) Delete(context.Context, uint64) error { return nil }

type fakeProfileStore struct {
	current    *model.Profile
	reconciled []repository.ReconcileInput
}

func (f *fakeProfileStore) GetProfile(context.Context, uint64, int) (*model.Profile, error) {
	return f.current, nil
}
func (f *fakeProfileStore) Reconcile(_ context.Context, _ uint64, in repository.ReconcileInput) error {
	f.reconciled = append(f.reconciled, in)
	return nil
}

type fakePortfolio struct{}

func (fakePortfolio) Delete(context.Context, uint64, uint64) (string, error) {
	return "", repository.ErrImageNotFound
}

func artistFixture() (*fakeProfileUsers, *fakeProfileStore) {
	users := &fakeProfileUsers{user: model.User{
		ID: 2, Username: "pintora", IsArtist: true, Role: model.RoleArtist,
	}}
	store := &fakeProfileStore{current: &model.Profile{
		ID: 2, Username: "pintora", IsArtist: true, Role: model.RoleArtist,
		Artist: &model.ArtistInfo{
			Bio:          "bio actual",
			Availability: true,
			PricePolicy:  "precios actuales",
			Styles:       []string{"chibi", "realismo"},
			Languages:    []string{"español"},
			StyleIDs:     []uint64{1, 2},
			LanguageIDs:  []uint64{1},
		},
	}}
	return users, store
}

func putProfile(t *testing.T, h *ProfileHandler, fields map[string][]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, vals := range fields {
		for _, v := range vals {
			require.NoError(t, w.WriteField(key, v))
		}
	}
	require.NoError(t, w.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/profile", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxUserID, uint64(2))
	require.NoError(t, h.Update(c))
	return rec
}

// Editing only the bio must keep every other artist field at its stored
// value: partial updates never clobber what the form left out.
func TestUpdateProfilePartialKeepsStoredFields(t *testing.T) {
	users, store := artistFixture()
	h := NewProfileHandler(config.Config{PortfolioImages: 6}, users, store, fakePortfolio{})

	rec := putProfile(t, h, map[string][]string{"bio": {"bio nueva"}})
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, store.reconciled, 1)
	in := store.reconciled[0]
	assert.Equal(t, "bio nueva", in.Bio)
	assert.True(t, in.Availability)
	assert.Equal(t, "precios actuales", in.PricePolicy)
	assert.Equal(t, []string{"chibi", "realismo"}, in.StyleNames)
	assert.Equal(t, []string{"español"}, in.LanguageNames)
	assert.Empty(t, in.Images)
}

// A styles field present in the form replaces the stored set wholesale.
func TestUpdateProfileReplacesStyles(t *testing.T) {
	users, store := artistFixture()
	h := NewProfileHandler(config.Config{PortfolioImages: 6}, users, store, fakePortfolio{})

	rec := putProfile(t, h, map[string][]string{
		"styles":       {"acuarela", "pixel"},
		"availability": {"false"},
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, store.reconciled, 1)
	in := store.reconciled[0]
	assert.Equal(t, []string{"acuarela", "pixel"}, in.StyleNames)
	assert.False(t, in.Availability)
	assert.Equal(t, "bio actual", in.Bio) // untouched
}

func TestUpdateProfileBioTooLong(t *testing.T) {
	users, store := artistFixture()
	h := NewProfileHandler(config.Config{PortfolioImages: 6}, users, store, fakePortfolio{})

	rec := putProfile(t, h, map[string][]string{"bio": {strings.Repeat("a", 121)}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.reconciled)
}

// A plain client sending no artist fields never triggers reconciliation.
func TestUpdateProfileClientSkipsReconcile(t *testing.T) {
	users := &fakeProfileUsers{user: model.User{ID: 3, Username: "cliente", Role: model.RoleClient}}
	store := &fakeProfileStore{current: &model.Profile{ID: 3, Username: "cliente", Role: model.RoleClient}}
	h := NewProfileHandler(config.Config{PortfolioImages: 6}, users, store, fakePortfolio{})

	rec := putProfile(t, h, map[string][]string{"recovery_email": {"backup@example.com"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.reconciled)

	require.Len(t, users.updates, 1)
	require.NotNil(t, users.updates[0].RecoveryEmail)
	assert.Equal(t, "backup@example.com", *users.updates[0].RecoveryEmail)
}
