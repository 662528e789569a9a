// AngelaMos | 2026
// handler_test.go

package user

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carterperez-dev/templates/storefront/internal/core"
	"github.com/carterperez-dev/templates/storefront/internal/middleware"
)

func routerAs(repo Repository, p *middleware.Principal) http.Handler {
	r := chi.NewRouter()
	NewHandler(NewService(repo)).RegisterRoutes(r, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithPrincipal(req.Context(), p)))
		})
	})
	return r
}

func TestGetUserHandler(t *testing.T) {
	alice := &middleware.Principal{ID: aliceID, Role: core.RoleUser}

	t.Run("reads self", func(t *testing.T) {
		repo := &mockRepository{}
		repo.On("GetByID", mock.Anything, aliceID).
			Return(&User{ID: aliceID, Email: "alice@example.com", Role: core.RoleUser, CreatedAt: time.Now()}, nil)

		rec := httptest.NewRecorder()
		routerAs(repo, alice).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/"+aliceID, nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "alice@example.com")
	})

	t.Run("forbidden for other user", func(t *testing.T) {
		rec := httptest.NewRecorder()
		routerAs(&mockRepository{}, alice).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/"+bobID, nil))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		routerAs(&mockRepository{}, alice).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/not-a-uuid", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListUsersAdminOnly(t *testing.T) {
	rec := httptest.NewRecorder()
	routerAs(&mockRepository{}, &middleware.Principal{ID: aliceID, Role: core.RoleUser}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	repo := &mockRepository{}
	repo.On("List", mock.Anything, ListUsersParams{Page: 1, PageSize: 20}).
		Return([]User{{ID: aliceID}}, 1, nil)

	rec = httptest.NewRecorder()
	routerAs(repo, &middleware.Principal{ID: bobID, Role: core.RoleAdmin}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)
}
