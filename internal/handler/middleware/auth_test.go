//go:build unit

package middleware_test

import (
	"errors"
	"net/http"
	"testing"

	"service-booking/internal/domain/user"
	"service-booking/internal/handler/middleware"
	"service-booking/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubValidator struct {
	id   uuid.UUID
	role user.Role
	err  error
}

func (v stubValidator) ValidateToken(string) (uuid.UUID, user.Role, error) {
	return v.id, v.role, v.err
}

func newRouter(v stubValidator, roles ...user.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	m := middleware.NewAuthMiddleware(v)
	r.GET("/private", m.RequireAuth(), m.RequireRole(roles...), func(c *gin.Context) {
		id, _ := middleware.GetUserID(c)
		role, _ := middleware.GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	id := uuid.New()

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.PerformRequest(t, newRouter(stubValidator{}, user.RoleCustomer), http.MethodGet, "/private", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Access token required")
	})

	t.Run("invalid token", func(t *testing.T) {
		r := newRouter(stubValidator{err: errors.New("expired")}, user.RoleCustomer)
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/private", nil, "stale")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	t.Run("identity reaches the handler", func(t *testing.T) {
		r := newRouter(stubValidator{id: id, role: user.RoleCustomer}, user.RoleCustomer)
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/private", nil, "good")

		var body map[string]string
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.Equal(t, id.String(), body["id"])
		assert.Equal(t, "CUSTOMER", body["role"])
	})
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name    string
		role    user.Role
		allowed []user.Role
		status  int
	}{
		{"admin on admin route", user.RoleAdmin, []user.Role{user.RoleAdmin}, http.StatusOK},
		{"customer on admin route", user.RoleCustomer, []user.Role{user.RoleAdmin}, http.StatusForbidden},
		{"employee on staff route", user.RoleEmployee, []user.Role{user.RoleAdmin, user.RoleEmployee}, http.StatusOK},
		{"customer on staff route", user.RoleCustomer, []user.Role{user.RoleAdmin, user.RoleEmployee}, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRouter(stubValidator{id: uuid.New(), role: tc.role}, tc.allowed...)
			rec := httptest.PerformRequest(t, r, http.MethodGet, "/private", nil, "token")
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}
