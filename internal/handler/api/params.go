package api

import (
	"net/http"
	"strconv"

	"service-booking/internal/domain/user"
	"service-booking/internal/handler/httperr"
	"service-booking/internal/handler/middleware"
	"service-booking/internal/pkg/errs"
	"service-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errInvalidID = errs.NewKind("invalid id", errs.ErrValidationFailed)

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.Mark(err, errInvalidID), "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

// identity reads what RequireAuth stored; a miss means the route was wired without it.
func identity(c *gin.Context) (uuid.UUID, user.Role, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.ErrUnauthorized, "Unauthorized", nil)
		return uuid.Nil, "", false
	}
	role, _ := middleware.GetUserRole(c)
	return id, role, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.Mark(err, errs.ErrValidationFailed), "Invalid request", nil)
		return false
	}
	return true
}

func intQuery(c *gin.Context, key string, def int) int {
	if v := c.Query(key); v != "" {
		if iv, err := strconv.Atoi(v); err == nil {
			return iv
		}
	}
	return def
}

func paging(c *gin.Context) (*queries.Cursor, int) {
	limit := queries.ValidateLimit(intQuery(c, "limit", queries.DefaultListLimit))
	var cursor *queries.Cursor
	if after := c.Query("cursor"); after != "" {
		cursor = &queries.Cursor{After: after}
	}
	return cursor, limit
}
