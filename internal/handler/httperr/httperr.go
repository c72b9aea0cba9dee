package httperr

import (
	"net/http"

	"service-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
		Kind    string `json:"kind,omitempty"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

var kindStatus = []struct {
	kind   error
	status int
}{
	{errs.ErrNotFound, http.StatusNotFound},
	{errs.ErrValidationFailed, http.StatusBadRequest},
	{errs.ErrInvalidStatus, http.StatusBadRequest},
	{errs.ErrInvalidRole, http.StatusBadRequest},
	{errs.ErrMinimumNotMet, http.StatusBadRequest},
	{errs.ErrSignatureMismatch, http.StatusBadRequest},
	{errs.ErrInvalidState, http.StatusConflict},
	{errs.ErrLimitExceeded, http.StatusConflict},
	{errs.ErrAlreadyCompleted, http.StatusConflict},
	{errs.ErrConflict, http.StatusConflict},
	{errs.ErrUnauthorized, http.StatusUnauthorized},
	{errs.ErrForbidden, http.StatusForbidden},
	{errs.ErrExternalService, http.StatusBadGateway},
}

// StatusFor maps an error kind to a transport status. Unmarked errors are 500.
func StatusFor(err error) int {
	for _, ks := range kindStatus {
		if errs.Is(err, ks.kind) {
			return ks.status
		}
	}
	return http.StatusInternalServerError
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		err = errs.New(msg)
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Error.Kind = errs.Kind(err)
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// Abort derives status and message from err. Internal errors never leak their text.
func Abort(c *gin.Context, err error) {
	status := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Internal server error"
	}
	AbortWithError(c, status, err, msg, nil)
}
