package ez

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lottery-forum/internal/core/auth"
	"lottery-forum/internal/domain"
	resp "lottery-forum/internal/transport/http/response"
)

// AErr carries an explicit response code out of a handler.
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// CodeOf maps an error to its envelope code and message. Domain errors keep
// their text; anything unrecognised is reported as an internal error.
func CodeOf(err error) (int, string) {
	var ae *AErr
	switch {
	case errors.As(err, &ae):
		return ae.Code, ae.Error()
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, auth.ErrInvalidToken):
		return resp.CodeUnauthorized, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return resp.CodeForbidden, err.Error()
	case errors.Is(err, domain.ErrInvalid):
		return resp.CodeBadRequest, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return resp.CodeNotFound, err.Error()
	default:
		return resp.CodeServerError, "internal error"
	}
}

// Fail writes err as an envelope and records it on the context for the
// access log.
func Fail(c *gin.Context, err error) {
	code, msg := CodeOf(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusOK, resp.Error(code, msg))
}
