package http

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/example/paddock/internal/apperrors"
)

// Error codes in response bodies.
const (
	CodeInvalid     = "INVALID_ARGUMENT"
	CodeNotFound    = "NOT_FOUND"
	CodeConflict    = "CONFLICT"
	CodeUnavailable = "STORE_UNAVAILABLE"
	CodeInternal    = "INTERNAL"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries a stable code and a human message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	code := CodeInternal
	msg := "internal error"

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
		code = CodeInvalid
		msg = validationMessage(err)
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
		code = CodeNotFound
		msg = err.Error()
	case errors.Is(err, apperrors.ErrConflict):
		status = http.StatusConflict
		code = CodeConflict
		msg = "resource already exists"
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
		code = CodeUnavailable
		msg = "store unavailable, retry later"
	}

	return c.Status(status).JSON(errorResponse(code, msg))
}

func validationMessage(err error) string {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	return err.Error()
}

func errorResponse(code, msg string) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{Code: code, Message: msg}}
}
