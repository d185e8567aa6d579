package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	companydomain "github.com/invoq/invoq/internal/company/domain"
	customerdomain "github.com/invoq/invoq/internal/customer/domain"
	invoicedomain "github.com/invoq/invoq/internal/invoice/domain"
	"github.com/invoq/invoq/internal/sequence"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Error   errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid_request")
)

// ErrorHandlingMiddleware turns the last handler error into the wire envelope.
// Services surface sentinel errors only; status codes live here.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{
			Success: false,
			Message: payload.Message,
			Error:   payload,
		})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, invoicedomain.ErrInvalidOwner),
		errors.Is(err, companydomain.ErrInvalidOwner),
		errors.Is(err, customerdomain.ErrInvalidOwner):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Code:    "unauthorized",
			Message: "unauthorized",
		}

	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Code:    err.Error(),
			Message: validationMessage(err),
		}

	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Code:    "not_found",
			Message: "not found",
		}

	case errors.Is(err, invoicedomain.ErrDuplicateNumber):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Code:    "duplicate_invoice_number",
			Message: "invoice number already exists",
		}

	case isInvalidStateError(err):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "invalid_state",
			Code:    err.Error(),
			Message: invalidStateMessage(err),
		}

	case errors.Is(err, sequence.ErrUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Code:    "sequence_unavailable",
			Message: "invoice numbering is temporarily unavailable",
		}

	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Code:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, invoicedomain.ErrInvalidID),
		errors.Is(err, invoicedomain.ErrEmptyItems),
		errors.Is(err, invoicedomain.ErrNegativeAmount),
		errors.Is(err, invoicedomain.ErrInvalidChargeKind),
		errors.Is(err, invoicedomain.ErrInvalidInvoiceType),
		errors.Is(err, invoicedomain.ErrInvalidStatus),
		errors.Is(err, companydomain.ErrInvalidID),
		errors.Is(err, companydomain.ErrInvalidName),
		errors.Is(err, customerdomain.ErrInvalidID),
		errors.Is(err, customerdomain.ErrInvalidName),
		errors.Is(err, customerdomain.ErrInvalidEmail):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, companydomain.ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isInvalidStateError(err error) bool {
	switch {
	case errors.Is(err, invoicedomain.ErrInvoicePaid),
		errors.Is(err, invoicedomain.ErrInvoiceFrozen),
		errors.Is(err, invoicedomain.ErrNotDraft),
		errors.Is(err, invoicedomain.ErrInvalidPaymentAmount):
		return true
	default:
		return false
	}
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, invoicedomain.ErrEmptyItems):
		return "an invoice requires at least one item"
	case errors.Is(err, invoicedomain.ErrNegativeAmount):
		return "amounts must not be negative"
	case errors.Is(err, invoicedomain.ErrInvalidChargeKind):
		return "unknown additional charge kind"
	case errors.Is(err, invoicedomain.ErrInvalidInvoiceType):
		return "unknown invoice type"
	case errors.Is(err, invoicedomain.ErrInvalidStatus):
		return "unknown invoice status"
	case errors.Is(err, customerdomain.ErrInvalidEmail):
		return "invalid email address"
	default:
		return "invalid request"
	}
}

func invalidStateMessage(err error) string {
	switch {
	case errors.Is(err, invoicedomain.ErrInvoicePaid):
		return "cannot delete a paid invoice"
	case errors.Is(err, invoicedomain.ErrInvoiceFrozen):
		return "cannot modify items of a paid or cancelled invoice"
	case errors.Is(err, invoicedomain.ErrNotDraft):
		return "invoice is not a draft"
	case errors.Is(err, invoicedomain.ErrInvalidPaymentAmount):
		return "payment amount must be positive"
	default:
		return "invalid state"
	}
}
