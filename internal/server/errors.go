package server

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	accountdomain "github.com/smallbiznis/garagebook/internal/account/domain"
	attachmentdomain "github.com/smallbiznis/garagebook/internal/attachment/domain"
	"github.com/smallbiznis/garagebook/internal/auth"
	customerdomain "github.com/smallbiznis/garagebook/internal/customer/domain"
	dashboarddomain "github.com/smallbiznis/garagebook/internal/dashboard/domain"
	invoicedomain "github.com/smallbiznis/garagebook/internal/invoice/domain"
	jobitemdomain "github.com/smallbiznis/garagebook/internal/jobitem/domain"
	jobsheetdomain "github.com/smallbiznis/garagebook/internal/jobsheet/domain"
	vehicledomain "github.com/smallbiznis/garagebook/internal/vehicle/domain"
	"github.com/smallbiznis/garagebook/pkg/db/pagination"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not_found")
	ErrMethodNotAllowed   = errors.New("method_not_allowed")
	ErrRateLimited        = errors.New("rate_limited")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

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
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

// bindError turns a gin binding failure into field errors. Malformed bodies
// become a single invalid_request entry.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return invalidRequestError()
	}
	out := &ValidationErrors{Errors: make([]ValidationError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, ValidationError{
			Field:   fe.Field(),
			Code:    fe.Tag(),
			Message: validatorMessage(fe),
		})
	}
	return out
}

func validatorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	case "oneof":
		return fe.Field() + " must be one of " + fe.Param()
	case "gte", "lte", "gt", "lt", "min":
		return fe.Field() + " is out of range"
	default:
		return fe.Field() + " is invalid"
	}
}

// jsonFieldName reports request fields by their JSON name.
func jsonFieldName(field reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return internalError()
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case isUnauthorizedError(err):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case isForbiddenError(err):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, errorPayload{
			Type:    "method_not_allowed",
			Message: "method not allowed",
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return internalError()
	}
}

func internalError() (int, errorPayload) {
	return http.StatusInternalServerError, errorPayload{
		Type:    "internal_error",
		Message: "internal server error",
	}
}

// classifyErrorForLog feeds the request logger. It never exposes messages.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	return payload.Type, code
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, pagination.ErrInvalidPageToken):
		return true
	case isCustomerValidationError(err),
		isVehicleValidationError(err),
		isJobSheetValidationError(err),
		isJobItemValidationError(err),
		isAttachmentValidationError(err),
		isInvoiceValidationError(err),
		isSettingsValidationError(err):
		return true
	default:
		return false
	}
}

func isUnauthorizedError(err error) bool {
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrNotConfigured),
		errors.Is(err, accountdomain.ErrInvalidAccount),
		errors.Is(err, customerdomain.ErrInvalidAccount),
		errors.Is(err, vehicledomain.ErrInvalidAccount),
		errors.Is(err, jobsheetdomain.ErrInvalidAccount),
		errors.Is(err, jobitemdomain.ErrInvalidAccount),
		errors.Is(err, attachmentdomain.ErrInvalidAccount),
		errors.Is(err, invoicedomain.ErrInvalidAccount),
		errors.Is(err, dashboarddomain.ErrInvalidAccount):
		return true
	default:
		return false
	}
}

// Forbidden covers references in a request body or query that point at
// another account's records.
func isForbiddenError(err error) bool {
	switch {
	case errors.Is(err, ErrForbidden),
		errors.Is(err, vehicledomain.ErrCustomerForbidden),
		errors.Is(err, jobsheetdomain.ErrCustomerForbidden),
		errors.Is(err, jobsheetdomain.ErrVehicleForbidden),
		errors.Is(err, jobitemdomain.ErrJobSheetForbidden),
		errors.Is(err, attachmentdomain.ErrJobSheetForbidden),
		errors.Is(err, invoicedomain.ErrJobSheetForbidden):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, accountdomain.ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, vehicledomain.ErrNotFound),
		errors.Is(err, jobsheetdomain.ErrNotFound),
		errors.Is(err, jobitemdomain.ErrNotFound),
		errors.Is(err, attachmentdomain.ErrNotFound),
		errors.Is(err, attachmentdomain.ErrJobSheetNotFound),
		errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

var codeFields = map[string]string{
	"vehicle_has_job_sheets":     "customerId",
	"job_sheet_invoiced":         "jobSheetId",
	"job_sheet_already_invoiced": "jobSheetId",
	"invoice_total_not_positive": "jobSheetId",
	"invoice_total_too_large":    "jobSheetId",
	"invalid_page_token":         "pageToken",
	"invalid_request":            "request",
}

// validationErrorField derives the JSON field from codes like
// invalid_customer_id.
func validationErrorField(code string) string {
	if field, ok := codeFields[code]; ok {
		return field
	}
	if !strings.HasPrefix(code, "invalid_") {
		return ""
	}
	parts := strings.Split(strings.TrimPrefix(code, "invalid_"), "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "id" {
			parts[i] = "Id"
			continue
		}
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

var codeMessages = map[string]string{
	"invalid_request":            "invalid request",
	"job_sheet_invoiced":         "job sheet has already been invoiced",
	"job_sheet_already_invoiced": "an invoice already exists for this job sheet",
	"invoice_total_not_positive": "invoice total must be greater than zero",
	"invoice_total_too_large":    "invoice total exceeds 99999999.99",
	"vehicle_has_job_sheets":     "vehicle has job sheets and cannot change customer",
	"invalid_page_token":         "invalid page token",
}

func validationErrorMessage(code string) string {
	if msg, ok := codeMessages[code]; ok {
		return msg
	}
	return "invalid value"
}
