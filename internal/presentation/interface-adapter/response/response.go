package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/coursehub/coursehub-api/internal/domain"
)

// Response represents API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ProblemDetail represents RFC 9457 Problem Details for HTTP APIs
// See: https://www.rfc-editor.org/rfc/rfc9457.html
type ProblemDetail struct {
	Type     string                 `json:"type"`               // URI reference identifying the problem type
	Title    string                 `json:"title"`              // Short, human-readable summary
	Status   int                    `json:"status"`             // HTTP status code
	Detail   string                 `json:"detail"`             // Human-readable explanation
	Instance string                 `json:"instance"`           // URI reference identifying the specific occurrence
	TraceID  string                 `json:"trace_id,omitempty"` // Datadog trace ID for correlation
	SpanID   string                 `json:"span_id,omitempty"`  // Datadog span ID for correlation
	Notify   *bool                  `json:"notify,omitempty"`   // Whether this error should trigger alerts
	Extra    map[string]interface{} `json:"-"`                  // Additional extension members
}

// ErrorType defines standard error type URIs
const (
	ErrorTypeValidation   = "https://coursehub.example.com/errors/validation"
	ErrorTypeNotFound     = "https://coursehub.example.com/errors/not-found"
	ErrorTypeConflict     = "https://coursehub.example.com/errors/conflict"
	ErrorTypeUnauthorized = "https://coursehub.example.com/errors/unauthorized"
	ErrorTypeForbidden    = "https://coursehub.example.com/errors/forbidden"
	ErrorTypeInternal     = "https://coursehub.example.com/errors/internal"
	ErrorTypeBadRequest   = "https://coursehub.example.com/errors/bad-request"
)

// NewProblemDetail creates a new ProblemDetail with common fields set
func NewProblemDetail(errorType, title string, status int, detail, instance string) ProblemDetail {
	return ProblemDetail{
		Type:     errorType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
		Extra:    make(map[string]interface{}),
	}
}

// WithTrace attaches the current Datadog trace and span IDs, so a client
// can quote them when reporting an error.
func (p ProblemDetail) WithTrace(ctx context.Context) ProblemDetail {
	if span, ok := tracer.SpanFromContext(ctx); ok {
		spanContext := span.Context()
		p.TraceID = fmt.Sprintf("%d", spanContext.TraceID())
		p.SpanID = fmt.Sprintf("%d", spanContext.SpanID())
	}
	return p
}

// MarshalJSON inlines Extra members at the root level, as RFC 9457
// extension members.
func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	type alias ProblemDetail
	data, err := json.Marshal(alias(p))
	if err != nil {
		return nil, err
	}
	if len(p.Extra) == 0 {
		return data, nil
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	for k, v := range p.Extra {
		result[k] = v
	}
	return json.Marshal(result)
}

// NewInternalErrorProblem creates a problem detail for internal server errors
func NewInternalErrorProblem(detail, instance string, notify bool) ProblemDetail {
	problem := NewProblemDetail(
		ErrorTypeInternal,
		"Internal Server Error",
		http.StatusInternalServerError,
		detail,
		instance,
	)
	problem.Notify = &notify
	return problem
}

// NewValidationErrorProblem creates a problem detail for validation errors
func NewValidationErrorProblem(detail, instance string) ProblemDetail {
	notifyFalse := false
	problem := NewProblemDetail(
		ErrorTypeValidation,
		"Validation Error",
		http.StatusBadRequest,
		detail,
		instance,
	)
	problem.Notify = &notifyFalse
	return problem
}

// NewNotFoundProblem creates a problem detail for not found errors
func NewNotFoundProblem(detail, instance string) ProblemDetail {
	notifyFalse := false
	problem := NewProblemDetail(
		ErrorTypeNotFound,
		"Not Found",
		http.StatusNotFound,
		detail,
		instance,
	)
	problem.Notify = &notifyFalse
	return problem
}

// NewConflictProblem creates a problem detail for conflict errors
func NewConflictProblem(detail, instance string) ProblemDetail {
	notifyFalse := false
	problem := NewProblemDetail(
		ErrorTypeConflict,
		"Conflict",
		http.StatusConflict,
		detail,
		instance,
	)
	problem.Notify = &notifyFalse
	return problem
}

// NewUnauthorizedProblem creates a problem detail for authentication failures
func NewUnauthorizedProblem(detail, instance string) ProblemDetail {
	notifyFalse := false
	problem := NewProblemDetail(
		ErrorTypeUnauthorized,
		"Unauthorized",
		http.StatusUnauthorized,
		detail,
		instance,
	)
	problem.Notify = &notifyFalse
	return problem
}

// NewForbiddenProblem creates a problem detail for authorization failures
func NewForbiddenProblem(detail, instance string) ProblemDetail {
	notifyFalse := false
	problem := NewProblemDetail(
		ErrorTypeForbidden,
		"Forbidden",
		http.StatusForbidden,
		detail,
		instance,
	)
	problem.Notify = &notifyFalse
	return problem
}

// FromDomainError maps a domain error to its problem detail. Errors outside
// the domain taxonomy become internal errors that do notify.
func FromDomainError(err error, instance string) ProblemDetail {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return NewValidationErrorProblem(err.Error(), instance)
	case errors.Is(err, domain.ErrNotFound):
		return NewNotFoundProblem(err.Error(), instance)
	case errors.Is(err, domain.ErrConflict):
		return NewConflictProblem(err.Error(), instance)
	case errors.Is(err, domain.ErrUnauthorized):
		return NewUnauthorizedProblem(err.Error(), instance)
	case errors.Is(err, domain.ErrForbidden):
		return NewForbiddenProblem(err.Error(), instance)
	default:
		return NewInternalErrorProblem("An unexpected error occurred", instance, true)
	}
}
