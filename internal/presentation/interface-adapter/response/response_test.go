package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/coursehub/coursehub-api/internal/domain"
)

func TestFromDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"validation", fmt.Errorf("bad input: %w", domain.ErrValidation), http.StatusBadRequest, ErrorTypeValidation},
		{"not found", fmt.Errorf("course: %w", domain.ErrNotFound), http.StatusNotFound, ErrorTypeNotFound},
		{"conflict", fmt.Errorf("dup: %w", domain.ErrConflict), http.StatusConflict, ErrorTypeConflict},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, ErrorTypeUnauthorized},
		{"forbidden", fmt.Errorf("nope: %w", domain.ErrForbidden), http.StatusForbidden, ErrorTypeForbidden},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := FromDomainError(tt.err, "/api/test")
			if problem.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", problem.Status, tt.wantStatus)
			}
			if problem.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", problem.Type, tt.wantType)
			}
			if problem.Instance != "/api/test" {
				t.Errorf("Instance = %q", problem.Instance)
			}
		})
	}
}

func TestFromDomainErrorNotifyOnlyForInternal(t *testing.T) {
	problem := FromDomainError(fmt.Errorf("boom"), "/api/test")
	if problem.Notify == nil || !*problem.Notify {
		t.Error("internal errors must notify")
	}

	problem = FromDomainError(domain.ErrNotFound, "/api/test")
	if problem.Notify == nil || *problem.Notify {
		t.Error("not-found errors must not notify")
	}
}

func TestProblemDetailMarshalInlinesExtra(t *testing.T) {
	problem := NewNotFoundProblem("Course does not exist", "/api/courses/x")
	problem.Extra["course.slug"] = "x"

	data, err := json.Marshal(problem)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["course.slug"] != "x" {
		t.Errorf("extension member missing from %s", data)
	}
	if decoded["status"] != float64(http.StatusNotFound) {
		t.Errorf("status = %v", decoded["status"])
	}
	if _, ok := decoded["Extra"]; ok {
		t.Error("Extra map itself must not serialize")
	}
}
