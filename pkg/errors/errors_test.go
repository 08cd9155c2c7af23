package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodePayment, status: http.StatusPaymentRequired, publicMsg: "payment not completed", detailsOK: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeForbidden, "no entry")
	if got := As(err); got == nil || got.Code() != CodeForbidden {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestIsCodeFollowsWrappedChain(t *testing.T) {
	inner := New(CodeStateConflict, "offer is not pending")
	outer := fmt.Errorf("moderate: %w", inner)
	if !IsCode(outer, CodeStateConflict) {
		t.Fatalf("expected wrapped state conflict to be detected")
	}
	if IsCode(outer, CodeNotFound) {
		t.Fatalf("unexpected match on not found")
	}
	if IsCode(stdErrors.New("plain"), CodeInternal) {
		t.Fatalf("plain errors carry no code")
	}
}

func TestLogFieldsNameFavoriteDuplicate(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "favorites_user_offer_key", TableName: "favorites"}
	err := Wrap(CodeConflict, pgErr, "insert favorite").WithDetails(map[string]any{"step": "favorites.add"})

	fields := LogFields(err)
	if fields["error_code"] != CodeConflict {
		t.Fatalf("expected conflict code, got %v", fields["error_code"])
	}
	if fields["pg_violation"] != "unique_violation" || fields["pg_constraint"] != "favorites_user_offer_key" {
		t.Fatalf("unexpected pg fields %+v", fields)
	}
	if fields["step"] != "favorites.add" {
		t.Fatalf("expected step carried from details, got %v", fields["step"])
	}
	if _, ok := fields["pg_column"]; ok {
		t.Fatalf("empty pg fields should be omitted: %+v", fields)
	}
	if chain := fields["error_chain"].([]string); len(chain) != 2 {
		t.Fatalf("expected two chain entries, got %d", len(chain))
	}
}

func TestLogFieldsPlainError(t *testing.T) {
	fields := LogFields(stdErrors.New("stripe timeout"))
	if fields["error"] != "stripe timeout" {
		t.Fatalf("unexpected message %v", fields["error"])
	}
	if _, ok := fields["error_code"]; ok {
		t.Fatalf("plain errors carry no code: %+v", fields)
	}
	if _, ok := fields["pg_code"]; ok {
		t.Fatalf("plain errors carry no pg fields: %+v", fields)
	}
}
