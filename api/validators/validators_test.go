package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
)

type sampleBody struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=mother vendor"`
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co","role":"mother","admin":true}`))
	var body sampleBody
	err := DecodeJSONBody(req, &body)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope","role":"admin"}`))
	var body sampleBody
	err := DecodeJSONBody(req, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details got %T", typed.Details())
	}
	if details["email"] != "must be a valid email" {
		t.Fatalf("unexpected email detail %q", details["email"])
	}
	if details["role"] != "must be one of: mother vendor" {
		t.Fatalf("unexpected role detail %q", details["role"])
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=500", nil)
	if _, err := ParseQueryInt(req, "limit", 25, 1, 100); err == nil {
		t.Fatal("expected out of range error")
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	got, err := ParseQueryInt(req, "limit", 25, 1, 100)
	if err != nil || got != 25 {
		t.Fatalf("expected default 25 got %d (%v)", got, err)
	}
}

func TestParseQueryBool(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?featured=true&unread=maybe", nil)
	if got, err := ParseQueryBool(req, "featured"); err != nil || !got {
		t.Fatalf("expected true got %v (%v)", got, err)
	}
	if _, err := ParseQueryBool(req, "unread"); err == nil {
		t.Fatal("expected invalid boolean error")
	}
}

func TestParseUUIDParam(t *testing.T) {
	id := uuid.New()
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "offerId", id.String())
	got, err := ParseUUIDParam(req, "offerId")
	if err != nil || got != id {
		t.Fatalf("expected %s got %s (%v)", id, got, err)
	}

	req = withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "offerId", "not-a-uuid")
	if _, err := ParseUUIDParam(req, "offerId"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestSanitizeString(t *testing.T) {
	cases := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{name: "trims and cuts", input: "  stroller  ", max: 4, want: "stro"},
		{name: "collapses whitespace", input: "car \t\n  seat", max: 0, want: "car seat"},
		{name: "drops control characters", input: "bottle\x00\x1bwarmer", max: 0, want: "bottlewarmer"},
		{name: "cuts on rune boundary", input: "Niños ropa", max: 4, want: "Niño"},
		{name: "no trailing space at limit", input: "baby monitor", max: 5, want: "baby"},
		{name: "drops invalid utf8", input: "cuna\xff", max: 0, want: "cuna"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeString(tc.input, tc.max); got != tc.want {
				t.Fatalf("SanitizeString(%q, %d) = %q, want %q", tc.input, tc.max, got, tc.want)
			}
		})
	}
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rc))
}
