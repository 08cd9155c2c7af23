package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/babydeals-backend/api/responses"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
	"github.com/angelmondragon/babydeals-backend/pkg/logger"
)

// larger bodies are rejected before the email is parsed
const maxThrottledBody = 64 << 10

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// FormThrottlePolicy caps submissions of one form per client IP and per
// email address inside a fixed window. A zero limit disables that counter.
type FormThrottlePolicy struct {
	form       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

func NewFormThrottlePolicy(form string, window time.Duration, ipLimit, emailLimit int) FormThrottlePolicy {
	form = strings.ToLower(strings.TrimSpace(form))
	if form == "" {
		form = "form"
	}
	return FormThrottlePolicy{form: form, window: window, ipLimit: ipLimit, emailLimit: emailLimit}
}

func (p FormThrottlePolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

// keys share the bd namespace with the rest of the redis data
func (p FormThrottlePolicy) key(scope, value string) string {
	return "bd:rl:" + p.form + ":" + scope + ":" + value
}

type throttleCheck struct {
	scope string
	value string
	limit int
}

// FormThrottle guards sign in, sign up and the contact form. Emails are
// hashed before they reach redis or the logs.
func FormThrottle(policy FormThrottlePolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var checks []throttleCheck
			if ip := clientIP(r); policy.ipLimit > 0 && ip != "" {
				checks = append(checks, throttleCheck{scope: "ip", value: ip, limit: policy.ipLimit})
			}
			if policy.emailLimit > 0 {
				body, err := io.ReadAll(io.LimitReader(r.Body, maxThrottledBody+1))
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body"))
					return
				}
				if len(body) > maxThrottledBody {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "request body too large"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
				if email := normalizeEmail(extractEmail(body)); email != "" {
					checks = append(checks, throttleCheck{scope: "email", value: hashValue(email), limit: policy.emailLimit})
				}
			}

			for _, c := range checks {
				count, err := store.IncrWithTTL(ctx, policy.key(c.scope, c.value), policy.window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if count > int64(c.limit) {
					rejectThrottled(ctx, logg, w, policy, c, count)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func rejectThrottled(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy FormThrottlePolicy, c throttleCheck, count int64) {
	if logg != nil {
		field := "ip"
		if c.scope == "email" {
			field = "email_hash"
		}
		logg.Warn(logg.WithFields(ctx, map[string]any{
			"form":           policy.form,
			"scope":          c.scope,
			field:            c.value,
			"attempts":       count,
			"limit":          c.limit,
			"window_seconds": int(policy.window.Seconds()),
		}), "form throttled")
	}
	w.Header().Set("Retry-After", strconv.Itoa(int(policy.window.Round(time.Second).Seconds())))
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		first, _, _ := strings.Cut(header, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func extractEmail(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return body.Email
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
