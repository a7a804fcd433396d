// ABOUTME: Tests for the API client transport behavior
// ABOUTME: Uses httptest to mock backend responses

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type staticToken string

func (s staticToken) AccessToken() string { return string(s) }

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, opts...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestBearerAttachedWhenPresent(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, []State{})
	}, WithCredentials(staticToken("abc.def.ghi")))

	if _, err := c.States.List(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Bearer abc.def.ghi" {
		t.Errorf("expected bearer header, got %q", got)
	}
}

func TestBearerOmittedWhenAbsent(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"no source", nil},
		{"empty token", []Option{WithCredentials(staticToken(""))}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var present bool
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, present = r.Header["Authorization"]
				writeJSON(w, http.StatusOK, []State{})
			}, tc.opts...)

			if _, err := c.States.List(context.Background()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if present {
				t.Error("expected no Authorization header")
			}
		})
	}
}

func TestSetCredentials(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, User{ID: 1})
	})
	c.SetCredentials(staticToken("late"))

	if _, err := c.Auth.CurrentUser(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Bearer late" {
		t.Errorf("expected bearer from late-bound source, got %q", got)
	}
}

func TestUnauthorizedMarksRetriedWithoutRetrying(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
	}, WithCredentials(staticToken("expired")))

	_, err := c.Chat.Messages(context.Background(), 7)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if !apiErr.Retried {
		t.Error("expected Retried to be set on 401")
	}
	if apiErr.Message != "Given token not valid for any token type" {
		t.Errorf("unexpected message %q", apiErr.Message)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("expected exactly 1 request, got %d", n)
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		is     error
		msg    string
	}{
		{"not found", http.StatusNotFound, map[string]string{"detail": "Not found."}, ErrNotFound, "backend error: Not found."},
		{"field errors", http.StatusBadRequest, map[string][]string{"name": {"This field is required."}}, ErrValidation, "backend error: name: This field is required."},
		{"unprocessable", http.StatusUnprocessableEntity, map[string]string{"error": "bad edit", "details": "speed out of range"}, ErrValidation, "backend error: bad edit (speed out of range)"},
		{"non field errors", http.StatusBadRequest, map[string][]string{"non_field_errors": {"Unable to log in."}}, ErrValidation, "backend error: Unable to log in."},
		{"server error", http.StatusInternalServerError, nil, nil, "backend returned status 500"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tc.body == nil {
					w.WriteHeader(tc.status)
					return
				}
				writeJSON(w, tc.status, tc.body)
			})

			_, err := c.Venues.Get(context.Background(), 1)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tc.is != nil && !errors.Is(err, tc.is) {
				t.Errorf("expected errors.Is(%v), got %v", tc.is, err)
			}
			if errors.Is(err, ErrNetwork) {
				t.Error("HTTP errors must not classify as network errors")
			}
			if err.Error() != tc.msg {
				t.Errorf("expected message %q, got %q", tc.msg, err.Error())
			}
		})
	}
}

func TestConnectionError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c := New(url)
	_, err := c.States.List(context.Background())
	if err == nil {
		t.Fatal("expected connection error, got nil")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("expected ErrNetwork, got %v", err)
	}
	if !strings.Contains(err.Error(), "cannot connect to backend at") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestContextCancellation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		writeJSON(w, http.StatusOK, []State{})
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.States.List(ctx)
	if !errors.Is(err, ErrCanceled) {
		t.Errorf("expected ErrCanceled, got %v", err)
	}
}

func TestContextTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		writeJSON(w, http.StatusOK, []State{})
	})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.States.List(ctx)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestWithTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		writeJSON(w, http.StatusOK, []State{})
	}, WithTimeout(20*time.Millisecond))

	_, err := c.States.List(context.Background())
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout from client timeout, got %v", err)
	}
}

func TestRequestIDHeader(t *testing.T) {
	var id string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		id = r.Header.Get("X-Request-ID")
		writeJSON(w, http.StatusOK, []State{})
	})

	if _, err := c.States.List(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(id) != 36 {
		t.Errorf("expected uuid request id, got %q", id)
	}
}

func TestPaginatedAndBareLists(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bare array", `[{"id":1,"name":"California","abbreviation":"CA"},{"id":2,"name":"Oregon","abbreviation":"OR"}]`},
		{"paginated", `{"count":2,"next":null,"previous":null,"results":[{"id":1,"name":"California","abbreviation":"CA"},{"id":2,"name":"Oregon","abbreviation":"OR"}]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tc.body))
			})
			states, err := c.States.List(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(states) != 2 || states[1].Abbreviation != "OR" {
				t.Errorf("unexpected states %+v", states)
			}
		})
	}
}

func TestNoContentDelete(t *testing.T) {
	var method, path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.Venues.Delete(context.Background(), 12); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if method != http.MethodDelete || path != "/venues/12/" {
		t.Errorf("expected DELETE /venues/12/, got %s %s", method, path)
	}
}

func TestInvalidJSONResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>oops</html>"))
	})
	_, err := c.Auth.CurrentUser(context.Background())
	if err == nil || !strings.Contains(err.Error(), "invalid response from backend") {
		t.Errorf("expected invalid response error, got %v", err)
	}
}

func TestDecimal(t *testing.T) {
	tests := []struct {
		in    string
		want  Decimal
		float float64
	}{
		{`"12.50"`, "12.50", 12.5},
		{`12.5`, "12.5", 12.5},
		{`0`, "0", 0},
		{`null`, "", 0},
	}
	for _, tc := range tests {
		var d Decimal
		if err := json.Unmarshal([]byte(tc.in), &d); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.in, err)
		}
		if d != tc.want {
			t.Errorf("unmarshal %s: expected %q, got %q", tc.in, tc.want, d)
		}
		if d.Float() != tc.float {
			t.Errorf("Float() of %s: expected %v, got %v", tc.in, tc.float, d.Float())
		}
	}
	if s := Decimal("3").String(); s != "3.00" {
		t.Errorf("expected 3.00, got %s", s)
	}
}

func TestParseAllProxy(t *testing.T) {
	cfg, err := parseAllProxy("ssh+socks5://jumpbox@10.0.0.5:22?private-key=/tmp/key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.username != "jumpbox" || cfg.host != "10.0.0.5:22" || cfg.keyPath != "/tmp/key" {
		t.Errorf("unexpected proxy config %+v", cfg)
	}

	for _, bad := range []string{
		"http://proxy:8080",
		"ssh+socks5://jumpbox@10.0.0.5:22",
		"ssh+socks5://?private-key=/tmp/key",
	} {
		if _, err := parseAllProxy(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestUnusableProxyFallsBackToDirect(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []State{})
	}, WithProxy("ssh+socks5://jumpbox@10.0.0.5:22?private-key=/nonexistent/key"))

	if _, err := c.States.List(context.Background()); err != nil {
		t.Fatalf("expected direct connection when proxy key is unreadable, got %v", err)
	}
}
