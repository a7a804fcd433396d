// ABOUTME: HTTP round tripper that logs each backend call
// ABOUTME: Stamps requests with an X-Request-ID correlation id

package client

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/logger"
)

type loggingTransport struct {
	next http.RoundTripper
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	requestID := logger.RequestID(req.Context())
	if requestID == "" {
		requestID = uuid.NewString()
	}
	// RoundTrippers must not modify the caller's request
	req = req.Clone(req.Context())
	req.Header.Set("X-Request-ID", requestID)

	log := logger.FromContext(logger.WithRequestID(req.Context(), requestID))
	log.Debug("Request started",
		"method", req.Method,
		"path", req.URL.Path,
	)

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		log.Debug("Request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"error", err,
			"latency_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	log.Debug("Request completed",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return resp, nil
}
