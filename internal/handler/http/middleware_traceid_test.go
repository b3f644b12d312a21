// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-divide/internal/logger"
)

func TestWithTraceID_TableTest(t *testing.T) {
	tests := []struct {
		name            string
		requestTraceID  string
		wantSameTraceID bool
		wantValidUUID   bool
	}{
		{
			name:            "trace ID from request header is reused",
			requestTraceID:  "my-custom-trace-id",
			wantSameTraceID: true,
		},
		{
			name:          "no trace ID in request, UUID generated",
			wantValidUUID: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Handler{logger: logger.Nop()}
			nextCalled := false

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusTeapot)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.requestTraceID != "" {
				req.Header.Set(traceIDHeader, tt.requestTraceID)
			}
			rr := httptest.NewRecorder()
			h.withTraceID(next).ServeHTTP(rr, req)

			responseTraceID := rr.Header().Get(traceIDHeader)
			require.NotEmpty(t, responseTraceID)

			if tt.wantSameTraceID {
				assert.Equal(t, tt.requestTraceID, responseTraceID)
			}
			if tt.wantValidUUID {
				_, err := uuid.Parse(responseTraceID)
				assert.NoError(t, err)
			}
			assert.True(t, nextCalled)
			assert.Equal(t, http.StatusTeapot, rr.Code)
		})
	}
}

func TestWithTraceID_LoggerCarriesTraceID(t *testing.T) {
	var buf bytes.Buffer
	h := &Handler{logger: logger.New(&buf, "test")}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromRequest(r).Info().Msg("inside")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(traceIDHeader, "trace-context-test")
	h.withTraceID(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), `"trace_id":"trace-context-test"`)
}

func TestWithTraceID_ConcurrentRequestsGetUniqueIDs(t *testing.T) {
	h := &Handler{logger: logger.Nop()}
	middleware := h.withTraceID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	const n = 50
	done := make(chan string, n)

	for i := 0; i < n; i++ {
		go func() {
			rr := httptest.NewRecorder()
			middleware.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))
			done <- rr.Header().Get(traceIDHeader)
		}()
	}

	seen := make(map[string]struct{})
	for i := 0; i < n; i++ {
		seen[<-done] = struct{}{}
	}

	assert.Len(t, seen, n)
}
