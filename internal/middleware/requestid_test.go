package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/CampusQuest_Go/internal/logger"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"generated when missing", "", false},
		{"upstream id kept", "edge-7f3a.42_b", true},
		{"log injection replaced", "abc\nlevel=ERROR", false},
		{"too long replaced", strings.Repeat("a", MaxRequestIDLength+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// ARRANGE
			var seen string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = logger.GetRequestID(r.Context())
			})
			req := httptest.NewRequest(http.MethodGet, "/api/v1/quests", nil)
			if tt.incoming != "" {
				req.Header.Set(HeaderRequestID, tt.incoming)
			}
			rec := httptest.NewRecorder()

			// ACT
			RequestID(next).ServeHTTP(rec, req)

			// ASSERT
			assert.NotEmpty(t, seen)
			assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))
			if tt.keep {
				assert.Equal(t, tt.incoming, seen)
			} else {
				assert.NotEqual(t, tt.incoming, seen)
			}
		})
	}
}
