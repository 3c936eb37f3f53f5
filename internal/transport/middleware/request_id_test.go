package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/meeplelog/meeplelog-backend/pkg/ctxutil"
)

func TestRequestID_ReuseIncoming(t *testing.T) {
	incomingID := uuid.New().String()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID := ctxutil.RequestIDFromCtx(r.Context())
		if gotID != incomingID {
			t.Errorf("expected requestID %s, got %s", incomingID, gotID)
		}
		w.WriteHeader(http.StatusOK)
	})

	wrapped := RequestID(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", incomingID)
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if got := rec.Header().Get("X-Request-Id"); got != incomingID {
		t.Errorf("expected X-Request-Id header %s, got %s", incomingID, got)
	}
}

func TestRequestID_GenerateNew(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID := ctxutil.RequestIDFromCtx(r.Context())
		if gotID == "" {
			t.Error("expected non-empty requestID")
			return
		}
		if _, err := uuid.Parse(gotID); err != nil {
			t.Errorf("expected valid UUID, got %s: %v", gotID, err)
		}
		w.WriteHeader(http.StatusOK)
	})

	wrapped := RequestID(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	gotHeader := rec.Header().Get("X-Request-Id")
	if gotHeader == "" {
		t.Error("expected X-Request-Id header to be set")
	}
	if _, err := uuid.Parse(gotHeader); err != nil {
		t.Errorf("expected valid UUID in header, got %s: %v", gotHeader, err)
	}
}
