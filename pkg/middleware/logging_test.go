package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/matchtips/core/pkg/logger"
)

func bufferLogger(buf *bytes.Buffer) *logger.Logger {
	zl := zerolog.New(buf)
	return &logger.Logger{Logger: &zl}
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var entry map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("invalid log line %q: %v", scanner.Text(), err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLogging_SharesRequestIDWithHandler(t *testing.T) {
	var buf bytes.Buffer
	log := bufferLogger(&buf)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context(), nil).Info().Str("action", "inside_handler").Msg("handling")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})

	chain := chimw.RequestID(Logging(log)(handler))
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want 418", rec.Code)
	}

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("log lines = %d, want 2", len(entries))
	}

	inner, outer := entries[0], entries[1]
	if inner["action"] != "inside_handler" || outer["action"] != "http_request" {
		t.Fatalf("unexpected actions: %v, %v", inner["action"], outer["action"])
	}

	requestID, _ := outer["request_id"].(string)
	if requestID == "" {
		t.Fatal("request log has no request_id")
	}
	if inner["request_id"] != requestID {
		t.Errorf("handler request_id = %v, want %q", inner["request_id"], requestID)
	}

	if outer["status_code"] != float64(http.StatusTeapot) {
		t.Errorf("status_code = %v, want 418", outer["status_code"])
	}
	if outer["bytes"] != float64(len("short and stout")) {
		t.Errorf("bytes = %v, want %d", outer["bytes"], len("short and stout"))
	}
	if outer["method"] != http.MethodPost || outer["path"] != "/webhook" {
		t.Errorf("method/path = %v %v", outer["method"], outer["path"])
	}
}

func TestLogging_StatusCode(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    float64
	}{
		{
			name:    "handler writes nothing",
			handler: func(w http.ResponseWriter, r *http.Request) {},
			want:    http.StatusOK,
		},
		{
			name: "body without explicit header",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("ok"))
			},
			want: http.StatusOK,
		},
		{
			name: "explicit error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Logging(bufferLogger(&buf))(tt.handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

			entries := decodeLines(t, &buf)
			if len(entries) != 1 {
				t.Fatalf("log lines = %d, want 1", len(entries))
			}
			if entries[0]["status_code"] != tt.want {
				t.Errorf("status_code = %v, want %v", entries[0]["status_code"], tt.want)
			}
			if _, ok := entries[0]["request_id"]; ok {
				t.Error("request_id should be absent without the RequestID middleware")
			}
		})
	}
}
