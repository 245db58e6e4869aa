package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/buzlove/love-tree-backend/internal/config"
)

func imageGenConfig(baseURL string) *config.ImageGenConfig {
	return &config.ImageGenConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "qwen-image-plus",
		Size:    "1024*1024",
		Timeout: 5 * time.Second,
	}
}

func imageGenOK(url string) imageGenResponse {
	var resp imageGenResponse
	resp.Output.Choices = []struct {
		Message struct {
			Content []imageGenContent `json:"content"`
		} `json:"message"`
	}{{}}
	resp.Output.Choices[0].Message.Content = []imageGenContent{{Image: url}}
	return resp
}

func TestImageGenDisabledWithoutKey(t *testing.T) {
	svc := NewImageGenService(&config.ImageGenConfig{BaseURL: "https://example.com"})

	if svc.Enabled() {
		t.Error("expected service to be disabled")
	}

	url, err := svc.Generate(context.Background(), "a mascot")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "" {
		t.Errorf("url: got %q, want empty", url)
	}
}

func TestImageGenGenerate(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)

		var req imageGenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Parameters.Size != "1024*1024" {
			t.Errorf("size: got %q, want 1024*1024", req.Parameters.Size)
		}
		if len(req.Input.Messages) != 1 || len(req.Input.Messages[0].Content) != 1 {
			t.Fatal("expected one user message with one content part")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(imageGenOK("https://vendor.example/tmp/abc.png"))
	}))
	defer srv.Close()

	svc := NewImageGenService(imageGenConfig(srv.URL))
	url, err := svc.Generate(context.Background(), "a mascot")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://vendor.example/tmp/abc.png" {
		t.Errorf("url: got %q", url)
	}
	if calls != 1 {
		t.Errorf("vendor calls: got %d, want 1", calls)
	}
}

func TestImageGenRetriesOnceOnSizeMismatch(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)

		var req imageGenRequest
		json.NewDecoder(r.Body).Decode(&req)

		if n == 1 {
			if req.Parameters.Size != "1024*1024" {
				t.Errorf("first size: got %q, want 1024*1024", req.Parameters.Size)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{
				"code":    "InvalidParameter",
				"message": "parameter size is not supported",
			})
			return
		}

		if req.Parameters.Size == "1024*1024" {
			t.Errorf("retry reused the rejected size %q", req.Parameters.Size)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(imageGenOK("https://vendor.example/tmp/retry.png"))
	}))
	defer srv.Close()

	svc := NewImageGenService(imageGenConfig(srv.URL))
	url, err := svc.Generate(context.Background(), "a mascot")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://vendor.example/tmp/retry.png" {
		t.Errorf("url: got %q", url)
	}
	if calls != 2 {
		t.Errorf("vendor calls: got %d, want exactly 2", calls)
	}
}

func TestImageGenDoesNotRetryOtherErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		code     string
		message  string
		wantKind ErrorKind
	}{
		{name: "auth", status: 401, code: "InvalidApiKey", message: "bad key", wantKind: KindAuth},
		{name: "quota", status: 429, code: "Throttling", message: "slow down", wantKind: KindQuota},
		{name: "content rejected", status: 400, code: "DataInspectionFailed", message: "unsafe prompt", wantKind: KindInvalidInput},
		{name: "unrelated invalid parameter", status: 400, code: "InvalidParameter", message: "model not found", wantKind: KindInvalidInput},
		{name: "server error", status: 500, code: "InternalError", message: "boom", wantKind: KindVendor},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				json.NewEncoder(w).Encode(map[string]string{
					"code":    tc.code,
					"message": tc.message,
				})
			}))
			defer srv.Close()

			svc := NewImageGenService(imageGenConfig(srv.URL))
			_, err := svc.Generate(context.Background(), "a mascot")
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := KindOf(err); got != tc.wantKind {
				t.Errorf("kind: got %q, want %q", got, tc.wantKind)
			}
			if calls != 1 {
				t.Errorf("vendor calls: got %d, want exactly 1", calls)
			}
		})
	}
}

func TestImageGenUnknownConfiguredSizeFallsBackToAllowed(t *testing.T) {
	cfg := imageGenConfig("https://example.com")
	cfg.Size = "333*333"

	svc := NewImageGenService(cfg)
	if !isAllowedSize(svc.size) {
		t.Errorf("size %q is not in the allowed set", svc.size)
	}
}
