package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestCloudinary(t *testing.T, handler http.HandlerFunc) *CloudinaryService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewCloudinaryService("demo", "key", "secret", CloudinaryOptions{
		Folder:      "ishow_feedback",
		Timeout:     5 * time.Second,
		Concurrency: 2,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	svc.cld.Config.API.UploadPrefix = server.URL
	return svc
}

func TestCloudinaryUpload(t *testing.T) {
	var hits atomic.Int32
	svc := newTestCloudinary(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if !strings.Contains(r.URL.Path, "/image/upload") {
			t.Errorf("expected an image upload, got path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"public_id":"ishow_feedback/abc","secure_url":"https://res.cloudinary.com/demo/image/upload/v1/ishow_feedback/abc.png"}`))
	})

	url, err := svc.Upload(context.Background(), pngBytes)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "https://res.cloudinary.com/demo/image/upload/v1/ishow_feedback/abc.png" {
		t.Fatalf("unexpected url %q", url)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected one request, got %d", hits.Load())
	}
}

func TestCloudinaryUploadRejected(t *testing.T) {
	svc := newTestCloudinary(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid image file"}}`))
	})

	if _, err := svc.Upload(context.Background(), pngBytes); err == nil {
		t.Fatal("expected an error for a rejected upload")
	}
}

func TestCloudinaryUploadHonoursContext(t *testing.T) {
	svc := newTestCloudinary(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected once the context is done")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Fill every slot so Acquire has to wait on the cancelled context.
	svc.slots.Acquire(context.Background(), 2)
	defer svc.slots.Release(2)

	if _, err := svc.Upload(ctx, pngBytes); err == nil {
		t.Fatal("expected context error")
	}
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		raw     string
		wantErr bool
	}{
		{"https://res.cloudinary.com/demo/image/upload/a.png", false},
		{"", true},
		{"/tmp/uploads/a.png", true},
		{"res.cloudinary.com/a.png", true},
	}
	for _, tt := range tests {
		if _, err := absoluteURL(tt.raw); (err != nil) != tt.wantErr {
			t.Errorf("absoluteURL(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
		}
	}
}
