// ABOUTME: Tests for downloading and decoding profile pictures
// ABOUTME: Serves encoded images from an httptest server

package authstate

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchAvatar(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	var accept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	got, err := FetchAvatar(context.Background(), srv.URL+"/photo.png")
	if err != nil {
		t.Fatalf("FetchAvatar: %v", err)
	}
	if b := got.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("bounds = %v; want 4x3", b)
	}
	if accept != "image/*" {
		t.Errorf("Accept = %q; want image/*", accept)
	}
}

func TestFetchAvatar_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"not found", func(w http.ResponseWriter, _ *http.Request) { http.NotFound(w, nil) }},
		{"not an image", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("<html>")) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			if _, err := FetchAvatar(context.Background(), srv.URL); err == nil {
				t.Error("expected error")
			}
		})
	}
}
