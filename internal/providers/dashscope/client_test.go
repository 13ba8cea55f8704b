package dashscope

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func generationBody(imageRef string) string {
	return `{"output":{"choices":[{"message":{"content":[{"image":"` + imageRef + `"}]}}]},"usage":{"width":512,"height":512},"request_id":"req-abc"}`
}

func TestEditImageInlineResult(t *testing.T) {
	resultBytes := []byte{0x89, 0x50, 0x4e, 0x47}
	dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(resultBytes)
	var gotAuth, gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(generationBody(dataURI)))
	}))
	defer server.Close()

	client := NewClient(Options{APIKey: "test-key", BaseURL: server.URL})
	asset, err := client.EditImage(context.Background(), EditRequest{
		Instruction: "colorize with pastels",
		Image:       []byte{0x01},
		MIME:        "image/png",
	})
	if err != nil {
		t.Fatalf("EditImage: %v", err)
	}
	if string(asset.Data) != string(resultBytes) {
		t.Fatalf("asset data mismatch")
	}
	if asset.Format != "image/png" {
		t.Fatalf("format = %q", asset.Format)
	}
	if asset.Width != 512 || asset.Height != 512 {
		t.Fatalf("dimensions = %dx%d", asset.Width, asset.Height)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if gotPath != "/services/aigc/multimodal-generation/generation" {
		t.Fatalf("path = %q", gotPath)
	}
}

func TestEditImageDownloadsURLResult(t *testing.T) {
	resultBytes := []byte{0x01, 0x02, 0x03}
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/services/aigc/multimodal-generation/generation", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(generationBody(server.URL + "/result.png")))
	})
	mux.HandleFunc("/result.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(resultBytes)
	})

	client := NewClient(Options{APIKey: "test-key", BaseURL: server.URL})
	asset, err := client.EditImage(context.Background(), EditRequest{
		Instruction: "colorize",
		Image:       []byte{0x01},
	})
	if err != nil {
		t.Fatalf("EditImage: %v", err)
	}
	if string(asset.Data) != string(resultBytes) {
		t.Fatalf("asset data mismatch")
	}
	if !strings.HasSuffix(asset.URL, "/result.png") {
		t.Fatalf("url = %q", asset.URL)
	}
}

func TestEditImageSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"InvalidParameter","message":"prompt rejected"}`))
	}))
	defer server.Close()

	client := NewClient(Options{APIKey: "test-key", BaseURL: server.URL})
	_, err := client.EditImage(context.Background(), EditRequest{
		Instruction: "colorize",
		Image:       []byte{0x01},
	})
	if err == nil || !strings.Contains(err.Error(), "prompt rejected") {
		t.Fatalf("err = %v, want api error message", err)
	}
}

func TestEditImageWithoutCredentials(t *testing.T) {
	client := NewClient(Options{})
	_, err := client.EditImage(context.Background(), EditRequest{Instruction: "x", Image: []byte{0x01}})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("err = %v, want ErrMissingAPIKey", err)
	}
}

func TestDecodeDataURI(t *testing.T) {
	data, format, err := decodeDataURI("data:image/webp;base64," + base64.StdEncoding.EncodeToString([]byte("abc")))
	if err != nil {
		t.Fatalf("decodeDataURI: %v", err)
	}
	if string(data) != "abc" || format != "image/webp" {
		t.Fatalf("data = %q, format = %q", data, format)
	}
	if _, _, err := decodeDataURI("data:image/png,plain"); err == nil {
		t.Fatalf("non-base64 uri should be rejected")
	}
}
