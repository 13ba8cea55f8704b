package genai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestEditImageSuccess(t *testing.T) {
	resultBytes := []byte{0x89, 0x50, 0x4e, 0x47}
	var gotPath, gotKey string
	var gotBody geminiGenerateContentRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		resp := geminiGenerateContentResponse{
			Candidates: []geminiCandidate{{
				Content: geminiContent{Parts: []geminiPart{{
					InlineData: &geminiInlineData{
						MimeType: "image/png",
						Data:     base64.StdEncoding.EncodeToString(resultBytes),
					},
				}}},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(Options{APIKey: "test-key", BaseURL: server.URL})
	asset, err := client.EditImage(context.Background(), EditRequest{
		Instruction: "colorize with warm tones",
		Image:       []byte{0x01, 0x02},
		MIME:        "image/png",
		RequestID:   "req-1",
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
	if gotPath != "/models/gemini-2.5-flash-image:generateContent" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("api key header = %q", gotKey)
	}
	if len(gotBody.Contents) != 1 || len(gotBody.Contents[0].Parts) != 2 {
		t.Fatalf("unexpected request shape: %+v", gotBody)
	}
	if !strings.Contains(gotBody.Contents[0].Parts[0].Text, "warm tones") {
		t.Fatalf("instruction missing from request: %q", gotBody.Contents[0].Parts[0].Text)
	}
}

func TestEditImageSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"rate limited","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	client := NewClient(Options{APIKey: "test-key", BaseURL: server.URL})
	_, err := client.EditImage(context.Background(), EditRequest{
		Instruction: "colorize",
		Image:       []byte{0x01},
	})
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("err = %v, want rate limited message", err)
	}
}

func TestEditImageNoImageInResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"sorry"}]}}]}`))
	}))
	defer server.Close()

	client := NewClient(Options{APIKey: "test-key", BaseURL: server.URL})
	_, err := client.EditImage(context.Background(), EditRequest{
		Instruction: "colorize",
		Image:       []byte{0x01},
	})
	if err == nil || !strings.Contains(err.Error(), "no image") {
		t.Fatalf("err = %v, want no-image error", err)
	}
}

func TestEditImageWithoutCredentials(t *testing.T) {
	client := NewClient(Options{})
	if client.HasCredentials() {
		t.Fatalf("client should have no credentials")
	}
	_, err := client.EditImage(context.Background(), EditRequest{Instruction: "x", Image: []byte{0x01}})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("err = %v, want ErrMissingAPIKey", err)
	}
}

func TestEditImageValidatesInput(t *testing.T) {
	client := NewClient(Options{APIKey: "test-key"})
	if _, err := client.EditImage(context.Background(), EditRequest{Image: []byte{0x01}}); err == nil {
		t.Fatalf("empty instruction should be rejected")
	}
	if _, err := client.EditImage(context.Background(), EditRequest{Instruction: "x"}); err == nil {
		t.Fatalf("empty image should be rejected")
	}
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(Options{APIKey: "k"})
	if client.Model() != "gemini-2.5-flash-image" {
		t.Fatalf("model = %q", client.Model())
	}
	if client.baseURL != "https://generativelanguage.googleapis.com/v1beta" {
		t.Fatalf("baseURL = %q", client.baseURL)
	}
}
