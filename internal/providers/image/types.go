package image

import (
	"context"
	"encoding/base64"
	"strings"
)

// SourceImage is the uploaded line-art payload used as conditioning input.
type SourceImage struct {
	Data     []byte
	MIME     string
	Filename string
}

// ColorizeRequest describes a normalized request passed to any colorization
// provider: one binary image plus one free-text coloring prompt.
type ColorizeRequest struct {
	Prompt    string
	Source    SourceImage
	RequestID string
	Locale    string
}

// Asset represents a colorized image produced by a provider.
type Asset struct {
	URL    string
	Data   []byte
	Format string
	Width  int
	Height int
}

// DisplayURI returns a reference suitable for direct display: the remote
// URL when the provider hosts the result, otherwise an inline data URI
// built from the payload.
func (a Asset) DisplayURI() string {
	if url := strings.TrimSpace(a.URL); url != "" {
		return url
	}
	if len(a.Data) == 0 {
		return ""
	}
	format := strings.TrimSpace(a.Format)
	if format == "" {
		format = "image/png"
	}
	return "data:" + format + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}

// Colorizer is the contract implemented by all colorization providers.
type Colorizer interface {
	Colorize(ctx context.Context, req ColorizeRequest) (*Asset, error)
}

// NormalizeFormat coerces provider-reported MIME types into a displayable
// image format.
func NormalizeFormat(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	switch mime {
	case "image/jpeg", "image/jpg":
		return "image/jpeg"
	case "image/png":
		return "image/png"
	case "image/webp":
		return "image/webp"
	default:
		if strings.HasPrefix(mime, "image/") {
			return mime
		}
		return "image/png"
	}
}
