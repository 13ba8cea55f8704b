package image

import (
	"context"
	"fmt"

	"colorizer/internal/providers/genai"
)

type geminiEditClient interface {
	EditImage(context.Context, genai.EditRequest) (*genai.ImageAsset, error)
	HasCredentials() bool
	Model() string
}

// GeminiColorizer colorizes line art through the Gemini generateContent
// image-editing API.
type GeminiColorizer struct {
	client geminiEditClient
}

// NewGeminiColorizer wraps a Gemini client in the Colorizer contract.
func NewGeminiColorizer(client geminiEditClient) *GeminiColorizer {
	return &GeminiColorizer{client: client}
}

// Colorize fulfils the Colorizer interface.
func (g *GeminiColorizer) Colorize(ctx context.Context, req ColorizeRequest) (*Asset, error) {
	if g == nil || g.client == nil {
		return nil, fmt.Errorf("gemini colorizer not configured")
	}
	asset, err := g.client.EditImage(ctx, genai.EditRequest{
		Instruction: BuildInstruction(req.Prompt),
		Image:       req.Source.Data,
		MIME:        req.Source.MIME,
		RequestID:   req.RequestID,
	})
	if err != nil {
		return nil, err
	}
	return &Asset{
		Data:   asset.Data,
		Format: NormalizeFormat(asset.Format),
		Width:  asset.Width,
		Height: asset.Height,
	}, nil
}

func (g *GeminiColorizer) String() string {
	if g == nil || g.client == nil {
		return "gemini"
	}
	return g.client.Model()
}

var _ Colorizer = (*GeminiColorizer)(nil)
