package image

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"colorizer/internal/providers/dashscope"
)

type dashscopeEditClient interface {
	EditImage(context.Context, dashscope.EditRequest) (*dashscope.ImageAsset, error)
	HasCredentials() bool
	Model() string
}

// DashScopeColorizer colorizes line art through DashScope's Qwen image-edit
// model and falls back to another colorizer (e.g. Gemini) when credentials
// are missing or the remote call fails transiently.
type DashScopeColorizer struct {
	client   dashscopeEditClient
	fallback Colorizer
}

// NewDashScopeColorizer wires a DashScope client with an optional fallback.
func NewDashScopeColorizer(client dashscopeEditClient, fallback Colorizer) *DashScopeColorizer {
	return &DashScopeColorizer{client: client, fallback: fallback}
}

// Colorize fulfils the Colorizer interface.
func (d *DashScopeColorizer) Colorize(ctx context.Context, req ColorizeRequest) (*Asset, error) {
	if d == nil {
		return nil, fmt.Errorf("dashscope colorizer not configured")
	}
	if d.client == nil {
		if d.fallback != nil {
			return d.fallback.Colorize(ctx, req)
		}
		return nil, fmt.Errorf("dashscope colorizer not configured")
	}
	if !d.client.HasCredentials() {
		if d.fallback != nil {
			return d.fallback.Colorize(ctx, req)
		}
		return nil, fmt.Errorf("dashscope colorizer missing credentials")
	}
	asset, err := d.client.EditImage(ctx, dashscope.EditRequest{
		Instruction: BuildInstruction(req.Prompt),
		Image:       req.Source.Data,
		MIME:        req.Source.MIME,
		RequestID:   req.RequestID,
	})
	if err != nil {
		if shouldFallback(err) && d.fallback != nil {
			return d.fallback.Colorize(ctx, req)
		}
		return nil, err
	}
	return &Asset{
		URL:    asset.URL,
		Data:   asset.Data,
		Format: NormalizeFormat(asset.Format),
		Width:  asset.Width,
		Height: asset.Height,
	}, nil
}

func (d *DashScopeColorizer) String() string {
	if d == nil || d.client == nil {
		return "dashscope"
	}
	return d.client.Model()
}

var _ Colorizer = (*DashScopeColorizer)(nil)

func shouldFallback(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, dashscope.ErrMissingAPIKey) {
		return true
	}
	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	if strings.Contains(msg, "unauthorized") || strings.Contains(msg, "forbidden") {
		return true
	}
	return isTransientError(err)
}

func isTransientError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	if msg == "" {
		return false
	}
	if strings.Contains(msg, "internalerror") || strings.Contains(msg, "internal error") {
		return true
	}
	if strings.Contains(msg, "service unavailable") || strings.Contains(msg, "server unavailable") {
		return true
	}
	if strings.Contains(msg, "timeout") {
		return true
	}
	return false
}
