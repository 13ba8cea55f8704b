package colorize

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"colorizer/internal/storage"
)

// SourceFile is the user-selected binary image handle. The upload boundary
// constrains acceptable formats; the workflow trusts its input.
type SourceFile struct {
	Name string
	MIME string
	Data []byte
}

// PreviewHandle is a transient, locally resolvable reference derived 1:1
// from the selected source image, used only for on-screen display.
type PreviewHandle struct {
	Key string `json:"-"`
	URL string `json:"url"`
}

// PreviewStore acquires and releases preview handles. At most one handle is
// alive per session; release must be idempotent-safe for handles that were
// already removed out of band.
type PreviewStore interface {
	Acquire(ctx context.Context, sessionID string, file SourceFile) (PreviewHandle, error)
	Release(ctx context.Context, handle PreviewHandle) error
}

// FilePreviews stores preview payloads under the static storage root so the
// handle URL resolves through the file server.
type FilePreviews struct {
	store *storage.FileStore
}

// NewFilePreviews wraps a FileStore in the PreviewStore contract.
func NewFilePreviews(store *storage.FileStore) *FilePreviews {
	return &FilePreviews{store: store}
}

// Acquire writes the source payload and returns its handle.
func (p *FilePreviews) Acquire(ctx context.Context, sessionID string, file SourceFile) (PreviewHandle, error) {
	if p == nil || p.store == nil {
		return PreviewHandle{}, fmt.Errorf("previews: no store configured")
	}
	key := fmt.Sprintf("previews/%s/%s%s", sessionID, uuid.NewString(), extensionFor(file.MIME))
	written, err := p.store.Write(ctx, key, file.Data)
	if err != nil {
		return PreviewHandle{}, fmt.Errorf("previews: acquire: %w", err)
	}
	return PreviewHandle{Key: written, URL: p.store.URLFor(written)}, nil
}

// Release removes the preview payload backing the handle.
func (p *FilePreviews) Release(ctx context.Context, handle PreviewHandle) error {
	if p == nil || p.store == nil {
		return fmt.Errorf("previews: no store configured")
	}
	if strings.TrimSpace(handle.Key) == "" {
		return nil
	}
	return p.store.Remove(ctx, handle.Key)
}

var _ PreviewStore = (*FilePreviews)(nil)

func extensionFor(mime string) string {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
