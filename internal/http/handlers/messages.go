package handlers

import (
	"errors"

	"colorizer/internal/domain"
)

type userMessage struct {
	code string
	en   string
	id   string
}

var noticeMessages = map[error]userMessage{
	domain.ErrMissingImage: {
		code: "missing_image",
		en:   "Please upload an image first.",
		id:   "Silakan unggah gambar terlebih dahulu.",
	},
	domain.ErrMissingPrompt: {
		code: "missing_prompt",
		en:   "Please provide a coloring prompt.",
		id:   "Silakan isi deskripsi warna terlebih dahulu.",
	},
	domain.ErrBusy: {
		code: "busy",
		en:   "A colorization is already in progress.",
		id:   "Proses pewarnaan masih berjalan.",
	},
}

// noticeFor maps a workflow precondition error to its code and localized
// user-facing message. English is the canonical wording.
func noticeFor(err error, locale string) (string, string, bool) {
	for sentinel, msg := range noticeMessages {
		if errors.Is(err, sentinel) {
			if locale == "id" {
				return msg.code, msg.id, true
			}
			return msg.code, msg.en, true
		}
	}
	return "", "", false
}
