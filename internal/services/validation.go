package services

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"keepsake-backend/internal/apperr"
)

const (
	MaxContributorNameLen = 80
	MaxRecipientNameLen   = 80
	MaxMessageLen         = 500
	MaxReplyLen           = 1000
	MaxStickerPromptLen   = 200
	MaxVisitorIDLen       = 128
	MaxPhotoBytes         = 10 << 20
)

// photoTypes maps accepted upload content types to their storage extension.
var photoTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
	"image/heic": "heic",
}

func requiredText(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apperr.Validation(field + " is required")
	}
	if utf8.RuneCountInString(value) > max {
		return "", apperr.Validation(fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return value, nil
}

func optionalText(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) > max {
		return "", apperr.Validation(fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return value, nil
}

func optionalEmail(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return "", apperr.Validation("email address is invalid")
	}
	return value, nil
}

// photoExtension validates an upload and returns the extension to store it
// under.
func photoExtension(contentType string, size int) (string, error) {
	if size == 0 {
		return "", apperr.Validation("photo is empty")
	}
	if size > MaxPhotoBytes {
		return "", apperr.Validation("photo must be at most 10 MB")
	}
	ext, ok := photoTypes[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", apperr.Validation("photo must be a JPEG, PNG, WebP, GIF or HEIC image")
	}
	return ext, nil
}

var stickerPathPattern = regexp.MustCompile(`^pages/([0-9a-f-]{36})/stickers/([0-9a-f-]{36})\.png$`)

// stickerPath accepts only pages/{pageID}/stickers/{uuid}.png.
func stickerPath(pageID uuid.UUID, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	invalid := apperr.Validation("ai_sticker_path does not belong to this page")
	m := stickerPathPattern.FindStringSubmatch(value)
	if m == nil {
		return "", invalid
	}
	owner, err := uuid.Parse(m[1])
	if err != nil || owner != pageID {
		return "", invalid
	}
	if _, err := uuid.Parse(m[2]); err != nil {
		return "", invalid
	}
	return value, nil
}
