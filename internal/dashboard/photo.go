package dashboard

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxPhotoBytes bounds the size of an attached photo.
const MaxPhotoBytes = 8 << 20

// Photo errors.
var (
	ErrNotAnImage    = errors.New("file is not an image")
	ErrPhotoTooLarge = errors.New("photo is larger than 8 MiB")
)

// PhotoDataURL reads an image file and returns it as a base64 data URL
// suitable for a meal's photoData.
func PhotoDataURL(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("reading photo: %w", err)
	}
	if info.Size() > MaxPhotoBytes {
		return "", ErrPhotoTooLarge
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading photo: %w", err)
	}

	mimeType := imageType(path, data)
	if mimeType == "" {
		return "", ErrNotAnImage
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// imageType sniffs the content type. SVG, which the sniffer reports as text,
// is recognised from its extension and root element. Returns "" for
// non-images.
func imageType(path string, data []byte) string {
	if ct := http.DetectContentType(data); strings.HasPrefix(ct, "image/") {
		return ct
	}
	ext := strings.ToLower(filepath.Ext(path))
	head := data[:min(len(data), 512)]
	if ext == ".svg" && strings.Contains(string(head), "<svg") {
		return mime.TypeByExtension(ext)
	}
	return ""
}
