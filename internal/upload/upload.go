// Package upload turns multipart form submissions into inline attachments.
package upload

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/collegefest/festadmin/internal/domain"
)

// MaxMemory is the part of a multipart body held in memory; larger files
// spill to temporary files.
const MaxMemory = 50 * 1024 * 1024 // 50 MB

// ParseForm parses a multipart or urlencoded form body.
func ParseForm(r *http.Request) error {
	err := r.ParseMultipartForm(MaxMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// File reads the optional file field from a parsed request. An absent field,
// a file input left empty by the browser, or a zero-byte file yields an
// absent Attachment.
func File(r *http.Request, field string) (domain.Attachment, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return domain.Attachment{}, nil
	}
	if err != nil {
		return domain.Attachment{}, fmt.Errorf("failed to open upload %q: %w", field, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close resource", "label", "upload "+field, "error", err)
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		return domain.Attachment{}, fmt.Errorf("failed to read upload %q: %w", field, err)
	}
	if len(data) == 0 {
		return domain.Attachment{}, nil
	}

	return domain.NewAttachment(data, contentType(header.Header.Get("Content-Type"), data), header.Filename), nil
}

// contentType keeps the type the client declared and sniffs the bytes only
// when none was declared.
func contentType(declared string, data []byte) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if mime, ok := imageMIME(data); ok {
		return mime
	}
	return http.DetectContentType(data)
}

// imageTypes is the set of image MIME types recognized by sniffing.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the WHATWG sniff spec (and
// therefore the stdlib) does not include a WebP signature.
var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// imageMIME returns the sniffed image MIME type and true if data is a
// recognized image format, or ("", false) otherwise.
func imageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if imageTypes[mime] {
		return mime, true
	}
	return "", false
}
