// Package upload parses chat request bodies and validates image
// attachments. The chat endpoint accepts either JSON (message only) or
// multipart/form-data (message plus files).
package upload

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

const (
	// MaxImageCount is the attachment ceiling per chat message.
	MaxImageCount = 4
	// MaxImageBytes is 5MB per file; the upstream API allows 20MB but most
	// phone photos fit well under this.
	MaxImageBytes = 5 * 1024 * 1024

	// maxFormMemory bounds multipart parsing buffers.
	maxFormMemory = 32 << 20
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Attachment is one uploaded image, held in memory for the duration of the
// request.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ChatBody is the parsed chat request: trimmed message text plus any
// attachments. Either may be empty; the handler decides whether the
// combination is acceptable.
type ChatBody struct {
	Message     string
	Attachments []Attachment
}

// ValidationError is a client-facing attachment rejection with a specific
// reason. Handlers map it to a 400.
type ValidationError struct {
	Code    string // TOO_MANY, TOO_LARGE, INVALID_TYPE
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ParseChatBody reads the request as JSON or multipart depending on
// Content-Type. Unknown content types parse as an empty message, which the
// handler rejects as missing input.
func ParseChatBody(r *http.Request) (*ChatBody, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.Contains(contentType, "application/json") {
		var body struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "failed to decode chat body")
		}
		return &ChatBody{Message: strings.TrimSpace(body.Message)}, nil
	}

	if strings.Contains(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, errors.Wrap(err, "failed to parse multipart form")
		}
		parsed := &ChatBody{Message: strings.TrimSpace(r.FormValue("message"))}
		if r.MultipartForm != nil {
			for _, header := range r.MultipartForm.File["files"] {
				file, err := header.Open()
				if err != nil {
					return nil, errors.Wrapf(err, "failed to open upload %s", header.Filename)
				}
				data, err := io.ReadAll(file)
				file.Close()
				if err != nil {
					return nil, errors.Wrapf(err, "failed to read upload %s", header.Filename)
				}
				parsed.Attachments = append(parsed.Attachments, Attachment{
					Filename:    header.Filename,
					ContentType: header.Header.Get("Content-Type"),
					Data:        data,
				})
			}
		}
		return parsed, nil
	}

	return &ChatBody{}, nil
}

// ValidateImages enforces count, per-file size, and MIME type limits.
func ValidateImages(attachments []Attachment) error {
	if len(attachments) > MaxImageCount {
		return &ValidationError{
			Code:    "TOO_MANY",
			Message: fmt.Sprintf("Maximum %d images allowed. You attached %d.", MaxImageCount, len(attachments)),
		}
	}
	for _, a := range attachments {
		if len(a.Data) > MaxImageBytes {
			mb := float64(MaxImageBytes) / (1024 * 1024)
			return &ValidationError{
				Code:    "TOO_LARGE",
				Message: fmt.Sprintf("Image %q is too large. Maximum %.1fMB per file.", a.Filename, mb),
			}
		}
		if !allowedImageTypes[a.ContentType] {
			return &ValidationError{
				Code:    "INVALID_TYPE",
				Message: fmt.Sprintf("Image %q has unsupported type %q. Allowed: jpeg, png, webp.", a.Filename, a.ContentType),
			}
		}
	}
	return nil
}

// DataURLs encodes attachments as base64 data URLs for the vision API.
func DataURLs(attachments []Attachment) []string {
	urls := make([]string, 0, len(attachments))
	for _, a := range attachments {
		urls = append(urls, fmt.Sprintf("data:%s;base64,%s", a.ContentType, base64.StdEncoding.EncodeToString(a.Data)))
	}
	return urls
}
