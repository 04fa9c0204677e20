// Package attach builds message attachments. Payloads are base64-encoded
// inline in the attachment's data field so a session stays a single
// self-contained store record.
package attach

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/user/privai/internal/types"
)

const maxImportChars = 50000

// FromBytes builds an attachment from raw file content. Image MIME types
// get the image attachment type, everything else is a plain file.
func FromBytes(name, mimeType string, data []byte) types.Attachment {
	kind := types.AttachmentFile
	if strings.HasPrefix(mimeType, "image/") {
		kind = types.AttachmentImage
	}
	return types.Attachment{
		ID:       types.NewAttachmentID(),
		Type:     kind,
		Name:     name,
		Data:     base64.StdEncoding.EncodeToString(data),
		MimeType: mimeType,
	}
}

// Decode returns an attachment's raw payload.
func Decode(a types.Attachment) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(a.Data)
	if err != nil {
		return nil, fmt.Errorf("decode attachment %s: %w", a.Name, err)
	}
	return data, nil
}

// Importer fetches web pages and attaches them as markdown files.
type Importer struct {
	client *http.Client
}

func NewImporter() *Importer {
	return &Importer{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// FromURL fetches the URL, converts its HTML to markdown, and packages
// the result as a file attachment named after the URL.
func (im *Importer) FromURL(ctx context.Context, rawURL string) (types.Attachment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return types.Attachment{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "PrivAI/1.0")

	resp, err := im.client.Do(req)
	if err != nil {
		return types.Attachment{}, fmt.Errorf("fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Attachment{}, fmt.Errorf("HTTP error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.Attachment{}, fmt.Errorf("read body: %w", err)
	}

	md, err := htmltomarkdown.ConvertString(string(body))
	if err != nil {
		return types.Attachment{}, fmt.Errorf("convert to markdown: %w", err)
	}
	if len(md) > maxImportChars {
		md = md[:maxImportChars] + "\n\n[Content truncated]"
	}

	return FromBytes(rawURL, "text/markdown", []byte(md)), nil
}
