//go:build ocr

package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps Tesseract for word-level recognition.
type Client struct {
	client *gosseract.Client
}

// New creates a Client for lang ("eng" when empty). The client should be
// closed when no longer needed to release resources.
func New(lang string) (*Client, error) {
	if lang == "" {
		lang = DefaultLanguage
	}
	client := gosseract.NewClient()
	if err := client.SetLanguage(lang); err != nil {
		client.Close()
		return nil, fmt.Errorf("setting language %q: %w", lang, err)
	}
	// Anchors are scattered numbers, not running text.
	if err := client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		client.Close()
		return nil, fmt.Errorf("setting page segmentation mode: %w", err)
	}
	return &Client{client: client}, nil
}

// Close releases OCR resources. It is safe to call more than once.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// Words performs OCR on image data (PNG, TIFF, JPEG, etc.) and returns
// every non-blank word with its bounding box.
func (c *Client) Words(img []byte) ([]Word, error) {
	if err := c.client.SetImageFromBytes(img); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	words := make([]Word, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		words = append(words, Word{Text: text, Box: b.Box, Confidence: b.Confidence})
	}
	return words, nil
}
