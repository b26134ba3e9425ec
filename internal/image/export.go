package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"io"
)

// EncodePNG writes the surface to w as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	if c.factor == 1 {
		return c.dc.EncodePNG(w)
	}
	return png.Encode(w, c.Image())
}

// PNG returns the encoded surface.
func (c *Canvas) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURL returns the surface as a base64 data: URL.
func (c *Canvas) DataURL() (string, error) {
	data, err := c.PNG()
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
