package text2png

import (
	"bytes"
	"io"
	"strings"

	"text2png/internal/image"
)

// Result holds the rendered image in exactly one representation, selected
// by Kind.
type Result struct {
	Kind Output

	// Buffer is the encoded PNG for OutputBuffer.
	Buffer []byte
	// Stream yields the PNG as it is encoded, for OutputStream. The caller
	// must read it to EOF or close it; encoding errors surface from Read.
	Stream io.ReadCloser
	// DataURL is "data:image/png;base64,..." for OutputDataURL.
	DataURL string
	// Canvas is the live surface for OutputCanvas.
	Canvas *Canvas
}

func format(c *image.Canvas, out Output) (*Result, error) {
	res := &Result{Kind: out}
	switch out {
	case OutputBuffer:
		data, err := c.PNG()
		if err != nil {
			return nil, err
		}
		res.Buffer = data
	case OutputStream:
		res.Stream = stream(c)
	case OutputDataURL:
		url, err := c.DataURL()
		if err != nil {
			return nil, err
		}
		res.DataURL = url
	case OutputCanvas:
		res.Canvas = c
	default:
		return nil, &UnsupportedOutputError{Output: string(out)}
	}
	return res, nil
}

// stream encodes on a separate goroutine into a pipe.
func stream(c *image.Canvas) io.ReadCloser {
	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(c.EncodePNG(pw))
	}()
	return pr
}

// WriteTo writes the result to w: the PNG bytes for buffer, stream and
// canvas results, the URL text for data URLs.
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	switch r.Kind {
	case OutputStream:
		defer r.Stream.Close()
		return io.Copy(w, r.Stream)
	case OutputDataURL:
		return io.Copy(w, strings.NewReader(r.DataURL))
	case OutputCanvas:
		var buf bytes.Buffer
		if err := r.Canvas.EncodePNG(&buf); err != nil {
			return 0, err
		}
		return buf.WriteTo(w)
	default:
		return bytes.NewReader(r.Buffer).WriteTo(w)
	}
}
