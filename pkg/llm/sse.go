package llm

import (
	"bufio"
	"bytes"
	"io"
)

// SSEDecoder splits a server-sent-event response body into `data:` frame
// payloads. Bytes after the last newline are retained as look-behind until
// the next read completes the line.
type SSEDecoder struct {
	r *bufio.Reader
}

// NewSSEDecoder wraps a streaming response body.
func NewSSEDecoder(r io.Reader) *SSEDecoder {
	return &SSEDecoder{r: bufio.NewReaderSize(r, 64*1024)}
}

// Next returns the payload of the next `data: ` line. Lines without the
// prefix (comments, blank keep-alive separators, event names) are skipped.
// Returns io.EOF at end of stream.
func (d *SSEDecoder) Next() ([]byte, error) {
	for {
		line, err := d.r.ReadBytes('\n')
		line = bytes.TrimRight(line, "\r\n")
		if payload, ok := bytes.CutPrefix(line, []byte("data: ")); ok {
			return payload, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
