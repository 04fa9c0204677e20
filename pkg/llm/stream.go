package llm

import (
	"io"
	"net/http"
)

// ExtractFunc pulls the incremental text out of one decoded frame payload.
// done reports an explicit end-of-stream marker (the OpenAI-family
// `[DONE]` frame). Frames that fail to parse must yield ("", false) so the
// stream skips them instead of failing; partial and keep-alive frames are
// expected.
type ExtractFunc func(payload []byte) (text string, done bool)

type sseStream struct {
	resp    *http.Response
	dec     *SSEDecoder
	extract ExtractFunc
	done    bool
}

// NewSSEStream decodes resp's body as an SSE token stream using extract.
// The stream owns the response body and closes it on Close.
func NewSSEStream(resp *http.Response, extract ExtractFunc) Stream {
	return &sseStream{
		resp:    resp,
		dec:     NewSSEDecoder(resp.Body),
		extract: extract,
	}
}

func (s *sseStream) Recv() (string, error) {
	if s.done {
		return "", io.EOF
	}
	for {
		payload, err := s.dec.Next()
		if err != nil {
			s.done = true
			if err == io.EOF {
				return "", io.EOF
			}
			return "", err
		}
		text, done := s.extract(payload)
		if done {
			s.done = true
			return "", io.EOF
		}
		if text != "" {
			return text, nil
		}
	}
}

func (s *sseStream) Close() error {
	s.done = true
	return s.resp.Body.Close()
}
