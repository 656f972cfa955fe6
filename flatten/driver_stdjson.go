package flatten

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
)

// StdJSONDriver returns a Driver backed by encoding/json. It trades the
// default driver's throughput for exact byte offsets in errors.
func StdJSONDriver() Driver { return stdjsonDriver{} }

type stdjsonDriver struct{}

func (stdjsonDriver) NewReader(r io.Reader) Source { return newStdjsonSource(r) }
func (stdjsonDriver) NewBytes(b []byte) Source     { return newStdjsonSource(bytes.NewReader(b)) }
func (stdjsonDriver) Name() string                 { return "encoding/json" }

type stdjsonSource struct {
	dec        *json.Decoder
	stack      []frame
	lastOffset int64
}

func newStdjsonSource(r io.Reader) *stdjsonSource {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &stdjsonSource{dec: dec, lastOffset: -1}
}

func (s *stdjsonSource) noteValue() {
	if n := len(s.stack); n > 0 {
		top := &s.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
		}
	}
}

func (s *stdjsonSource) NextToken() (Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if err == io.EOF {
			return Token{}, io.EOF
		}
		return Token{}, err
	}
	s.lastOffset = s.dec.InputOffset()

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, frame{kind: kindObject, expectingKey: true})
			return Token{Kind: KindBeginObject, Offset: s.lastOffset}, nil
		case '}':
			if n := len(s.stack); n > 0 {
				s.stack = s.stack[:n-1]
			}
			s.noteValue()
			return Token{Kind: KindEndObject, Offset: s.lastOffset}, nil
		case '[':
			s.stack = append(s.stack, frame{kind: kindArray})
			return Token{Kind: KindBeginArray, Offset: s.lastOffset}, nil
		case ']':
			if n := len(s.stack); n > 0 {
				s.stack = s.stack[:n-1]
			}
			s.noteValue()
			return Token{Kind: KindEndArray, Offset: s.lastOffset}, nil
		}
	case string:
		if n := len(s.stack); n > 0 {
			top := &s.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				top.expectingKey = false
				return Token{Kind: KindKey, String: v, Offset: s.lastOffset}, nil
			}
		}
		s.noteValue()
		return Token{Kind: KindString, String: v, Offset: s.lastOffset}, nil
	case bool:
		s.noteValue()
		return Token{Kind: KindBool, Bool: v, Offset: s.lastOffset}, nil
	case json.Number:
		s.noteValue()
		return Token{Kind: KindNumber, Number: string(v), Offset: s.lastOffset}, nil
	case float64:
		s.noteValue()
		return Token{Kind: KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: s.lastOffset}, nil
	case nil:
		s.noteValue()
		return Token{Kind: KindNull, Offset: s.lastOffset}, nil
	}
	s.noteValue()
	return Token{Kind: KindNull, Offset: s.lastOffset}, nil
}

func (s *stdjsonSource) Location() int64 { return s.lastOffset }
