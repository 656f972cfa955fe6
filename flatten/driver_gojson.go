package flatten

import (
	"bytes"
	"io"
	"strconv"

	j "github.com/goccy/go-json"
)

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

// gojsonDriver is the default Driver, backed by goccy/go-json.
type gojsonDriver struct{}

func (gojsonDriver) NewReader(r io.Reader) Source { return newGojsonSource(r) }
func (gojsonDriver) NewBytes(b []byte) Source     { return newGojsonSource(bytes.NewReader(b)) }
func (gojsonDriver) Name() string                 { return "go-json" }

type gojsonSource struct {
	dec   *j.Decoder
	stack []frame
}

func newGojsonSource(r io.Reader) *gojsonSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &gojsonSource{dec: dec}
}

// noteValue flips the top object frame back to expecting a key after a value
// token has been consumed.
func (s *gojsonSource) noteValue() {
	if n := len(s.stack); n > 0 {
		top := &s.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
		}
	}
}

func (s *gojsonSource) NextToken() (Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if err == io.EOF {
			return Token{}, io.EOF
		}
		return Token{}, err
	}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, frame{kind: kindObject, expectingKey: true})
			return Token{Kind: KindBeginObject, Offset: -1}, nil
		case '}':
			if n := len(s.stack); n > 0 {
				s.stack = s.stack[:n-1]
			}
			s.noteValue()
			return Token{Kind: KindEndObject, Offset: -1}, nil
		case '[':
			s.stack = append(s.stack, frame{kind: kindArray})
			return Token{Kind: KindBeginArray, Offset: -1}, nil
		case ']':
			if n := len(s.stack); n > 0 {
				s.stack = s.stack[:n-1]
			}
			s.noteValue()
			return Token{Kind: KindEndArray, Offset: -1}, nil
		}
	case string:
		if n := len(s.stack); n > 0 {
			top := &s.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				top.expectingKey = false
				return Token{Kind: KindKey, String: v, Offset: -1}, nil
			}
		}
		s.noteValue()
		return Token{Kind: KindString, String: v, Offset: -1}, nil
	case bool:
		s.noteValue()
		return Token{Kind: KindBool, Bool: v, Offset: -1}, nil
	case j.Number:
		s.noteValue()
		return Token{Kind: KindNumber, Number: string(v), Offset: -1}, nil
	case float64:
		s.noteValue()
		return Token{Kind: KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: -1}, nil
	case nil:
		s.noteValue()
		return Token{Kind: KindNull, Offset: -1}, nil
	}
	s.noteValue()
	return Token{Kind: KindNull, Offset: -1}, nil
}

func (s *gojsonSource) Location() int64 { return -1 }
