// Package flatten converts nested JSON documents into an ordered path/value
// representation and back. Flattening is token-driven so that object key
// order and array order survive the round trip.
package flatten

import (
	"encoding/json"
	"fmt"
	"io"

	j "github.com/goccy/go-json"
)

// EmptyObject marks a path whose value was an object with no members.
type EmptyObject struct{}

// EmptyArray marks a path whose value was an array with no elements.
type EmptyArray struct{}

// Pair is one flattened leaf. Value is one of: string, json.Number, bool,
// nil, EmptyObject, EmptyArray.
type Pair struct {
	Path  Path
	Value any
}

// Document is the insertion-ordered flattened form of a JSON document.
// A document whose top level is an empty container flattens to a single pair
// with an empty path.
type Document []Pair

// Lookup returns the value stored at the rendered path, if any.
func (d Document) Lookup(path string) (any, bool) {
	for _, p := range d {
		if p.Path.String() == path {
			return p.Value, true
		}
	}
	return nil, false
}

// ParseError reports input that is not a valid document shape: malformed
// JSON, a bare scalar top level, duplicate sibling keys, or nesting beyond
// the depth limit.
type ParseError struct {
	Msg    string
	Offset int64 // byte offset when known, -1 otherwise
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("flatten: %s: %v", e.Msg, e.Err)
	}
	return "flatten: " + e.Msg
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseErrf(src Source, err error, format string, args ...any) *ParseError {
	off := int64(-1)
	if src != nil {
		off = src.Location()
	}
	return &ParseError{Msg: fmt.Sprintf(format, args...), Offset: off, Err: err}
}

// DefaultMaxDepth bounds container nesting during flattening. Perspective
// views nest a few dozen levels at most.
const DefaultMaxDepth = 128

// Options tunes flattening enforcement.
type Options struct {
	// MaxDepth overrides DefaultMaxDepth when positive.
	MaxDepth int
}

type buildFrame struct {
	isArray   bool
	keys      map[string]struct{} // duplicate sibling key detection
	nextIndex int
	pending   string // key awaiting its value (objects only)
	hasKey    bool
	members   int
}

// Flatten consumes the token source and produces the ordered path/value
// pairs. The top level must be an object or array.
func Flatten(src Source, opts ...Options) (Document, error) {
	var opt Options
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	maxDepth := opt.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	tok, err := src.NextToken()
	if err != nil {
		return nil, parseErrf(src, err, "reading document")
	}
	if tok.Kind != KindBeginObject && tok.Kind != KindBeginArray {
		return nil, parseErrf(src, nil, "top-level value must be an object or array")
	}

	var (
		doc   Document
		stack []buildFrame
		segs  []Segment
	)
	push := func(isArray bool) error {
		if len(stack) >= maxDepth {
			return parseErrf(src, nil, "nesting exceeds %d levels", maxDepth)
		}
		stack = append(stack, buildFrame{isArray: isArray, keys: map[string]struct{}{}})
		return nil
	}
	if err := push(tok.Kind == KindBeginArray); err != nil {
		return nil, err
	}

	// currentPath appends the open frame's pending member segment.
	currentPath := func() Path {
		top := &stack[len(stack)-1]
		if top.isArray {
			return NewPath(append(append([]Segment(nil), segs...), Element(top.nextIndex))...)
		}
		return NewPath(append(append([]Segment(nil), segs...), Field(top.pending))...)
	}

	emit := func(v any) {
		top := &stack[len(stack)-1]
		doc = append(doc, Pair{Path: currentPath(), Value: v})
		if top.isArray {
			top.nextIndex++
		} else {
			top.hasKey = false
		}
		top.members++
	}

	for {
		tok, err = src.NextToken()
		if err == io.EOF {
			if len(stack) != 0 {
				return nil, parseErrf(src, nil, "unexpected end of document")
			}
			return doc, nil
		}
		if err != nil {
			return nil, parseErrf(src, err, "reading document")
		}
		if len(stack) == 0 {
			return nil, parseErrf(src, nil, "trailing data after document")
		}
		top := &stack[len(stack)-1]

		switch tok.Kind {
		case KindKey:
			if top.isArray || top.hasKey {
				return nil, parseErrf(src, nil, "unexpected key %q", tok.String)
			}
			if _, dup := top.keys[tok.String]; dup {
				return nil, parseErrf(src, nil, "duplicate key %q", tok.String)
			}
			top.keys[tok.String] = struct{}{}
			top.pending = tok.String
			top.hasKey = true

		case KindBeginObject, KindBeginArray:
			segs = append(segs, memberSegment(top))
			advanceMember(top)
			if err := push(tok.Kind == KindBeginArray); err != nil {
				return nil, err
			}

		case KindEndObject, KindEndArray:
			closed := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if closed.members == 0 {
				var v any = EmptyObject{}
				if closed.isArray {
					v = EmptyArray{}
				}
				doc = append(doc, Pair{Path: NewPath(segs...), Value: v})
			}
			if len(segs) > 0 {
				segs = segs[:len(segs)-1]
			}

		case KindString:
			emit(tok.String)
		case KindNumber:
			emit(json.Number(tok.Number))
		case KindBool:
			emit(tok.Bool)
		case KindNull:
			emit(nil)
		}
	}
}

// memberSegment returns the segment the next member of the frame occupies.
func memberSegment(top *buildFrame) Segment {
	if top.isArray {
		return Element(top.nextIndex)
	}
	return Field(top.pending)
}

func advanceMember(top *buildFrame) {
	if top.isArray {
		top.nextIndex++
	} else {
		top.hasKey = false
	}
	top.members++
}

// FlattenBytes flattens a raw JSON document using the current driver.
func FlattenBytes(b []byte, opts ...Options) (Document, error) {
	return Flatten(JSONBytes(b), opts...)
}

// FlattenReader flattens a JSON stream using the current driver.
func FlattenReader(r io.Reader, opts ...Options) (Document, error) {
	return Flatten(JSONReader(r), opts...)
}

// Unflatten renders the flattened document back to compact JSON, preserving
// key and array order. It is defined only for Flatten output; arbitrary path
// sets may produce an error.
func Unflatten(doc Document) ([]byte, error) {
	if len(doc) == 0 {
		return nil, fmt.Errorf("flatten: cannot unflatten an empty document")
	}
	if doc[0].Path.IsEmpty() {
		if len(doc) != 1 {
			return nil, fmt.Errorf("flatten: root pair must stand alone")
		}
		switch doc[0].Value.(type) {
		case EmptyObject:
			return []byte("{}"), nil
		case EmptyArray:
			return []byte("[]"), nil
		}
		return nil, fmt.Errorf("flatten: scalar at document root")
	}

	var out []byte
	// counts[d] tracks members emitted into the container at depth d;
	// kinds[d] records whether that container is an array.
	var counts []int
	var kinds []bool

	open := func(isArray bool) {
		if isArray {
			out = append(out, '[')
		} else {
			out = append(out, '{')
		}
		counts = append(counts, 0)
		kinds = append(kinds, isArray)
	}
	closeOne := func() {
		d := len(kinds) - 1
		if kinds[d] {
			out = append(out, ']')
		} else {
			out = append(out, '}')
		}
		counts = counts[:d]
		kinds = kinds[:d]
	}

	var prev []Segment
	open(doc[0].Path.At(0).IsIndex)
	for _, pair := range doc {
		segs := pair.Path.Segments()
		if len(segs) == 0 {
			return nil, fmt.Errorf("flatten: root pair must stand alone")
		}
		l := commonPrefixLen(prev, segs)
		if l == len(segs) || l >= len(kinds) {
			return nil, fmt.Errorf("flatten: conflicting paths at %s", pair.Path)
		}
		for len(kinds) > l+1 {
			closeOne()
		}
		for d := l; d < len(segs); d++ {
			seg := segs[d]
			if seg.IsIndex != kinds[d] {
				return nil, fmt.Errorf("flatten: container kind mismatch at %s", pair.Path.Prefix(d+1))
			}
			if counts[d] > 0 {
				out = append(out, ',')
			}
			counts[d]++
			if !seg.IsIndex {
				key, err := j.Marshal(seg.Key)
				if err != nil {
					return nil, err
				}
				out = append(out, key...)
				out = append(out, ':')
			}
			if d < len(segs)-1 {
				open(segs[d+1].IsIndex)
			}
		}
		leaf, err := renderLeaf(pair.Value)
		if err != nil {
			return nil, fmt.Errorf("flatten: %s: %w", pair.Path, err)
		}
		out = append(out, leaf...)
		prev = segs
	}
	for len(kinds) > 0 {
		closeOne()
	}
	return out, nil
}

func renderLeaf(v any) ([]byte, error) {
	switch t := v.(type) {
	case nil:
		return []byte("null"), nil
	case bool:
		if t {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case string:
		return j.Marshal(t)
	case json.Number:
		return []byte(t), nil
	case EmptyObject:
		return []byte("{}"), nil
	case EmptyArray:
		return []byte("[]"), nil
	default:
		return nil, fmt.Errorf("unsupported leaf value %T", v)
	}
}
