package flatten

import (
	"strconv"
	"strings"
)

// Segment is one step of a Path: either an object key or an array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Field returns a key segment.
func Field(key string) Segment { return Segment{Key: key} }

// Element returns an index segment.
func Element(i int) Segment { return Segment{Index: i, IsIndex: true} }

func (s Segment) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return s.Key
}

// Path addresses a single location inside a nested document. The canonical
// rendering uses dot-separated keys and bracketed indices
// (root.children[2].props.text). Segments are authoritative: keys containing
// dots render ambiguously but compare exactly.
type Path struct {
	segs     []Segment
	rendered string
}

// NewPath builds a Path from segments.
func NewPath(segs ...Segment) Path {
	return Path{segs: segs, rendered: render(segs)}
}

// Render joins segments into the canonical dot/bracket form. Useful for
// rendering a path suffix relative to an owning node.
func Render(segs ...Segment) string { return render(segs) }

func render(segs []Segment) string {
	var b strings.Builder
	for i, s := range segs {
		if s.IsIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.Key)
	}
	return b.String()
}

// String returns the canonical dot/bracket rendering.
func (p Path) String() string { return p.rendered }

// Len returns the number of segments.
func (p Path) Len() int { return len(p.segs) }

// IsEmpty reports whether the path has no segments (the document root).
func (p Path) IsEmpty() bool { return len(p.segs) == 0 }

// At returns the i-th segment.
func (p Path) At(i int) Segment { return p.segs[i] }

// Segments returns the segment list. Callers must not mutate it.
func (p Path) Segments() []Segment { return p.segs }

// Child extends the path with a key segment.
func (p Path) Child(key string) Path { return p.append(Field(key)) }

// Elem extends the path with an index segment.
func (p Path) Elem(i int) Path { return p.append(Element(i)) }

func (p Path) append(s Segment) Path {
	segs := make([]Segment, len(p.segs)+1)
	copy(segs, p.segs)
	segs[len(p.segs)] = s
	return Path{segs: segs, rendered: render(segs)}
}

// Prefix returns the path truncated to its first n segments.
func (p Path) Prefix(n int) Path {
	if n >= len(p.segs) {
		return p
	}
	return NewPath(p.segs[:n]...)
}

// Equal reports segment-wise equality.
func (p Path) Equal(q Path) bool {
	if len(p.segs) != len(q.segs) {
		return false
	}
	for i := range p.segs {
		if p.segs[i] != q.segs[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether q is a segment-prefix of p (including equality).
func (p Path) HasPrefix(q Path) bool {
	if len(q.segs) > len(p.segs) {
		return false
	}
	for i := range q.segs {
		if p.segs[i] != q.segs[i] {
			return false
		}
	}
	return true
}

func commonPrefixLen(a, b []Segment) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
