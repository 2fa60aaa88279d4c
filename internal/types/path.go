// internal/types/path.go
package types

import (
	"strconv"
	"strings"
)

// Path addresses a node by the child indices leading to it from the editable
// root. The root itself has the empty path.
type Path []int

// Clone returns an independent copy of the path.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Equal reports whether two paths address the same position.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders the path as "/0/2/1" (the root is "/").
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, idx := range p {
		sb.WriteByte('/')
		sb.WriteString(strconv.Itoa(idx))
	}
	return sb.String()
}

// Point is a serializable caret position: the container's path plus an
// offset (runes for text nodes, children for elements).
type Point struct {
	Path   Path
	Offset int
}

// Clone returns a deep copy of the point.
func (pt Point) Clone() Point {
	return Point{Path: pt.Path.Clone(), Offset: pt.Offset}
}

// Snapshot is a saved selection. A nil *Snapshot means "no selection".
type Snapshot struct {
	StartPath   Path
	StartOffset int
	EndPath     Path
	EndOffset   int
}

// NewSnapshot builds a snapshot from two points, copying the paths.
func NewSnapshot(start, end Point) *Snapshot {
	return &Snapshot{
		StartPath:   start.Path.Clone(),
		StartOffset: start.Offset,
		EndPath:     end.Path.Clone(),
		EndOffset:   end.Offset,
	}
}

// Start returns the start boundary as a Point.
func (s *Snapshot) Start() Point { return Point{Path: s.StartPath, Offset: s.StartOffset} }

// End returns the end boundary as a Point.
func (s *Snapshot) End() Point { return Point{Path: s.EndPath, Offset: s.EndOffset} }

// Collapsed reports whether start and end coincide.
func (s *Snapshot) Collapsed() bool {
	return s.StartOffset == s.EndOffset && s.StartPath.Equal(s.EndPath)
}

// Clone returns a deep copy; nil stays nil.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	return NewSnapshot(s.Start(), s.End())
}

func (s *Snapshot) String() string {
	if s == nil {
		return "<none>"
	}
	return s.StartPath.String() + ":" + strconv.Itoa(s.StartOffset) + "-" +
		s.EndPath.String() + ":" + strconv.Itoa(s.EndOffset)
}
