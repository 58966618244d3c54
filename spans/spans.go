// Package spans computes how a texture dimension is cut into tiles and
// iterates those tiles over arbitrary, possibly repeating, coordinate ranges.
//
// A Span is one tile interval along one axis. Exact-fit slicing emits spans of
// maxSpan followed by one smaller span; power-of-two slicing rounds the last
// span up to a power of two and records the padding as waste.
package spans

import "github.com/gogpu/cglib/internal/util"

// Span is a tile interval along one axis. The last Waste texels of the span
// are not covered by the logical texture and hold replicated edge pixels.
type Span struct {
	Start int
	Size  int
	Waste int
}

// Used returns the number of texels that belong to the logical texture.
func (s Span) Used() int { return s.Size - s.Waste }

// End returns the first coordinate after the used part of the span.
func (s Span) End() int { return s.Start + s.Size - s.Waste }

// Policy selects a slicing algorithm.
type Policy int

const (
	// PolicyRect cuts into maxSpan-sized tiles plus one exact remainder.
	PolicyRect Policy = iota
	// PolicyPOT only emits power-of-two tiles.
	PolicyPOT
)

// String returns "rect" or "pot".
func (p Policy) String() string {
	if p == PolicyPOT {
		return "pot"
	}
	return "rect"
}

// Spans computes the spans of size under p.
func (p Policy) Spans(size, maxSpan, maxWaste int) []Span {
	if p == PolicyPOT {
		return POTSpans(size, maxSpan, maxWaste)
	}
	return RectSpans(size, maxSpan, maxWaste)
}

// Count returns len(p.Spans(size, maxSpan, maxWaste)) without allocating.
func (p Policy) Count(size, maxSpan, maxWaste int) int {
	if p == PolicyPOT {
		return CountPOTSpans(size, maxSpan, maxWaste)
	}
	return CountRectSpans(size, maxSpan, maxWaste)
}

// RectSpans covers size with spans of maxSpan followed by one span holding
// the remainder. No span has waste; maxWaste is ignored.
// It returns nil when size or maxSpan is not positive.
func RectSpans(size, maxSpan, maxWaste int) []Span {
	var out []Span
	rectSpans(size, maxSpan, &out)
	return out
}

// CountRectSpans returns the number of spans RectSpans would produce.
func CountRectSpans(size, maxSpan, maxWaste int) int {
	return rectSpans(size, maxSpan, nil)
}

func rectSpans(size, maxSpan int, out *[]Span) int {
	if size <= 0 || maxSpan <= 0 {
		return 0
	}
	n := 0
	span := Span{Size: maxSpan}
	for size >= span.Size {
		if out != nil {
			*out = append(*out, span)
		}
		span.Start += span.Size
		size -= span.Size
		n++
	}
	if size > 0 {
		span.Size = size
		if out != nil {
			*out = append(*out, span)
		}
		n++
	}
	return n
}

// POTSpans covers size with power-of-two spans of at most maxSpan. Full
// spans are emitted while the remainder exceeds the current span size; once
// it fits, the span is halved until its waste is within maxWaste and the last
// span is the next power of two of the remainder. Negative maxWaste is
// treated as 0. maxSpan should itself be a power of two.
// It returns nil when size or maxSpan is not positive.
func POTSpans(size, maxSpan, maxWaste int) []Span {
	var out []Span
	potSpans(size, maxSpan, maxWaste, &out)
	return out
}

// CountPOTSpans returns the number of spans POTSpans would produce.
func CountPOTSpans(size, maxSpan, maxWaste int) int {
	return potSpans(size, maxSpan, maxWaste, nil)
}

func potSpans(size, maxSpan, maxWaste int, out *[]Span) int {
	if size <= 0 || maxSpan <= 0 {
		return 0
	}
	if maxWaste < 0 {
		maxWaste = 0
	}
	n := 0
	span := Span{Size: maxSpan}
	for {
		switch {
		case size > span.Size:
			if out != nil {
				*out = append(*out, span)
			}
			span.Start += span.Size
			size -= span.Size
			n++
		case span.Size-size <= maxWaste:
			// The next power of two can be smaller than span.Size.
			span.Size = util.NextPOT(size)
			span.Waste = span.Size - size
			if out != nil {
				*out = append(*out, span)
			}
			return n + 1
		default:
			for span.Size-size > maxWaste {
				span.Size /= 2
			}
		}
	}
}

// Total returns the number of logical texels covered by spans.
func Total(spans []Span) int {
	t := 0
	for _, s := range spans {
		t += s.Used()
	}
	return t
}
