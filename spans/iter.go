package spans

import "math"

// Wrap selects how an Iter continues past the last span.
type Wrap int

const (
	// WrapRepeat restarts at the first span.
	WrapRepeat Wrap = iota
	// WrapMirroredRepeat walks the spans backwards on every other repeat.
	WrapMirroredRepeat
)

// Iter walks the spans that intersect a range [coverStart, coverEnd) of an
// axis whose spans repeat every normalizeFactor units. Positions are in the
// same units as the spans. Use it as
//
//	for it := NewIter(s, n, a, b, WrapRepeat); !it.Done(); it.Next() { ... }
type Iter struct {
	spans []Span
	wrap  Wrap

	index     int
	mirrorDir int

	origin     float64
	pos        float64
	nextPos    float64
	coverStart float64
	coverEnd   float64

	intersects     bool
	intersectStart float64
	intersectEnd   float64
	flipped        bool
}

// NewIter starts iterating spans over [coverStart, coverEnd). A reversed
// range is swapped and reported through Flipped.
func NewIter(spans []Span, normalizeFactor, coverStart, coverEnd float64, wrap Wrap) *Iter {
	it := &Iter{spans: spans, wrap: wrap, mirrorDir: 1}
	if coverStart > coverEnd {
		coverStart, coverEnd = coverEnd, coverStart
		it.flipped = true
	}
	it.coverStart, it.coverEnd = coverStart, coverEnd

	// Iteration always starts at a repeat boundary at or before coverStart.
	repeat := math.Floor(coverStart / normalizeFactor)
	it.origin = repeat * normalizeFactor
	if wrap == WrapMirroredRepeat && int64(repeat)%2 != 0 {
		it.mirrorDir = -1
		it.index = len(spans) - 1
	}
	it.pos = it.origin

	if Total(spans) <= 0 {
		it.pos = coverEnd
		return it
	}

	it.update()
	for it.nextPos <= it.coverStart {
		it.Next()
	}
	return it
}

func (it *Iter) update() {
	s := it.spans[it.index]
	it.nextPos = it.pos + float64(s.Used())
	if it.nextPos <= it.coverStart || it.pos >= it.coverEnd {
		it.intersects = false
		return
	}
	it.intersects = true
	it.intersectStart = math.Max(it.pos, it.coverStart)
	it.intersectEnd = math.Min(it.nextPos, it.coverEnd)
}

// Next advances to the following span, wrapping according to the wrap mode.
func (it *Iter) Next() {
	it.pos = it.nextPos
	it.index += it.mirrorDir
	if it.index == len(it.spans) || it.index == -1 {
		switch it.wrap {
		case WrapMirroredRepeat:
			it.mirrorDir = -it.mirrorDir
			it.index += it.mirrorDir
		default:
			it.index = 0
		}
	}
	it.update()
}

// Done reports whether the whole range has been covered.
func (it *Iter) Done() bool { return it.pos >= it.coverEnd }

// Index returns the index of the current span.
func (it *Iter) Index() int { return it.index }

// Span returns the current span.
func (it *Iter) Span() Span { return it.spans[it.index] }

// Pos returns where the current span starts on the iterated axis.
func (it *Iter) Pos() float64 { return it.pos }

// NextPos returns where the current span ends on the iterated axis.
func (it *Iter) NextPos() float64 { return it.nextPos }

// Intersects reports whether the current span overlaps the range.
func (it *Iter) Intersects() bool { return it.intersects }

// IntersectStart returns the start of the overlap with the range.
func (it *Iter) IntersectStart() float64 { return it.intersectStart }

// IntersectEnd returns the end of the overlap with the range.
func (it *Iter) IntersectEnd() float64 { return it.intersectEnd }

// Flipped reports whether the range was given in decreasing order.
func (it *Iter) Flipped() bool { return it.flipped }

// RegionFunc receives one tile touched by ForeachInRegion. tile indexes the
// row-major tile grid (y*len(xSpans) + x). slice holds tile-local normalized
// coordinates (s1, t1, s2, t2); virtual holds the covered part of the region
// in the original coordinate units.
type RegionFunc func(tile int, slice, virtual [4]float64)

// ForeachInRegion calls fn for every tile that the rectangle coords
// (x1, y1, x2, y2) touches. The spans repeat every xNormalize/yNormalize units.
func ForeachInRegion(xSpans, ySpans []Span, coords [4]float64, xNormalize, yNormalize float64, wrapX, wrapY Wrap, fn RegionFunc) {
	var slice, virtual [4]float64

	for iy := NewIter(ySpans, yNormalize, coords[1], coords[3], wrapY); !iy.Done(); iy.Next() {
		ys := float64(iy.Span().Size)
		if iy.Flipped() {
			slice[1], slice[3] = iy.IntersectEnd(), iy.IntersectStart()
		} else {
			slice[1], slice[3] = iy.IntersectStart(), iy.IntersectEnd()
		}
		slice[1] = (slice[1] - iy.Pos()) / ys
		slice[3] = (slice[3] - iy.Pos()) / ys

		for ix := NewIter(xSpans, xNormalize, coords[0], coords[2], wrapX); !ix.Done(); ix.Next() {
			xs := float64(ix.Span().Size)
			if ix.Flipped() {
				slice[0], slice[2] = ix.IntersectEnd(), ix.IntersectStart()
			} else {
				slice[0], slice[2] = ix.IntersectStart(), ix.IntersectEnd()
			}
			slice[0] = (slice[0] - ix.Pos()) / xs
			slice[2] = (slice[2] - ix.Pos()) / xs

			virtual = [4]float64{ix.IntersectStart(), iy.IntersectStart(), ix.IntersectEnd(), iy.IntersectEnd()}
			fn(iy.Index()*len(xSpans)+ix.Index(), slice, virtual)
		}
	}
}
