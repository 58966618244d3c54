package spans

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/gogpu/cglib/internal/util"
)

func TestRectSpans(t *testing.T) {
	tests := []struct {
		size, max int
		want      []Span
	}{
		{300, 256, []Span{{0, 256, 0}, {256, 44, 0}}},
		{256, 256, []Span{{0, 256, 0}}},
		{10, 256, []Span{{0, 10, 0}}},
		{600, 200, []Span{{0, 200, 0}, {200, 200, 0}, {400, 200, 0}}},
		{0, 256, nil},
	}
	for _, tt := range tests {
		got := RectSpans(tt.size, tt.max, 0)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("RectSpans(%d, %d) = %v, want %v", tt.size, tt.max, got, tt.want)
		}
		if n := CountRectSpans(tt.size, tt.max, 0); n != len(tt.want) {
			t.Errorf("CountRectSpans(%d, %d) = %d, want %d", tt.size, tt.max, n, len(tt.want))
		}
	}
}

func TestPOTSpans(t *testing.T) {
	tests := []struct {
		size, max, waste int
		want             []Span
	}{
		// Remainder 4 must be covered exactly when no waste is allowed.
		{260, 256, 0, []Span{{0, 256, 0}, {256, 4, 0}}},
		{300, 256, 127, []Span{{0, 256, 0}, {256, 64, 20}}},
		{200, 256, 127, []Span{{0, 256, 56}}},
		{200, 256, 10, []Span{{0, 128, 0}, {128, 64, 0}, {192, 8, 0}}},
		{5, 8, -1, []Span{{0, 4, 0}, {4, 1, 0}}},
	}
	for _, tt := range tests {
		got := POTSpans(tt.size, tt.max, tt.waste)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("POTSpans(%d, %d, %d) = %v, want %v", tt.size, tt.max, tt.waste, got, tt.want)
		}
		if n := CountPOTSpans(tt.size, tt.max, tt.waste); n != len(tt.want) {
			t.Errorf("CountPOTSpans(%d, %d, %d) = %d, want %d", tt.size, tt.max, tt.waste, n, len(tt.want))
		}
	}
}

func checkContiguous(t *testing.T, spans []Span) {
	t.Helper()
	for i := 1; i < len(spans); i++ {
		if spans[i].Start != spans[i-1].Start+spans[i-1].Size {
			t.Fatalf("spans not contiguous at %d: %v", i, spans)
		}
	}
}

func TestSpanSumsProperty(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		size := 1 + r.Intn(5000)
		maxSpan := 1 << uint(r.Intn(13))
		maxWaste := r.Intn(300) - 1

		for _, p := range []Policy{PolicyRect, PolicyPOT} {
			s := p.Spans(size, maxSpan, maxWaste)
			if got := Total(s); got != size {
				t.Fatalf("%v.Spans(%d, %d, %d) covers %d: %v", p, size, maxSpan, maxWaste, got, s)
			}
			if p.Count(size, maxSpan, maxWaste) != len(s) {
				t.Fatalf("%v count mismatch for %d", p, size)
			}
			checkContiguous(t, s)
		}
	}
}

func TestPOTShapeProperty(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 2000; i++ {
		size := 1 + r.Intn(5000)
		maxSpan := 1 << uint(r.Intn(13))
		maxWaste := r.Intn(300)

		s := POTSpans(size, maxSpan, maxWaste)
		for j, sp := range s {
			if !util.IsPOT(sp.Size) {
				t.Fatalf("POTSpans(%d, %d, %d)[%d] size %d is not a power of two", size, maxSpan, maxWaste, j, sp.Size)
			}
			if j < len(s)-1 && sp.Waste != 0 {
				t.Fatalf("non-terminal span %d has waste: %v", j, s)
			}
		}
		if last := s[len(s)-1]; last.Waste > maxWaste {
			t.Fatalf("terminal waste %d exceeds budget %d", last.Waste, maxWaste)
		}
	}
}
