package spans

import (
	"math"
	"testing"
)

type step struct {
	index      int
	pos        float64
	start, end float64
}

func collect(it *Iter) []step {
	var out []step
	for ; !it.Done(); it.Next() {
		out = append(out, step{it.Index(), it.Pos(), it.IntersectStart(), it.IntersectEnd()})
	}
	return out
}

func TestIterWithinTexture(t *testing.T) {
	s := RectSpans(300, 256, 0)
	got := collect(NewIter(s, 300, 100, 280, WrapRepeat))
	want := []step{{0, 0, 100, 256}, {1, 256, 256, 280}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("step %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestIterSkipsLeadingSpans(t *testing.T) {
	s := RectSpans(300, 100, 0)
	got := collect(NewIter(s, 300, 250, 260, WrapRepeat))
	if len(got) != 1 || got[0].index != 2 || got[0].start != 250 || got[0].end != 260 {
		t.Fatalf("got %v", got)
	}
}

func TestIterRepeat(t *testing.T) {
	s := RectSpans(300, 256, 0)
	got := collect(NewIter(s, 300, -50, 350, WrapRepeat))
	// Origin snaps to -300; the range crosses into the previous and next repeat.
	want := []step{
		{0, -300, -50, -44},
		{1, -44, -44, 0},
		{0, 0, 0, 256},
		{1, 256, 256, 300},
		{0, 300, 300, 350},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("step %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestIterMirroredRepeat(t *testing.T) {
	s := RectSpans(300, 200, 0) // [0,200) [200,300)
	got := collect(NewIter(s, 300, 0, 600, WrapMirroredRepeat))
	wantIdx := []int{0, 1, 1, 0}
	if len(got) != len(wantIdx) {
		t.Fatalf("got %v", got)
	}
	for i := range got {
		if got[i].index != wantIdx[i] {
			t.Errorf("step %d index = %d, want %d", i, got[i].index, wantIdx[i])
		}
	}
	if got[2].pos != 300 || got[2].end != 400 {
		t.Errorf("mirrored span = %v, want pos 300 end 400", got[2])
	}
}

func TestIterFlipped(t *testing.T) {
	s := RectSpans(100, 100, 0)
	it := NewIter(s, 100, 80, 20, WrapRepeat)
	if !it.Flipped() {
		t.Fatal("reversed range must be flipped")
	}
	if it.IntersectStart() != 20 || it.IntersectEnd() != 80 {
		t.Errorf("intersection = [%v, %v)", it.IntersectStart(), it.IntersectEnd())
	}
}

func TestForeachInRegion(t *testing.T) {
	x := RectSpans(300, 256, 0)
	y := RectSpans(300, 256, 0)
	type hit struct {
		tile           int
		slice, virtual [4]float64
	}
	var hits []hit
	ForeachInRegion(x, y, [4]float64{0, 0, 300, 300}, 300, 300, WrapRepeat, WrapRepeat,
		func(tile int, slice, virtual [4]float64) {
			hits = append(hits, hit{tile, slice, virtual})
		})
	if len(hits) != 4 {
		t.Fatalf("got %d tiles, want 4", len(hits))
	}
	for i, h := range hits {
		if h.tile != i {
			t.Errorf("hit %d tile = %d", i, h.tile)
		}
	}
	last := hits[3]
	if last.slice != [4]float64{0, 0, 1, 1} {
		t.Errorf("tile 3 slice coords = %v", last.slice)
	}
	if last.virtual != [4]float64{256, 256, 300, 300} {
		t.Errorf("tile 3 virtual coords = %v", last.virtual)
	}
	if math.Abs(hits[0].slice[2]-1) > 1e-9 {
		t.Errorf("tile 0 s2 = %v", hits[0].slice[2])
	}
}

func TestIterEmpty(t *testing.T) {
	if it := NewIter(nil, 1, 0, 10, WrapRepeat); !it.Done() {
		t.Error("iterator over no spans must be done")
	}
}
