package renderer

import (
	"math"
	"testing"
)

func TestStreakNeverExceedsLimit(t *testing.T) {
	c := NewStreakCompositor[int](StreakLimit, nil)

	for i := range 40 {
		c.AddLayer(i)
		if c.Len() > StreakLimit {
			t.Fatalf("after %d inserts: %d layers, limit %d", i+1, c.Len(), StreakLimit)
		}
	}
	if c.Len() != StreakLimit {
		t.Errorf("expected full ring of %d, got %d", StreakLimit, c.Len())
	}
}

func TestStreakOpacityRamp(t *testing.T) {
	c := NewStreakCompositor[int](StreakLimit, nil)

	for n := 1; n <= 20; n++ {
		c.AddLayer(n)
		for i, l := range c.Layers() {
			want := 1 - float64(i)/StreakLimit
			if math.Abs(l.Opacity-want) > 1e-12 {
				t.Errorf("n=%d layer %d: expected opacity %f, got %f", n, i, want, l.Opacity)
			}
		}
	}
}

func TestStreakNewestFirst(t *testing.T) {
	c := NewStreakCompositor[int](4, nil)
	for i := 1; i <= 6; i++ {
		c.AddLayer(i)
	}

	got := c.Layers()
	want := []int{6, 5, 4, 3}
	for i := range want {
		if got[i].Image != want[i] {
			t.Errorf("position %d: expected %d, got %d", i, want[i], got[i].Image)
		}
	}

	var stacked []int
	c.Each(func(l Layer[int]) { stacked = append(stacked, l.Image) })
	for i := range stacked {
		if stacked[i] != want[len(want)-1-i] {
			t.Errorf("expected oldest first, got %v", stacked)
			break
		}
	}
}

func TestStreakReleasesEvictedLayers(t *testing.T) {
	var released []int
	c := NewStreakCompositor(3, func(l int) { released = append(released, l) })

	for i := 1; i <= 5; i++ {
		c.AddLayer(i)
	}
	if len(released) != 2 || released[0] != 1 || released[1] != 2 {
		t.Errorf("expected layers 1 and 2 evicted in order, got %v", released)
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected empty after clear, got %d", c.Len())
	}
	if len(released) != 5 {
		t.Errorf("expected all 5 layers released, got %v", released)
	}

	// Usable after clear
	c.AddLayer(9)
	if c.Len() != 1 || c.At(0).Image != 9 || c.At(0).Opacity != 1 {
		t.Errorf("expected single fresh layer, got %+v", c.Layers())
	}
}

func TestStreakClearIdempotent(t *testing.T) {
	c := NewStreakCompositor[int](StreakLimit, nil)
	c.Clear()
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected empty, got %d", c.Len())
	}
}
