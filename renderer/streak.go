package renderer

// StreakLimit is the number of recent frames kept for motion blur.
const StreakLimit = 15

// Layer is a captured frame and the opacity it is composited at.
type Layer[L any] struct {
	Image   L
	Opacity float64
}

// StreakCompositor keeps the most recent frames in a ring, newest at the
// head. Layer i (0 = newest) is drawn at opacity 1 - i/limit.
type StreakCompositor[L any] struct {
	ring    []Layer[L]
	head    int // ring index of the newest layer
	n       int
	limit   int
	release func(L)
}

// NewStreakCompositor creates a compositor holding up to limit layers.
// release, if non-nil, is called for every layer the compositor discards.
func NewStreakCompositor[L any](limit int, release func(L)) *StreakCompositor[L] {
	if limit < 1 {
		limit = StreakLimit
	}
	return &StreakCompositor[L]{
		ring:    make([]Layer[L], limit),
		limit:   limit,
		release: release,
	}
}

// AddLayer inserts img as the newest layer, evicting the oldest when full.
func (c *StreakCompositor[L]) AddLayer(img L) {
	// The slot before head is the tail once the ring is full.
	slot := (c.head - 1 + c.limit) % c.limit
	if c.n == c.limit {
		c.discard(slot)
	} else {
		c.n++
	}
	c.ring[slot] = Layer[L]{Image: img}
	c.head = slot

	for i := range c.n {
		c.ring[c.index(i)].Opacity = 1 - float64(i)/float64(c.limit)
	}
}

// Clear discards every layer.
func (c *StreakCompositor[L]) Clear() {
	for i := range c.n {
		c.discard(c.index(i))
	}
	c.n = 0
	c.head = 0
}

// Len returns the number of layers held.
func (c *StreakCompositor[L]) Len() int { return c.n }

// Limit returns the ring capacity.
func (c *StreakCompositor[L]) Limit() int { return c.limit }

// At returns the layer at ring position i, 0 being the newest.
func (c *StreakCompositor[L]) At(i int) Layer[L] {
	return c.ring[c.index(i)]
}

// Layers returns a copy of the layers, newest first.
func (c *StreakCompositor[L]) Layers() []Layer[L] {
	out := make([]Layer[L], c.n)
	for i := range c.n {
		out[i] = c.At(i)
	}
	return out
}

// Each calls fn for every layer from oldest to newest, the order they are
// stacked in.
func (c *StreakCompositor[L]) Each(fn func(Layer[L])) {
	for i := c.n - 1; i >= 0; i-- {
		fn(c.At(i))
	}
}

func (c *StreakCompositor[L]) index(i int) int {
	return (c.head + i) % c.limit
}

func (c *StreakCompositor[L]) discard(slot int) {
	if c.release != nil {
		c.release(c.ring[slot].Image)
	}
	c.ring[slot] = Layer[L]{}
}
