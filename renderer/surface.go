// Package renderer draws particle trails onto an abstract 2D surface and
// stacks recent frames into a fading streak.
package renderer

import (
	"image/color"

	"github.com/pthm-cable/windmap/components"
)

// Surface is a 2D render target that can snapshot its contents into a
// layer handle of type L.
//
// Save and Restore scope drawing state. Alpha set between them does not
// leak past Restore.
type Surface[L any] interface {
	// Begin starts a frame. It is called before any other drawing call.
	Begin()
	// Clear erases the surface to transparent.
	Clear()
	Save()
	Restore()
	// SetAlpha sets the global alpha applied to subsequent strokes, in [0,1].
	SetAlpha(a float64)
	StrokeLine(from, to components.Vec2, width float64, c color.NRGBA)
	// End finishes the frame.
	End()
	// Snapshot captures the current contents as a new layer. The caller owns
	// the returned handle.
	Snapshot() L
}
