package app

import (
	"log/slog"

	"github.com/pthm-cable/windmap/camera"
	"github.com/pthm-cable/windmap/components"
	"github.com/pthm-cable/windmap/sim"
)

// View keeps a simulation's particle bounds in step with a camera. Pan and
// zoom are bracketed by BeginInteraction/EndInteraction: the simulation is
// stopped while the map moves and restarted with fresh bounds afterwards.
type View[L any] struct {
	Cam    *camera.Camera
	Domain components.Bounds

	sim  *sim.Simulation[L]
	full components.Rect

	interacting bool
	resume      bool
}

// NewView creates a view over a field domain.
func NewView[L any](cam *camera.Camera, domain components.Bounds) *View[L] {
	return &View[L]{Cam: cam, Domain: domain}
}

// Attach binds s to the view. The field's current screen rect, unclipped,
// becomes the reference area that capacity is scaled against.
func (v *View[L]) Attach(s *sim.Simulation[L]) error {
	v.sim = s
	v.full = v.Cam.FieldRect(v.Domain)
	s.SetTransform(v.Cam)
	return v.Refresh()
}

// Detach tears the bound simulation down and forgets it.
func (v *View[L]) Detach() {
	if v.sim == nil {
		return
	}
	v.sim.Teardown()
	v.sim = nil
	v.interacting = false
}

// Sim returns the bound simulation, or nil.
func (v *View[L]) Sim() *sim.Simulation[L] { return v.sim }

// Interacting reports whether a pan or zoom is in progress.
func (v *View[L]) Interacting() bool { return v.interacting }

// Refresh pushes the camera's screen and the clipped field rect to the
// simulation.
func (v *View[L]) Refresh() error {
	if v.sim == nil {
		return nil
	}
	visible, onScreen := v.Cam.VisibleRect(v.Domain)
	if !onScreen {
		slog.Debug("field off screen", "lon", v.Cam.Lon, "lat", v.Cam.Lat, "zoom", v.Cam.Zoom)
	}
	v.sim.SetScreen(v.Cam.Screen())
	return v.sim.SetVisibleBounds(visible, v.full)
}

// BeginInteraction stops the simulation. Nested calls are ignored.
func (v *View[L]) BeginInteraction() error {
	if v.sim == nil || v.interacting {
		return nil
	}
	v.interacting = true
	v.resume = v.sim.State() == sim.Running
	return v.sim.Stop()
}

// EndInteraction recomputes the visible bounds and restarts the simulation
// if it was running when the interaction began.
func (v *View[L]) EndInteraction() error {
	if v.sim == nil || !v.interacting {
		return nil
	}
	v.interacting = false
	if err := v.Refresh(); err != nil {
		return err
	}
	if !v.resume {
		return nil
	}
	return v.sim.Start()
}

// Resize updates the camera viewport and the simulation bounds.
func (v *View[L]) Resize(w, h float64) error {
	v.Cam.Resize(w, h)
	if v.interacting {
		return nil
	}
	if v.sim != nil && v.sim.State() == sim.Running {
		if err := v.sim.Stop(); err != nil {
			return err
		}
		if err := v.Refresh(); err != nil {
			return err
		}
		return v.sim.Start()
	}
	return v.Refresh()
}
