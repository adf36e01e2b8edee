package integrator

import "github.com/vantablack/tracer/pkg/core"

// MediumFrame records one entered refractive/volumetric interface along the
// current path: its transmission id (so the matching exit event can find
// it again), the medium's index of refraction, and its scattering/
// extinction coefficients (zero outside a participating medium).
type MediumFrame struct {
	TransID int
	IOR     float64
	SigmaS  core.Vec3
	SigmaE  core.Vec3
}

// vacuumFrame is the permanent bottom-of-stack sentinel: trans_id -1,
// IOR 1, no extinction — ordinary vacuum.
var vacuumFrame = MediumFrame{TransID: -1, IOR: 1}

// MediumStack is the path-local, ordered stack of nested refractive/
// volumetric interfaces a path has entered and not yet exited. It lives in
// the integrator, not the scene, since it is per-path state rather than
// scene-owned data.
type MediumStack struct {
	frames []MediumFrame
}

// NewMediumStack returns a stack initialized to vacuum.
func NewMediumStack() *MediumStack {
	return &MediumStack{frames: []MediumFrame{vacuumFrame}}
}

// Top returns the medium the path currently occupies.
func (m *MediumStack) Top() MediumFrame {
	return m.frames[len(m.frames)-1]
}

// Contains reports whether transID is already on the stack — the path is
// currently inside that interface and the next hit of it is an exit.
func (m *MediumStack) Contains(transID int) bool {
	for _, f := range m.frames[1:] {
		if f.TransID == transID {
			return true
		}
	}
	return false
}

// Toggle pushes frame if its TransID isn't already present (entering the
// interface) or pops the matching frame if it is (exiting it).
func (m *MediumStack) Toggle(frame MediumFrame) {
	for i := len(m.frames) - 1; i > 0; i-- {
		if m.frames[i].TransID == frame.TransID {
			m.frames = append(m.frames[:i], m.frames[i+1:]...)
			return
		}
	}
	m.frames = append(m.frames, frame)
}

// IORExcluding returns the index of refraction the path returns to when it
// exits the interface tagged transID: the most recent refractive frame other
// than that one, falling through to the vacuum sentinel's 1. Bare-scatter
// media carry IOR 1 and so never change the answer.
func (m *MediumStack) IORExcluding(transID int) float64 {
	for i := len(m.frames) - 1; i > 0; i-- {
		if m.frames[i].TransID == transID {
			continue
		}
		if m.frames[i].IOR != 1 {
			return m.frames[i].IOR
		}
	}
	return 1
}

// HasRefractiveFrame reports whether any non-vacuum frame on the stack has
// an index of refraction different from 1. Nested-refractive-media effects
// are not modeled beyond tracking the innermost IOR, so this only answers
// "are we inside any refractive interface at all", not "which one
// dominates".
func (m *MediumStack) HasRefractiveFrame() bool {
	for _, f := range m.frames[1:] {
		if f.IOR != 1 {
			return true
		}
	}
	return false
}
