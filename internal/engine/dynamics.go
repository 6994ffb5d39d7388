package engine

import "go-ly-musicxml/internal/score"

// DynamicsLatch tracks the currently open hairpin/dashes span so a
// later mark or "!" knows what it is closing.
type DynamicsLatch struct {
	ongoingWedge  string // "", crescendo, diminuendo
	ongoingDashes bool
}

func newDynamicsLatch() *DynamicsLatch { return &DynamicsLatch{} }

// OpenWedge opens a hairpin ("<" or ">"), closing any prior span
// first (LilyPond input is assumed well-formed; an unterminated prior
// span simply expires).
func (d *DynamicsLatch) OpenWedge(kind string) *score.Dynamics {
	wedge := "crescendo"
	if kind == ">" {
		wedge = "diminuendo"
	}
	d.ongoingWedge = wedge
	d.ongoingDashes = false
	return &score.Dynamics{Wedge: wedge}
}

// OpenDashes opens a text dynamic's dashed continuation ("cresc.",
// "dim.").
func (d *DynamicsLatch) OpenDashes(text string) *score.Dynamics {
	d.ongoingDashes = true
	d.ongoingWedge = ""
	return &score.Dynamics{Text: text, Dashes: "start"}
}

// Close ends whatever wedge or dashes span is open ("!" or a mark).
func (d *DynamicsLatch) Close() *score.Dynamics {
	var dyn *score.Dynamics
	switch {
	case d.ongoingWedge != "":
		dyn = &score.Dynamics{Wedge: "stop"}
	case d.ongoingDashes:
		dyn = &score.Dynamics{Dashes: "stop"}
	}
	d.ongoingWedge = ""
	d.ongoingDashes = false
	return dyn
}

// Mark closes any open wedge/dashes span and returns the combined
// dynamics for a plain mark ("p", "f", "mf", ...) attaching to the
// same note.
func (d *DynamicsLatch) Mark(name string) *score.Dynamics {
	dyn := d.Close()
	if dyn == nil {
		dyn = &score.Dynamics{}
	}
	dyn.Mark = name
	return dyn
}
