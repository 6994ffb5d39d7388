package engine

import "go-ly-musicxml/internal/duration"

// VoiceSeparator snapshots and restores the time cursor each "\\"
// branch of a simultaneous music list needs: every branch starts
// again from the position the separator was seen at, and the bar
// rewinds to the start of the widest branch once all have run.
type VoiceSeparator struct {
	totalTime    duration.Frac
	timeSinceBar duration.Frac
	firstMeasure bool
	voiceName    string
}

// snapshot is one saved rewind point.
type voiceSepSnapshot struct {
	totalTime    duration.Frac
	timeSinceBar duration.Frac
	firstMeasure bool
	voiceName    string
}

func newVoiceSeparator() *VoiceSeparator { return &VoiceSeparator{firstMeasure: true} }

// Snapshot captures the current position so a later branch can rewind
// to it.
func (v *VoiceSeparator) Snapshot() voiceSepSnapshot {
	return voiceSepSnapshot{
		totalTime:    v.totalTime,
		timeSinceBar: v.timeSinceBar,
		firstMeasure: v.firstMeasure,
		voiceName:    v.voiceName,
	}
}

// Restore rewinds to a previously captured snapshot.
func (v *VoiceSeparator) Restore(s voiceSepSnapshot) {
	v.totalTime = s.totalTime
	v.timeSinceBar = s.timeSinceBar
	v.firstMeasure = s.firstMeasure
	v.voiceName = s.voiceName
}

// Advance moves the cursor forward by a note/rest/skip's length.
func (v *VoiceSeparator) Advance(length duration.Frac) {
	v.totalTime = v.totalTime.Add(length)
	v.timeSinceBar = v.timeSinceBar.Add(length)
}

// ResetBar zeroes the in-measure cursor at a new bar, keeping total time.
func (v *VoiceSeparator) ResetBar() {
	v.timeSinceBar = duration.Frac{Num: 0, Den: 1}
	v.firstMeasure = false
}

// TimeSinceBar reports the cursor's position within the current bar.
func (v *VoiceSeparator) TimeSinceBar() duration.Frac { return v.timeSinceBar }

// TotalTime reports the cursor's position since the start of the part.
func (v *VoiceSeparator) TotalTime() duration.Frac { return v.totalTime }

// FirstMeasure reports whether no bar has been closed yet (still
// inside a possible pickup measure).
func (v *VoiceSeparator) FirstMeasure() bool { return v.firstMeasure }
