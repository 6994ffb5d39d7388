package walk

import "go-ly-musicxml/internal/duration"

// beamException is a finer subdivision of a time signature's default
// beam grouping, activated only once the shortest note in the current
// beam is at or below threshold.
type beamException struct {
	threshold duration.Frac
	base      int64
	groups    []int64
}

// beamExceptions lists, per (num, den) time signature, the exception
// groupings named explicitly; entries must be tried smallest threshold
// first so the finer grouping wins when the shortest note qualifies
// for more than one.
var beamExceptions = map[[2]int][]beamException{
	{2, 2}: {{duration.NewFrac(1, 32), 16, repeatGroup(4, 8)}},
	{3, 2}: {{duration.NewFrac(1, 32), 16, repeatGroup(4, 12)}},
	{3, 4}: {
		{duration.NewFrac(1, 12), 12, []int64{3, 3, 3}},
		{duration.NewFrac(1, 8), 8, []int64{6}},
	},
	{3, 8}: {{duration.NewFrac(1, 8), 8, []int64{3}}},
	{4, 4}: {
		{duration.NewFrac(1, 12), 12, []int64{3, 3, 3, 3}},
		{duration.NewFrac(1, 8), 8, []int64{4, 4}},
	},
	{6, 4}: {{duration.NewFrac(1, 16), 16, repeatGroup(4, 6)}},
	{9, 4}: {{duration.NewFrac(1, 32), 32, repeatGroup(8, 9)}},
	{12, 4}: {{duration.NewFrac(1, 32), 32, repeatGroup(8, 12)}},
}

func repeatGroup(unit int64, totalUnits int64) []int64 {
	var groups []int64
	for sum := int64(0); sum < totalUnits; sum += unit {
		groups = append(groups, unit)
	}
	return groups
}

// defaultBeamGroups returns the base denominator and unit-count groups
// a time signature uses absent any qualifying exception.
func defaultBeamGroups(num, den int) (base int64, groups []int64) {
	switch {
	case num%3 == 0 && num > 3:
		return int64(den), repeatGroup(3, int64(num))
	case num == 4 && den == 8:
		return 8, []int64{2, 2}
	case num == 5 && den == 8:
		return 8, []int64{3, 2}
	case num == 8 && den == 8:
		return 8, []int64{3, 3, 2}
	default:
		return int64(den), repeatGroup(1, int64(num))
	}
}

// beamEndOffsets returns the sorted, cumulative bar-relative offsets
// (as a fraction of a whole note) at which an automatic beam group
// must end for the given time signature, given the shortest note
// length seen in the beam so far.
func beamEndOffsets(num, den int, shortest duration.Frac) []duration.Frac {
	base, groups := defaultBeamGroups(num, den)
	if exceptions, ok := beamExceptions[[2]int{num, den}]; ok {
		for _, exc := range exceptions {
			// exceptions are listed smallest threshold first, so the
			// first one the shortest note qualifies for (shortest <=
			// threshold) is the finest-grained grouping available.
			if shortest.Less(exc.threshold) || shortest.Equal(exc.threshold) {
				base, groups = exc.base, exc.groups
				break
			}
		}
	}
	offsets := make([]duration.Frac, 0, len(groups))
	cum := int64(0)
	for _, g := range groups {
		cum += g
		offsets = append(offsets, duration.NewFrac(cum, base))
	}
	return offsets
}

// isBeamEnd reports whether t matches one of ends exactly.
func isBeamEnd(t duration.Frac, ends []duration.Frac) bool {
	for _, e := range ends {
		if t.Equal(e) {
			return true
		}
	}
	return false
}
