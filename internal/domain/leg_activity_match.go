package domain

// legEnd tags which end of a leg an activity matched.
type legEnd int

const (
	noEnd legEnd = iota
	loadEnd
	unloadEnd
)

// LegActivityMatch records where along an itinerary a handling activity
// matched: which leg (by position) and at which end of it. Matches are
// totally ordered by leg position, with the load end of a leg preceding its
// unload end and unmatched activities sorting after everything else. This
// ordering is the sole mechanism for deciding whether one activity happened
// before another along the plan.
type LegActivityMatch struct {
	Leg      *Leg
	Activity HandlingActivity

	legIndex int
	end      legEnd
}

func matchedAt(leg *Leg, index int, end legEnd, activity HandlingActivity) LegActivityMatch {
	return LegActivityMatch{Leg: leg, Activity: activity, legIndex: index, end: end}
}

func noMatch(activity HandlingActivity) LegActivityMatch {
	return LegActivityMatch{Activity: activity, legIndex: -1, end: noEnd}
}

// Matched reports whether the activity matched any leg.
func (m LegActivityMatch) Matched() bool {
	return m.legIndex >= 0
}

// Compare orders two matches along the same itinerary. It returns a
// negative value when m precedes other, positive when other precedes m and
// zero when neither strictly precedes.
func (m LegActivityMatch) Compare(other LegActivityMatch) int {
	switch {
	case !m.Matched() && !other.Matched():
		return 0
	case !m.Matched():
		return 1
	case !other.Matched():
		return -1
	}

	if m.legIndex != other.legIndex {
		return m.legIndex - other.legIndex
	}

	return int(m.end) - int(other.end)
}
