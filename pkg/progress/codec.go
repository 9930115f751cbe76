package progress

import "math"

const (
	MinPercent = 0
	MaxPercent = 100

	// DisplayFloor is the lowest percentage ever shown for a record.
	DisplayFloor = 1
)

// Decode converts a stored progress value into a display percentage in [1, 100].
//
// Stored values come from several writers: nil means never set, values above
// 1 are already percentages, and values in [0, 1] are fractions. A raw value of
// exactly 1 is ambiguous; without any progress notes it is the legacy "unset"
// marker and reads as 1%, with notes it is a written fraction and reads as 100%.
func Decode(raw *float64, hasNotes bool) int {
	if raw == nil || math.IsNaN(*raw) {
		return DisplayFloor
	}
	v := *raw
	var pct float64
	switch {
	case v == 1 && !hasNotes:
		pct = DisplayFloor
	case v > 1:
		pct = math.Round(v)
	default:
		pct = math.Round(v * 100)
	}
	return int(Clamp(pct, DisplayFloor, MaxPercent))
}

// Encode converts an admin-entered percentage to the stored fraction in [0, 1].
// Out-of-range input is clamped.
func Encode(percent float64) float64 {
	if math.IsNaN(percent) {
		percent = MinPercent
	}
	return Clamp(percent, MinPercent, MaxPercent) / 100
}

// NoteValue is the integer percentage recorded on a progress note.
func NoteValue(percent float64) int {
	if math.IsNaN(percent) {
		return MinPercent
	}
	return int(Clamp(math.Round(percent), MinPercent, MaxPercent))
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
