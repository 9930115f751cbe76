package review

import "time"

// ProgressNote is one entry of a record's progress history. Value is the
// percentage in effect when the note was written.
type ProgressNote struct {
	Text      string    `json:"note,omitempty"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Value     int       `json:"value"`
}

// AppendNote returns a new list with the note appended. notes is not modified.
func AppendNote(notes []ProgressNote, text, author string, percent int, now time.Time) []ProgressNote {
	out := make([]ProgressNote, len(notes), len(notes)+1)
	copy(out, notes)
	return append(out, ProgressNote{
		Text:      text,
		Author:    author,
		Timestamp: now.UTC(),
		Value:     percent,
	})
}

// RecentNotes returns up to n notes, most recent first.
func RecentNotes(notes []ProgressNote, n int) []ProgressNote {
	if n <= 0 || len(notes) == 0 {
		return []ProgressNote{}
	}
	if n > len(notes) {
		n = len(notes)
	}
	out := make([]ProgressNote, 0, n)
	for i := len(notes) - 1; i >= len(notes)-n; i-- {
		out = append(out, notes[i])
	}
	return out
}
