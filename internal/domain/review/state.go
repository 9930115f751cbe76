package review

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/linskybing/nephra/pkg/progress"
)

const rejectionPrefix = "REJECTION: "

// Percent is the record's decoded display percentage.
func (r *Record) Percent() int {
	return progress.Decode(r.Progress, len(r.ProgressNotes) > 0)
}

// Actions lists what an admin may do with a record in its current state.
type Actions struct {
	Approve        bool `json:"approve"`
	Reject         bool `json:"reject"`
	UpdateProgress bool `json:"update_progress"`
	Delete         bool `json:"delete"`
}

func AvailableActions(r *Record) Actions {
	return Actions{
		Approve:        r.Status == StatusPending,
		Reject:         r.Status == StatusPending,
		UpdateProgress: canUpdateProgress(r) == nil,
		Delete:         true,
	}
}

// Approve moves a pending record to approved. A non-nil notes value replaces
// the admin notes.
func Approve(r *Record, notes *string, now time.Time) (Patch, error) {
	if r.Status != StatusPending {
		return Patch{}, fmt.Errorf("%w: cannot approve %s application", ErrInvalidTransition, r.Status)
	}
	status := StatusApproved
	p := Patch{Status: &status, UpdatedAt: now, ExpectedVersion: r.Version}
	if notes != nil {
		v := *notes
		p.AdminNotes = &v
	}
	return p, nil
}

// Reject moves a pending record to rejected. New proposals store the reason
// in its own column; project requests have none, so the reason is appended
// to the admin notes instead.
func Reject(r *Record, reason string, now time.Time) (Patch, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Patch{}, fmt.Errorf("%w: rejection reason is required", ErrValidation)
	}
	if r.Status != StatusPending {
		return Patch{}, fmt.Errorf("%w: cannot reject %s application", ErrInvalidTransition, r.Status)
	}
	status := StatusRejected
	p := Patch{Status: &status, UpdatedAt: now, ExpectedVersion: r.Version}

	switch r.Origin {
	case OriginNewProposal:
		p.RejectionReason = &reason
	case OriginProjectRequest:
		notes := rejectionPrefix + reason
		if r.AdminNotes != nil && strings.TrimSpace(*r.AdminNotes) != "" {
			notes = *r.AdminNotes + "\n\n" + notes
		}
		p.AdminNotes = &notes
	default:
		return Patch{}, fmt.Errorf("%w: unknown origin %q", ErrValidation, r.Origin)
	}
	return p, nil
}

// UpdateProgress records a new completion percentage and appends a note.
// Status is unchanged.
func UpdateProgress(r *Record, percent float64, note, author string, now time.Time) (Patch, error) {
	if math.IsNaN(percent) || math.IsInf(percent, 0) {
		return Patch{}, fmt.Errorf("%w: percent must be a number", ErrValidation)
	}
	if err := canUpdateProgress(r); err != nil {
		return Patch{}, err
	}
	fraction := progress.Encode(percent)
	return Patch{
		Progress:        &fraction,
		ProgressNotes:   AppendNote(r.ProgressNotes, strings.TrimSpace(note), author, progress.NoteValue(percent), now),
		UpdatedAt:       now,
		ExpectedVersion: r.Version,
	}, nil
}

func canUpdateProgress(r *Record) error {
	if r.Status != StatusPending && r.Status != StatusApproved {
		return fmt.Errorf("%w: cannot update progress of %q application", ErrInvalidTransition, r.Status)
	}
	if r.Percent() >= progress.MaxPercent {
		return fmt.Errorf("%w: application is already complete", ErrInvalidTransition)
	}
	return nil
}
