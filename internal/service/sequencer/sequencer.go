// Package sequencer resolves a respondent's position inside a survey's
// ordered question list.
//
// Callers must pass the list as loaded for the current request. Positions are
// recomputed on every call, so an owner reordering questions mid-session is
// reflected on the respondent's next step: the respondent may revisit or skip
// a question after a reorder, but can never be left on a dangling reference.
package sequencer

import (
	"github.com/google/uuid"

	"github.com/dennisohere/quickform/internal/domain"
)

type Position struct {
	Question   domain.Question
	Index      int
	Total      int
	PreviousID *uuid.UUID
	NextID     *uuid.UUID
	IsLast     bool
}

// Resolve locates current within questions, which must already be ordered by
// position. A nil current means the start of the survey. ok is false when the
// sequence is empty or current is not part of it; both mean the respondent
// should be routed to completion.
func Resolve(questions []domain.Question, current *uuid.UUID) (Position, bool) {
	if len(questions) == 0 {
		return Position{}, false
	}

	index := 0
	if current != nil {
		index = IndexOf(questions, *current)
		if index < 0 {
			return Position{}, false
		}
	}

	pos := Position{
		Question: questions[index],
		Index:    index,
		Total:    len(questions),
		IsLast:   index == len(questions)-1,
	}
	if index > 0 {
		id := questions[index-1].ID
		pos.PreviousID = &id
	}
	if !pos.IsLast {
		id := questions[index+1].ID
		pos.NextID = &id
	}
	return pos, true
}

// IndexOf returns the zero-based index of id, or -1.
func IndexOf(questions []domain.Question, id uuid.UUID) int {
	for i := range questions {
		if questions[i].ID == id {
			return i
		}
	}
	return -1
}

// First returns the first question's id, or nil for an empty survey.
func First(questions []domain.Question) *uuid.UUID {
	if len(questions) == 0 {
		return nil
	}
	id := questions[0].ID
	return &id
}
