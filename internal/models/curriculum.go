package models

import "time"

// SuggestionStatus is the review state of a curriculum suggestion.
type SuggestionStatus string

const (
	SuggestionPending     SuggestionStatus = "pending"
	SuggestionApproved    SuggestionStatus = "approved"
	SuggestionRejected    SuggestionStatus = "rejected"
	SuggestionImplemented SuggestionStatus = "implemented"
)

// CurriculumSuggestion is a proposed change to a department's curriculum.
type CurriculumSuggestion struct {
	ID             int64            `db:"id" json:"id"`
	Title          string           `db:"title" json:"title"`
	Department     string           `db:"department" json:"department"`
	Priority       string           `db:"priority" json:"priority"`
	Status         SuggestionStatus `db:"status" json:"status"`
	Description    string           `db:"description" json:"description"`
	Rationale      string           `db:"rationale" json:"rationale"`
	Implementation string           `db:"implementation" json:"implementation"`
	AIGenerated    bool             `db:"ai_generated" json:"ai_generated"`
	SuggestedBy    string           `db:"suggested_by" json:"suggested_by"`
	CreatedBy      *int64           `db:"created_by" json:"created_by,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
}

// CurriculumFilter narrows suggestion listings.
type CurriculumFilter struct {
	Department string
	Status     string
}
