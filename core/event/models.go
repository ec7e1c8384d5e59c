package event

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kmande/chuo/core"
	"github.com/kmande/chuo/core/user"
)

// RSVP statuses
const (
	StatusGoing      = "going"
	StatusInterested = "interested"
	StatusDeclined   = "declined"
)

type (
	Event struct {
		ID          string       `json:"id"`
		Title       string       `json:"title"`
		Description string       `json:"description"`
		Category    string       `json:"category"` // Academic, Career, Cultural, ...
		Department  string       `json:"department"`
		Venue       string       `json:"venue"`
		StartDate   time.Time    `json:"start_date"` // UTC
		EndDate     time.Time    `json:"end_date"`   // UTC
		Capacity    int          `json:"capacity,omitempty"`
		Attachments []Attachment `json:"attachments,omitempty"`
		CreatedBy   user.Profile `json:"created_by"`
		CreatedAt   time.Time    `json:"created_at"` // UTC

		RSVPCount int    `json:"rsvp_count"`
		RSVPs     []RSVP `json:"rsvps,omitempty"` // only populated on detail reads
	}

	// Attachment is a reference to an externally hosted file; there is no
	// upload subsystem.
	Attachment struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		URL  string `json:"url"`
		Type string `json:"type,omitempty"`
	}

	RSVP struct {
		EventID   string       `json:"event_id"`
		User      user.Profile `json:"user"`
		Status    string       `json:"status"`
		UpdatedAt time.Time    `json:"updated_at"` // UTC
	}
)

type NewEvent struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description"`
	Category    string          `json:"category" validate:"required"`
	Department  string          `json:"department" validate:"required"`
	Venue       string          `json:"venue" validate:"required"`
	StartDate   time.Time       `json:"start_date" validate:"required"`
	EndDate     time.Time       `json:"end_date" validate:"omitempty,gtefield=StartDate"`
	Capacity    int             `json:"capacity" validate:"omitempty,gt=0"`
	Attachments []NewAttachment `json:"attachments" validate:"omitempty,dive"`
}

type NewAttachment struct {
	Name string `json:"name" validate:"required"`
	URL  string `json:"url" validate:"required,url"`
	Type string `json:"type"`
}

func (ne *NewEvent) Validate(validate *validator.Validate) error {
	ne.Title = core.CleanString(ne.Title)
	ne.Description = core.CleanString(ne.Description)
	ne.Category = core.CleanString(ne.Category)
	ne.Department = core.CleanString(ne.Department)
	ne.Venue = core.CleanString(ne.Venue)
	return validate.Struct(ne)
}

type NewRSVP struct {
	Status string `json:"status" validate:"required,oneof=going interested declined"`
}

func (nr *NewRSVP) Validate(validate *validator.Validate) error {
	nr.Status = core.CleanString(nr.Status, true /* lower */)
	return validate.Struct(nr)
}
