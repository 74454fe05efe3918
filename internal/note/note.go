// Package note keeps the per-lead annotation log. Notes are appended,
// optionally private, and listed newest-first. Permission enforcement stays
// with callers; this package only applies the privacy filter.
package note

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound signals an update against an unknown note id.
	ErrNotFound = errors.New("note: not found")
	// ErrInvalidInput signals a malformed or missing required field.
	ErrInvalidInput = errors.New("note: invalid input")
)

// Note is a timestamped annotation attached to a lead.
type Note struct {
	ID                  string     `json:"id"`
	LeadID              string     `json:"lead_id"`
	UserID              string     `json:"user_id"`
	UserName            string     `json:"user_name"`
	UserPosition        string     `json:"user_position,omitempty"`
	NoteType            string     `json:"note_type"`
	Content             string     `json:"content"`
	InteractionChannel  string     `json:"interaction_channel,omitempty"`
	InteractionDuration int        `json:"interaction_duration,omitempty"`
	FollowUpRequired    bool       `json:"follow_up_required"`
	FollowUpDate        *time.Time `json:"follow_up_date,omitempty"`
	IsPrivate           bool       `json:"is_private"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Patch carries partial-update fields for a note. CreatedAt is immutable.
type Patch struct {
	NoteType            *string    `json:"note_type,omitempty"`
	Content             *string    `json:"content,omitempty"`
	InteractionChannel  *string    `json:"interaction_channel,omitempty"`
	InteractionDuration *int       `json:"interaction_duration,omitempty"`
	FollowUpRequired    *bool      `json:"follow_up_required,omitempty"`
	FollowUpDate        *time.Time `json:"follow_up_date,omitempty"`
	IsPrivate           *bool      `json:"is_private,omitempty"`
}

// noteTypes is the fixed annotation category catalog.
var noteTypes = []string{
	"general",
	"call",
	"email",
	"whatsapp",
	"meeting",
	"medical",
	"payment",
	"follow_up",
	"complaint",
	"internal",
}

// Types returns the annotation category catalog.
func Types() []string {
	out := make([]string, len(noteTypes))
	copy(out, noteTypes)
	return out
}

// ValidType reports whether t is a catalog category.
func ValidType(t string) bool {
	for _, known := range noteTypes {
		if strings.EqualFold(known, t) {
			return true
		}
	}
	return false
}
