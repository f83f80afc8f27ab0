package domain

import "time"

// Note is the domain entity for a note. Tags hold the full tag records
// attached through the note_m2m_tag table.
type Note struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Done        bool
	CreatedAt   time.Time
	Tags        []Tag
}
