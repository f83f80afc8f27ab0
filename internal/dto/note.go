package dto

import (
	"time"

	dom "notesapi/internal/domain"
)

// CreateNoteRequest is the JSON body for POST /notes.
type CreateNoteRequest struct {
	Title       string  `json:"title" binding:"required,max=50"`
	Description string  `json:"description" binding:"required,max=150"`
	Tags        []int64 `json:"tags"`
}

// UpdateNoteRequest is the JSON body for PUT /notes/:id. It replaces the
// note wholesale, tags included.
type UpdateNoteRequest struct {
	Title       string  `json:"title" binding:"required,max=50"`
	Description string  `json:"description" binding:"required,max=150"`
	Done        bool    `json:"done"`
	Tags        []int64 `json:"tags"`
}

// UpdateNoteStatusRequest is the JSON body for PATCH /notes/:id.
type UpdateNoteStatusRequest struct {
	Done *bool `json:"done" binding:"required"`
}

// NoteResponse is the public view of a note.
type NoteResponse struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Done        bool          `json:"done"`
	CreatedAt   time.Time     `json:"created_at"`
	Tags        []TagResponse `json:"tags"`
}

// NewNoteResponse maps a domain note to its public view.
func NewNoteResponse(n dom.Note) NoteResponse {
	tags := make([]TagResponse, 0, len(n.Tags))
	for _, t := range n.Tags {
		tags = append(tags, NewTagResponse(t))
	}
	return NoteResponse{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		Done:        n.Done,
		CreatedAt:   n.CreatedAt,
		Tags:        tags,
	}
}

// NewNoteListResponse maps a slice of domain notes.
func NewNoteListResponse(list []dom.Note) []NoteResponse {
	out := make([]NoteResponse, 0, len(list))
	for _, n := range list {
		out = append(out, NewNoteResponse(n))
	}
	return out
}
