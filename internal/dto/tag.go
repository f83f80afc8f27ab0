package dto

import dom "notesapi/internal/domain"

// TagRequest is the JSON body for creating or renaming a tag.
type TagRequest struct {
	Name string `json:"name" binding:"required,max=25"`
}

// TagResponse is the public view of a tag.
type TagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewTagResponse maps a domain tag to its public view.
func NewTagResponse(t dom.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name}
}

// NewTagListResponse maps a slice of domain tags.
func NewTagListResponse(list []dom.Tag) []TagResponse {
	out := make([]TagResponse, 0, len(list))
	for _, t := range list {
		out = append(out, NewTagResponse(t))
	}
	return out
}
