package domain

// Tag is the domain entity for a user-owned tag. Names are unique per user.
type Tag struct {
	ID     int64
	UserID int64
	Name   string
}
