package models

import "time"

// Post represents a single blog entry. AuthorName is populated from the
// join with the user table when listing or fetching posts.
type Post struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	AuthorID   int64     `json:"authorId"`
	AuthorName string    `json:"author"`
	CreatedAt  time.Time `json:"createdAt"`
}
