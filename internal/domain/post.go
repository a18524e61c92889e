package domain

import "time"

type Post struct {
	Id        PostId    `json:"id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Html      string    `json:"html,omitempty"` // rendered from Text on read, never stored
	Author    User      `json:"author"`
	Media     *Media    `json:"media,omitempty"`
	Views     int64     `json:"views"`
	Score     int64     `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// PostCreationData travels handler -> service -> storage.
type PostCreationData struct {
	Title  string
	Text   string
	Author User
	Media  *Media
}
