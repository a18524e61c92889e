package domain

import (
	"database/sql"
	"time"
)

// Discussion is a reply attached to a post, optionally nested under a
// parent discussion of the same post. PostId, Author and ParentId are
// immutable after creation.
type Discussion struct {
	Id        DiscussionId  `json:"id"`
	PostId    PostId        `json:"post_id"`
	Author    User          `json:"author"`
	ParentId  sql.NullInt64 `json:"parent_id"`
	Text      string        `json:"text"`
	Html      string        `json:"html,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

type DiscussionCreationData struct {
	PostId   PostId
	Author   User
	ParentId *DiscussionId
	Text     string
}
