package domain

import "github.com/lib/pq"

type (
	UserId       = int64
	PostId       = int64
	DiscussionId = int64

	Email    = string
	Password = string

	// Media holds storage keys of files attached to a post.
	Media = pq.StringArray
)
