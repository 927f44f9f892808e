package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	// StreamPosts is the JetStream stream carrying post lifecycle events.
	StreamPosts = "POSTS"

	// SubjectPostsAll covers every post lifecycle subject.
	SubjectPostsAll = "posts.>"

	// SubjectPostDeleted matches per-post deletion subjects of the form
	// posts.{post_id}.deleted.
	SubjectPostDeleted = "posts.*.deleted"
)

// PostDeletedEvent is published by the posts service when a post is
// permanently removed.
type PostDeletedEvent struct {
	PostID    uuid.UUID `json:"post_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Timestamp time.Time `json:"timestamp"`
}
