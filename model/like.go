package models

import (
	"github.com/google/uuid"
)

type LikeInfo struct {
	Count                int64 `json:"count"`
	IsLikedByCurrentUser *bool `json:"is_liked_by_current_user,omitempty"`
}

type PostLikeStatus struct {
	PostID  uuid.UUID `json:"post_id"`
	IsLiked bool      `json:"is_liked"`
}

type LikedPostsPage struct {
	PostIDs []uuid.UUID `json:"post_ids"`
	Limit   int64       `json:"limit"`
	Offset  int64       `json:"offset"`
}
