package model

import "fmt"

const (
	LikeActionLiked   = "liked"
	LikeActionUnliked = "unliked"
)

type TogglePostLikeRequest struct {
	PostID string `json:"post_id"`
}

type ToggleCommentLikeRequest struct {
	CommentID string `json:"comment_id"`
}

type ToggleLikeResponse struct {
	LikeCount int64  `json:"like_count"`
	Action    string `json:"action"`

	kind string
}

func NewToggleLikeResponse(kind, action string, likeCount int64) *ToggleLikeResponse {
	return &ToggleLikeResponse{LikeCount: likeCount, Action: action, kind: kind}
}

func (resp ToggleLikeResponse) ResponseMessage() string {
	if resp.kind == "comment" {
		return fmt.Sprintf("Comment %s successfully", resp.Action)
	}

	return fmt.Sprintf("Post %s successfully", resp.Action)
}
