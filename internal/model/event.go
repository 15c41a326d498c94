package model

import "github.com/socialgraph-lab/backend/pkg/enum"

type EventType string

var (
	EventPostLiked       = enum.New(EventType("post.liked"))
	EventPostUnliked     = enum.New(EventType("post.unliked"))
	EventCommentLiked    = enum.New(EventType("comment.liked"))
	EventCommentUnliked  = enum.New(EventType("comment.unliked"))
	EventCommentCreated  = enum.New(EventType("comment.created"))
	EventCommentDeleted  = enum.New(EventType("comment.deleted"))
	EventUserFollowed    = enum.New(EventType("user.followed"))
	EventUserUnfollowed  = enum.New(EventType("user.unfollowed"))
	EventCommunityJoined = enum.New(EventType("community.joined"))
	EventCommunityLeft   = enum.New(EventType("community.left"))
)

// EngagementEvent names the entities whose denormalized counters were touched by a write.
type EngagementEvent struct {
	ID          string    `structs:"id" mapstructure:"id"`
	Type        EventType `structs:"type" mapstructure:"type"`
	ActorID     string    `structs:"actor_id" mapstructure:"actor_id"`
	UserID      string    `structs:"user_id,omitempty" mapstructure:"user_id"`
	PostID      string    `structs:"post_id,omitempty" mapstructure:"post_id"`
	CommentID   string    `structs:"comment_id,omitempty" mapstructure:"comment_id"`
	CommunityID string    `structs:"community_id,omitempty" mapstructure:"community_id"`
	OccurredAt  int64     `structs:"occurred_at" mapstructure:"occurred_at"`
}
