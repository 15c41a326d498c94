package entity

import (
	"database/sql"

	"github.com/socialgraph-lab/backend/pkg/enum"
)

type LikeTarget string

var (
	LikeTargetPost    = enum.New(LikeTarget("post"))
	LikeTargetComment = enum.New(LikeTarget("comment"))
)

// Like references exactly one of PostID and CommentID. NULLs are distinct in unique indexes,
// so each pair index only constrains its own target kind.
type Like struct {
	Base

	LikedBy string `gorm:"uniqueIndex:idx_likes_post;uniqueIndex:idx_likes_comment;not null"`

	PostID    sql.NullString `gorm:"uniqueIndex:idx_likes_post;index"`
	CommentID sql.NullString `gorm:"uniqueIndex:idx_likes_comment;index"`
}

func (l Like) Target() (LikeTarget, string) {
	if l.CommentID.Valid {
		return LikeTargetComment, l.CommentID.String
	}

	return LikeTargetPost, l.PostID.String
}
