package entity

import "database/sql"

type Post struct {
	Base
	Text     string `gorm:"type:text;not null"`
	ImageURL string

	OwnerID string `gorm:"index;not null"`
	Owner   User   `gorm:"foreignKey:OwnerID"`

	// A post with a community is never public.
	IsPublic    bool           `gorm:"index;not null"`
	CommunityID sql.NullString `gorm:"index"`

	LikeCount    int64 `gorm:"index;not null;default:0"`
	CommentCount int64 `gorm:"not null;default:0"`
}
