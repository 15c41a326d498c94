package entity

type Comment struct {
	Base
	Content string `gorm:"type:text;not null"`

	OwnerID string `gorm:"index;not null"`
	Owner   User   `gorm:"foreignKey:OwnerID"`

	PostID string `gorm:"index;not null"`
	Post   Post   `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`

	LikeCount int64 `gorm:"not null;default:0"`
}
