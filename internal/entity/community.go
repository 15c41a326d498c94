package entity

import "time"

type Community struct {
	Base
	Name      string `gorm:"unique;not null"`
	AvatarURL string

	OwnerID string `gorm:"index;not null"`
	Owner   User   `gorm:"foreignKey:OwnerID"`

	MembersCount int64 `gorm:"not null;default:0"`
}

// CommunityMember holds every member of a community, the owner included.
type CommunityMember struct {
	CommunityID string    `gorm:"primaryKey"`
	Community   Community `gorm:"foreignKey:CommunityID;constraint:OnDelete:CASCADE"`

	UserID string `gorm:"primaryKey;index"`
	User   User   `gorm:"foreignKey:UserID"`

	CreatedAt time.Time
}
