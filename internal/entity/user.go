package entity

type User struct {
	Base
	Username  string `gorm:"unique;not null"`
	Email     string `gorm:"unique;not null"`
	FullName  string
	AvatarURL string

	FollowersCount int64 `gorm:"not null;default:0"`
	FollowingCount int64 `gorm:"not null;default:0"`
}
