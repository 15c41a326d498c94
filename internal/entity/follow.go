package entity

// Follow is a directed edge from FollowerID to FollowingID. The snowflake id keeps insertion
// order.
type Follow struct {
	SnowFlakeBase

	FollowerID string `gorm:"uniqueIndex:idx_follows_pair;not null"`
	Follower   User   `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`

	FollowingID string `gorm:"uniqueIndex:idx_follows_pair;index;not null"`
	Following   User   `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE"`
}
