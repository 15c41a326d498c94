package entity

import (
	"time"
)

// Rows are hard deleted, so unique indexes hold for every (re)created relation.
type Base struct {
	ID        string    `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

type SnowFlakeBase struct {
	ID        int64 `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time
}
