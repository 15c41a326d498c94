package entity

import "gorm.io/gorm"

func MigrateTable(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Follow{},
		&Community{},
		&CommunityMember{},
		&Post{},
		&Comment{},
		&Like{},
	)
}
