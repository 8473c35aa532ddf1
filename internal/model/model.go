package model

import (
	"gorm.io/gorm"
)

// AutoMigrate migrates the table registered under key.
// AutoMigrate 迁移 key 对应的数据表
func AutoMigrate(db *gorm.DB, key string) error {
	switch key {
	case "JSONHistory":
		return db.AutoMigrate(&JSONHistory{})
	}
	return nil
}
