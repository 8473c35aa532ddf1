package model

import "time"

const TableNameJSONHistory = "json_history"

// JSONHistory mapped from table <json_history>
type JSONHistory struct {
	ID             string    `gorm:"column:id;primaryKey;type:varchar(36)" json:"id" form:"id"`
	OriginalJSON   string    `gorm:"column:original_json;type:text;not null" json:"originalJson" form:"originalJson"`
	FormattedJSON  string    `gorm:"column:formatted_json;type:text;not null" json:"formattedJson" form:"formattedJson"`
	IPAddress      string    `gorm:"column:ip_address;type:varchar(64);not null;index:idx_json_history_ip_address" json:"ipAddress" form:"ipAddress"`
	UserAgent      string    `gorm:"column:user_agent;type:varchar(1024);not null;default:''" json:"userAgent" form:"userAgent"`
	ProcessingTime int64     `gorm:"column:processing_time;not null;default:0" json:"processingTime" form:"processingTime"`
	CreatedAt      time.Time `gorm:"column:created_at;not null;index:idx_json_history_created_at,sort:desc" json:"createdAt" form:"createdAt"`
	UpdatedAt      time.Time `gorm:"column:updated_at;not null" json:"updatedAt" form:"updatedAt"`
}

// TableName JSONHistory's table name
func (*JSONHistory) TableName() string {
	return TableNameJSONHistory
}
