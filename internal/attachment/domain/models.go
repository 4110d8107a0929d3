package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Attachment struct {
	ID         snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"id"`
	JobSheetID snowflake.ID `gorm:"not null;index" json:"jobSheetId"`
	FileName   string       `gorm:"not null" json:"fileName"`
	FileURL    string       `gorm:"column:file_url;not null" json:"fileUrl"`
	FileType   string       `gorm:"not null" json:"fileType"`
	CreatedAt  time.Time    `gorm:"not null" json:"createdAt"`
}
