package models

import (
	"time"

	"gorm.io/gorm"
)

type FindEvent struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Timestamp  time.Time      `gorm:"not null;index" json:"timestamp"`
	TargetName string         `gorm:"not null;index" json:"target_name"`
	Backend    string         `gorm:"not null" json:"backend"`
	Similarity float64        `gorm:"not null;default:0" json:"similarity"`
	Success    bool           `gorm:"not null;default:false" json:"success"`
	DurationMS int64          `gorm:"not null;default:0" json:"duration_ms"`
	DumpPath   string         `json:"dump_path,omitempty"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

type TargetSummary struct {
	TargetName string  `json:"target_name"`
	EventCount int     `json:"event_count"`
	Successes  int     `json:"successes"`
	AvgMS      float64 `json:"avg_ms"`
}
