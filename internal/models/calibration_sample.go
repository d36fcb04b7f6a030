package models

import (
	"time"

	"gorm.io/gorm"
)

type CalibrationSample struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Timestamp  time.Time      `gorm:"not null;index" json:"timestamp"`
	TargetName string         `gorm:"not null;index" json:"target_name"`
	Upper      float64        `gorm:"not null" json:"upper"`
	Lower      float64        `gorm:"not null" json:"lower"`
	Step       float64        `gorm:"not null" json:"step"`
	Learned    float64        `gorm:"not null" json:"learned"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
