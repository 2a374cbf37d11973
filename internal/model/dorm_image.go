package model

import "time"

// DormImage is one picture in a dorm's gallery. Rows go away with the dorm.
type DormImage struct {
	ID        int64     `gorm:"primaryKey"`
	DormID    int64     `gorm:"index;not null"`
	ImagePath string    `gorm:"size:512;not null"`
	CreatedAt time.Time `gorm:"not null"`
}
