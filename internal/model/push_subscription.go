package model

import "time"

// PushSubscription is a browser push endpoint that wants listing-change notices.
type PushSubscription struct {
	Endpoint       string    `gorm:"primaryKey"`
	P256DH         string    `gorm:"column:p256dh;not null"`
	Auth           string    `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null"`
	LastNotifiedAt *time.Time
}
