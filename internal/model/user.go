package model

import "time"

// Account holds the profile fields shared by every user table.
type Account struct {
	ID           int64  `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	FirstName    string `gorm:"size:128"`
	LastName     string `gorm:"size:128"`
	Phone        string `gorm:"size:32"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Customer is a user browsing listings.
type Customer struct {
	Account
}

// Owner is a user who lists dorms.
type Owner struct {
	Account
	LineID string `gorm:"size:64"`
}

// Admin is a user who reviews listings.
type Admin struct {
	Account
}
