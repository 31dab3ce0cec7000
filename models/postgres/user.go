package postgres

import (
	"time"
)

/*
 * 'User' is a registered account. Identity for guests never reaches this
 * table; their pools and presence live in Redis only.
 */
type User struct {
	Username     string    `gorm:"primaryKey;size:50;not null" json:"username"`
	Email        string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	MemberSince  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"member_since"`
}
