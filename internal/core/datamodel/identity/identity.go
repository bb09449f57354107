package identity

import "time"

// SessionIdentity is the minimal local identity created lazily on first
// successful directory login. It carries only the directory username and the
// admin flag; employee data lives in the employees table.
type SessionIdentity struct {
	ID        int64     `gorm:"primaryKey"`
	Username  string    `gorm:"column:username;uniqueIndex;not null"`
	IsAdmin   bool      `gorm:"column:is_admin;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (SessionIdentity) TableName() string {
	return "session_identities"
}

// RevokedToken is the refresh-token revocation list. The unique token ID
// makes concurrent revocations of the same credential collapse to one row.
type RevokedToken struct {
	ID        int64     `gorm:"primaryKey"`
	TokenID   string    `gorm:"column:token_id;uniqueIndex;not null"`
	Username  string    `gorm:"column:username;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	RevokedAt time.Time `gorm:"column:revoked_at;default:now()"`
}

func (RevokedToken) TableName() string {
	return "revoked_tokens"
}
