package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// Token is a stored refresh token. Access tokens are stateless JWTs;
// refresh tokens are rotated on every use and deleted on logout.
type Token struct {
	ID           uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	UserID       string    `json:"user_id" gorm:"not null"`
	RefreshToken uuid.UUID `json:"refresh_token" gorm:"type:uuid;uniqueIndex"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}
