package services

import (
	"errors"
	"os"
	"time"

	"planeteye/backend/internal/models"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const tokenIssuer = "planeteye-backend"

// SessionService tracks the current actor. Login selects a user from the
// roster; there are no credentials to verify. The session is represented by
// a short-lived HS256 access token plus a stored, rotating refresh token.
type SessionService interface {
	Login(db *gorm.DB, userID string) (*models.User, string, string, error)
	Refresh(db *gorm.DB, refreshToken string) (string, string, int64, error)
	Logout(db *gorm.DB, refreshToken string) error
}

type SessionServiceImpl struct {
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewSessionService(accessTTL, refreshTTL time.Duration) *SessionServiceImpl {
	return &SessionServiceImpl{accessTokenTTL: accessTTL, refreshTokenTTL: refreshTTL}
}

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "your-secret-key"
	}
	return []byte(secret)
}

func (s *SessionServiceImpl) Login(db *gorm.DB, userID string) (*models.User, string, string, error) {
	var user models.User
	if err := db.Preload("Leaves").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrUserNotFound
		}
		return nil, "", "", err
	}

	access, refresh, err := s.generateTokens(db, &user)
	if err != nil {
		return nil, "", "", err
	}
	return &user, access, refresh, nil
}

func (s *SessionServiceImpl) generateTokens(db *gorm.DB, user *models.User) (string, string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"team_id": user.TeamID,
		"iss":     tokenIssuer,
		"exp":     time.Now().Add(s.accessTokenTTL).Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret())
	if err != nil {
		return "", "", err
	}

	refreshUUID, err := uuid.NewV4()
	if err != nil {
		return "", "", err
	}
	token := models.Token{
		ID:           uuid.Must(uuid.NewV4()),
		UserID:       user.ID,
		RefreshToken: refreshUUID,
		ExpiresAt:    time.Now().Add(s.refreshTokenTTL),
	}
	if err := db.Create(&token).Error; err != nil {
		return "", "", err
	}

	return access, refreshUUID.String(), nil
}

func (s *SessionServiceImpl) Refresh(db *gorm.DB, refreshToken string) (string, string, int64, error) {
	var token models.Token
	err := db.Where("refresh_token = ? AND expires_at > ?", refreshToken, time.Now()).First(&token).Error
	if err != nil {
		return "", "", 0, err
	}

	var user models.User
	if err := db.First(&user, "id = ?", token.UserID).Error; err != nil {
		return "", "", 0, err
	}

	access, refresh, err := s.generateTokens(db, &user)
	if err != nil {
		return "", "", 0, err
	}

	db.Delete(&token)

	return access, refresh, int64(s.accessTokenTTL.Seconds()), nil
}

// Logout revokes the refresh token, returning the session to its
// unauthenticated state. Revoking an unknown token is not an error.
func (s *SessionServiceImpl) Logout(db *gorm.DB, refreshToken string) error {
	return db.Where("refresh_token = ?", refreshToken).Delete(&models.Token{}).Error
}
