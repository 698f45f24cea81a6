package services_test

import (
	"testing"
	"time"

	"planeteye/backend/internal/database"
	"planeteye/backend/internal/fixtures"
	"planeteye/backend/internal/models"
	"planeteye/backend/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type SessionServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service services.SessionService
}

func (suite *SessionServiceTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)
	suite.Require().NoError(database.Migrate(db))

	suite.db = db
	suite.service = services.NewSessionService(time.Hour, 7*24*time.Hour)
}

func (suite *SessionServiceTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM tokens")
	suite.db.Exec("DELETE FROM tasks")
	suite.db.Exec("DELETE FROM projects")
	suite.db.Exec("DELETE FROM leave_requests")
	suite.db.Exec("DELETE FROM users")
	suite.Require().NoError(fixtures.Seed(suite.db))
}

func (suite *SessionServiceTestSuite) TestLogin_ByRosterID() {
	user, access, refresh, err := suite.service.Login(suite.db, "u3")
	suite.Require().NoError(err)

	assert.Equal(suite.T(), "Alex Leader", user.Name)
	assert.Equal(suite.T(), models.RoleTeamLeader, user.Role)
	assert.NotEmpty(suite.T(), access)
	assert.NotEmpty(suite.T(), refresh)

	token, err := jwt.Parse(access, func(t *jwt.Token) (interface{}, error) {
		return []byte("your-secret-key"), nil
	})
	suite.Require().NoError(err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(suite.T(), "u3", claims["user_id"])
	assert.Equal(suite.T(), "TEAM_LEADER", claims["role"])
	assert.Equal(suite.T(), "dev_team_1", claims["team_id"])
	assert.Equal(suite.T(), "planeteye-backend", claims["iss"])

	var stored models.Token
	suite.Require().NoError(suite.db.First(&stored, "user_id = ?", "u3").Error)
	assert.Equal(suite.T(), refresh, stored.RefreshToken.String())
}

func (suite *SessionServiceTestSuite) TestLogin_UnknownUser() {
	_, _, _, err := suite.service.Login(suite.db, "u99")
	assert.ErrorIs(suite.T(), err, services.ErrUserNotFound)
}

func (suite *SessionServiceTestSuite) TestRefresh_RotatesToken() {
	_, _, refresh, err := suite.service.Login(suite.db, "u4")
	suite.Require().NoError(err)

	access, newRefresh, expiresIn, err := suite.service.Refresh(suite.db, refresh)
	suite.Require().NoError(err)
	assert.NotEmpty(suite.T(), access)
	assert.NotEqual(suite.T(), refresh, newRefresh)
	assert.Equal(suite.T(), int64(3600), expiresIn)

	// The old refresh token is spent.
	_, _, _, err = suite.service.Refresh(suite.db, refresh)
	assert.ErrorIs(suite.T(), err, gorm.ErrRecordNotFound)

	// The rotated one still works.
	_, _, _, err = suite.service.Refresh(suite.db, newRefresh)
	assert.NoError(suite.T(), err)
}

func (suite *SessionServiceTestSuite) TestLogout() {
	_, _, refresh, err := suite.service.Login(suite.db, "u4")
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.Logout(suite.db, refresh))

	_, _, _, err = suite.service.Refresh(suite.db, refresh)
	assert.ErrorIs(suite.T(), err, gorm.ErrRecordNotFound)

	// Revoking an already revoked token is a no-op.
	assert.NoError(suite.T(), suite.service.Logout(suite.db, refresh))
}

func TestSessionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SessionServiceTestSuite))
}
