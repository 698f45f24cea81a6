package services_test

import (
	"testing"

	"planeteye/backend/internal/database"
	"planeteye/backend/internal/fixtures"
	"planeteye/backend/internal/models"
	"planeteye/backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type UserServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service services.UserService
}

func (suite *UserServiceTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)
	suite.Require().NoError(database.Migrate(db))

	suite.db = db
	suite.service = services.NewUserService()
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM tasks")
	suite.db.Exec("DELETE FROM projects")
	suite.db.Exec("DELETE FROM leave_requests")
	suite.db.Exec("DELETE FROM users")
	suite.Require().NoError(fixtures.Seed(suite.db))
}

func (suite *UserServiceTestSuite) user(id string) *models.User {
	var user models.User
	suite.Require().NoError(suite.db.First(&user, "id = ?", id).Error)
	return &user
}

func (suite *UserServiceTestSuite) TestListUsers() {
	users, err := suite.service.ListUsers(suite.db)
	suite.Require().NoError(err)
	suite.Require().Len(users, 6)

	// Ordered by id, leave requests preloaded.
	assert.Equal(suite.T(), "u1", users[0].ID)
	assert.Equal(suite.T(), "u6", users[5].ID)

	var emma models.User
	for _, u := range users {
		if u.ID == "u4" {
			emma = u
		}
	}
	suite.Require().Len(emma.Leaves, 1)
	assert.Equal(suite.T(), "Medical", emma.Leaves[0].Type)
}

func (suite *UserServiceTestSuite) TestGetUser() {
	user, err := suite.service.GetUser(suite.db, "u5")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Leo Intern", user.Name)
	assert.Equal(suite.T(), models.RoleIntern, user.Role)

	_, err = suite.service.GetUser(suite.db, "u99")
	assert.ErrorIs(suite.T(), err, gorm.ErrRecordNotFound)
}

func (suite *UserServiceTestSuite) TestOnboard() {
	boss := suite.user("u2")

	created, err := suite.service.Onboard(suite.db, boss, services.OnboardInput{
		Name:        "Nina Newhire",
		Role:        "EMPLOYEE",
		Designation: "QA Engineer",
		Birthdate:   "1998-02-14",
		JoinDate:    "2024-04-01",
		TeamID:      "dev_team_1",
	})
	suite.Require().NoError(err)
	assert.NotEmpty(suite.T(), created.ID)
	assert.Equal(suite.T(), models.RoleEmployee, created.Role)

	users, err := suite.service.ListUsers(suite.db)
	suite.Require().NoError(err)
	assert.Len(suite.T(), users, 7)
}

func (suite *UserServiceTestSuite) TestOnboard_RequiresManageCapability() {
	leader := suite.user("u3")

	_, err := suite.service.Onboard(suite.db, leader, services.OnboardInput{
		Name: "Nina Newhire",
		Role: "EMPLOYEE",
	})
	assert.ErrorIs(suite.T(), err, services.ErrNotAuthorized)
}

func (suite *UserServiceTestSuite) TestOnboard_RejectsUnknownRole() {
	admin := suite.user("u1")

	_, err := suite.service.Onboard(suite.db, admin, services.OnboardInput{
		Name: "Nina Newhire",
		Role: "CONSULTANT",
	})
	suite.Require().Error(err)
	assert.Contains(suite.T(), err.Error(), "unknown role")

	users, err := suite.service.ListUsers(suite.db)
	suite.Require().NoError(err)
	assert.Len(suite.T(), users, 6)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
