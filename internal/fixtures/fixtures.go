package fixtures

import (
	"time"

	"planeteye/backend/internal/models"

	"gorm.io/gorm"
)

// Users is the seed roster. One user per role plus a second employee on a
// different team, so every visibility branch is exercised out of the box.
func Users() []models.User {
	return []models.User{
		{ID: "u1", Name: "John Admin", Role: models.RoleAdmin, Designation: "System Administrator", Photo: "https://picsum.photos/100/100?random=1", Birthdate: "1985-05-15", JoinDate: "2020-01-01", Score: 95, TeamID: "admin", Tours: []string{}},
		{ID: "u2", Name: "Sara Boss", Role: models.RoleBoss, Designation: "CEO", Photo: "https://picsum.photos/100/100?random=2", Birthdate: "1978-10-22", JoinDate: "2015-06-15", Score: 100, TeamID: "exec", Tours: []string{}},
		{ID: "u3", Name: "Alex Leader", Role: models.RoleTeamLeader, Designation: "Project Manager", Photo: "https://picsum.photos/100/100?random=3", Birthdate: "1990-03-12", JoinDate: "2018-09-01", Score: 88, TeamID: "dev_team_1", Tours: []string{}},
		{ID: "u4", Name: "Emma Employee", Role: models.RoleEmployee, Designation: "Senior Developer", Photo: "https://picsum.photos/100/100?random=4", Birthdate: "1995-12-05", JoinDate: "2021-03-20", Score: 92, TeamID: "dev_team_1", Tours: []string{"Paris Expo 2023"},
			Leaves: []models.LeaveRequest{{ID: "l1", UserID: "u4", Type: "Medical", Status: "Approved", DateRange: "Jan 10-12"}}},
		{ID: "u5", Name: "Leo Intern", Role: models.RoleIntern, Designation: "UI Intern", Photo: "https://picsum.photos/100/100?random=5", Birthdate: "2001-07-30", JoinDate: "2023-11-01", Score: 75, TeamID: "dev_team_1", Tours: []string{}},
		{ID: "u6", Name: "Mike Design", Role: models.RoleEmployee, Designation: "UX Designer", Photo: "https://picsum.photos/100/100?random=6", Birthdate: "1996-08-10", JoinDate: "2022-05-01", Score: 85, TeamID: "design_team", Tours: []string{}},
	}
}

func Projects() []models.Project {
	return []models.Project{
		{ID: "p1", Title: "PlanetEye UI Redesign", Branch: "Design", Description: "Complete overhaul of the mobile dashboard interface.", AssignedUsers: []string{"u3", "u4", "u5"}, Status: models.ProjectStatusActive},
		{ID: "p2", Title: "Cloud Integration", Branch: "Backend", Description: "Migrate legacy data to AWS infrastructure.", AssignedUsers: []string{"u3", "u4"}, Status: models.ProjectStatusActive},
	}
}

func Tasks() []models.Task {
	return []models.Task{
		{
			ID:          "t1",
			Title:       "Finalize Landing Hero",
			Type:        models.TaskTypeSOS,
			Status:      models.TaskStatusPending,
			AssignedTo:  []string{"u4"},
			AssignedBy:  "u3",
			Deadline:    time.Date(2024, 5, 20, 17, 0, 0, 0, time.UTC),
			Description: "Fix the animation on the hero section for mobile devices.",
		},
		{
			ID:          "t2",
			Title:       "Intern Onboarding Guide",
			Type:        models.TaskTypeIndividual,
			Status:      models.TaskStatusPending,
			AssignedTo:  []string{"u5"},
			AssignedBy:  "u3",
			Deadline:    time.Date(2024, 6, 1, 17, 0, 0, 0, time.UTC),
			Description: "Read the documentation and setup the dev environment.",
		},
	}
}

// Seed loads the fixture collections into an empty store. A store that
// already has users is left untouched so restarts against a durable
// database do not duplicate the roster.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	users := Users()
	if err := db.Create(&users).Error; err != nil {
		return err
	}
	projects := Projects()
	if err := db.Create(&projects).Error; err != nil {
		return err
	}
	tasks := Tasks()
	return db.Create(&tasks).Error
}
