package services

import (
	"planeteye/backend/internal/models"
)

// VisibleTasks returns the subset of tasks the actor's role permits viewing.
// The rule table is exhaustive over the closed role set:
//
//	ADMIN, BOSS        every task, unfiltered
//	TEAM_LEADER        tasks with at least one assignee on the actor's team
//	EMPLOYEE, INTERN   tasks listing the actor as an assignee
//
// Resolution is recomputed from the current collections on every call;
// nothing here is cached.
func VisibleTasks(actor *models.User, tasks []models.Task, users []models.User) []models.Task {
	switch actor.Role {
	case models.RoleAdmin, models.RoleBoss:
		return tasks
	case models.RoleTeamLeader:
		team := TeamMemberIDs(actor.TeamID, users)
		visible := make([]models.Task, 0, len(tasks))
		for _, t := range tasks {
			if assignedToAny(&t, team) {
				visible = append(visible, t)
			}
		}
		return visible
	case models.RoleEmployee, models.RoleIntern:
		visible := make([]models.Task, 0, len(tasks))
		for _, t := range tasks {
			if t.IsAssignedTo(actor.ID) {
				visible = append(visible, t)
			}
		}
		return visible
	}
	// Role is validated at construction; an unknown value here means the
	// actor was built without ParseRole. Show nothing rather than defaulting
	// to the employee branch.
	return nil
}

// FilterByType narrows a task list to a single type. It is applied strictly
// after role filtering so the type filter can never widen visibility. An
// empty filter means "All".
func FilterByType(tasks []models.Task, taskType models.TaskType) []models.Task {
	if taskType == "" {
		return tasks
	}
	filtered := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Type == taskType {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// TeamMemberIDs collects the ids of every user on the given team, the team
// leader included.
func TeamMemberIDs(teamID string, users []models.User) map[string]bool {
	members := make(map[string]bool)
	if teamID == "" {
		return members
	}
	for _, u := range users {
		if u.TeamID == teamID {
			members[u.ID] = true
		}
	}
	return members
}

func assignedToAny(t *models.Task, ids map[string]bool) bool {
	for _, id := range t.AssignedTo {
		if ids[id] {
			return true
		}
	}
	return false
}

// CanSee reports whether a single task is visible to the actor under the
// same rules as VisibleTasks. Mutation operations use it to enforce
// authorization inside the command itself, not only in what is rendered.
func CanSee(actor *models.User, task *models.Task, users []models.User) bool {
	switch actor.Role {
	case models.RoleAdmin, models.RoleBoss:
		return true
	case models.RoleTeamLeader:
		return assignedToAny(task, TeamMemberIDs(actor.TeamID, users))
	case models.RoleEmployee, models.RoleIntern:
		return task.IsAssignedTo(actor.ID)
	}
	return false
}
