package services

import (
	"fmt"
	"sort"
	"time"

	"planeteye/backend/internal/cache"
	"planeteye/backend/internal/models"

	"gorm.io/gorm"
)

// Dashboard is the role-scoped summary payload. Exactly one of the variant
// sections is populated, matching the four presentation variants.
type Dashboard struct {
	Variant     string             `json:"variant"`
	Stats       *DefaultStats      `json:"stats,omitempty"`
	Boss        *BossSummary       `json:"boss,omitempty"`
	Admin       *AdminSummary      `json:"admin,omitempty"`
	TeamLeader  *TeamLeaderSummary `json:"team_leader,omitempty"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	Birthdays   []string           `json:"birthdays"`
}

type DefaultStats struct {
	ActiveAssignments int      `json:"active_assignments"`
	Score             int      `json:"score"`
	LeaveCount        int      `json:"leave_count"`
	Role              string   `json:"role"`
	Tours             []string `json:"tours"`
}

type BossSummary struct {
	ActiveProjects int `json:"active_projects"`
	EmployeeCount  int `json:"employee_count"`
	InternCount    int `json:"intern_count"`
	Headcount      int `json:"headcount"`
}

type AdminSummary struct {
	TotalUsers       int            `json:"total_users"`
	RoleDistribution map[string]int `json:"role_distribution"`
}

type TeamLeaderSummary struct {
	TeamTaskCount int              `json:"team_task_count"`
	Members       []MemberProgress `json:"members"`
}

type MemberProgress struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	Completed  int    `json:"completed"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
}

type LeaderboardEntry struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
}

type DashboardService interface {
	Summary(db *gorm.DB, actor *models.User, now time.Time) (*Dashboard, error)
}

type DashboardServiceImpl struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewDashboardService builds a summary assembler. The cache is optional;
// with nil every call recomputes from the store.
func NewDashboardService(c cache.Cache) *DashboardServiceImpl {
	return &DashboardServiceImpl{cache: c, ttl: 30 * time.Second}
}

func (s *DashboardServiceImpl) Summary(db *gorm.DB, actor *models.User, now time.Time) (*Dashboard, error) {
	cacheKey := fmt.Sprintf("dashboard:%s:%s", actor.Role, actor.ID)
	if s.cache != nil {
		var cached Dashboard
		if err := s.cache.Get(cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	var users []models.User
	if err := db.Preload("Leaves").Find(&users).Error; err != nil {
		return nil, err
	}
	var tasks []models.Task
	if err := db.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	var projects []models.Project
	if err := db.Find(&projects).Error; err != nil {
		return nil, err
	}

	dash := &Dashboard{
		Leaderboard: leaderboard(users, 4),
		Birthdays:   birthdayNames(users, now),
	}

	switch actor.Role {
	case models.RoleBoss:
		dash.Variant = "boss"
		dash.Boss = bossSummary(users, projects)
	case models.RoleAdmin:
		dash.Variant = "admin"
		dash.Admin = adminSummary(users)
	case models.RoleTeamLeader:
		dash.Variant = "team_leader"
		dash.TeamLeader = teamLeaderSummary(actor, users, tasks)
	default:
		dash.Variant = "default"
		dash.Stats = defaultStats(actor, users, tasks)
	}

	if s.cache != nil {
		s.cache.Set(cacheKey, dash, s.ttl)
	}
	return dash, nil
}

func defaultStats(actor *models.User, users []models.User, tasks []models.Task) *DefaultStats {
	active := 0
	for _, t := range tasks {
		if t.IsAssignedTo(actor.ID) && t.Status != models.TaskStatusCompleted {
			active++
		}
	}
	leaves := len(actor.Leaves)
	tours := actor.Tours
	for _, u := range users {
		if u.ID == actor.ID {
			leaves = len(u.Leaves)
			tours = u.Tours
			break
		}
	}
	return &DefaultStats{
		ActiveAssignments: active,
		Score:             actor.Score,
		LeaveCount:        leaves,
		Role:              string(actor.Role),
		Tours:             tours,
	}
}

func bossSummary(users []models.User, projects []models.Project) *BossSummary {
	summary := &BossSummary{Headcount: len(users)}
	for _, p := range projects {
		if p.Status == models.ProjectStatusActive {
			summary.ActiveProjects++
		}
	}
	for _, u := range users {
		switch u.Role {
		case models.RoleEmployee:
			summary.EmployeeCount++
		case models.RoleIntern:
			summary.InternCount++
		}
	}
	return summary
}

func adminSummary(users []models.User) *AdminSummary {
	dist := make(map[string]int)
	for _, u := range users {
		dist[string(u.Role)]++
	}
	return &AdminSummary{TotalUsers: len(users), RoleDistribution: dist}
}

// teamLeaderSummary mirrors the team view: the roster excludes the leader,
// and a member with no tasks counts as a single open slot so the
// percentage stays defined.
func teamLeaderSummary(actor *models.User, users []models.User, tasks []models.Task) *TeamLeaderSummary {
	summary := &TeamLeaderSummary{}
	for _, u := range users {
		if u.TeamID != actor.TeamID || u.ID == actor.ID {
			continue
		}
		progress := MemberProgress{UserID: u.ID, Name: u.Name}
		for _, t := range tasks {
			if t.IsAssignedTo(u.ID) {
				progress.Total++
				if t.Status == models.TaskStatusCompleted {
					progress.Completed++
				}
			}
		}
		total := progress.Total
		if total == 0 {
			total = 1
		}
		progress.Percentage = progress.Completed * 100 / total
		summary.Members = append(summary.Members, progress)
	}

	memberIDs := TeamMemberIDs(actor.TeamID, users)
	delete(memberIDs, actor.ID)
	for _, t := range tasks {
		if assignedToAny(&t, memberIDs) {
			summary.TeamTaskCount++
		}
	}
	return summary
}

func leaderboard(users []models.User, limit int) []LeaderboardEntry {
	sorted := make([]models.User, len(users))
	copy(sorted, users)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	entries := make([]LeaderboardEntry, 0, len(sorted))
	for _, u := range sorted {
		entries = append(entries, LeaderboardEntry{UserID: u.ID, Name: u.Name, Score: u.Score})
	}
	return entries
}

func birthdayNames(users []models.User, now time.Time) []string {
	names := []string{}
	for _, u := range users {
		if u.HasBirthdayOn(now) {
			names = append(names, u.Name)
		}
	}
	return names
}
