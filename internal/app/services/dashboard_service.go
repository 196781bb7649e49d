package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/yigit/assigntrack/internal/app/auth"
	"github.com/yigit/assigntrack/internal/app/models"
	"github.com/yigit/assigntrack/internal/app/models/dto"
	"github.com/yigit/assigntrack/internal/app/repositories"
	"github.com/yigit/assigntrack/internal/pkg/helpers"
)

// maxNotifications caps the deadline reminders on the student dashboard
const maxNotifications = 5

// DashboardService builds the read-only dashboards. Nothing is cached: every read
// recomputes status and progress from the store.
type DashboardService interface {
	StudentDashboard(ctx context.Context, p models.Principal) (*dto.StudentDashboardResponse, error)
	InstructorDashboard(ctx context.Context, p models.Principal) (*dto.InstructorDashboardResponse, error)
}

type dashboardServiceImpl struct {
	store repositories.Store
	authz *auth.AuthorizationService
	now   Clock
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(store repositories.Store, authz *auth.AuthorizationService, clock Clock) DashboardService {
	return &dashboardServiceImpl{store: store, authz: authz, now: clockOrDefault(clock)}
}

// progressCounts holds the per-assignment aggregates behind the progress string
type progressCounts struct {
	members     map[int64]int
	groups      map[int64]int
	submissions map[int64]int
}

func (s *dashboardServiceImpl) loadCounts(ctx context.Context, assignments []*models.Assignment) (*progressCounts, error) {
	ids := make([]int64, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.ID)
	}

	members, err := s.store.Groups().MemberCountsByAssignment(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("error counting members: %w", err)
	}
	groups, err := s.store.Groups().GroupCountsByAssignment(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("error counting groups: %w", err)
	}
	submissions, err := s.store.Submissions().CountByAssignment(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("error counting submissions: %w", err)
	}
	return &progressCounts{members: members, groups: groups, submissions: submissions}, nil
}

// Progress formats submitted/total for an assignment, "0/0" when nobody is grouped yet.
func Progress(submitted, total int) string {
	if total == 0 {
		return "0/0"
	}
	return fmt.Sprintf("%d/%d", submitted, total)
}

// StudentDashboard lists every assignment with the student's status and groups
func (s *dashboardServiceImpl) StudentDashboard(ctx context.Context, p models.Principal) (*dto.StudentDashboardResponse, error) {
	if err := s.authz.RequireStudent(p); err != nil {
		return nil, err
	}

	assignments, err := s.store.Assignments().ListAllAssignments(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error listing assignments: %w", err)
	}

	counts, err := s.loadCounts(ctx, assignments)
	if err != nil {
		return nil, err
	}

	submissions, err := s.store.Submissions().ListByStudent(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("error listing submissions: %w", err)
	}
	submitted := make(map[int64]bool, len(submissions))
	for _, sub := range submissions {
		submitted[sub.AssignmentID] = true
	}

	groups, err := s.store.Groups().ListGroupsByMember(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("error listing groups: %w", err)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	groupNames := make(map[int64][]string)
	joined := make([]dto.JoinedGroup, 0, len(groups))
	for _, g := range groups {
		groupNames[g.AssignmentID] = append(groupNames[g.AssignmentID], g.Name)
		joined = append(joined, dto.JoinedGroup{GroupID: g.ID, AssignmentID: g.AssignmentID, Name: g.Name})
	}

	now := s.now()
	cards := make([]dto.AssignmentCard, 0, len(assignments))
	for _, a := range assignments {
		status := models.DeriveStatus(submitted[a.ID], a.Deadline, now)
		cards = append(cards, dto.AssignmentCard{
			AssignmentID: a.ID,
			Title:        a.Title,
			CourseID:     a.CourseID,
			Deadline:     a.Deadline,
			GroupPolicy:  a.GroupPolicy,
			Status:       status,
			GroupNames:   strings.Join(groupNames[a.ID], ", "),
			Progress:     Progress(counts.submissions[a.ID], counts.members[a.ID]),
			IsOverdue:    status == models.StatusOverdue,
		})
	}

	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].IsOverdue != cards[j].IsOverdue {
			return !cards[i].IsOverdue
		}
		return cards[i].Deadline.Before(cards[j].Deadline)
	})

	resp := &dto.StudentDashboardResponse{
		Cards:         cards,
		Upcoming:      []dto.AssignmentCard{},
		Overdue:       []dto.AssignmentCard{},
		Notifications: []string{},
		Groups:        joined,
	}
	for _, card := range cards {
		switch {
		case card.IsOverdue:
			resp.Overdue = append(resp.Overdue, card)
		case !card.Deadline.Before(now):
			resp.Upcoming = append(resp.Upcoming, card)
			if card.Status == models.StatusPending && len(resp.Notifications) < maxNotifications {
				resp.Notifications = append(resp.Notifications,
					fmt.Sprintf("Assignment '%s' is due on %s", card.Title, helpers.FormatDeadline(card.Deadline)))
			}
		}
	}
	return resp, nil
}

// InstructorDashboard summarizes the lecturer's own assignments
func (s *dashboardServiceImpl) InstructorDashboard(ctx context.Context, p models.Principal) (*dto.InstructorDashboardResponse, error) {
	if err := s.authz.RequireLecturer(p); err != nil {
		return nil, err
	}

	assignments, err := s.store.Assignments().ListAllAssignments(ctx, &p.UserID)
	if err != nil {
		return nil, fmt.Errorf("error listing assignments: %w", err)
	}

	counts, err := s.loadCounts(ctx, assignments)
	if err != nil {
		return nil, err
	}

	now := s.now()
	items := make([]dto.InstructorAssignmentItem, 0, len(assignments))
	for _, a := range assignments {
		status := models.DeriveStatus(false, a.Deadline, now)
		items = append(items, dto.InstructorAssignmentItem{
			AssignmentCard: dto.AssignmentCard{
				AssignmentID: a.ID,
				Title:        a.Title,
				CourseID:     a.CourseID,
				Deadline:     a.Deadline,
				GroupPolicy:  a.GroupPolicy,
				Status:       status,
				Progress:     Progress(counts.submissions[a.ID], counts.members[a.ID]),
				IsOverdue:    status == models.StatusOverdue,
			},
			GroupCount:      counts.groups[a.ID],
			MemberTotal:     counts.members[a.ID],
			SubmissionCount: counts.submissions[a.ID],
		})
	}
	return &dto.InstructorDashboardResponse{Assignments: items}, nil
}
