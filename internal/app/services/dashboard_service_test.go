package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/assigntrack/internal/app/models"
	"github.com/yigit/assigntrack/internal/pkg/apperrors"
)

func TestProgress(t *testing.T) {
	assert.Equal(t, "0/0", Progress(0, 0))
	assert.Equal(t, "2/5", Progress(2, 5))
}

func (f *fixture) titledAssignment(owner models.Principal, title string, policy models.GroupPolicy, size int, due time.Duration) *models.Assignment {
	f.t.Helper()
	req := newAssignmentRequest(policy, size)
	req.Title = title
	req.Deadline = baseTime.Add(due)
	resp, err := f.assignments.CreateAssignment(f.ctx, owner, req)
	require.NoError(f.t, err)
	a, err := f.store.Assignments().GetAssignmentByID(f.ctx, resp.ID)
	require.NoError(f.t, err)
	return a
}

func TestStudentDashboard(t *testing.T) {
	f := newFixture(t)
	owner := f.lecturer()
	student := f.students(1)[0]

	essay := f.titledAssignment(owner, "Essay", models.GroupPolicyIndividual, 0, 24*time.Hour)
	project := f.titledAssignment(owner, "Project", models.GroupPolicyManual, 2, 2*time.Hour)
	quiz := f.titledAssignment(owner, "Quiz", models.GroupPolicyIndividual, 0, -time.Hour)

	_, err := f.groups.JoinGroup(f.ctx, student, f.groupsOf(project.ID)[0].ID)
	require.NoError(t, err)
	_, err = f.submissions.Submit(f.ctx, student, essay.ID, linkRequest(), nil)
	require.NoError(t, err)

	dash, err := f.dashboards.StudentDashboard(f.ctx, student)
	require.NoError(t, err)

	require.Len(t, dash.Cards, 3)
	assert.Equal(t, project.ID, dash.Cards[0].AssignmentID)
	assert.Equal(t, essay.ID, dash.Cards[1].AssignmentID)
	assert.Equal(t, quiz.ID, dash.Cards[2].AssignmentID)

	assert.Equal(t, models.StatusPending, dash.Cards[0].Status)
	assert.Equal(t, "Group 1", dash.Cards[0].GroupNames)
	assert.Equal(t, "0/1", dash.Cards[0].Progress)

	assert.Equal(t, models.StatusSubmitted, dash.Cards[1].Status)
	assert.Equal(t, "student01-individual", dash.Cards[1].GroupNames)
	assert.Equal(t, "1/1", dash.Cards[1].Progress)

	assert.Equal(t, models.StatusOverdue, dash.Cards[2].Status)
	assert.Equal(t, "0/0", dash.Cards[2].Progress)
	assert.Empty(t, dash.Cards[2].GroupNames)

	assert.Len(t, dash.Upcoming, 2)
	require.Len(t, dash.Overdue, 1)
	assert.Equal(t, quiz.ID, dash.Overdue[0].AssignmentID)
	assert.Equal(t, []string{"Assignment 'Project' is due on 2025-03-10 14:00"}, dash.Notifications)
	assert.Len(t, dash.Groups, 2)
}

func TestStudentDashboardNotificationLimit(t *testing.T) {
	f := newFixture(t)
	owner := f.lecturer()
	student := f.students(1)[0]
	for i := 1; i <= 7; i++ {
		f.titledAssignment(owner, "Lab", models.GroupPolicyIndividual, 0, time.Duration(i)*time.Hour)
	}

	dash, err := f.dashboards.StudentDashboard(f.ctx, student)
	require.NoError(t, err)
	assert.Len(t, dash.Notifications, maxNotifications)
	assert.Len(t, dash.Upcoming, 7)
}

func TestInstructorDashboard(t *testing.T) {
	f := newFixture(t)
	owner := f.lecturer()
	other := f.user("other", models.RoleLecturer)
	students := f.students(4)

	a := f.assignment(owner, models.GroupPolicyAutomatic, 2)
	f.assignment(other, models.GroupPolicyIndividual, 0)

	req := linkRequest()
	req.GroupID = &f.groupsOf(a.ID)[0].ID
	_, err := f.submissions.Submit(f.ctx, students[0], a.ID, req, nil)
	require.NoError(t, err)

	dash, err := f.dashboards.InstructorDashboard(f.ctx, owner)
	require.NoError(t, err)
	require.Len(t, dash.Assignments, 1)

	item := dash.Assignments[0]
	assert.Equal(t, 2, item.GroupCount)
	assert.Equal(t, 4, item.MemberTotal)
	assert.Equal(t, 1, item.SubmissionCount)
	assert.Equal(t, "1/4", item.Progress)

	_, err = f.dashboards.InstructorDashboard(f.ctx, students[0])
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	_, err = f.dashboards.StudentDashboard(f.ctx, owner)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
