package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/assigntrack/internal/app/models"
	"github.com/yigit/assigntrack/internal/app/repositories"
	"github.com/yigit/assigntrack/internal/pkg/apperrors"
)

func seedAssignment(t *testing.T, s *Store) *models.Assignment {
	t.Helper()
	ctx := context.Background()
	lecturer := &models.User{Email: "L@uni.edu", Username: "lect", Role: models.RoleLecturer, IsActive: true}
	_, err := s.Users().CreateUser(ctx, lecturer)
	require.NoError(t, err)

	size := 2
	a := &models.Assignment{
		AuthorID:     lecturer.ID,
		Title:        "Trees",
		Deadline:     time.Now().Add(time.Hour),
		GroupPolicy:  models.GroupPolicyManual,
		MaxGroupSize: &size,
	}
	_, err = s.Assignments().CreateAssignment(ctx, a)
	require.NoError(t, err)
	return a
}

func TestUserUniqueness(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, err := s.Users().CreateUser(ctx, &models.User{Email: "Ada@uni.edu", Username: "ada"})
	require.NoError(t, err)

	_, err = s.Users().CreateUser(ctx, &models.User{Email: "ada@UNI.edu", Username: "other"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	_, err = s.Users().CreateUser(ctx, &models.User{Email: "x@uni.edu", Username: "ada"})
	assert.ErrorIs(t, err, apperrors.ErrUsernameExists)

	u, err := s.Users().GetUserByLogin(ctx, "ADA@uni.edu")
	require.NoError(t, err)
	assert.Equal(t, "ada", u.Username)
}

func TestMembershipSingleGroupPerAssignment(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	a := seedAssignment(t, s)

	g1 := &models.Group{AssignmentID: a.ID, Name: "Group 1"}
	g2 := &models.Group{AssignmentID: a.ID, Name: "Group 2"}
	_, err := s.Groups().CreateGroup(ctx, g1)
	require.NoError(t, err)
	_, err = s.Groups().CreateGroup(ctx, g2)
	require.NoError(t, err)

	_, err = s.Groups().CreateGroup(ctx, &models.Group{AssignmentID: a.ID, Name: "Group 1"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	require.NoError(t, s.Groups().AddMember(ctx, g1.ID, a.ID, 99))
	assert.ErrorIs(t, s.Groups().AddMember(ctx, g2.ID, a.ID, 99), apperrors.ErrAlreadyInGroup)

	found, err := s.Groups().FindMemberGroup(ctx, a.ID, 99)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, g1.ID, found.ID)

	none, err := s.Groups().FindMemberGroup(ctx, a.ID, 100)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestGetOrCreateGroupIsStable(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	a := seedAssignment(t, s)

	first, err := s.Groups().GetOrCreateGroup(ctx, a.ID, "ada-individual")
	require.NoError(t, err)
	second, err := s.Groups().GetOrCreateGroup(ctx, a.ID, "ada-individual")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestWithinTxRollsBack(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	a := seedAssignment(t, s)

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		g := &models.Group{AssignmentID: a.ID, Name: "Group 1"}
		if _, err := tx.Groups().CreateGroup(ctx, g); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	groups, err := s.Groups().ListGroupsByAssignment(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestDeleteAssignmentCascades(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	a := seedAssignment(t, s)

	g := &models.Group{AssignmentID: a.ID, Name: "Group 1"}
	_, err := s.Groups().CreateGroup(ctx, g)
	require.NoError(t, err)
	require.NoError(t, s.Groups().AddMember(ctx, g.ID, a.ID, 5))
	_, err = s.Submissions().CreateSubmission(ctx, &models.Submission{AssignmentID: a.ID, GroupID: g.ID, StudentID: 5})
	require.NoError(t, err)

	require.NoError(t, s.Assignments().DeleteAssignment(ctx, a.ID))

	_, err = s.Groups().GetGroupByID(ctx, g.ID)
	assert.ErrorIs(t, err, apperrors.ErrGroupNotFound)
	exists, err := s.Submissions().ExistsForStudent(ctx, a.ID, 5)
	require.NoError(t, err)
	assert.False(t, exists)
	member, err := s.Groups().IsMember(ctx, g.ID, 5)
	require.NoError(t, err)
	assert.False(t, member)
}

func TestSubmissionUniqueness(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	a := seedAssignment(t, s)
	g := &models.Group{AssignmentID: a.ID, Name: "Group 1"}
	_, err := s.Groups().CreateGroup(ctx, g)
	require.NoError(t, err)

	_, err = s.Submissions().CreateSubmission(ctx, &models.Submission{AssignmentID: a.ID, GroupID: g.ID, StudentID: 5})
	require.NoError(t, err)
	_, err = s.Submissions().CreateSubmission(ctx, &models.Submission{AssignmentID: a.ID, GroupID: g.ID, StudentID: 5})
	assert.ErrorIs(t, err, apperrors.ErrAlreadySubmitted)
}
