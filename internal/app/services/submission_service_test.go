package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/assigntrack/internal/app/models"
	"github.com/yigit/assigntrack/internal/app/models/dto"
	"github.com/yigit/assigntrack/internal/app/repositories"
	"github.com/yigit/assigntrack/internal/pkg/apperrors"
)

func linkRequest() *dto.SubmitRequest {
	return &dto.SubmitRequest{Link: "https://github.com/ada/linked-lists"}
}

func TestSubmitIndividual(t *testing.T) {
	f := newFixture(t)
	owner := f.lecturer()
	student := f.students(1)[0]
	a := f.assignment(owner, models.GroupPolicyIndividual, 0)

	resp, err := f.submissions.Submit(f.ctx, student, a.ID, linkRequest(), nil)
	require.NoError(t, err)
	assert.Equal(t, student.UserID, resp.StudentID)
	assert.Equal(t, baseTime, resp.SubmittedAt)

	group, err := f.store.Groups().GetGroupByID(f.ctx, resp.GroupID)
	require.NoError(t, err)
	assert.Equal(t, "student01-individual", group.Name)
	assert.Equal(t, 1, f.pub.count(EventSubmissionCreated))
}

func TestSubmitTwiceRejected(t *testing.T) {
	f := newFixture(t)
	owner := f.lecturer()
	student := f.students(1)[0]
	a := f.assignment(owner, models.GroupPolicyIndividual, 0)

	_, err := f.submissions.Submit(f.ctx, student, a.ID, linkRequest(), nil)
	require.NoError(t, err)

	_, err = f.submissions.Submit(f.ctx, student, a.ID, linkRequest(), nil)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	subs, err := f.store.Submissions().ListByAssignment(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestLecturerCannotSubmit(t *testing.T) {
	f := newFixture(t)
	owner := f.lecturer()
	a := f.assignment(owner, models.GroupPolicyIndividual, 0)

	_, err := f.submissions.Submit(f.ctx, owner, a.ID, linkRequest(), nil)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestSubmitChecksRoleBeforeAssignment(t *testing.T) {
	f := newFixture(t)
	owner := f.lecturer()

	_, err := f.submissions.Submit(f.ctx, owner, 9999, linkRequest(), fileHeader("x.pdf"))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.NotErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.Empty(t, f.files.saved)
}

func TestSubmitDeadlineBoundary(t *testing.T) {
	f := newFixture(t)
	owner := f.lecturer()
	students := f.students(2)
	a := f.assignment(owner, models.GroupPolicyIndividual, 0)

	f.clock.Set(a.Deadline.Add(time.Second))
	_, err := f.submissions.Submit(f.ctx, students[0], a.ID, linkRequest(), nil)
	assert.ErrorIs(t, err, apperrors.ErrDeadlinePassed)

	f.clock.Set(a.Deadline.Add(time.Microsecond))
	_, err = f.submissions.Submit(f.ctx, students[0], a.ID, linkRequest(), nil)
	assert.ErrorIs(t, err, apperrors.ErrDeadlinePassed)

	f.clock.Set(a.Deadline)
	_, err = f.submissions.Submit(f.ctx, students[1], a.ID, linkRequest(), nil)
	assert.NoError(t, err)
}

func TestSubmitValidationOrder(t *testing.T) {
	f := newFixture(t)
	owner := f.lecturer()
	student := f.students(1)[0]
	a := f.assignment(owner, models.GroupPolicyIndividual, 0)

	// deadline is reported before the empty payload
	f.clock.Set(a.Deadline.Add(time.Hour))
	_, err := f.submissions.Submit(f.ctx, student, a.ID, &dto.SubmitRequest{}, nil)
	assert.ErrorIs(t, err, apperrors.ErrDeadlinePassed)

	f.clock.Set(baseTime)
	_, err = f.submissions.Submit(f.ctx, student, a.ID, &dto.SubmitRequest{Link: "   "}, nil)
	assert.ErrorIs(t, err, apperrors.ErrSubmissionEmpty)

	_, err = f.submissions.Submit(f.ctx, student, a.ID, &dto.SubmitRequest{Link: "ftp://example.com/x"}, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidLink)

	_, err = f.submissions.Submit(f.ctx, student, a.ID, &dto.SubmitRequest{Link: "https://ok.dev", SupportingLink: "notaurl"}, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidLink)

	assert.Empty(t, f.groupsOf(a.ID), "rejected attempts must not create groups")
}

func TestSubmitGroupPolicies(t *testing.T) {
	f := newFixture(t)
	owner := f.lecturer()
	students := f.students(4)
	a := f.assignment(owner, models.GroupPolicyManual, 2)
	other := f.assignment(owner, models.GroupPolicyManual, 2)
	groups := f.groupsOf(a.ID)

	_, err := f.groups.JoinGroup(f.ctx, students[0], groups[0].ID)
	require.NoError(t, err)

	_, err = f.submissions.Submit(f.ctx, students[0], a.ID, linkRequest(), nil)
	assert.ErrorIs(t, err, apperrors.ErrGroupRequired)

	foreign := f.groupsOf(other.ID)[0].ID
	req := linkRequest()
	req.GroupID = &foreign
	_, err = f.submissions.Submit(f.ctx, students[0], a.ID, req, nil)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	second := groups[1].ID
	req.GroupID = &second
	_, err = f.submissions.Submit(f.ctx, students[0], a.ID, req, nil)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	first := groups[0].ID
	req.GroupID = &first
	resp, err := f.submissions.Submit(f.ctx, students[0], a.ID, req, nil)
	require.NoError(t, err)
	assert.Equal(t, first, resp.GroupID)
}

func TestSubmitAutomaticGroup(t *testing.T) {
	f := newFixture(t)
	owner := f.lecturer()
	students := f.students(3)
	a := f.assignment(owner, models.GroupPolicyAutomatic, 3)
	group := f.groupsOf(a.ID)[0]

	req := linkRequest()
	req.GroupID = &group.ID
	for _, s := range students {
		_, err := f.submissions.Submit(f.ctx, s, a.ID, req, nil)
		require.NoError(t, err)
	}
}

func TestSubmitIndividualIgnoresGroupID(t *testing.T) {
	f := newFixture(t)
	owner := f.lecturer()
	student := f.students(1)[0]
	a := f.assignment(owner, models.GroupPolicyIndividual, 0)

	bogus := int64(4242)
	req := linkRequest()
	req.GroupID = &bogus
	resp, err := f.submissions.Submit(f.ctx, student, a.ID, req, nil)
	require.NoError(t, err)
	assert.NotEqual(t, bogus, resp.GroupID)
}

func TestIndividualGroupSlugCollision(t *testing.T) {
	f := newFixture(t)
	owner := f.lecturer()
	first := f.user("Ada.Lovelace", models.RoleStudent)
	second := f.user("ada-lovelace", models.RoleStudent)
	a := f.assignment(owner, models.GroupPolicyIndividual, 0)

	r1, err := f.submissions.Submit(f.ctx, first, a.ID, linkRequest(), nil)
	require.NoError(t, err)
	r2, err := f.submissions.Submit(f.ctx, second, a.ID, linkRequest(), nil)
	require.NoError(t, err)
	assert.NotEqual(t, r1.GroupID, r2.GroupID)

	for _, g := range f.groupsOf(a.ID) {
		assert.Equal(t, 1, g.MemberCount(), g.Name)
	}
}

func TestIndividualGroupNameTakenByTwoStudents(t *testing.T) {
	f := newFixture(t)
	owner := f.lecturer()
	first := f.user("a-b", models.RoleStudent)
	target := f.user("a.b", models.RoleStudent)
	third := f.user("a-b-3", models.RoleStudent)
	require.Equal(t, int64(3), target.UserID)
	a := f.assignment(owner, models.GroupPolicyIndividual, 0)

	seen := map[int64]bool{}
	for _, p := range []models.Principal{first, third, target} {
		resp, err := f.submissions.Submit(f.ctx, p, a.ID, linkRequest(), nil)
		require.NoError(t, err, p.Username)
		assert.False(t, seen[resp.GroupID], p.Username)
		seen[resp.GroupID] = true
	}

	groups := f.groupsOf(a.ID)
	require.Len(t, groups, 3)
	for _, g := range groups {
		assert.Equal(t, 1, g.MemberCount(), g.Name)
	}
}

func TestIndividualGroupFallsBackToNumberedName(t *testing.T) {
	f := newFixture(t)
	owner := f.lecturer()
	student := f.user("ada", models.RoleStudent)
	a := f.assignment(owner, models.GroupPolicyIndividual, 0)

	for attempt := 0; attempt < 2; attempt++ {
		g, err := f.store.Groups().GetOrCreateGroup(f.ctx, a.ID, individualGroupName(student, attempt))
		require.NoError(t, err)
		other := f.user(fmt.Sprintf("squatter%d", attempt), models.RoleStudent)
		require.NoError(t, f.store.Groups().AddMember(f.ctx, g.ID, a.ID, other.UserID))
	}

	resp, err := f.submissions.Submit(f.ctx, student, a.ID, linkRequest(), nil)
	require.NoError(t, err)

	group, err := f.store.Groups().GetGroupByID(f.ctx, resp.GroupID)
	require.NoError(t, err)
	assert.Equal(t, individualGroupName(student, 2), group.Name)
}

func TestIndividualGroupReusesExistingMembership(t *testing.T) {
	f := newFixture(t)
	owner := f.lecturer()
	student := f.students(1)[0]
	a := f.assignment(owner, models.GroupPolicyIndividual, 0)

	g, err := f.store.Groups().GetOrCreateGroup(f.ctx, a.ID, "legacy")
	require.NoError(t, err)
	require.NoError(t, f.store.Groups().AddMember(f.ctx, g.ID, a.ID, student.UserID))

	resp, err := f.submissions.Submit(f.ctx, student, a.ID, linkRequest(), nil)
	require.NoError(t, err)
	assert.Equal(t, g.ID, resp.GroupID)
	assert.Len(t, f.groupsOf(a.ID), 1)
}

func TestSubmitWithFile(t *testing.T) {
	f := newFixture(t)
	owner := f.lecturer()
	student := f.students(1)[0]
	a := f.assignment(owner, models.GroupPolicyIndividual, 0)

	resp, err := f.submissions.Submit(f.ctx, student, a.ID, &dto.SubmitRequest{}, fileHeader("report.pdf"))
	require.NoError(t, err)
	require.NotNil(t, resp.FileURL)
	assert.Contains(t, *resp.FileURL, "report.pdf")
	assert.Nil(t, resp.SubmissionLink)
}

func TestSubmitSkipsUploadWhenRejected(t *testing.T) {
	f := newFixture(t)
	owner := f.lecturer()
	student := f.students(1)[0]
	a := f.assignment(owner, models.GroupPolicyIndividual, 0)

	_, err := f.submissions.Submit(f.ctx, student, a.ID, linkRequest(), nil)
	require.NoError(t, err)

	_, err = f.submissions.Submit(f.ctx, student, a.ID, &dto.SubmitRequest{}, fileHeader("late.pdf"))
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.Empty(t, f.files.saved)

	f.files.failErr = errors.New("bucket unavailable")
	other := f.user("other", models.RoleStudent)
	_, err = f.submissions.Submit(f.ctx, other, a.ID, &dto.SubmitRequest{}, fileHeader("x.pdf"))
	assert.Error(t, err)

	status, err := f.submissions.GetStatus(f.ctx, other, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, status.Status)
	assert.Len(t, f.groupsOf(a.ID), 1, "a failed upload leaves no individual group behind")
}

type failingSubmissions struct {
	repositories.SubmissionRepository
}

func (failingSubmissions) CreateSubmission(context.Context, *models.Submission) (int64, error) {
	return 0, errors.New("insert failed")
}

// failingStore rejects every submission insert made inside a transaction
type failingStore struct {
	repositories.Store
}

func (s failingStore) Submissions() repositories.SubmissionRepository {
	return failingSubmissions{s.Store.Submissions()}
}

func (s failingStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repositories.Store) error) error {
	return s.Store.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		return fn(ctx, failingStore{tx})
	})
}

func TestSubmitRemovesUploadWhenInsertFails(t *testing.T) {
	f := newFixture(t)
	owner := f.lecturer()
	student := f.students(1)[0]
	a := f.assignment(owner, models.GroupPolicyIndividual, 0)

	svc := NewSubmissionService(failingStore{f.store}, f.authz, f.files, f.pub, f.clock.Now)
	_, err := svc.Submit(f.ctx, student, a.ID, &dto.SubmitRequest{}, fileHeader("report.pdf"))
	require.Error(t, err)

	require.Len(t, f.files.saved, 1)
	assert.Equal(t, f.files.saved, f.files.deleted)
	assert.Zero(t, f.pub.count(EventSubmissionCreated))
}

// txTrackingStore reports whether a transaction is open
type txTrackingStore struct {
	repositories.Store
	inTx *atomic.Bool
}

func (s txTrackingStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repositories.Store) error) error {
	s.inTx.Store(true)
	defer s.inTx.Store(false)
	return s.Store.WithinTx(ctx, fn)
}

type txAwareStorage struct {
	*fakeStorage
	inTx      *atomic.Bool
	savedInTx bool
}

func (s *txAwareStorage) SaveFileWithPath(ctx context.Context, fh *multipart.FileHeader, subPath string) (string, error) {
	s.savedInTx = s.inTx.Load()
	return s.fakeStorage.SaveFileWithPath(ctx, fh, subPath)
}

func TestSubmitUploadsOutsideTransaction(t *testing.T) {
	f := newFixture(t)
	owner := f.lecturer()
	student := f.students(1)[0]
	a := f.assignment(owner, models.GroupPolicyIndividual, 0)

	inTx := &atomic.Bool{}
	files := &txAwareStorage{fakeStorage: f.files, inTx: inTx}
	svc := NewSubmissionService(txTrackingStore{f.store, inTx}, f.authz, files, f.pub, f.clock.Now)

	resp, err := svc.Submit(f.ctx, student, a.ID, &dto.SubmitRequest{}, fileHeader("report.pdf"))
	require.NoError(t, err)
	require.NotNil(t, resp.FileURL)
	assert.False(t, files.savedInTx)
	assert.Equal(t, f.files.saved, []string{*resp.FileURL})
}

func TestGetStatus(t *testing.T) {
	f := newFixture(t)
	owner := f.lecturer()
	students := f.students(2)
	a := f.assignment(owner, models.GroupPolicyIndividual, 0)

	status, err := f.submissions.GetStatus(f.ctx, students[0], a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, status.Status)

	_, err = f.submissions.Submit(f.ctx, students[0], a.ID, linkRequest(), nil)
	require.NoError(t, err)

	f.clock.Set(a.Deadline.Add(time.Minute))
	status, err = f.submissions.GetStatus(f.ctx, students[0], a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, status.Status)
	assert.NotNil(t, status.Submission)

	status, err = f.submissions.GetStatus(f.ctx, students[1], a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOverdue, status.Status)

	_, err = f.submissions.GetStatus(f.ctx, students[1], 9999)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestListSubmissionsOwnerOnly(t *testing.T) {
	f := newFixture(t)
	owner := f.lecturer()
	other := f.user("other", models.RoleLecturer)
	student := f.students(1)[0]
	a := f.assignment(owner, models.GroupPolicyIndividual, 0)

	_, err := f.submissions.Submit(f.ctx, student, a.ID, linkRequest(), nil)
	require.NoError(t, err)

	list, err := f.submissions.ListSubmissions(f.ctx, owner, a.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.submissions.ListSubmissions(f.ctx, other, a.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotAssignmentOwner)

	_, err = f.submissions.ListSubmissions(f.ctx, student, a.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
