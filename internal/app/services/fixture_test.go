package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yigit/assigntrack/internal/app/auth"
	"github.com/yigit/assigntrack/internal/app/models"
	"github.com/yigit/assigntrack/internal/app/repositories"
	"github.com/yigit/assigntrack/internal/app/repositories/memory"
)

var baseTime = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// fixture wires every service to one in-memory store and a settable clock
type fixture struct {
	t     *testing.T
	ctx   context.Context
	store repositories.Store
	authz *auth.AuthorizationService
	clock *testClock
	files *fakeStorage
	pub   *recordingPublisher

	assignments AssignmentService
	groups      GroupService
	submissions SubmissionService
	dashboards  DashboardService
	courses     CourseService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, memory.NewStore())
}

func newFixtureWithStore(t *testing.T, store repositories.Store) *fixture {
	t.Helper()
	authz := auth.NewAuthorizationService(store)
	clock := &testClock{now: baseTime}
	files := &fakeStorage{}
	pub := &recordingPublisher{}

	return &fixture{
		t:           t,
		ctx:         context.Background(),
		store:       store,
		authz:       authz,
		clock:       clock,
		files:       files,
		pub:         pub,
		assignments: NewAssignmentService(store, authz, files),
		groups:      NewGroupService(store, authz, pub, clock.Now),
		submissions: NewSubmissionService(store, authz, files, pub, clock.Now),
		dashboards:  NewDashboardService(store, authz, clock.Now),
		courses:     NewCourseService(store, authz),
	}
}

func (f *fixture) user(username string, role models.Role) models.Principal {
	f.t.Helper()
	u := &models.User{
		Email:    username + "@uni.edu",
		Username: username,
		Role:     role,
		IsActive: true,
	}
	_, err := f.store.Users().CreateUser(f.ctx, u)
	require.NoError(f.t, err)
	return u.Principal()
}

func (f *fixture) lecturer() models.Principal {
	return f.user("lecturer", models.RoleLecturer)
}

func (f *fixture) students(n int) []models.Principal {
	out := make([]models.Principal, n)
	for i := range out {
		out[i] = f.user(fmt.Sprintf("student%02d", i+1), models.RoleStudent)
	}
	return out
}

// assignment creates an assignment through the service, with a deadline one day out
func (f *fixture) assignment(owner models.Principal, policy models.GroupPolicy, size int) *models.Assignment {
	f.t.Helper()
	req := newAssignmentRequest(policy, size)
	resp, err := f.assignments.CreateAssignment(f.ctx, owner, req)
	require.NoError(f.t, err)

	a, err := f.store.Assignments().GetAssignmentByID(f.ctx, resp.ID)
	require.NoError(f.t, err)
	return a
}

func (f *fixture) groupsOf(assignmentID int64) []*models.GroupWithMembers {
	f.t.Helper()
	groups, err := f.store.Groups().ListGroupsByAssignment(f.ctx, assignmentID)
	require.NoError(f.t, err)
	return groups
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fakeStorage struct {
	mu      sync.Mutex
	saved   []string
	deleted []string
	failErr error
}

func (s *fakeStorage) SaveFileWithPath(_ context.Context, fh *multipart.FileHeader, subPath string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return "", s.failErr
	}
	url := fmt.Sprintf("/uploads/%s/%d-%s", subPath, len(s.saved)+1, fh.Filename)
	s.saved = append(s.saved, url)
	return url, nil
}

func (s *fakeStorage) DeleteFile(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, url)
	return nil
}

type publishedEvent struct {
	assignmentID int64
	eventType    string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(assignmentID int64, eventType string, _ interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{assignmentID: assignmentID, eventType: eventType})
}

func (p *recordingPublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.eventType == eventType {
			n++
		}
	}
	return n
}

func fileHeader(name string) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: 128}
}
