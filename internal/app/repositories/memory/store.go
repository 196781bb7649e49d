// Package memory implements the repositories on process memory. It enforces the same
// uniqueness rules as the PostgreSQL schema and serializes transactions with a mutex.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/yigit/assigntrack/internal/app/models"
	"github.com/yigit/assigntrack/internal/app/repositories"
)

type state struct {
	users       map[int64]models.User
	courses     map[int64]models.Course
	assignments map[int64]models.Assignment
	groups      map[int64]models.Group
	members     []models.GroupMember
	submissions map[int64]models.Submission
	seq         map[string]int64
}

func newState() *state {
	return &state{
		users:       make(map[int64]models.User),
		courses:     make(map[int64]models.Course),
		assignments: make(map[int64]models.Assignment),
		groups:      make(map[int64]models.Group),
		submissions: make(map[int64]models.Submission),
		seq:         make(map[string]int64),
	}
}

func (st *state) nextID(table string) int64 {
	st.seq[table]++
	return st.seq[table]
}

func (st *state) clone() *state {
	c := &state{
		users:       make(map[int64]models.User, len(st.users)),
		courses:     make(map[int64]models.Course, len(st.courses)),
		assignments: make(map[int64]models.Assignment, len(st.assignments)),
		groups:      make(map[int64]models.Group, len(st.groups)),
		members:     append([]models.GroupMember(nil), st.members...),
		submissions: make(map[int64]models.Submission, len(st.submissions)),
		seq:         make(map[string]int64, len(st.seq)),
	}
	for k, v := range st.users {
		c.users[k] = v
	}
	for k, v := range st.courses {
		c.courses[k] = v
	}
	for k, v := range st.assignments {
		c.assignments[k] = v
	}
	for k, v := range st.groups {
		c.groups[k] = v
	}
	for k, v := range st.submissions {
		c.submissions[k] = v
	}
	for k, v := range st.seq {
		c.seq[k] = v
	}
	return c
}

type shared struct {
	mu    sync.Mutex
	state *state
	now   func() time.Time
}

// Store is an in-memory repositories.Store
type Store struct {
	shared *shared
	inTx   bool
}

var _ repositories.Store = (*Store)(nil)

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{shared: &shared{state: newState(), now: time.Now}}
}

// lock acquires the store mutex unless the caller already runs inside WithinTx.
func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.shared.mu.Lock()
	return s.shared.mu.Unlock
}

func (s *Store) data() *state { return s.shared.state }

func (s *Store) now() time.Time { return s.shared.now().UTC() }

func (s *Store) Users() repositories.UserRepository             { return &userRepo{s} }
func (s *Store) Courses() repositories.CourseRepository         { return &courseRepo{s} }
func (s *Store) Assignments() repositories.AssignmentRepository { return &assignmentRepo{s} }
func (s *Store) Groups() repositories.GroupRepository           { return &groupRepo{s} }
func (s *Store) Submissions() repositories.SubmissionRepository { return &submissionRepo{s} }

// WithinTx holds the store lock for the duration of fn and restores the previous
// state when fn fails or panics.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repositories.Store) error) (err error) {
	if s.inTx {
		return fn(ctx, s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.shared.mu.Lock()
	defer s.shared.mu.Unlock()

	snapshot := s.shared.state.clone()
	committed := false
	defer func() {
		if !committed {
			s.shared.state = snapshot
		}
	}()

	if err := fn(ctx, &Store{shared: s.shared, inTx: true}); err != nil {
		return err
	}
	committed = true
	return nil
}
