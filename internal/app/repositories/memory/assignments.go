package memory

import (
	"context"
	"sort"

	"github.com/yigit/assigntrack/internal/app/models"
	"github.com/yigit/assigntrack/internal/app/repositories"
	"github.com/yigit/assigntrack/internal/pkg/apperrors"
	"github.com/yigit/assigntrack/internal/pkg/helpers"
)

type assignmentRepo struct{ s *Store }

func (r *assignmentRepo) CreateAssignment(_ context.Context, a *models.Assignment) (int64, error) {
	defer r.s.lock()()
	st := r.s.data()
	if a.CourseID != nil {
		if _, ok := st.courses[*a.CourseID]; !ok {
			return 0, apperrors.ErrCourseNotFound
		}
	}
	a.ID = st.nextID("assignments")
	a.CreatedAt = r.s.now()
	st.assignments[a.ID] = *a
	return a.ID, nil
}

func (r *assignmentRepo) GetAssignmentByID(_ context.Context, id int64) (*models.Assignment, error) {
	defer r.s.lock()()
	a, ok := r.s.data().assignments[id]
	if !ok {
		return nil, apperrors.ErrAssignmentNotFound
	}
	return &a, nil
}

func (r *assignmentRepo) filter(params repositories.ListAssignmentsParams) []*models.Assignment {
	list := []*models.Assignment{}
	for _, a := range r.s.data().assignments {
		if params.AuthorID != nil && a.AuthorID != *params.AuthorID {
			continue
		}
		if params.CourseID != nil && (a.CourseID == nil || *a.CourseID != *params.CourseID) {
			continue
		}
		a := a
		list = append(list, &a)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Deadline.Equal(list[j].Deadline) {
			return list[i].Deadline.Before(list[j].Deadline)
		}
		return list[i].ID < list[j].ID
	})
	return list
}

func (r *assignmentRepo) ListAssignments(_ context.Context, params repositories.ListAssignmentsParams) ([]*models.Assignment, int64, error) {
	defer r.s.lock()()
	list := r.filter(params)
	start, end := helpers.CalculateSliceIndices(params.Page, params.Size, len(list))
	return list[start:end], int64(len(list)), nil
}

func (r *assignmentRepo) ListAllAssignments(_ context.Context, authorID *int64) ([]*models.Assignment, error) {
	defer r.s.lock()()
	return r.filter(repositories.ListAssignmentsParams{AuthorID: authorID}), nil
}

func (r *assignmentRepo) UpdateAssignment(_ context.Context, a *models.Assignment) error {
	defer r.s.lock()()
	st := r.s.data()
	current, ok := st.assignments[a.ID]
	if !ok {
		return apperrors.ErrAssignmentNotFound
	}
	if a.CourseID != nil {
		if _, ok := st.courses[*a.CourseID]; !ok {
			return apperrors.ErrCourseNotFound
		}
	}
	current.CourseID = a.CourseID
	current.Title = a.Title
	current.Content = a.Content
	current.Deadline = a.Deadline
	current.AttachmentURL = a.AttachmentURL
	current.MaxGroupSize = a.MaxGroupSize
	st.assignments[a.ID] = current
	return nil
}

func (r *assignmentRepo) DeleteAssignment(_ context.Context, id int64) error {
	defer r.s.lock()()
	st := r.s.data()
	if _, ok := st.assignments[id]; !ok {
		return apperrors.ErrAssignmentNotFound
	}
	delete(st.assignments, id)

	for gid, g := range st.groups {
		if g.AssignmentID == id {
			delete(st.groups, gid)
		}
	}
	kept := st.members[:0]
	for _, m := range st.members {
		if m.AssignmentID != id {
			kept = append(kept, m)
		}
	}
	st.members = kept
	for sid, sub := range st.submissions {
		if sub.AssignmentID == id {
			delete(st.submissions, sid)
		}
	}
	return nil
}
