package memory

import (
	"context"
	"sort"

	"github.com/yigit/assigntrack/internal/app/models"
	"github.com/yigit/assigntrack/internal/pkg/apperrors"
)

type submissionRepo struct{ s *Store }

func (r *submissionRepo) CreateSubmission(_ context.Context, sub *models.Submission) (int64, error) {
	defer r.s.lock()()
	st := r.s.data()
	for _, existing := range st.submissions {
		if existing.AssignmentID == sub.AssignmentID && existing.StudentID == sub.StudentID {
			return 0, apperrors.ErrAlreadySubmitted
		}
	}
	if g, ok := st.groups[sub.GroupID]; !ok || g.AssignmentID != sub.AssignmentID {
		return 0, apperrors.ErrGroupNotFound
	}
	sub.ID = st.nextID("submissions")
	st.submissions[sub.ID] = *sub
	return sub.ID, nil
}

func (r *submissionRepo) ExistsForStudent(_ context.Context, assignmentID, studentID int64) (bool, error) {
	defer r.s.lock()()
	for _, s := range r.s.data().submissions {
		if s.AssignmentID == assignmentID && s.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (r *submissionRepo) GetByStudent(_ context.Context, assignmentID, studentID int64) (*models.Submission, error) {
	defer r.s.lock()()
	for _, s := range r.s.data().submissions {
		if s.AssignmentID == assignmentID && s.StudentID == studentID {
			return &s, nil
		}
	}
	return nil, apperrors.ErrSubmissionNotFound
}

func (r *submissionRepo) list(match func(models.Submission) bool) []*models.Submission {
	list := []*models.Submission{}
	for _, s := range r.s.data().submissions {
		if match(s) {
			s := s
			list = append(list, &s)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (r *submissionRepo) ListByAssignment(_ context.Context, assignmentID int64) ([]*models.Submission, error) {
	defer r.s.lock()()
	return r.list(func(s models.Submission) bool { return s.AssignmentID == assignmentID }), nil
}

func (r *submissionRepo) ListByStudent(_ context.Context, studentID int64) ([]*models.Submission, error) {
	defer r.s.lock()()
	return r.list(func(s models.Submission) bool { return s.StudentID == studentID }), nil
}

func (r *submissionRepo) CountByAssignment(_ context.Context, assignmentIDs []int64) (map[int64]int, error) {
	defer r.s.lock()()
	counts := make(map[int64]int, len(assignmentIDs))
	wanted := idSet(assignmentIDs)
	for _, s := range r.s.data().submissions {
		if wanted[s.AssignmentID] {
			counts[s.AssignmentID]++
		}
	}
	return counts, nil
}
