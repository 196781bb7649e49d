package memory

import (
	"context"
	"sort"

	"github.com/yigit/assigntrack/internal/app/models"
	"github.com/yigit/assigntrack/internal/pkg/apperrors"
)

type courseRepo struct{ s *Store }

func (r *courseRepo) CreateCourse(_ context.Context, course *models.Course) (int64, error) {
	defer r.s.lock()()
	st := r.s.data()
	for _, c := range st.courses {
		if c.LecturerID == course.LecturerID && c.Name == course.Name {
			return 0, apperrors.NewCustomError(apperrors.ErrResourceAlreadyExists, "course already exists")
		}
	}
	course.ID = st.nextID("courses")
	course.CreatedAt = r.s.now()
	st.courses[course.ID] = *course
	return course.ID, nil
}

func (r *courseRepo) GetCourseByID(_ context.Context, id int64) (*models.Course, error) {
	defer r.s.lock()()
	c, ok := r.s.data().courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return &c, nil
}

func (r *courseRepo) GetCourseByName(_ context.Context, lecturerID int64, name string) (*models.Course, error) {
	defer r.s.lock()()
	for _, c := range r.s.data().courses {
		if c.LecturerID == lecturerID && c.Name == name {
			return &c, nil
		}
	}
	return nil, apperrors.ErrCourseNotFound
}

func (r *courseRepo) ListCourses(_ context.Context, lecturerID *int64) ([]*models.Course, error) {
	defer r.s.lock()()
	courses := []*models.Course{}
	for _, c := range r.s.data().courses {
		if lecturerID != nil && c.LecturerID != *lecturerID {
			continue
		}
		c := c
		courses = append(courses, &c)
	}
	sort.Slice(courses, func(i, j int) bool {
		if courses[i].Name != courses[j].Name {
			return courses[i].Name < courses[j].Name
		}
		return courses[i].ID < courses[j].ID
	})
	return courses, nil
}
