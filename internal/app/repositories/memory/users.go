package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/yigit/assigntrack/internal/app/models"
	"github.com/yigit/assigntrack/internal/pkg/apperrors"
)

type userRepo struct{ s *Store }

func (r *userRepo) CreateUser(_ context.Context, user *models.User) (int64, error) {
	defer r.s.lock()()
	st := r.s.data()

	email := strings.ToLower(user.Email)
	for _, u := range st.users {
		if u.Email == email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		if u.Username == user.Username {
			return 0, apperrors.ErrUsernameExists
		}
	}

	user.ID = st.nextID("users")
	user.Email = email
	user.CreatedAt = r.s.now()
	user.UpdatedAt = user.CreatedAt
	st.users[user.ID] = *user
	return user.ID, nil
}

func (r *userRepo) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	defer r.s.lock()()
	u, ok := r.s.data().users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

func (r *userRepo) GetUserByLogin(_ context.Context, login string) (*models.User, error) {
	defer r.s.lock()()
	email := strings.ToLower(login)
	for _, u := range r.s.data().users {
		if u.Email == email || u.Username == login {
			return &u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *userRepo) GetUsersByIDs(_ context.Context, ids []int64) (map[int64]*models.User, error) {
	defer r.s.lock()()
	users := make(map[int64]*models.User, len(ids))
	for _, id := range ids {
		if u, ok := r.s.data().users[id]; ok {
			users[id] = &u
		}
	}
	return users, nil
}

func (r *userRepo) ListActiveStudents(_ context.Context) ([]*models.User, error) {
	defer r.s.lock()()
	var students []*models.User
	for _, u := range r.s.data().users {
		if u.Role == models.RoleStudent && u.IsActive {
			u := u
			students = append(students, &u)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students, nil
}
