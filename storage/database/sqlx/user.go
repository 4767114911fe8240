package sqlxrepos

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/tafakari/core"
	"github.com/trezcool/tafakari/core/user"
)

var userColumns = []string{"id", "name", "role", "student_id", "resolution", "email", "created_at"}

type userRepository struct {
	db core.DBExecutor
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db core.DBExecutor) user.Repository {
	return &userRepository{db: db}
}

// CreateUser inserts usr, or overwrites the user with the same id.
func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if usr.ID == "" {
		usr.ID = uuid.New().String()
	}
	query := psql.Insert("users").
		Columns(userColumns...).
		Values(usr.ID, usr.Name, usr.Role, usr.StudentID, usr.Resolution, usr.Email, usr.CreatedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, role = EXCLUDED.role, student_id = EXCLUDED.student_id,
			resolution = EXCLUDED.resolution, email = EXCLUDED.email`).
		Suffix("RETURNING " + columns(userColumns))

	var created user.User
	if err := get(ctx, repo.db, &created, query); err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return created, nil
}

func (repo *userRepository) QueryUsers(ctx context.Context, filter *user.QueryFilter) ([]user.User, error) {
	query := psql.Select(userColumns...).From("users").OrderBy("seq ASC")
	if filter != nil {
		if filter.Role != "" {
			query = query.Where(sq.Eq{"role": filter.Role})
		}
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			query = query.Where(sq.Or{sq.ILike{"name": pattern}, sq.ILike{"student_id": pattern}})
		}
	}

	users := make([]user.User, 0)
	if err := selectAll(ctx, repo.db, &users, query); err != nil {
		return nil, errors.Wrap(err, "selecting users")
	}
	return users, nil
}

func (repo *userRepository) GetUser(ctx context.Context, id string) (user.User, error) {
	query := psql.Select(userColumns...).From("users").Where(sq.Eq{"id": id})

	var usr user.User
	if err := get(ctx, repo.db, &usr, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "selecting user")
	}
	return usr, nil
}
