package user

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/tafakari/core"
)

var (
	// errors
	ErrNotFound = errors.New("user not found")
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		// QueryUsers returns users in creation order.
		// QueryFilter.Search does a case-insensitive match on User.Name or User.StudentID.
		QueryUsers(ctx context.Context, filter *QueryFilter) ([]User, error)
		GetUser(ctx context.Context, id string) (User, error)
	}

	Service interface {
		CreateStudent(ctx context.Context, ns NewStudent) (User, error)
		CreateTeacher(ctx context.Context, nt NewTeacher) (User, error)
		Query(ctx context.Context, filter *QueryFilter) ([]User, error)
		QueryStudents(ctx context.Context) ([]User, error)
		GetByID(ctx context.Context, id string) (User, error)
	}

	service struct {
		repo  Repository
		clock core.Clock
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, clock core.Clock) Service {
	return &service{repo: repo, clock: clock}
}

func (svc *service) CreateStudent(ctx context.Context, ns NewStudent) (User, error) {
	usr := User{
		Name:       ns.Name,
		Role:       RoleStudent,
		StudentID:  ns.StudentID,
		Resolution: ns.Resolution,
		Email:      ns.Email,
		CreatedAt:  svc.clock().UTC(),
	}
	usr, err := svc.repo.CreateUser(ctx, usr)
	return usr, errors.Wrap(err, "creating student")
}

func (svc *service) CreateTeacher(ctx context.Context, nt NewTeacher) (User, error) {
	usr := User{
		Name:      nt.Name,
		Role:      RoleTeacher,
		Email:     nt.Email,
		CreatedAt: svc.clock().UTC(),
	}
	usr, err := svc.repo.CreateUser(ctx, usr)
	return usr, errors.Wrap(err, "creating teacher")
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter) ([]User, error) {
	return svc.repo.QueryUsers(ctx, filter)
}

func (svc *service) QueryStudents(ctx context.Context) ([]User, error) {
	return svc.repo.QueryUsers(ctx, &QueryFilter{Role: RoleStudent})
}

func (svc *service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUser(ctx, core.CleanString(id))
}
