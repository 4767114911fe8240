package reflection

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/tafakari/core"
	"github.com/trezcool/tafakari/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("reflection not found")

	errUnknownStudent = "no student with this id"

	// OrderingFields are the fields reflections can be ordered by.
	OrderingFields = []string{"date", "satisfaction"}
)

type (
	Repository interface {
		CreateReflection(ctx context.Context, refl Reflection) (Reflection, error)
		// QueryReflections returns reflections in submission order unless an ordering is given.
		QueryReflections(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Reflection, error)
		GetReflection(ctx context.Context, id string) (Reflection, error)
		// UpdateReflection atomically applies upd; it returns ErrNotFound for unknown ids.
		UpdateReflection(ctx context.Context, id string, upd Update) (Reflection, error)
	}

	Service interface {
		Submit(ctx context.Context, nr NewReflection) (Reflection, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Reflection, error)
		GetByID(ctx context.Context, id string) (Reflection, error)
	}

	service struct {
		repo    Repository
		usrRepo user.Repository
		clock   core.Clock
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, usrRepo user.Repository, clock core.Clock) Service {
	return &service{repo: repo, usrRepo: usrRepo, clock: clock}
}

// Submit records a student's daily reflection, dated now.
func (svc *service) Submit(ctx context.Context, nr NewReflection) (Reflection, error) {
	usr, err := svc.usrRepo.GetUser(ctx, nr.StudentID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return Reflection{}, core.NewValidationError(nil, core.FieldError{Field: "student_id", Error: errUnknownStudent})
		}
		return Reflection{}, errors.Wrap(err, "finding student")
	}
	if !usr.IsStudent() {
		return Reflection{}, core.NewValidationError(nil, core.FieldError{Field: "student_id", Error: errUnknownStudent})
	}

	refl := Reflection{
		StudentID:       usr.ID,
		Date:            svc.clock().UTC(),
		Satisfaction:    nr.Satisfaction,
		SelfEval:        nr.SelfEval,
		AchievementEval: nr.AchievementEval,
		FuturePlans:     nr.FuturePlans,
		Sentiment:       nr.Sentiment,
	}
	refl, err = svc.repo.CreateReflection(ctx, refl)
	return refl, errors.Wrap(err, "creating reflection")
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Reflection, error) {
	return svc.repo.QueryReflections(ctx, filter, CleanOrdering(ordering))
}

func (svc *service) GetByID(ctx context.Context, id string) (Reflection, error) {
	return svc.repo.GetReflection(ctx, core.CleanString(id))
}

// CleanOrdering drops orderings on unknown fields.
func CleanOrdering(ordering []core.DBOrdering) []core.DBOrdering {
	var cleaned []core.DBOrdering
	for _, ord := range ordering {
		for _, field := range OrderingFields {
			if ord.Field == field {
				cleaned = append(cleaned, ord)
				break
			}
		}
	}
	return cleaned
}
