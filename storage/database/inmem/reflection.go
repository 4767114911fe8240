package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/tafakari/core"
	"github.com/trezcool/tafakari/core/reflection"
)

type reflectionRepository struct {
	db *reflectionTable
}

var _ reflection.Repository = (*reflectionRepository)(nil) // interface compliance check

func NewReflectionRepository(db *DB) reflection.Repository {
	return &reflectionRepository{db: db.reflection}
}

// copyReflection detaches the returned value from the stored one.
func copyReflection(r *reflection.Reflection) reflection.Reflection {
	cp := *r
	if r.TeacherFeedback != nil {
		fb := *r.TeacherFeedback
		cp.TeacherFeedback = &fb
	}
	return cp
}

func (repo *reflectionRepository) CreateReflection(_ context.Context, refl reflection.Reflection) (reflection.Reflection, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if refl.ID == "" {
		refl.ID = uuid.New().String()
	}
	if _, exists := repo.db.table[refl.ID]; !exists {
		repo.db.order = append(repo.db.order, refl.ID)
	}
	stored := copyReflection(&refl)
	repo.db.table[refl.ID] = &stored
	return refl, nil
}

func (repo *reflectionRepository) QueryReflections(_ context.Context, filter *reflection.QueryFilter, ordering []core.DBOrdering) ([]reflection.Reflection, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	refls := make([]reflection.Reflection, 0, len(repo.db.order))
	for _, id := range repo.db.order {
		refl := repo.db.table[id]
		if filter != nil && filter.StudentID != "" && refl.StudentID != filter.StudentID {
			continue
		}
		if filter != nil && !filter.Since.IsZero() && (refl.Date.IsZero() || refl.Date.Before(filter.Since)) {
			continue
		}
		refls = append(refls, copyReflection(refl))
	}

	if len(ordering) > 0 {
		sort.SliceStable(refls, func(i, j int) bool {
			for _, ord := range ordering {
				cmp := compareReflections(refls[i], refls[j], ord.Field)
				if cmp == 0 {
					continue
				}
				if ord.Ascending {
					return cmp < 0
				}
				return cmp > 0
			}
			return false
		})
	}
	return refls, nil
}

func compareReflections(a, b reflection.Reflection, field string) int {
	switch field {
	case "date":
		return a.Date.Compare(b.Date)
	case "satisfaction":
		return a.Satisfaction - b.Satisfaction
	}
	return 0
}

func (repo *reflectionRepository) GetReflection(_ context.Context, id string) (reflection.Reflection, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if refl, ok := repo.db.table[id]; ok {
		return copyReflection(refl), nil
	}
	return reflection.Reflection{}, reflection.ErrNotFound
}

func (repo *reflectionRepository) UpdateReflection(_ context.Context, id string, upd reflection.Update) (reflection.Reflection, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[id]
	if !ok {
		return reflection.Reflection{}, reflection.ErrNotFound
	}
	// readers only ever hold copies
	patched := copyReflection(orig)
	upd.Apply(&patched)
	repo.db.table[id] = &patched
	return copyReflection(&patched), nil
}
