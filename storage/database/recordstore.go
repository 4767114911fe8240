package database

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/tafakari/core/reflection"
	"github.com/trezcool/tafakari/core/triage"
	"github.com/trezcool/tafakari/core/user"
)

// RecordStore is the single source of users and reflections read by the dashboard and the triage controller.
type RecordStore struct {
	users user.Repository
	refls reflection.Repository
}

var _ triage.RecordStore = (*RecordStore)(nil) // interface compliance check

func NewRecordStore(users user.Repository, refls reflection.Repository) *RecordStore {
	return &RecordStore{users: users, refls: refls}
}

// GetUsers returns every user, students and teachers, in creation order.
func (s *RecordStore) GetUsers(ctx context.Context) ([]user.User, error) {
	users, err := s.users.QueryUsers(ctx, nil)
	return users, errors.Wrap(err, "querying users")
}

// GetReflections returns every reflection in submission order.
func (s *RecordStore) GetReflections(ctx context.Context) ([]reflection.Reflection, error) {
	refls, err := s.refls.QueryReflections(ctx, nil, nil)
	return refls, errors.Wrap(err, "querying reflections")
}

// ApplyReflectionUpdate patches exactly one reflection.
func (s *RecordStore) ApplyReflectionUpdate(ctx context.Context, id string, upd reflection.Update) error {
	_, err := s.refls.UpdateReflection(ctx, id, upd)
	if errors.Cause(err) == reflection.ErrNotFound {
		return reflection.ErrNotFound
	}
	return errors.Wrap(err, "updating reflection")
}
