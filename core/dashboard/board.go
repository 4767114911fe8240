package dashboard

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/tafakari/core"
	"github.com/trezcool/tafakari/core/reflection"
	"github.com/trezcool/tafakari/core/user"
)

// Source supplies the current users & reflections snapshot.
type Source interface {
	GetUsers(ctx context.Context) ([]user.User, error)
	GetReflections(ctx context.Context) ([]reflection.Reflection, error)
}

// Board recomputes every view from a fresh snapshot on each read.
type Board struct {
	src            Source
	clock          core.Clock
	negativeWindow time.Duration
}

func NewBoard(src Source, clock core.Clock, negativeWindow time.Duration) *Board {
	if negativeWindow <= 0 {
		negativeWindow = DefaultNegativeWindow
	}
	return &Board{src: src, clock: clock, negativeWindow: negativeWindow}
}

func (b *Board) snapshot(ctx context.Context) ([]user.User, []reflection.Reflection, error) {
	users, err := b.src.GetUsers(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "getting users")
	}
	refls, err := b.src.GetReflections(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "getting reflections")
	}
	return users, refls, nil
}

func (b *Board) Stats(ctx context.Context) (SummaryStats, error) {
	users, refls, err := b.snapshot(ctx)
	if err != nil {
		return SummaryStats{}, err
	}
	stats := ComputeSummaryStats(refls, b.clock())
	stats.TotalStudents = len(user.Students(users))
	return stats, nil
}

func (b *Board) Histogram(ctx context.Context) ([]Bucket, error) {
	refls, err := b.src.GetReflections(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "getting reflections")
	}
	return ComputeSatisfactionHistogram(refls), nil
}

func (b *Board) ActionRequired(ctx context.Context) ([]ActionItem, error) {
	users, refls, err := b.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeActionRequired(user.Students(users), refls, b.clock(), b.negativeWindow), nil
}

func (b *Board) StudentHistory(ctx context.Context, studentID string) ([]reflection.Reflection, error) {
	refls, err := b.src.GetReflections(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "getting reflections")
	}
	return ComputeStudentHistory(studentID, refls), nil
}

func (b *Board) Roster(ctx context.Context) ([]RosterRow, error) {
	users, refls, err := b.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeRoster(user.Students(users), refls), nil
}
