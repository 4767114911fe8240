package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/tafakari/core"
	"github.com/trezcool/tafakari/core/reflection"
)

var reflectionColumns = []string{
	"id", "student_id", "date", "satisfaction", "self_eval", "achievement_eval", "future_plans", "teacher_feedback", "sentiment",
}

// reflectionRow maps unknown dates to NULL.
type reflectionRow struct {
	ID              string         `db:"id"`
	StudentID       string         `db:"student_id"`
	Date            sql.NullTime   `db:"date"`
	Satisfaction    int            `db:"satisfaction"`
	SelfEval        string         `db:"self_eval"`
	AchievementEval string         `db:"achievement_eval"`
	FuturePlans     string         `db:"future_plans"`
	TeacherFeedback sql.NullString `db:"teacher_feedback"`
	Sentiment       string         `db:"sentiment"`
}

func (row reflectionRow) toReflection() reflection.Reflection {
	refl := reflection.Reflection{
		ID:              row.ID,
		StudentID:       row.StudentID,
		Satisfaction:    row.Satisfaction,
		SelfEval:        row.SelfEval,
		AchievementEval: row.AchievementEval,
		FuturePlans:     row.FuturePlans,
		Sentiment:       reflection.Sentiment(row.Sentiment),
	}
	if row.Date.Valid {
		refl.Date = row.Date.Time.UTC()
	}
	if row.TeacherFeedback.Valid {
		fb := row.TeacherFeedback.String
		refl.TeacherFeedback = &fb
	}
	return refl
}

func nullTime(t sql.NullTime) interface{} {
	if !t.Valid {
		return nil
	}
	return t.Time
}

type reflectionRepository struct {
	db core.DBExecutor
}

var _ reflection.Repository = (*reflectionRepository)(nil) // interface compliance check

func NewReflectionRepository(db core.DBExecutor) reflection.Repository {
	return &reflectionRepository{db: db}
}

func (repo *reflectionRepository) CreateReflection(ctx context.Context, refl reflection.Reflection) (reflection.Reflection, error) {
	if refl.ID == "" {
		refl.ID = uuid.New().String()
	}
	date := sql.NullTime{Time: refl.Date, Valid: !refl.Date.IsZero()}
	query := psql.Insert("reflections").
		Columns(reflectionColumns...).
		Values(
			refl.ID, refl.StudentID, nullTime(date), refl.Satisfaction, refl.SelfEval, refl.AchievementEval,
			refl.FuturePlans, refl.TeacherFeedback, string(refl.Sentiment),
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			student_id = EXCLUDED.student_id, date = EXCLUDED.date, satisfaction = EXCLUDED.satisfaction,
			self_eval = EXCLUDED.self_eval, achievement_eval = EXCLUDED.achievement_eval,
			future_plans = EXCLUDED.future_plans, teacher_feedback = EXCLUDED.teacher_feedback,
			sentiment = EXCLUDED.sentiment`).
		Suffix("RETURNING " + columns(reflectionColumns))

	var row reflectionRow
	if err := get(ctx, repo.db, &row, query); err != nil {
		return reflection.Reflection{}, errors.Wrap(err, "inserting reflection")
	}
	return row.toReflection(), nil
}

func (repo *reflectionRepository) QueryReflections(ctx context.Context, filter *reflection.QueryFilter, ordering []core.DBOrdering) ([]reflection.Reflection, error) {
	query := psql.Select(reflectionColumns...).From("reflections")
	if filter != nil && filter.StudentID != "" {
		query = query.Where(sq.Eq{"student_id": filter.StudentID})
	}
	if filter != nil && !filter.Since.IsZero() {
		query = query.Where(sq.GtOrEq{"date": filter.Since})
	}
	for _, ord := range reflection.CleanOrdering(ordering) {
		clause := ord.String()
		if ord.Field == "date" {
			clause += " NULLS LAST"
		}
		query = query.OrderBy(clause)
	}
	query = query.OrderBy("seq ASC")

	var rows []reflectionRow
	if err := selectAll(ctx, repo.db, &rows, query); err != nil {
		return nil, errors.Wrap(err, "selecting reflections")
	}
	refls := make([]reflection.Reflection, 0, len(rows))
	for _, row := range rows {
		refls = append(refls, row.toReflection())
	}
	return refls, nil
}

func (repo *reflectionRepository) GetReflection(ctx context.Context, id string) (reflection.Reflection, error) {
	query := psql.Select(reflectionColumns...).From("reflections").Where(sq.Eq{"id": id})

	var row reflectionRow
	if err := get(ctx, repo.db, &row, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return reflection.Reflection{}, reflection.ErrNotFound
		}
		return reflection.Reflection{}, errors.Wrap(err, "selecting reflection")
	}
	return row.toReflection(), nil
}

// UpdateReflection patches the row in a single statement.
func (repo *reflectionRepository) UpdateReflection(ctx context.Context, id string, upd reflection.Update) (reflection.Reflection, error) {
	if upd.TeacherFeedback == nil {
		return repo.GetReflection(ctx, id)
	}
	query := psql.Update("reflections").
		Set("teacher_feedback", *upd.TeacherFeedback).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + columns(reflectionColumns))

	var row reflectionRow
	if err := get(ctx, repo.db, &row, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return reflection.Reflection{}, reflection.ErrNotFound
		}
		return reflection.Reflection{}, errors.Wrap(err, "updating reflection")
	}
	return row.toReflection(), nil
}

func columns(cols []string) string {
	return strings.Join(cols, ", ")
}
