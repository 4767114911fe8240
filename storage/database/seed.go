package database

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/tafakari/core"
	"github.com/trezcool/tafakari/core/reflection"
	"github.com/trezcool/tafakari/core/user"
)

// MockUsers is the demo cohort: five students and their teacher.
var MockUsers = []user.User{
	{ID: "s1", Name: "Amani Njoroge", Role: user.RoleStudent, StudentID: "2401", Resolution: "Finish every kata before Friday", Email: "amani@example.com"},
	{ID: "s2", Name: "Baraka Otieno", Role: user.RoleStudent, StudentID: "2402", Resolution: "Ask one question in every session"},
	{ID: "s3", Name: "Chiku Wanjiru", Role: user.RoleStudent, StudentID: "2403", Resolution: "Ship the capstone demo"},
	{ID: "s4", Name: "Daudi Mwangi", Role: user.RoleStudent, StudentID: "2404", Resolution: "Read one chapter a day"},
	{ID: "s5", Name: "Eshe Kamau", Role: user.RoleStudent, StudentID: "2405", Resolution: "Pair program twice a week"},
	{ID: "t1", Name: "Mwalimu Zawadi", Role: user.RoleTeacher, Email: "zawadi@example.com"},
}

// MockReflections returns the demo reflections, dated relative to now.
func MockReflections(now time.Time) []reflection.Reflection {
	return []reflection.Reflection{
		{
			ID:              "r1",
			StudentID:       "s1",
			Date:            now,
			Satisfaction:    5,
			SelfEval:        "I finally understood closures and used them in the exercise.",
			AchievementEval: "Finished all of today's katas.",
			FuturePlans:     "Start on the testing module tomorrow.",
			Sentiment:       reflection.SentimentPositive,
		},
		{
			ID:              "r2",
			StudentID:       "s2",
			Date:            now,
			Satisfaction:    2,
			SelfEval:        "I got lost during the concurrency session.",
			AchievementEval: "Only half of the worker pool exercise works.",
			FuturePlans:     "Re-watch the session and ask for help.",
			Sentiment:       reflection.SentimentNegative,
		},
		{
			ID:              "r3",
			StudentID:       "s2",
			Date:            now.Add(-24 * time.Hour),
			Satisfaction:    3,
			SelfEval:        "An average day, slow progress.",
			AchievementEval: "Set up my environment.",
			FuturePlans:     "Get through the concurrency material.",
			Sentiment:       reflection.SentimentNeutral,
		},
	}
}

// Seed loads the demo cohort. Seeding twice overwrites the same records.
func Seed(ctx context.Context, users user.Repository, refls reflection.Repository, clock core.Clock) error {
	now := clock()
	for _, usr := range MockUsers {
		usr.CreatedAt = now.UTC()
		if _, err := users.CreateUser(ctx, usr); err != nil {
			return errors.Wrapf(err, "seeding user %s", usr.ID)
		}
	}
	for _, refl := range MockReflections(now.UTC()) {
		if _, err := refls.CreateReflection(ctx, refl); err != nil {
			return errors.Wrapf(err, "seeding reflection %s", refl.ID)
		}
	}
	return nil
}
