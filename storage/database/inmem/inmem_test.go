package inmemdb

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tafakari/core"
	"github.com/trezcool/tafakari/core/reflection"
	"github.com/trezcool/tafakari/core/user"
	"github.com/trezcool/tafakari/tests"
)

func openRepos(t *testing.T) (user.Repository, reflection.Repository) {
	db, err := Open()
	require.NoError(t, err)
	return NewUserRepository(db), NewReflectionRepository(db)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo, _ := openRepos(t)

	b := testutil.CreateStudent(t, repo, "b", "Baraka Otieno")
	a := testutil.CreateStudent(t, repo, "a", "Amani Njoroge")
	tch := testutil.CreateTeacher(t, repo, "t", "Zawadi")
	noID, err := repo.CreateUser(ctx, user.User{Name: "Chiku", Role: user.RoleStudent, StudentID: "2403"})
	require.NoError(t, err)
	assert.NotEmpty(t, noID.ID)

	tests := []struct {
		name   string
		filter *user.QueryFilter
		want   []user.User
	}{
		{name: "creation order", want: []user.User{b, a, tch, noID}},
		{name: "students", filter: &user.QueryFilter{Role: user.RoleStudent}, want: []user.User{b, a, noID}},
		{name: "teachers", filter: &user.QueryFilter{Role: user.RoleTeacher}, want: []user.User{tch}},
		{name: "search name", filter: &user.QueryFilter{Search: "njor"}, want: []user.User{a}},
		{name: "search cohort id", filter: &user.QueryFilter{Search: "2403"}, want: []user.User{noID}},
		{name: "no match", filter: &user.QueryFilter{Search: "xyz"}, want: []user.User{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.QueryUsers(ctx, tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	// overwriting keeps the creation order
	b.Name = "Baraka O."
	_, err = repo.CreateUser(ctx, b)
	require.NoError(t, err)
	all, err := repo.QueryUsers(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "Baraka O.", all[0].Name)
	assert.Len(t, all, 4)

	_, err = repo.GetUser(ctx, "nope")
	assert.Equal(t, user.ErrNotFound, err)
}

func TestReflectionRepository(t *testing.T) {
	ctx := context.Background()
	_, repo := openRepos(t)
	now := testutil.Now

	r1 := testutil.CreateReflection(t, repo, "r1", "a", now.Add(-time.Hour), 4, reflection.SentimentPositive)
	r2 := testutil.CreateReflection(t, repo, "r2", "b", now, 2, reflection.SentimentNegative)
	r3 := testutil.CreateReflection(t, repo, "r3", "a", now, 2, reflection.SentimentNeutral)
	r4 := testutil.CreateReflection(t, repo, "r4", "a", time.Time{}, 3, "")

	tests := []struct {
		name     string
		filter   *reflection.QueryFilter
		ordering []core.DBOrdering
		want     []reflection.Reflection
	}{
		{name: "submission order", want: []reflection.Reflection{r1, r2, r3, r4}},
		{name: "by student", filter: &reflection.QueryFilter{StudentID: "a"}, want: []reflection.Reflection{r1, r3, r4}},
		{name: "since excludes unknown dates", filter: &reflection.QueryFilter{Since: now.Add(-time.Hour)}, want: []reflection.Reflection{r1, r2, r3}},
		{name: "by student since", filter: &reflection.QueryFilter{StudentID: "a", Since: now}, want: []reflection.Reflection{r3}},
		{
			name:     "date descending is stable",
			filter:   &reflection.QueryFilter{Since: now.Add(-24 * time.Hour)},
			ordering: []core.DBOrdering{{Field: "date"}},
			want:     []reflection.Reflection{r2, r3, r1},
		},
		{
			name:     "satisfaction then date",
			filter:   &reflection.QueryFilter{Since: now.Add(-24 * time.Hour)},
			ordering: []core.DBOrdering{{Field: "satisfaction", Ascending: true}, {Field: "date", Ascending: true}},
			want:     []reflection.Reflection{r2, r3, r1},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.QueryReflections(ctx, tc.filter, tc.ordering)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := repo.GetReflection(ctx, "nope")
	assert.Equal(t, reflection.ErrNotFound, err)
}

func TestReflectionRepository_UpdateReflection(t *testing.T) {
	ctx := context.Background()
	_, repo := openRepos(t)
	testutil.CreateReflection(t, repo, "r1", "a", testutil.Now, 4, "")
	testutil.CreateReflection(t, repo, "r2", "a", testutil.Now, 4, "")

	fb := "well done"
	updated, err := repo.UpdateReflection(ctx, "r1", reflection.Update{TeacherFeedback: &fb})
	require.NoError(t, err)
	require.NotNil(t, updated.TeacherFeedback)
	assert.Equal(t, "well done", *updated.TeacherFeedback)

	// returned values are detached from the store
	*updated.TeacherFeedback = "tampered"
	stored, err := repo.GetReflection(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "well done", *stored.TeacherFeedback)

	other, err := repo.GetReflection(ctx, "r2")
	require.NoError(t, err)
	assert.Nil(t, other.TeacherFeedback)

	_, err = repo.UpdateReflection(ctx, "nope", reflection.Update{TeacherFeedback: &fb})
	assert.Equal(t, reflection.ErrNotFound, err)
}

func TestReflectionRepository_concurrentPatch(t *testing.T) {
	ctx := context.Background()
	_, repo := openRepos(t)
	testutil.CreateReflection(t, repo, "r1", "a", testutil.Now, 4, "")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			fb := "feedback"
			_, _ = repo.UpdateReflection(ctx, "r1", reflection.Update{TeacherFeedback: &fb})
		}()
		go func() {
			defer wg.Done()
			refls, err := repo.QueryReflections(ctx, nil, nil)
			if assert.NoError(t, err) && refls[0].TeacherFeedback != nil {
				assert.Equal(t, "feedback", *refls[0].TeacherFeedback)
			}
		}()
	}
	wg.Wait()
}
