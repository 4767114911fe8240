// Package testutil holds helpers shared by package tests.
package testutil

import (
	"bytes"
	"context"
	"log"
	"testing"
	"time"

	"github.com/trezcool/tafakari/core"
	"github.com/trezcool/tafakari/core/reflection"
	"github.com/trezcool/tafakari/core/user"
	logsvc "github.com/trezcool/tafakari/services/logger"
)

// Now is the fixed instant tests run at.
var Now = time.Date(2026, time.January, 5, 12, 0, 0, 0, time.UTC)

func NewConfig() *core.Config {
	return &core.Config{
		AppName:          "Tafakari",
		Env:              "TEST",
		TestMode:         true,
		Timezone:         "UTC",
		NegativeWindow:   72 * time.Hour,
		DefaultFromEmail: "noreply@tafakari.test",
		Server:           core.ServerConfig{DisableReqLogs: true},
	}
}

// NewLogger returns a logger that writes to buf (discarded when nil) and never reports to Rollbar.
func NewLogger(buf *bytes.Buffer) *logsvc.RollbarLogger {
	if buf == nil {
		buf = new(bytes.Buffer)
	}
	return logsvc.NewRollbarLogger(log.New(buf, "", 0), NewConfig())
}

func CreateStudent(t *testing.T, repo user.Repository, id, name string, email ...string) user.User {
	t.Helper()
	usr := user.User{ID: id, Name: name, Role: user.RoleStudent, CreatedAt: Now}
	if len(email) > 0 {
		usr.Email = email[0]
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return usr
}

func CreateTeacher(t *testing.T, repo user.Repository, id, name string) user.User {
	t.Helper()
	usr, err := repo.CreateUser(context.Background(), user.User{ID: id, Name: name, Role: user.RoleTeacher, CreatedAt: Now})
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}
	return usr
}

func CreateReflection(
	t *testing.T,
	repo reflection.Repository,
	id, studentID string,
	date time.Time,
	satisfaction int,
	sentiment reflection.Sentiment,
) reflection.Reflection {
	t.Helper()
	refl := reflection.Reflection{
		ID:              id,
		StudentID:       studentID,
		Date:            date,
		Satisfaction:    satisfaction,
		SelfEval:        "self evaluation of " + id,
		AchievementEval: "achievements of " + id,
		FuturePlans:     "plans of " + id,
		Sentiment:       sentiment,
	}
	refl, err := repo.CreateReflection(context.Background(), refl)
	if err != nil {
		t.Fatalf("CreateReflection() failed: %v", err)
	}
	return refl
}
