package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "config"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "config", ".env.test"),
		[]byte("TEST_DATABASEENGINE=postgres\nTEST_NEGATIVEWINDOW=48h\n"),
		0o644,
	))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("ENV", "test")
	t.Setenv("TEST_TIMEZONE", "UTC")
	t.Setenv("TEST_GUIDANCEPROVIDER", "Gemini")

	conf := NewConfig()
	assert.Equal(t, "TEST", conf.Env)
	assert.True(t, conf.TestMode)
	assert.Equal(t, "Tafakari", conf.AppName)
	assert.Equal(t, "postgres", conf.Database.Engine)
	assert.Equal(t, 48*time.Hour, conf.NegativeWindow)
	assert.Equal(t, "gemini", conf.Guidance.Provider)
	assert.Equal(t, ":8000", conf.Server.Address)
	assert.Equal(t, "localhost:5432", conf.Database.Address())
	assert.Equal(t, time.UTC, conf.Location())
}

func TestConfig_Location(t *testing.T) {
	tests := []struct {
		tz   string
		want *time.Location
	}{
		{tz: "", want: time.Local},
		{tz: "local", want: time.Local},
		{tz: "UTC", want: time.UTC},
		{tz: "Nowhere/Atlantis", want: time.Local},
	}
	for _, tc := range tests {
		t.Run(tc.tz, func(t *testing.T) {
			assert.Equal(t, tc.want.String(), (&Config{Timezone: tc.tz}).Location().String())
		})
	}
}

func TestConfig_DefaultFromAddress(t *testing.T) {
	conf := &Config{AppName: "Tafakari", DefaultFromEmail: "noreply@tafakari.test"}
	addr := conf.DefaultFromAddress()
	assert.Equal(t, `"Tafakari" <noreply@tafakari.test>`, addr.String())

	conf.DefaultFromEmail = "Teachers <teachers@tafakari.test>"
	assert.Equal(t, "Teachers", conf.DefaultFromAddress().Name)
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Amani", CleanString("  Amani\n"))
	assert.Equal(t, "amani", CleanString(" AMANI ", true))
}

func TestValidationError_Error(t *testing.T) {
	assert.Equal(t, "student_id: unknown", NewValidationError(nil, FieldError{Field: "student_id", Error: "unknown"}).Error())
	assert.True(t, IsShutdown(NewShutdownError("stop")))
}
