package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("LOCK_TIMEOUT", "")
	t.Setenv("DB_DRIVER", "SQLite")
	LoadEnv()

	assert.Equal(t, "sqlite", DB_DRIVER)
	assert.Equal(t, 5*time.Second, LOCK_TIMEOUT)
}

func TestLoadEnvBadDurationFallsBack(t *testing.T) {
	t.Setenv("LOCK_TIMEOUT", "soon")
	LoadEnv()
	assert.Equal(t, 5*time.Second, LOCK_TIMEOUT)

	t.Setenv("LOCK_TIMEOUT", "750ms")
	LoadEnv()
	assert.Equal(t, 750*time.Millisecond, LOCK_TIMEOUT)
}

func TestRequire(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("DB_URL", "")
	require.NoError(t, Require("JWT_SECRET"))

	err := Require("JWT_SECRET", "DB_URL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_URL")
}
