package cmd_test

import (
	"testing"
	"time"

	"fulfillment/cmd"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_DSN(t *testing.T) {
	cfg := cmd.Config{
		DBHost:     "db",
		DBPort:     "5432",
		DBUser:     "app",
		DBPassword: "secret",
		DBName:     "orders",
		DBSslMode:  "disable",
	}

	assert.Equal(t, "host=db port=5432 user=app password=secret dbname=orders sslmode=disable", cfg.DSN())
}

func TestConfig_Location(t *testing.T) {
	t.Run("empty timezone is UTC", func(t *testing.T) {
		loc, err := cmd.Config{}.Location()

		require.NoError(t, err)
		assert.Equal(t, time.UTC, loc)
	})

	t.Run("named timezone", func(t *testing.T) {
		loc, err := cmd.Config{Timezone: "Asia/Almaty"}.Location()

		require.NoError(t, err)
		assert.Equal(t, "Asia/Almaty", loc.String())
	})

	t.Run("unknown timezone", func(t *testing.T) {
		_, err := cmd.Config{Timezone: "Mars/Olympus"}.Location()

		require.Error(t, err)
	})
}
