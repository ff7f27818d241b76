package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := loadConfig(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)

	require.Equal(t, "8080", config.App.Port)
	require.Equal(t, DriverPostgres, config.Database.Driver)
	require.Equal(t, 3*time.Second, config.Database.LockTimeout)
	require.Equal(t, 3, config.Booking.MaxRetries)
	require.Equal(t, 50*time.Millisecond, config.Booking.RetryBaseDelay)
	require.Equal(t, 15*time.Minute, config.Booking.PaymentTimeout)
	require.Zero(t, config.Booking.CancelCutoff)
	require.True(t, config.Booking.LazyMaterialize)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "DB_DRIVER=memory\nMEMORY_SEED_FILE=seed.yaml\nCANCEL_CUTOFF_HOURS=48\nPAYMENT_WEBHOOK_SECRET=from-file\nPORT=9000\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("PORT", "9100")

	config, err := loadConfig(path)
	require.NoError(t, err)

	require.Equal(t, DriverMemory, config.Database.Driver)
	require.Equal(t, "seed.yaml", config.Database.SeedFile)
	require.Equal(t, 48*time.Hour, config.Booking.CancelCutoff)
	require.Equal(t, "from-file", config.Webhook.Secret)
	require.Equal(t, "9100", config.App.Port)
}

func TestLoadConfig_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")

	_, err := loadConfig(filepath.Join(t.TempDir(), ".env"))
	require.Error(t, err)
}

func TestLoadConfig_RejectsNonPositiveSweepInterval(t *testing.T) {
	for _, interval := range []string{"0s", "-1m"} {
		t.Setenv("SWEEP_INTERVAL", interval)

		_, err := loadConfig(filepath.Join(t.TempDir(), ".env"))
		require.Error(t, err, interval)
	}
}

func TestLoadConfig_MemoryDriverNeedsSeed(t *testing.T) {
	t.Setenv("DB_DRIVER", DriverMemory)

	_, err := loadConfig(filepath.Join(t.TempDir(), ".env"))
	require.Error(t, err)
}
