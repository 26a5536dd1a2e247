package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "wallet.json", cfg.WalletPath)
	assert.Equal(t, "addr.txt", cfg.AddressListPath)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 0, cfg.PayCooldown)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.MetricsEnabled)

	settings, err := cfg.CycleSettings()
	require.NoError(t, err)
	assert.Equal(t, 180*time.Second, settings.DelayMin)
	assert.Equal(t, 240*time.Second, settings.DelayMax)
	assert.Equal(t, uint64(1_000), settings.SendMin)
	assert.Equal(t, uint64(20_000), settings.SendMax)
	assert.Equal(t, uint64(1_000), settings.SendFloor)
	assert.Equal(t, 3, settings.UnshieldRetry.MaxAttempts)
	assert.Equal(t, 5*time.Second, settings.UnshieldRetry.Delay)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("OCTRA_WALLET_PATH", "/tmp/w.owt")
	t.Setenv("OCTRA_RPC_URL", "http://localhost:9000")
	t.Setenv("PAY_COOLDOWN_MINUTES", "4")
	t.Setenv("CYCLE_DELAY_MIN_SECONDS", "1")
	t.Setenv("CYCLE_DELAY_MAX_SECONDS", "2")
	t.Setenv("CYCLE_SEND_MAX", "0.5")
	t.Setenv("CYCLE_UNSHIELD_RETRY_SECONDS", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/w.owt", cfg.WalletPath)
	assert.Equal(t, "http://localhost:9000", cfg.RPCURL)
	assert.Equal(t, 4*time.Minute, cfg.PayCooldownDuration())

	settings, err := cfg.CycleSettings()
	require.NoError(t, err)
	assert.Equal(t, time.Second, settings.DelayMin)
	assert.Equal(t, 2*time.Second, settings.DelayMax)
	assert.Equal(t, uint64(500_000), settings.SendMax)
	assert.Zero(t, settings.UnshieldRetry.Delay)
}

func TestCycleSettingsInvalid(t *testing.T) {
	tests := map[string]map[string]string{
		"delay range":  {"CYCLE_DELAY_MIN_SECONDS": "10", "CYCLE_DELAY_MAX_SECONDS": "5"},
		"send range":   {"CYCLE_SEND_MIN": "1", "CYCLE_SEND_MAX": "0.5"},
		"shield range": {"CYCLE_SHIELD_MIN": "1", "CYCLE_SHIELD_MAX": "0.5"},
		"bad amount":   {"CYCLE_SEND_FLOOR": "lots"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			require.NoError(t, err)

			_, err = cfg.CycleSettings()
			assert.Error(t, err)
		})
	}
}

func TestLoadInvalidNumber(t *testing.T) {
	t.Setenv("PAY_COOLDOWN_MINUTES", "soon")
	_, err := Load()
	assert.Error(t, err)
}
