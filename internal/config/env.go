package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hiepntnaa/octra-pre-client/internal/common"
	"github.com/hiepntnaa/octra-pre-client/internal/cycle"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// The wallet password is never part of it; see PromptForPassword.
type Config struct {
	WalletPath      string `envconfig:"OCTRA_WALLET_PATH" default:"wallet.json"`
	RPCURL          string `envconfig:"OCTRA_RPC_URL"` // overrides the wallet's rpc
	AddressListPath string `envconfig:"OCTRA_ADDRESS_LIST" default:"addr.txt"`

	Port           string `envconfig:"PORT" default:"8080"`
	PayCooldown    int    `envconfig:"PAY_COOLDOWN_MINUTES" default:"0"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`

	Cycle CycleConfig
}

// CycleConfig holds the automation knobs. Amounts are decimal OCT strings.
type CycleConfig struct {
	DelayMinSeconds     int    `envconfig:"CYCLE_DELAY_MIN_SECONDS" default:"180"`
	DelayMaxSeconds     int    `envconfig:"CYCLE_DELAY_MAX_SECONDS" default:"240"`
	SendMin             string `envconfig:"CYCLE_SEND_MIN" default:"0.001"`
	SendMax             string `envconfig:"CYCLE_SEND_MAX" default:"0.02"`
	SendFloor           string `envconfig:"CYCLE_SEND_FLOOR" default:"0.001"`
	ShieldMin           string `envconfig:"CYCLE_SHIELD_MIN" default:"0.001"`
	ShieldMax           string `envconfig:"CYCLE_SHIELD_MAX" default:"0.02"`
	UnshieldRetrySecond int    `envconfig:"CYCLE_UNSHIELD_RETRY_SECONDS" default:"5"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return cfg, nil
}

// PayCooldownDuration returns the cooldown between sends
func (c *Config) PayCooldownDuration() time.Duration {
	return time.Duration(c.PayCooldown) * time.Minute
}

// CycleSettings converts the knobs into micro units and durations.
func (c *Config) CycleSettings() (cycle.Config, error) {
	cc := c.Cycle
	if cc.DelayMinSeconds < 0 || cc.DelayMaxSeconds < cc.DelayMinSeconds {
		return cycle.Config{}, fmt.Errorf("invalid cycle delay range %d..%d", cc.DelayMinSeconds, cc.DelayMaxSeconds)
	}

	out := cycle.DefaultConfig()
	out.DelayMin = time.Duration(cc.DelayMinSeconds) * time.Second
	out.DelayMax = time.Duration(cc.DelayMaxSeconds) * time.Second
	out.UnshieldRetry.Delay = time.Duration(cc.UnshieldRetrySecond) * time.Second

	amounts := []struct {
		name string
		raw  string
		dst  *uint64
	}{
		{"CYCLE_SEND_MIN", cc.SendMin, &out.SendMin},
		{"CYCLE_SEND_MAX", cc.SendMax, &out.SendMax},
		{"CYCLE_SEND_FLOOR", cc.SendFloor, &out.SendFloor},
		{"CYCLE_SHIELD_MIN", cc.ShieldMin, &out.ShieldMin},
		{"CYCLE_SHIELD_MAX", cc.ShieldMax, &out.ShieldMax},
	}
	for _, a := range amounts {
		v, err := common.OCTToMicro(a.raw)
		if err != nil {
			return cycle.Config{}, fmt.Errorf("%s: %w", a.name, err)
		}
		*a.dst = v
	}

	if out.SendMax < out.SendMin {
		return cycle.Config{}, errors.New("CYCLE_SEND_MAX is below CYCLE_SEND_MIN")
	}
	if out.ShieldMax < out.ShieldMin {
		return cycle.Config{}, errors.New("CYCLE_SHIELD_MAX is below CYCLE_SHIELD_MIN")
	}
	return out, nil
}

// PromptForPassword prompts the user for the wallet password in the terminal.
// The password is read without echoing (hidden input).
// Caller must zero the returned slice after use for security.
func PromptForPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}
	return raw, nil
}
