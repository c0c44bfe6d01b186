package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ggonzalez94/nearcli-wallet/internal/network"
	"github.com/ggonzalez94/nearcli-wallet/internal/verify"
	"gopkg.in/yaml.v3"
)

const appDir = "nearcli-wallet"

type GlobalFlags struct {
	ConfigPath  string
	JSON        bool
	Plain       bool
	Select      string
	ResultsOnly bool
	Network     string
	Timeout     string
	Attempts    int
	RPCURL      string
	LogLevel    string
	LogJSON     bool
	NoClipboard bool
}

type Settings struct {
	OutputMode     string
	SelectFields   []string
	ResultsOnly    bool
	Network        network.Network
	Timeout        time.Duration
	VerifyAttempts int
	VerifyDelay    time.Duration
	StorePath      string
	StoreLockPath  string
	RPC            map[network.Network][]string
	// RPCOverride replaces the provider list of the selected network.
	RPCOverride string
	LogLevel    string
	LogJSON     bool
	Clipboard   bool
}

// Providers returns the RPC endpoints for the selected network.
func (s Settings) Providers() []string {
	if s.RPCOverride != "" {
		return []string{s.RPCOverride}
	}
	return s.RPC[s.Network]
}

type fileConfig struct {
	Network string `yaml:"network"`
	Output  string `yaml:"output"`
	Timeout string `yaml:"timeout"`
	Verify  struct {
		Attempts *int   `yaml:"attempts"`
		Delay    string `yaml:"delay"`
	} `yaml:"verify"`
	Store struct {
		Path     string `yaml:"path"`
		LockPath string `yaml:"lock_path"`
	} `yaml:"store"`
	RPC struct {
		Mainnet []string `yaml:"mainnet"`
		Testnet []string `yaml:"testnet"`
	} `yaml:"rpc"`
	Log struct {
		Level string `yaml:"level"`
		JSON  *bool  `yaml:"json"`
	} `yaml:"log"`
	Clipboard *bool `yaml:"clipboard"`
}

func Load(flags GlobalFlags) (Settings, error) {
	settings, err := defaultSettings()
	if err != nil {
		return Settings{}, err
	}

	cfgPath, err := resolveConfigPath(flags.ConfigPath)
	if err != nil {
		return Settings{}, err
	}

	if err := applyFileConfig(cfgPath, &settings); err != nil {
		return Settings{}, err
	}

	if err := applyEnv(&settings); err != nil {
		return Settings{}, err
	}

	if err := applyFlags(flags, &settings); err != nil {
		return Settings{}, err
	}

	if settings.Timeout <= 0 {
		settings.Timeout = 10 * time.Second
	}
	if settings.VerifyAttempts <= 0 {
		settings.VerifyAttempts = verify.DefaultAttempts
	}
	if settings.VerifyDelay < 0 {
		settings.VerifyDelay = verify.DefaultDelay
	}

	return settings, nil
}

func defaultSettings() (Settings, error) {
	storePath, lockPath, err := defaultStorePaths()
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		OutputMode:     "json",
		Network:        network.Testnet,
		Timeout:        10 * time.Second,
		VerifyAttempts: verify.DefaultAttempts,
		VerifyDelay:    verify.DefaultDelay,
		StorePath:      storePath,
		StoreLockPath:  lockPath,
		RPC:            map[network.Network][]string{},
		LogLevel:       "warn",
		Clipboard:      true,
	}, nil
}

func resolveConfigPath(input string) (string, error) {
	if strings.TrimSpace(input) != "" {
		return input, nil
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appDir, "config.yaml"), nil
}

func defaultStorePaths() (string, string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	dir := filepath.Join(base, appDir)
	return filepath.Join(dir, "wallet.db"), filepath.Join(dir, "wallet.lock"), nil
}

func applyFileConfig(path string, settings *Settings) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}

	if cfg.Network != "" {
		n, err := network.Parse(cfg.Network)
		if err != nil {
			return fmt.Errorf("config network: %w", err)
		}
		settings.Network = n
	}
	if cfg.Output != "" {
		settings.OutputMode = strings.ToLower(cfg.Output)
	}
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return fmt.Errorf("config timeout: %w", err)
		}
		settings.Timeout = d
	}
	if cfg.Verify.Attempts != nil {
		settings.VerifyAttempts = *cfg.Verify.Attempts
	}
	if cfg.Verify.Delay != "" {
		d, err := time.ParseDuration(cfg.Verify.Delay)
		if err != nil {
			return fmt.Errorf("config verify.delay: %w", err)
		}
		settings.VerifyDelay = d
	}
	if cfg.Store.Path != "" {
		settings.StorePath = cfg.Store.Path
	}
	if cfg.Store.LockPath != "" {
		settings.StoreLockPath = cfg.Store.LockPath
	}
	if len(cfg.RPC.Mainnet) > 0 {
		settings.RPC[network.Mainnet] = cfg.RPC.Mainnet
	}
	if len(cfg.RPC.Testnet) > 0 {
		settings.RPC[network.Testnet] = cfg.RPC.Testnet
	}
	if cfg.Log.Level != "" {
		settings.LogLevel = strings.ToLower(cfg.Log.Level)
	}
	if cfg.Log.JSON != nil {
		settings.LogJSON = *cfg.Log.JSON
	}
	if cfg.Clipboard != nil {
		settings.Clipboard = *cfg.Clipboard
	}

	return nil
}

func applyEnv(settings *Settings) error {
	if v := os.Getenv("NEARCLI_NETWORK"); v != "" {
		n, err := network.Parse(v)
		if err != nil {
			return fmt.Errorf("NEARCLI_NETWORK: %w", err)
		}
		settings.Network = n
	}
	if v := os.Getenv("NEARCLI_OUTPUT"); v != "" {
		settings.OutputMode = strings.ToLower(v)
	}
	if v := os.Getenv("NEARCLI_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			settings.Timeout = d
		}
	}
	if v := os.Getenv("NEARCLI_VERIFY_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			settings.VerifyAttempts = n
		}
	}
	if v := os.Getenv("NEARCLI_VERIFY_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			settings.VerifyDelay = d
		}
	}
	if v := os.Getenv("NEARCLI_STORE_PATH"); v != "" {
		settings.StorePath = v
	}
	if v := os.Getenv("NEARCLI_STORE_LOCK_PATH"); v != "" {
		settings.StoreLockPath = v
	}
	if v := os.Getenv("NEARCLI_RPC_URL"); v != "" {
		settings.RPCOverride = v
	}
	if v := os.Getenv("NEARCLI_LOG_LEVEL"); v != "" {
		settings.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("NEARCLI_LOG_JSON"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			settings.LogJSON = b
		}
	}
	if v := os.Getenv("NEARCLI_CLIPBOARD"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			settings.Clipboard = b
		}
	}
	return nil
}

func applyFlags(flags GlobalFlags, settings *Settings) error {
	if flags.JSON && flags.Plain {
		return fmt.Errorf("cannot use --json and --plain together")
	}
	if flags.JSON {
		settings.OutputMode = "json"
	}
	if flags.Plain {
		settings.OutputMode = "plain"
	}
	if strings.TrimSpace(flags.Select) != "" {
		parts := strings.Split(flags.Select, ",")
		fields := make([]string, 0, len(parts))
		for _, part := range parts {
			f := strings.TrimSpace(part)
			if f != "" {
				fields = append(fields, f)
			}
		}
		settings.SelectFields = fields
	}
	settings.ResultsOnly = flags.ResultsOnly

	if flags.Network != "" {
		n, err := network.Parse(flags.Network)
		if err != nil {
			return err
		}
		settings.Network = n
	}
	if flags.Timeout != "" {
		d, err := time.ParseDuration(flags.Timeout)
		if err != nil {
			return fmt.Errorf("parse --timeout: %w", err)
		}
		settings.Timeout = d
	}
	if flags.Attempts > 0 {
		settings.VerifyAttempts = flags.Attempts
	}
	if flags.RPCURL != "" {
		settings.RPCOverride = flags.RPCURL
	}
	if flags.LogLevel != "" {
		settings.LogLevel = strings.ToLower(flags.LogLevel)
	}
	if flags.LogJSON {
		settings.LogJSON = true
	}
	if flags.NoClipboard {
		settings.Clipboard = false
	}

	if settings.OutputMode != "json" && settings.OutputMode != "plain" {
		return fmt.Errorf("output must be json or plain")
	}

	return nil
}
