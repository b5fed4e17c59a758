package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Configuration keys, shared by flags, env vars (CODEDECK_*) and the config file.
const (
	keyConfig      = "config"
	keyEndpoint    = "endpoint"
	keyTimeout     = "timeout"
	keyWorkspace   = "workspace"
	keyExportDir   = "export-dir"
	keyPreviewAddr = "preview-addr"
	keyLogFile     = "log-file"
	keyVerbose     = "verbose"
)

const appName = "codedeck"

// Config is the resolved runtime configuration.
type Config struct {
	Endpoint      string
	Timeout       time.Duration
	WorkspacePath string
	ExportDir     string
	// PreviewAddr is the live preview listen address; empty disables the server.
	PreviewAddr string
	LogFile     string
	Verbose     bool
}

func configDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appName)
	}
	return "." + appName
}

func cacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, appName)
	}
	return "." + appName
}

// newViper creates a viper instance with defaults and env binding.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(keyEndpoint, DefaultEndpoint)
	v.SetDefault(keyTimeout, DefaultTimeout)
	v.SetDefault(keyWorkspace, filepath.Join(configDir(), "workspace.json"))
	v.SetDefault(keyExportDir, ".")
	v.SetDefault(keyPreviewAddr, "127.0.0.1:0")
	v.SetDefault(keyLogFile, filepath.Join(cacheDir(), appName+".log"))
	v.SetDefault(keyVerbose, false)

	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// readConfigFile loads the YAML config file. An explicit path must exist;
// the default location is optional.
func readConfigFile(v *viper.Viper) error {
	if path := v.GetString(keyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir())
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// LoadConfig resolves the configuration from v.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		Endpoint:      strings.TrimSpace(v.GetString(keyEndpoint)),
		Timeout:       v.GetDuration(keyTimeout),
		WorkspacePath: v.GetString(keyWorkspace),
		ExportDir:     v.GetString(keyExportDir),
		PreviewAddr:   v.GetString(keyPreviewAddr),
		LogFile:       v.GetString(keyLogFile),
		Verbose:       v.GetBool(keyVerbose),
	}
	if cfg.Endpoint == "" {
		return cfg, errors.New("endpoint must not be empty")
	}
	if !strings.HasPrefix(cfg.Endpoint, "http://") && !strings.HasPrefix(cfg.Endpoint, "https://") {
		return cfg, fmt.Errorf("endpoint %q must be an http(s) URL", cfg.Endpoint)
	}
	if cfg.Timeout <= 0 {
		return cfg, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}
	if cfg.WorkspacePath == "" {
		return cfg, errors.New("workspace path must not be empty")
	}
	return cfg, nil
}
