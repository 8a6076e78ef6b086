package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/homeyscriptkit/hsk/internal/interpolation"
	"github.com/pelletier/go-toml/v2"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

const (
	globalConfigDirName  = ".hsk"
	globalConfigFileName = "config.json"
)

// ProjectConfigFiles are the project config file names, in lookup order.
var ProjectConfigFiles = []string{".hsk.json", ".hsk.yaml", ".hsk.yml", ".hsk.toml"}

// Environment variables read by ApplyEnv.
const (
	EnvAPIKey = "HSK_API_KEY"
	EnvIP     = "HSK_IP"
	EnvHost   = "HSK_HOST"
	EnvHTTPS  = "HSK_HTTPS"
)

// Config is the persisted hsk configuration.
type Config struct {
	APIKey   string `json:"apiKey,omitempty" yaml:"apiKey,omitempty" toml:"apiKey,omitempty"`
	IP       string `json:"ip,omitempty" yaml:"ip,omitempty" toml:"ip,omitempty"`
	Host     string `json:"host,omitempty" yaml:"host,omitempty" toml:"host,omitempty"`
	HTTPS    bool   `json:"https" yaml:"https" toml:"https"`
	LogLevel string `json:"logLevel,omitempty" yaml:"logLevel,omitempty" toml:"logLevel,omitempty"`
}

// Session returns the connection settings of the config.
func (c *Config) Session() SessionConfig {
	return SessionConfig{APIKey: c.APIKey, IP: c.IP, Host: c.Host, HTTPS: c.HTTPS}
}

// ApplyEnv overrides fields from HSK_* variables found by lookup.
func (c *Config) ApplyEnv(lookup interpolation.LookupFunc) error {
	if v, ok := lookup(EnvAPIKey); ok && v != "" {
		c.APIKey = v
	}
	if v, ok := lookup(EnvIP); ok && v != "" {
		c.IP = v
	}
	if v, ok := lookup(EnvHost); ok && v != "" {
		c.Host = v
	}
	if v, ok := lookup(EnvHTTPS); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvHTTPS, err)
		}
		c.HTTPS = b
	}
	return nil
}

// ConfigManager reads the global config (~/.hsk/config.json) and the project
// config (.hsk.json, .hsk.yaml, .hsk.yml or .hsk.toml in the project dir).
// Project values override global ones.
type ConfigManager struct {
	projectDir string
	globalDir  string
	mu         sync.RWMutex
}

// NewConfigManager creates a ConfigManager for the working directory and
// the user's home directory.
func NewConfigManager() (*ConfigManager, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home directory: %w", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting current directory: %w", err)
	}
	return NewConfigManagerWithDirs(cwd, filepath.Join(home, globalConfigDirName)), nil
}

// NewConfigManagerWithDirs creates a ConfigManager with explicit directories.
func NewConfigManagerWithDirs(projectDir, globalDir string) *ConfigManager {
	return &ConfigManager{projectDir: projectDir, globalDir: globalDir}
}

// GlobalPath returns the global config file path.
func (cm *ConfigManager) GlobalPath() string {
	return filepath.Join(cm.globalDir, globalConfigFileName)
}

// ProjectPath returns the first existing project config file, or the
// .hsk.json path when none exists.
func (cm *ConfigManager) ProjectPath() string {
	for _, name := range ProjectConfigFiles {
		p := filepath.Join(cm.projectDir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(cm.projectDir, ProjectConfigFiles[0])
}

// Load merges defaults, the global file and the project file, then expands
// ${VAR} and ${VAR:default} references in string values. Missing files are
// skipped.
func (cm *ConfigManager) Load() (*Config, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	cfg := defaultConfig()
	for _, path := range []string{cm.GlobalPath(), cm.ProjectPath()} {
		if err := decodeConfigFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := expandConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to the project .hsk.json, creating the directory if needed.
func (cm *ConfigManager) Save(cfg *Config) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if err := os.MkdirAll(cm.projectDir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return writeFileAtomic(filepath.Join(cm.projectDir, ProjectConfigFiles[0]), append(data, '\n'))
}

// Init writes cfg as a new project .hsk.json and returns its path. It fails
// when the project already has a config file in any supported format.
func (cm *ConfigManager) Init(cfg *Config) (string, error) {
	existing := cm.ProjectPath()
	if _, err := os.Stat(existing); err == nil {
		return "", fmt.Errorf("%s already exists; use 'hsk config set' to change it", existing)
	}
	if err := cm.Save(cfg); err != nil {
		return "", err
	}
	return filepath.Join(cm.projectDir, ProjectConfigFiles[0]), nil
}

func defaultConfig() *Config {
	return &Config{HTTPS: false}
}

// decodeConfigFile decodes path onto cfg, leaving absent keys untouched.
func decodeConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		var std []byte
		std, err = hujson.Standardize(data)
		if err == nil {
			err = json.Unmarshal(std, cfg)
		}
	}
	if err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func expandConfig(cfg *Config) error {
	for _, field := range []struct {
		name string
		ptr  *string
	}{
		{"apiKey", &cfg.APIKey},
		{"ip", &cfg.IP},
		{"host", &cfg.Host},
		{"logLevel", &cfg.LogLevel},
	} {
		v, err := interpolation.ExpandEnv(*field.ptr)
		if err != nil {
			return fmt.Errorf("expanding %s: %w", field.name, err)
		}
		*field.ptr = v
	}
	return nil
}

// writeFileAtomic writes to a temp file and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}
