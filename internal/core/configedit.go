package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/tailscale/hujson"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// configKeys maps each editable key to whether it holds a boolean.
var configKeys = map[string]bool{
	"apiKey":   false,
	"ip":       false,
	"host":     false,
	"https":    true,
	"logLevel": false,
}

// ConfigKeys returns the keys accepted by Get, Set and Unset.
func ConfigKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func checkConfigKey(key string) (bool, error) {
	isBool, ok := configKeys[key]
	if !ok {
		return false, fmt.Errorf("unknown config key %q (valid keys: %v)", key, ConfigKeys())
	}
	return isBool, nil
}

// Get returns the effective value of key after merging all config files.
func (cm *ConfigManager) Get(key string) (string, error) {
	if _, err := checkConfigKey(key); err != nil {
		return "", err
	}
	cfg, err := cm.Load()
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}
	return gjson.GetBytes(data, key).String(), nil
}

// Set writes key into the project .hsk.json. Other content of the file is
// kept as is; comments in a JSONC file are dropped.
func (cm *ConfigManager) Set(key, value string) error {
	isBool, err := checkConfigKey(key)
	if err != nil {
		return err
	}

	return cm.editProjectJSON(func(content string) (string, error) {
		if isBool {
			b, err := strconv.ParseBool(value)
			if err != nil {
				return "", fmt.Errorf("%s must be true or false: %w", key, err)
			}
			return sjson.SetRaw(content, key, strconv.FormatBool(b))
		}
		return sjson.Set(content, key, value)
	})
}

// Unset removes key from the project .hsk.json.
func (cm *ConfigManager) Unset(key string) error {
	if _, err := checkConfigKey(key); err != nil {
		return err
	}
	return cm.editProjectJSON(func(content string) (string, error) {
		if !gjson.Get(content, key).Exists() {
			return content, nil
		}
		return sjson.Delete(content, key)
	})
}

func (cm *ConfigManager) editProjectJSON(edit func(string) (string, error)) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	path := filepath.Join(cm.projectDir, ProjectConfigFiles[0])
	if existing := cm.ProjectPath(); existing != path {
		return fmt.Errorf("config edits only support %s; found %s", ProjectConfigFiles[0], filepath.Base(existing))
	}

	content, err := readJSONDocument(path)
	if err != nil {
		return err
	}
	updated, err := edit(content)
	if err != nil {
		return err
	}

	pretty, err := hujson.Format([]byte(updated))
	if err != nil {
		return fmt.Errorf("formatting config: %w", err)
	}
	return writeFileAtomic(path, pretty)
}

// readJSONDocument returns the file as standard JSON, "{}" when it does not exist.
func readJSONDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "{}", nil
		}
		return "", fmt.Errorf("reading config: %w", err)
	}
	if gjson.ValidBytes(data) {
		return string(data), nil
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		return "", fmt.Errorf("parsing config %s: %w", path, err)
	}
	return string(std), nil
}
