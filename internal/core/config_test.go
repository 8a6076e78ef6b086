package core

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestConfigManager(t *testing.T) (*ConfigManager, string, string) {
	t.Helper()
	root := t.TempDir()
	project := filepath.Join(root, "project")
	global := filepath.Join(root, "home", ".hsk")
	if err := os.MkdirAll(project, 0o755); err != nil {
		t.Fatal(err)
	}
	return NewConfigManagerWithDirs(project, global), project, global
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestConfigManager_DefaultConfig(t *testing.T) {
	cm, _, _ := newTestConfigManager(t)

	cfg, err := cm.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
	if cfg.APIKey != "" || cfg.IP != "" || cfg.Host != "" {
		t.Errorf("expected empty connection settings, got %+v", cfg)
	}
	if cfg.HTTPS {
		t.Error("expected https to be false by default")
	}
}

func TestConfigManager_ProjectFormats(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{".hsk.json", `{"apiKey": "k", "ip": "10.0.0.2", "https": true}`},
		{".hsk.json", "{\n  // local hub\n  \"apiKey\": \"k\",\n  \"ip\": \"10.0.0.2\",\n  \"https\": true,\n}\n"},
		{".hsk.yaml", "apiKey: k\nip: 10.0.0.2\nhttps: true\n"},
		{".hsk.yml", "apiKey: k\nip: 10.0.0.2\nhttps: true\n"},
		{".hsk.toml", "apiKey = \"k\"\nip = \"10.0.0.2\"\nhttps = true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			cm, project, _ := newTestConfigManager(t)
			writeConfig(t, filepath.Join(project, tt.file), tt.content)

			if got := cm.ProjectPath(); got != filepath.Join(project, tt.file) {
				t.Errorf("ProjectPath() = %q", got)
			}

			cfg, err := cm.Load()
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if cfg.APIKey != "k" || cfg.IP != "10.0.0.2" || !cfg.HTTPS {
				t.Errorf("unexpected config: %+v", cfg)
			}
		})
	}
}

func TestConfigManager_ProjectOverridesGlobal(t *testing.T) {
	cm, project, global := newTestConfigManager(t)
	writeConfig(t, filepath.Join(global, "config.json"), `{"apiKey": "global-key", "ip": "10.0.0.1", "logLevel": "info"}`)
	writeConfig(t, filepath.Join(project, ".hsk.json"), `{"ip": "10.0.0.2"}`)

	cfg, err := cm.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIKey != "global-key" {
		t.Errorf("expected global api key, got %q", cfg.APIKey)
	}
	if cfg.IP != "10.0.0.2" {
		t.Errorf("expected project ip, got %q", cfg.IP)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected global log level, got %q", cfg.LogLevel)
	}
}

func TestConfigManager_ExpandsEnv(t *testing.T) {
	t.Setenv("HSK_TEST_KEY", "from-env")
	cm, project, _ := newTestConfigManager(t)
	writeConfig(t, filepath.Join(project, ".hsk.json"), `{"apiKey": "${HSK_TEST_KEY}", "ip": "${HSK_TEST_UNSET_IP:192.168.1.9}"}`)

	cfg, err := cm.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIKey != "from-env" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.IP != "192.168.1.9" {
		t.Errorf("IP = %q", cfg.IP)
	}
}

func TestConfigManager_ExpandMissingEnv(t *testing.T) {
	cm, project, _ := newTestConfigManager(t)
	writeConfig(t, filepath.Join(project, ".hsk.json"), `{"apiKey": "${HSK_TEST_DEFINITELY_UNSET}"}`)

	_, err := cm.Load()
	if err == nil || !strings.Contains(err.Error(), "expanding apiKey") {
		t.Fatalf("expected expansion error, got %v", err)
	}
}

func TestConfigManager_InvalidFile(t *testing.T) {
	cm, project, _ := newTestConfigManager(t)
	writeConfig(t, filepath.Join(project, ".hsk.json"), `{"apiKey": `)

	if _, err := cm.Load(); err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestConfigManager_SaveAndLoad(t *testing.T) {
	cm, project, _ := newTestConfigManager(t)

	cfg := &Config{APIKey: "k", IP: "10.0.0.2", HTTPS: true}
	if err := cm.Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(project, ".hsk.json")); err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if _, err := os.Stat(filepath.Join(project, ".hsk.json.tmp")); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}

	loaded, err := cm.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("loaded %+v, want %+v", loaded, cfg)
	}
}

func TestConfig_ApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvAPIKey: "env-key",
		EnvIP:     "10.1.1.1",
		EnvHTTPS:  "true",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := &Config{APIKey: "file-key", IP: "10.0.0.2", Host: "http://keep"}
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv() error: %v", err)
	}
	want := Config{APIKey: "env-key", IP: "10.1.1.1", Host: "http://keep", HTTPS: true}
	if *cfg != want {
		t.Errorf("got %+v, want %+v", *cfg, want)
	}

	env[EnvHTTPS] = "maybe"
	if err := cfg.ApplyEnv(lookup); err == nil {
		t.Error("expected error for invalid HSK_HTTPS")
	}
}

func TestConfigManager_SetGetUnset(t *testing.T) {
	cm, project, _ := newTestConfigManager(t)
	path := filepath.Join(project, ".hsk.json")
	writeConfig(t, path, `{"apiKey": "k", "custom": {"keep": 1}}`)

	if err := cm.Set("ip", "10.0.0.9"); err != nil {
		t.Fatalf("Set(ip) error: %v", err)
	}
	if err := cm.Set("https", "yes"); err == nil {
		t.Error("expected error for non-boolean https")
	}
	if err := cm.Set("https", "true"); err != nil {
		t.Fatalf("Set(https) error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		IP     string         `json:"ip"`
		HTTPS  bool           `json:"https"`
		Custom map[string]int `json:"custom"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("edited config is not JSON: %v\n%s", err, data)
	}
	if doc.IP != "10.0.0.9" || !doc.HTTPS || doc.Custom["keep"] != 1 {
		t.Errorf("unexpected edited config:\n%s", data)
	}

	if got, err := cm.Get("ip"); err != nil || got != "10.0.0.9" {
		t.Errorf("Get(ip) = %q, %v", got, err)
	}
	if got, err := cm.Get("https"); err != nil || got != "true" {
		t.Errorf("Get(https) = %q, %v", got, err)
	}

	if err := cm.Unset("ip"); err != nil {
		t.Fatalf("Unset(ip) error: %v", err)
	}
	if got, _ := cm.Get("ip"); got != "" {
		t.Errorf("Get(ip) after Unset = %q", got)
	}
}

func TestConfigManager_SetCreatesFile(t *testing.T) {
	cm, project, _ := newTestConfigManager(t)

	if err := cm.Set("apiKey", "new"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if got, _ := cm.Get("apiKey"); got != "new" {
		t.Errorf("Get(apiKey) = %q", got)
	}
	if _, err := os.Stat(filepath.Join(project, ".hsk.json")); err != nil {
		t.Errorf("expected .hsk.json: %v", err)
	}
}

func TestConfigManager_SetRejectsUnknownKey(t *testing.T) {
	cm, _, _ := newTestConfigManager(t)

	err := cm.Set("password", "x")
	if err == nil || !strings.Contains(err.Error(), "unknown config key") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestConfigManager_SetRefusesYAMLProject(t *testing.T) {
	cm, project, _ := newTestConfigManager(t)
	writeConfig(t, filepath.Join(project, ".hsk.yaml"), "ip: 10.0.0.2\n")

	if err := cm.Set("ip", "10.0.0.3"); err == nil {
		t.Fatal("expected error editing a YAML project config")
	}
}

func TestConfigManager_Init(t *testing.T) {
	cm, project, _ := newTestConfigManager(t)

	path, err := cm.Init(&Config{APIKey: "k", IP: "10.0.0.3"})
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	if want := filepath.Join(project, ".hsk.json"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	loaded, err := cm.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.APIKey != "k" || loaded.IP != "10.0.0.3" {
		t.Errorf("loaded %+v", loaded)
	}
}

func TestConfigManager_InitRefusesExisting(t *testing.T) {
	for _, name := range []string{".hsk.json", ".hsk.toml"} {
		t.Run(name, func(t *testing.T) {
			cm, project, _ := newTestConfigManager(t)
			existing := filepath.Join(project, name)
			writeConfig(t, existing, "")

			_, err := cm.Init(&Config{IP: "10.0.0.3"})
			if err == nil || !strings.Contains(err.Error(), "already exists") {
				t.Fatalf("expected already exists error, got %v", err)
			}
			data, _ := os.ReadFile(existing)
			if len(data) != 0 {
				t.Errorf("existing file was modified: %q", data)
			}
		})
	}
}
