/**
 * Copyright 2025 Adobe. All rights reserved.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License. You may obtain a copy
 * of the License at http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software distributed under
 * the License is distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR REPRESENTATIONS
 * OF ANY KIND, either express or implied. See the License for the specific language
 * governing permissions and limitations under the License.
 */

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adobe/atomic-interactor/lib/log"
)

func Test_read_config_file(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interactor.yml")
	data := `---
backend: rod
base_url: http://localhost:8080
timeout: 5s
navigation_timeout: 1m
log:
  level: debug
monitoring:
  enabled: true
  otlp_endpoint: otel:4317
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := cfg.ReadConfigFile(path); err != nil {
		t.Fatalf("ReadConfigFile() error: %v", err)
	}
	if cfg.Backend != "rod" || cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("ReadConfigFile() = %s %s", cfg.Backend, cfg.BaseURL)
	}
	if cfg.Timeout.Std() != 5*time.Second || cfg.NavigationTimeout.Std() != time.Minute {
		t.Errorf("Timeouts = %s, %s", cfg.Timeout, cfg.NavigationTimeout)
	}
	// Values missing in the file keep the defaults
	if cfg.Browser != "chromium" || !cfg.Headless || cfg.PollInterval.Std() != 100*time.Millisecond {
		t.Errorf("Defaults were lost: %s %t %s", cfg.Browser, cfg.Headless, cfg.PollInterval)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "console" {
		t.Errorf("Log config = %+v", cfg.Log)
	}
	if !cfg.Monitoring.Enabled || cfg.Monitoring.OTLPEndpoint != "otel:4317" || !cfg.Monitoring.EnableTracing {
		t.Errorf("Monitoring config = %+v", cfg.Monitoring)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}

	if err := cfg.ReadConfigFile(""); err != nil {
		t.Errorf("ReadConfigFile(\"\") error: %v", err)
	}
	if err := cfg.ReadConfigFile(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Errorf("ReadConfigFile() of missing file should fail")
	}
}

func Test_apply_env(t *testing.T) {
	env := map[string]string{
		"BACKEND":  "htmldom",
		"BROWSER":  "firefox",
		"BASE_URL": "http://app:3000",
		"HEADFUL":  "1",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv() error: %v", err)
	}
	if cfg.Backend != "htmldom" || cfg.Browser != "firefox" || cfg.BaseURL != "http://app:3000" || cfg.Headless {
		t.Errorf("ApplyEnv() = %+v", cfg)
	}

	env["HEADFUL"] = "maybe"
	if err := cfg.ApplyEnv(lookup); err == nil {
		t.Errorf("ApplyEnv() with invalid HEADFUL should fail")
	}
}

func Test_validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{"default", func(*Config) {}, true},
		{"unknown backend", func(c *Config) { c.Backend = "selenium" }, false},
		{"unknown browser", func(c *Config) { c.Browser = "ie" }, false},
		{"rod firefox", func(c *Config) { c.Backend, c.Browser = "rod", "firefox" }, false},
		{"negative timeout", func(c *Config) { c.Timeout = -1 }, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(cfg)
			if err := cfg.Validate(); (err == nil) != tc.valid {
				t.Errorf("Validate() = %v; want valid: %t", err, tc.valid)
			}
		})
	}
}

func Test_init_log(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interactor.yml")
	data := "log:\n  level: debug\n  format: json\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	defer log.Initialize(log.DefaultConfig())

	cfg := Default()
	if err := cfg.ReadConfigFile(path); err != nil {
		t.Fatalf("ReadConfigFile() error: %v", err)
	}

	var buf bytes.Buffer
	if err := cfg.InitLog(func(l *log.Config) { l.Output = &buf }); err != nil {
		t.Fatalf("InitLog() error: %v", err)
	}
	log.WithFunc("config", "Test").Debug("Session opened")
	out := buf.String()
	if !strings.Contains(out, `"level":"DEBUG"`) || !strings.Contains(out, `"msg":"Session opened"`) {
		t.Errorf("Log output = %q; want json debug record", out)
	}
	if cfg.Log.Output != nil {
		t.Errorf("InitLog() modified the config log section")
	}

	// Flags override the file
	buf.Reset()
	if err := cfg.InitLog(func(l *log.Config) { l.Output = &buf; l.Level = "warn" }); err != nil {
		t.Fatalf("InitLog() error: %v", err)
	}
	log.WithFunc("config", "Test").Info("Hidden")
	if buf.Len() != 0 {
		t.Errorf("Log output = %q; want nothing above warn", buf.String())
	}

	cfg.Log.Format = "xml"
	if err := cfg.InitLog(nil); err == nil {
		t.Errorf("InitLog() with bad format should fail")
	}
}
