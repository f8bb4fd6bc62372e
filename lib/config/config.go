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

// Package config holds the configuration of the interactor session
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/ghodss/yaml"

	"github.com/adobe/atomic-interactor/lib/log"
	"github.com/adobe/atomic-interactor/lib/monitoring"
	"github.com/adobe/atomic-interactor/lib/util"
)

// Known backends and browsers
var (
	Backends = []string{"playwright", "rod", "htmldom"}
	Browsers = []string{"chromium", "firefox", "webkit"}
)

// Config of the interactor session
type Config struct {
	Backend  string `json:"backend"`  // Automation tool: playwright, rod or htmldom
	Browser  string `json:"browser"`  // Browser to run: chromium, firefox or webkit
	Headless bool   `json:"headless"` // Run browser without the window
	BaseURL  string `json:"base_url"` // Relative routes are resolved against it

	Timeout           util.Duration `json:"timeout"`            // Default wait of the hard element queries
	NavigationTimeout util.Duration `json:"navigation_timeout"` // Wait for the page load
	PollInterval      util.Duration `json:"poll_interval"`      // Interval of the existence checks
	FailOnPageError   bool          `json:"fail_on_page_error"` // Page script errors fail the running commands

	InstallDriver bool   `json:"install_driver"` // Download playwright driver and browser before the start
	BrowserBin    string `json:"browser_bin"`    // Chromium binary for rod, found in the system if empty
	CaptureDir    string `json:"capture_dir"`    // Where to store screenshots and videos
	RecordVideo   bool   `json:"record_video"`   // Record video of the session (playwright only)

	Log        *log.Config        `json:"log"`
	Monitoring *monitoring.Config `json:"monitoring"`
}

// Default returns the config with the default values
func Default() *Config {
	return &Config{
		Backend:           "playwright",
		Browser:           "chromium",
		Headless:          true,
		BaseURL:           "http://localhost:3000",
		Timeout:           util.Duration(time.Second),
		NavigationTimeout: util.Duration(10 * time.Second),
		PollInterval:      util.Duration(100 * time.Millisecond),
		FailOnPageError:   true,
		CaptureDir:        "interactor_captures",
		Log:               log.DefaultConfig(),
		Monitoring:        monitoring.DefaultConfig(),
	}
}

// ReadConfigFile merges the yaml or json file into the config, empty path does nothing
func (c *Config) ReadConfigFile(cfgPath string) error {
	if cfgPath == "" {
		return nil
	}

	// Open and parse
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return fmt.Errorf("config: unable to read %s: %w", cfgPath, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: unable to parse %s: %w", cfgPath, err)
	}

	return nil
}

// ApplyEnv overrides the config with the environment variables BACKEND, BROWSER, BASE_URL and
// HEADFUL, the lookup function is usually os.LookupEnv
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("BACKEND"); ok && v != "" {
		c.Backend = v
	}
	if v, ok := lookup("BROWSER"); ok && v != "" {
		c.Browser = v
	}
	if v, ok := lookup("BASE_URL"); ok && v != "" {
		c.BaseURL = v
	}
	if v, ok := lookup("HEADFUL"); ok && v != "" {
		headful, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: invalid HEADFUL value %q: %w", v, err)
		}
		c.Headless = !headful
	}
	return nil
}

// Validate checks the config values
func (c *Config) Validate() error {
	if !slices.Contains(Backends, c.Backend) {
		return fmt.Errorf("config: unknown backend %q, available: %v", c.Backend, Backends)
	}
	if !slices.Contains(Browsers, c.Browser) {
		return fmt.Errorf("config: unknown browser %q, available: %v", c.Browser, Browsers)
	}
	if c.Backend == "rod" && c.Browser != "chromium" {
		return fmt.Errorf("config: rod backend supports only chromium, not %q", c.Browser)
	}
	if c.Timeout < 0 || c.NavigationTimeout < 0 || c.PollInterval < 0 {
		return fmt.Errorf("config: timeouts can't be negative")
	}
	return nil
}

// InitLog initializes the logging with the log section of the config, the override function
// receives a copy of it to apply the command line flags
func (c *Config) InitLog(override func(*log.Config)) error {
	logCfg := log.DefaultConfig()
	if c.Log != nil {
		*logCfg = *c.Log
	}
	if override != nil {
		override(logCfg)
	}
	if err := log.Initialize(logCfg); err != nil {
		return fmt.Errorf("config: unable to init log: %w", err)
	}
	return nil
}
