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

// Package helper allows to run the widget suites in the browser
package helper

import (
	"context"
	"fmt"
	"os"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/adobe/atomic-interactor/lib/config"
	"github.com/adobe/atomic-interactor/lib/interactor"
	"github.com/adobe/atomic-interactor/lib/scene"
	"github.com/adobe/atomic-interactor/lib/session"
)

// Browser saves state of the running browser session for particular test
type Browser struct {
	session *session.Session

	// Automatic tests screenshoting
	stepMu sync.Mutex
	step   int
}

// NewBrowser opens the session configured by the BACKEND, BROWSER, BASE_URL and HEADFUL env
// vars, the test is skipped if the browser can't be started here
func NewBrowser(tb testing.TB) *Browser {
	tb.Helper()
	if os.Getenv("SKIP_BROWSER_TESTS") != "" {
		tb.Skip("Browser tests are disabled")
	}

	cfg := config.Default()
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		tb.Fatalf("ERROR: Invalid environment: %v", err)
	}
	cfg.BaseURL = BaseURL(tb)
	cfg.CaptureDir = tb.TempDir()
	cfg.InstallDriver = os.Getenv("INSTALL_DRIVER") != ""

	s, err := session.Open(cfg, nil)
	if err != nil {
		tb.Skipf("Browser %s/%s is not available: %v", cfg.Backend, cfg.Browser, err)
	}
	b := &Browser{session: s}

	tb.Cleanup(func() {
		tb.Log("INFO: Closing browser session:", s.Backend())
		if tb.Failed() {
			tb.Log("INFO: Keeping captures for checking:", s.CaptureDir())
		}
		if err := s.Close(tb.Failed()); err != nil {
			tb.Errorf("ERROR: Could not close session: %v", err)
		}
	})
	return b
}

// Interactor returns the interactor of the session page
func (b *Browser) Interactor() interactor.Interactor {
	return b.session.Interactor()
}

// Visit opens the route and fails the test if it's not possible
func (b *Browser) Visit(tb testing.TB, route string) {
	tb.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := b.session.Visit(ctx, route); err != nil {
		tb.Fatalf("ERROR: Could not visit %s: %v", route, err)
	}
}

// Scene visits the route and creates the engine with the parts, the engine is cleaned up with
// the test
func (b *Browser) Scene(tb testing.TB, route string, parts scene.Parts) *scene.Engine {
	tb.Helper()
	b.Visit(tb, route)
	engine, err := scene.NewEngine(b.Interactor(), parts)
	if err != nil {
		tb.Fatalf("ERROR: Could not create scene: %v", err)
	}
	tb.Cleanup(func() {
		if err := engine.CleanUp(context.Background()); err != nil {
			tb.Errorf("ERROR: Scene clean up failed: %v", err)
		}
	})
	return engine
}

// Run executes the subtest with screenshots at the beginning and the end
func (b *Browser) Run(t *testing.T, name string, fn func(t *testing.T)) {
	t.Helper()

	t.Run(name, func(t *testing.T) {
		// Take screenshot at beginning of subtest
		b.Screenshot(t, "start")

		// Defer screenshot at end of subtest
		defer b.Screenshot(t, "end")

		// Run the actual test function
		fn(t)
	})
}

// Screenshot takes a screenshot with automatic naming
func (b *Browser) Screenshot(t *testing.T, phase string) {
	b.stepMu.Lock()
	defer b.stepMu.Unlock()

	// Increment step counter for this subtest
	b.step++

	subtestName := path.Base(t.Name())

	// Create name: step-subtestName-phase
	name := fmt.Sprintf("%02d-%s-%s", b.step, subtestName, phase)

	if _, err := b.session.Capture(context.Background(), name); err != nil {
		t.Logf("WARNING: Could not take screenshot %s: %v", name, err)
	}
}
