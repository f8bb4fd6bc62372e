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

package session

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/adobe/atomic-interactor/lib/config"
	"github.com/adobe/atomic-interactor/lib/locator"
)

func Test_static_session(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><p data-testid="hello">Hello</p></body></html>`)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Backend = "htmldom"
	cfg.BaseURL = srv.URL
	cfg.CaptureDir = t.TempDir()

	s, err := Open(cfg, nil)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if s.Backend() != "htmldom" || !strings.HasPrefix(s.CaptureDir(), cfg.CaptureDir) {
		t.Errorf("Session = %s %s", s.Backend(), s.CaptureDir())
	}

	ctx := context.Background()
	if err = s.Visit(ctx, "/page"); err != nil {
		t.Fatalf("Visit() error: %v", err)
	}
	text, found, err := s.Interactor().GetText(ctx, locator.ByDataTestID("hello"))
	if err != nil || !found || text != "Hello" {
		t.Errorf("GetText() = %q, %t, %v", text, found, err)
	}

	path, err := s.Capture(ctx, "page")
	if err != nil {
		t.Fatalf("Capture() error: %v", err)
	}
	if data, _ := os.ReadFile(path); !strings.Contains(string(data), "Hello") {
		t.Errorf("Capture() content = %q", data)
	}

	if err = s.Close(false); err != nil {
		t.Errorf("Close() error: %v", err)
	}
	if _, err = os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Captures should be removed, stat: %v", err)
	}
}

func Test_open_invalid_config(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = "unknown"
	if _, err := Open(cfg, nil); err == nil {
		t.Fatalf("Open() with unknown backend should fail")
	}
}
