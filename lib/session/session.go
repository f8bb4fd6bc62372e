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

// Package session opens the configured automation backend and binds the interactor to it
package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/adobe/atomic-interactor/lib/backend/htmldom"
	"github.com/adobe/atomic-interactor/lib/backend/playwright"
	"github.com/adobe/atomic-interactor/lib/backend/rod"
	"github.com/adobe/atomic-interactor/lib/config"
	"github.com/adobe/atomic-interactor/lib/interactor"
	"github.com/adobe/atomic-interactor/lib/log"
	"github.com/adobe/atomic-interactor/lib/monitoring"
)

// Browser is the backend session with one page
type Browser interface {
	Document() interactor.Document
	Visit(ctx context.Context, route string) error
	Screenshot(ctx context.Context, path string) error
	Close() error
}

// Session is the opened browser with the interactor bound to its page
type Session struct {
	Browser

	uid        uuid.UUID
	backend    string
	captureDir string
	executor   *interactor.Executor
}

// Open starts the backend from the config, monitor could be nil
func Open(cfg *config.Config, monitor *monitoring.Monitor) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		uid:     uuid.New(),
		backend: cfg.Backend,
	}
	s.captureDir = filepath.Join(cfg.CaptureDir, s.uid.String())

	var err error
	switch cfg.Backend {
	case "playwright":
		opts := playwright.Options{
			Browser:           cfg.Browser,
			Headless:          cfg.Headless,
			BaseURL:           cfg.BaseURL,
			Timeout:           cfg.Timeout.Std(),
			NavigationTimeout: cfg.NavigationTimeout.Std(),
			FailOnPageError:   cfg.FailOnPageError,
			Install:           cfg.InstallDriver,
		}
		if cfg.RecordVideo {
			opts.VideoDir = s.CaptureDir("video")
		}
		s.Browser, err = playwright.Launch(opts)
	case "rod":
		s.Browser, err = rod.Launch(rod.Options{
			Headless:          cfg.Headless,
			BaseURL:           cfg.BaseURL,
			Timeout:           cfg.Timeout.Std(),
			NavigationTimeout: cfg.NavigationTimeout.Std(),
			FailOnPageError:   cfg.FailOnPageError,
			Bin:               cfg.BrowserBin,
		})
	case "htmldom":
		s.Browser, err = NewStatic(cfg.BaseURL)
	}
	if err != nil {
		return nil, err
	}

	s.executor = interactor.NewExecutor(s.Document())
	s.executor.SetMonitor(monitor)
	s.executor.SetPollInterval(cfg.PollInterval.Std())

	log.WithFunc("session", "Open").Info("Session opened", "uid", s.uid, "backend", s.backend, "browser", cfg.Browser)
	return s, nil
}

// UID is the unique identifier of the session, also used in the capture path
func (s *Session) UID() uuid.UUID {
	return s.uid
}

// Backend returns the name of the session backend
func (s *Session) Backend() string {
	return s.backend
}

// Interactor returns the interactor bound to the session page
func (s *Session) Interactor() interactor.Interactor {
	return s.executor
}

// CaptureDir returns the path within the session capture dir
func (s *Session) CaptureDir(path ...string) string {
	return filepath.Join(append([]string{s.captureDir}, path...)...)
}

// Capture takes screenshot with the name into the session capture dir and returns its path
func (s *Session) Capture(ctx context.Context, name string) (string, error) {
	path := s.CaptureDir("screenshots", name+".png")
	if err := s.Screenshot(ctx, path); err != nil {
		return "", fmt.Errorf("session: unable to capture %s: %w", name, err)
	}
	return path, nil
}

// Close stops the backend, the captures are removed unless keepCaptures is set
func (s *Session) Close(keepCaptures bool) error {
	err := s.Browser.Close()
	if keepCaptures {
		log.WithFunc("session", "Close").Info("Keeping captures for checking", "dir", s.captureDir)
	} else {
		os.RemoveAll(s.captureDir)
	}
	return err
}

// Static is the htmldom backend as a Browser
type Static struct {
	doc *htmldom.Document
}

// NewStatic creates the static document which loads pages from the base url
func NewStatic(baseURL string) (*Static, error) {
	doc := htmldom.New()
	if baseURL != "" {
		if err := doc.SetBaseURL(baseURL); err != nil {
			return nil, err
		}
	}
	return &Static{doc: doc}, nil
}

// Document returns the htmldom document
func (s *Static) Document() interactor.Document {
	return s.doc
}

// Visit loads the page into the document
func (s *Static) Visit(ctx context.Context, route string) error {
	return s.doc.Visit(ctx, route)
}

// Screenshot saves the rendered html into the path, static document can't draw
func (s *Static) Screenshot(_ context.Context, path string) error {
	data, err := s.doc.HTML()
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(data), 0o644)
}

// Close does nothing
func (*Static) Close() error {
	return nil
}
