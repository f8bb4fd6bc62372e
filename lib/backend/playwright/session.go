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

package playwright

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	pw "github.com/playwright-community/playwright-go"

	"github.com/adobe/atomic-interactor/lib/interactor"
	"github.com/adobe/atomic-interactor/lib/log"
)

// Options of the browser session
type Options struct {
	Browser           string // chromium, firefox or webkit
	Headless          bool
	BaseURL           string
	Timeout           time.Duration
	NavigationTimeout time.Duration
	FailOnPageError   bool

	// Install downloads the driver and the browser before the start
	Install bool
	// VideoDir enables recording of the page video
	VideoDir string
}

// Session is a running browser with one page
type Session struct {
	pw      *pw.Playwright
	browser pw.Browser
	context pw.BrowserContext
	doc     *Document

	browserName string
}

// Launch starts playwright and opens the page in the new browser context
func Launch(opts Options) (*Session, error) {
	logger := log.WithFunc("playwright", "Launch")
	s := &Session{browserName: opts.Browser}
	if s.browserName == "" {
		s.browserName = "chromium"
	}

	if opts.Install {
		logger.Info("Installing playwright driver", "browser", s.browserName)
		if err := pw.Install(&pw.RunOptions{Browsers: []string{s.browserName}}); err != nil {
			return nil, fmt.Errorf("playwright: unable to install driver: %w", err)
		}
	}

	var err error
	if s.pw, err = pw.Run(); err != nil {
		return nil, fmt.Errorf("playwright: could not start: %w", err)
	}

	var browserType pw.BrowserType
	switch s.browserName {
	case "chromium":
		browserType = s.pw.Chromium
	case "firefox":
		browserType = s.pw.Firefox
	case "webkit":
		browserType = s.pw.WebKit
	default:
		s.pw.Stop()
		return nil, fmt.Errorf("playwright: unknown browser %q", s.browserName)
	}

	if s.browser, err = browserType.Launch(pw.BrowserTypeLaunchOptions{
		Headless: pw.Bool(opts.Headless),
	}); err != nil {
		s.pw.Stop()
		return nil, fmt.Errorf("playwright: could not launch %s: %w", s.browserName, err)
	}

	ctxOpts := pw.BrowserNewContextOptions{
		IgnoreHttpsErrors: pw.Bool(true),
		HasTouch:          pw.Bool(true),
	}
	if opts.BaseURL != "" {
		ctxOpts.BaseURL = pw.String(opts.BaseURL)
	}
	if opts.VideoDir != "" {
		ctxOpts.RecordVideo = &pw.RecordVideo{Dir: opts.VideoDir}
	}
	if s.context, err = s.browser.NewContext(ctxOpts); err != nil {
		s.Close()
		return nil, fmt.Errorf("playwright: could not create context: %w", err)
	}
	if opts.Timeout > 0 {
		s.context.SetDefaultTimeout(float64(opts.Timeout.Milliseconds()))
	}
	if opts.NavigationTimeout > 0 {
		s.context.SetDefaultNavigationTimeout(float64(opts.NavigationTimeout.Milliseconds()))
	}

	page, err := s.context.NewPage()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("playwright: could not create page: %w", err)
	}
	s.doc = NewDocument(page, opts.FailOnPageError)

	logger.Debug("Browser started", "browser", s.browserName, "version", s.browser.Version())
	return s, nil
}

// Document returns the document of the session page
func (s *Session) Document() interactor.Document {
	return s.doc
}

// Page returns the playwright page of the session
func (s *Session) Page() pw.Page {
	return s.doc.page
}

// Visit navigates the page to the route, relative routes use the base url
func (s *Session) Visit(ctx context.Context, route string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	resp, err := s.doc.page.Goto(route)
	if err != nil {
		return fmt.Errorf("playwright: unable to visit %s: %w", route, err)
	}
	if resp != nil && resp.Status() >= 400 {
		return fmt.Errorf("playwright: unable to visit %s: status %d", route, resp.Status())
	}
	return nil
}

// Screenshot saves the full page png into the path
func (s *Session) Screenshot(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	_, err := s.doc.page.Screenshot(pw.PageScreenshotOptions{
		Path:     pw.String(path),
		FullPage: pw.Bool(true),
	})
	return err
}

// Close stops the browser and playwright
func (s *Session) Close() error {
	var errs []error
	if s.context != nil {
		if err := s.context.Close(); err != nil {
			errs = append(errs, fmt.Errorf("playwright: could not close context: %w", err))
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("playwright: could not close browser: %w", err))
		}
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("playwright: could not stop: %w", err))
		}
	}
	return errors.Join(errs...)
}
