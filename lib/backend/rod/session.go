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

package rod

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/adobe/atomic-interactor/lib/interactor"
	"github.com/adobe/atomic-interactor/lib/log"
)

// Options of the browser session
type Options struct {
	Headless          bool
	BaseURL           string
	Timeout           time.Duration
	NavigationTimeout time.Duration
	FailOnPageError   bool

	// Bin is the path to the chromium binary, found in the system if empty
	Bin string
}

// Session is a running chromium with one page
type Session struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	doc      *Document

	baseURL           *url.URL
	navigationTimeout time.Duration
}

// Launch starts chromium and opens the blank page
func Launch(opts Options) (*Session, error) {
	logger := log.WithFunc("rod", "Launch")
	s := &Session{navigationTimeout: opts.NavigationTimeout}
	if s.navigationTimeout <= 0 {
		s.navigationTimeout = 30 * time.Second
	}
	if opts.BaseURL != "" {
		var err error
		if s.baseURL, err = url.Parse(opts.BaseURL); err != nil {
			return nil, fmt.Errorf("rod: invalid base url %q: %w", opts.BaseURL, err)
		}
	}

	bin := opts.Bin
	if bin == "" {
		path, found := launcher.LookPath()
		if !found {
			return nil, fmt.Errorf("rod: chromium is not found in the system")
		}
		bin = path
	}

	s.launcher = launcher.New().Bin(bin).Headless(opts.Headless)
	controlURL, err := s.launcher.Launch()
	if err != nil {
		return nil, fmt.Errorf("rod: could not launch %s: %w", bin, err)
	}

	s.browser = rod.New().ControlURL(controlURL)
	if err = s.browser.Connect(); err != nil {
		s.launcher.Kill()
		return nil, fmt.Errorf("rod: could not connect to the browser: %w", err)
	}

	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("rod: could not create page: %w", err)
	}
	if s.doc, err = NewDocument(page, opts.Timeout, opts.FailOnPageError); err != nil {
		s.Close()
		return nil, err
	}

	logger.Debug("Browser started", "bin", bin, "control_url", controlURL)
	return s, nil
}

// Document returns the document of the session page
func (s *Session) Document() interactor.Document {
	return s.doc
}

// Visit navigates the page to the route and waits for the load, relative routes use the base url
func (s *Session) Visit(ctx context.Context, route string) error {
	target, err := url.Parse(route)
	if err != nil {
		return fmt.Errorf("rod: invalid route %q: %w", route, err)
	}
	if s.baseURL != nil {
		target = s.baseURL.ResolveReference(target)
	}

	page := s.doc.page.Context(ctx).Timeout(s.navigationTimeout)
	if err = page.Navigate(target.String()); err != nil {
		return fmt.Errorf("rod: unable to visit %s: %w", target, err)
	}
	if err = page.WaitLoad(); err != nil {
		return fmt.Errorf("rod: unable to load %s: %w", target, err)
	}
	return nil
}

// Screenshot saves the full page png into the path
func (s *Session) Screenshot(ctx context.Context, path string) error {
	data, err := s.doc.page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Close stops the browser and cleans up its profile
func (s *Session) Close() error {
	var errs []error
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("rod: could not close browser: %w", err))
		}
	}
	if s.launcher != nil {
		s.launcher.Cleanup()
	}
	return errors.Join(errs...)
}
