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

package helper

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//go:embed fixtures
var fixtures embed.FS

// Routes served by the fixtures server
var Routes = []string{"/button", "/checkbox", "/select", "/textfield"}

// FixturesHandler serves the widget pages, "/button" is served from "button.html"
func FixturesHandler() (http.Handler, error) {
	return pagesHandler(fixtures, "fixtures")
}

func pagesHandler(fsys fs.FS, dir string) (http.Handler, error) {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("helper: unable to open pages dir %q: %w", dir, err)
	}
	files := http.FileServer(http.FS(sub))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if path := strings.TrimSuffix(r.URL.Path, "/"); path != "" && !strings.Contains(path, ".") {
			r = r.Clone(r.Context())
			r.URL.Path = path + ".html"
		}
		files.ServeHTTP(w, r)
	}), nil
}

// BaseURL returns BASE_URL env to run against the external application, otherwise starts the
// fixtures server for the test
func BaseURL(tb testing.TB) string {
	tb.Helper()
	if url := os.Getenv("BASE_URL"); url != "" {
		return url
	}
	handler, err := FixturesHandler()
	if err != nil {
		tb.Fatalf("Unable to serve fixtures: %v", err)
	}
	srv := httptest.NewServer(otelhttp.NewHandler(handler, "fixtures"))
	tb.Cleanup(srv.Close)
	return srv.URL
}
