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

package tests

import (
	"context"
	"testing"

	"github.com/adobe/atomic-interactor/lib/driver"
	"github.com/adobe/atomic-interactor/lib/scene"
	h "github.com/adobe/atomic-interactor/webtests/helper"
)

func Test_select(t *testing.T) {
	t.Skip("MUI Select trigger can't be clicked reliably by the automation tool")

	b := h.NewBrowser(t)
	ctx := context.Background()

	examples := map[string]scene.Parts{
		"basic":  BasicSelectExample,
		"native": NativeSelectExample,
	}
	for name, parts := range examples {
		b.Run(t, name, func(t *testing.T) {
			sel := scene.MustGet[*driver.Select](b.Scene(t, "/select", parts), "select")
			if err := sel.SetValue(ctx, "30"); err != nil {
				t.Fatalf("SetValue() error: %v", err)
			}
			h.Eventually(t, func(r *h.R) {
				v, _, err := sel.GetValue(ctx)
				h.Equal(r, "value", v, err, "30")
			})
		})
	}
}
