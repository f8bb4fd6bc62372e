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

package interactor

import (
	"errors"
	"fmt"
)

var (
	// ErrElementNotFound is returned when the command requires the element and there is none
	ErrElementNotFound = errors.New("element not found")
	// ErrEmptyLocator is returned when the command requires the element and the chain is empty
	ErrEmptyLocator = errors.New("empty locator chain")
	// ErrNotEditable is returned by backends when text can't be entered into the element
	ErrNotEditable = errors.New("element is not editable")
	// ErrPageCrashed is reported to the failure channel when the page is gone
	ErrPageCrashed = errors.New("page crashed")
	// ErrDocumentRoot is returned by the actions on the document root element
	ErrDocumentRoot = errors.New("not available on the document root")
)

// NotFound wraps ErrElementNotFound with the selector and the optional backend error
func NotFound(selector string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}
	return fmt.Errorf("%w: %s: %w", ErrElementNotFound, selector, cause)
}
