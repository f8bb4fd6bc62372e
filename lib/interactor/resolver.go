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
	"context"

	"github.com/adobe/atomic-interactor/lib/locator"
)

// Resolver finds the elements of the chain in the document
//
// Nothing is cached: the document could be changed between the calls, so every call resolves
// the chain from the document root again.
type Resolver struct {
	doc Document
}

// NewResolver creates resolver over the document
func NewResolver(doc Document) *Resolver {
	return &Resolver{doc: doc}
}

// Selector returns combined css selector of the chain
func (*Resolver) Selector(loc locator.Chain) string {
	return locator.ToSelector(loc)
}

// FindOne returns the first element matching the chain, found is false if there is none
func (r *Resolver) FindOne(ctx context.Context, loc locator.Chain) (Element, bool, error) {
	els, err := r.FindAll(ctx, loc)
	if err != nil || len(els) == 0 {
		return nil, false, err
	}
	return els[0], true, nil
}

// FindAll returns all the elements matching the chain in the document order
func (r *Resolver) FindAll(ctx context.Context, loc locator.Chain) ([]Element, error) {
	sel := locator.ToSelector(loc)
	if sel == "" {
		return nil, nil
	}
	return r.doc.QueryAll(ctx, sel)
}

// Require returns the first element of the chain using the backend wait
func (r *Resolver) Require(ctx context.Context, loc locator.Chain) (Element, error) {
	sel := locator.ToSelector(loc)
	if sel == "" {
		return nil, ErrEmptyLocator
	}
	return r.doc.Require(ctx, sel)
}

// Exists checks the last step of the chain within the parent located by the previous steps
//
// Missing parent means the element does not exist, even if the last step alone matches
// something in a different place of the document. Empty parent chain means the document root.
func (r *Resolver) Exists(ctx context.Context, loc locator.Chain) (bool, error) {
	prefix, last, ok := loc.Split()
	if !ok {
		return false, nil
	}

	var parent Element
	var err error
	if prefix.IsEmpty() {
		if parent, err = r.doc.Root(ctx); err != nil {
			return false, err
		}
	} else {
		var found bool
		if parent, found, err = r.FindOne(ctx, prefix); err != nil || !found {
			return false, err
		}
	}

	if last.Relative == locator.Same {
		// Compound step narrows the parent itself, which is not a descendant
		_, found, err := r.FindOne(ctx, loc)
		return found, err
	}

	els, err := parent.QueryAll(ctx, last.Statement())
	if err != nil {
		return false, err
	}
	return len(els) > 0, nil
}
