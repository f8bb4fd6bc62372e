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

package locator

import (
	"strings"
)

// Chain is an ordered sequence of steps, each one scoped to the result of the previous one
//
// The chain is a value: every method returning a Chain creates a new one and never touches the
// steps of the receiver, so the chains could be freely shared between the scene parts.
type Chain struct {
	steps []Step
}

// New creates chain out of the provided steps
func New(steps ...Step) Chain {
	return Chain{steps: append([]Step(nil), steps...)}
}

// ByDataTestID locates element by `data-testid` attribute
func ByDataTestID(value string, rel ...Relative) Chain {
	return single(KindDataTestID, "", value, rel)
}

// ByCSS locates element by raw css selector
func ByCSS(selector string, rel ...Relative) Chain {
	return single(KindCSS, "", selector, rel)
}

// ByAttribute locates element by attribute value, empty value checks only the attribute presence
func ByAttribute(name, value string, rel ...Relative) Chain {
	return single(KindAttribute, name, value, rel)
}

// ByID locates element by id attribute
func ByID(id string, rel ...Relative) Chain {
	return single(KindID, "", id, rel)
}

// ByClass locates element by one of it's css classes
func ByClass(class string, rel ...Relative) Chain {
	return single(KindClass, "", class, rel)
}

// ByTag locates element by the tag name
func ByTag(tag string, rel ...Relative) Chain {
	return single(KindTag, "", tag, rel)
}

// ByRole locates element by the role attribute
func ByRole(role string, rel ...Relative) Chain {
	return single(KindRole, "", role, rel)
}

// ByName locates element by the name attribute
func ByName(name string, rel ...Relative) Chain {
	return single(KindName, "", name, rel)
}

// ByInputType locates element by the type attribute
func ByInputType(typ string, rel ...Relative) Chain {
	return single(KindInputType, "", typ, rel)
}

func single(kind Kind, name, value string, rel []Relative) Chain {
	s := Step{Kind: kind, Name: name, Value: value}
	if len(rel) > 0 {
		s.Relative = rel[0]
	}
	return Chain{steps: []Step{s}}
}

// Join concatenates the chains into a new one
func Join(chains ...Chain) Chain {
	var n int
	for _, c := range chains {
		n += len(c.steps)
	}
	out := make([]Step, 0, n)
	for _, c := range chains {
		out = append(out, c.steps...)
	}
	return Chain{steps: out}
}

// Then appends the other chains to the copy of current one
func (c Chain) Then(other ...Chain) Chain {
	return Join(append([]Chain{c}, other...)...)
}

// Len returns amount of steps in the chain
func (c Chain) Len() int {
	return len(c.steps)
}

// IsEmpty shows the chain has no steps
func (c Chain) IsEmpty() bool {
	return len(c.steps) == 0
}

// Steps returns copy of the chain steps
func (c Chain) Steps() []Step {
	return append([]Step(nil), c.steps...)
}

// Effective drops all the steps preceding the last Root step
func (c Chain) Effective() Chain {
	for i := len(c.steps) - 1; i >= 0; i-- {
		if c.steps[i].Relative == Root {
			return Chain{steps: c.steps[i:]}
		}
	}
	return c
}

// Split returns the effective prefix (all but last step) and the last step
func (c Chain) Split() (Chain, Step, bool) {
	eff := c.Effective()
	if len(eff.steps) == 0 {
		return Chain{}, Step{}, false
	}
	last := len(eff.steps) - 1
	return Chain{steps: eff.steps[:last:last]}, eff.steps[last], true
}

// ToSelector renders the chain as one css selector
func ToSelector(c Chain) string {
	var b strings.Builder
	for i, s := range c.Effective().steps {
		if i > 0 && s.Relative != Same {
			b.WriteByte(' ')
		}
		b.WriteString(s.Statement())
	}
	return b.String()
}

// Selector is a shortcut for ToSelector
func (c Chain) Selector() string {
	return ToSelector(c)
}

// String returns chain in a textual form, Parse is able to read it back
func (c Chain) String() string {
	parts := make([]string, len(c.steps))
	for i, s := range c.steps {
		parts[i] = s.String()
	}
	return strings.Join(parts, " >> ")
}
