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

// Package locator describes elements of a page as an ordered chain of selection steps
package locator

import (
	"fmt"
	"strings"
)

// Relative defines how a step is positioned against the previous step of the chain
type Relative int

const (
	// Descendant searches within the results of the previous step
	Descendant Relative = iota
	// Same narrows the previous step to the very same element
	Same
	// Root drops all the previous steps and restarts from the document root
	Root
)

func (r Relative) String() string {
	switch r {
	case Same:
		return "same"
	case Root:
		return "root"
	default:
		return "descendant"
	}
}

// Kind is the selection criterion of a step
type Kind string

const (
	KindCSS        Kind = "css"
	KindDataTestID Kind = "data-testid"
	KindAttribute  Kind = "attr"
	KindID         Kind = "id"
	KindClass      Kind = "class"
	KindTag        Kind = "tag"
	KindRole       Kind = "role"
	KindName       Kind = "name"
	KindInputType  Kind = "type"
)

// Step is one selection criterion, immutable once created
type Step struct {
	Kind     Kind
	Name     string // Attribute name, used only by KindAttribute
	Value    string
	Relative Relative
}

// Statement renders the step as a single CSS fragment
func (s Step) Statement() string {
	switch s.Kind {
	case KindDataTestID:
		return attrStatement("data-testid", s.Value)
	case KindAttribute:
		if s.Value == "" {
			return "[" + s.Name + "]"
		}
		return attrStatement(s.Name, s.Value)
	case KindID:
		return "#" + escapeIdent(s.Value)
	case KindClass:
		return "." + escapeIdent(s.Value)
	case KindTag:
		return s.Value
	case KindRole:
		return attrStatement("role", s.Value)
	case KindName:
		return attrStatement("name", s.Value)
	case KindInputType:
		return attrStatement("type", s.Value)
	default:
		return s.Value
	}
}

// String prints the step in the textual form accepted by Parse
func (s Step) String() string {
	var prefix string
	switch s.Relative {
	case Same:
		prefix = "&"
	case Root:
		prefix = "/"
	}
	switch s.Kind {
	case KindCSS:
		return prefix + s.Value
	case KindAttribute:
		if s.Value == "" {
			return prefix + string(KindAttribute) + "=" + s.Name
		}
		return prefix + string(KindAttribute) + "=" + s.Name + "=" + s.Value
	default:
		return prefix + string(s.Kind) + "=" + s.Value
	}
}

func attrStatement(name, value string) string {
	return "[" + name + "=" + quote(value) + "]"
}

// quote makes a CSS double-quoted string
func quote(v string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range v {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			if isControl(r) {
				writeCodePoint(&b, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}

// writeCodePoint writes the hex escape, NUL is not allowed in CSS and becomes U+FFFD
func writeCodePoint(b *strings.Builder, r rune) {
	if r == 0 {
		r = 0xfffd
	}
	fmt.Fprintf(b, "\\%x ", r)
}

// escapeIdent escapes the characters not allowed in the CSS identifiers
func escapeIdent(v string) string {
	var b strings.Builder
	for i, r := range v {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '-', r >= 0x80:
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				// Leading digit needs a code point escape
				b.WriteString(`\3`)
				b.WriteRune(r)
				b.WriteByte(' ')
			} else {
				b.WriteRune(r)
			}
		case isControl(r):
			writeCodePoint(&b, r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}
