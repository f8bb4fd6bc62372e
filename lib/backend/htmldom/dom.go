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

package htmldom

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func hasAttr(n *html.Node, name string) bool {
	_, ok := attr(n, name)
	return ok
}

func setAttr(n *html.Node, name, value string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

func removeAttr(n *html.Node, name string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace != "" || a.Key != name {
			out = append(out, a)
		}
	}
	n.Attr = out
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

func setTextContent(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

func isTag(n *html.Node, tags ...string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, t := range tags {
		if n.Data == t {
			return true
		}
	}
	return false
}

func inputType(n *html.Node) string {
	t, _ := attr(n, "type")
	if t == "" {
		return "text"
	}
	return strings.ToLower(t)
}

// Elements which have the disabled property in DOM
var disableable = []string{"button", "input", "select", "textarea", "optgroup", "option", "fieldset"}

func disabled(n *html.Node) bool {
	return isTag(n, disableable...) && hasAttr(n, "disabled")
}

func editable(n *html.Node) bool {
	switch {
	case isTag(n, "textarea"):
	case isTag(n, "input"):
		switch inputType(n) {
		case "checkbox", "radio", "button", "submit", "reset", "hidden", "file", "image":
			return false
		}
	default:
		return false
	}
	return !hasAttr(n, "disabled") && !hasAttr(n, "readonly")
}

func hidden(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if hasAttr(n, "hidden") || (isTag(n, "input") && inputType(n) == "hidden") {
		return true
	}
	style, _ := attr(n, "style")
	style = strings.ReplaceAll(strings.ToLower(style), " ", "")
	return strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden")
}

func closest(n *html.Node, tag string) *html.Node {
	for p := n; p != nil; p = p.Parent {
		if isTag(p, tag) {
			return p
		}
	}
	return nil
}

func documentOf(n *html.Node) *html.Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

var labelable = cascadia.MustCompile("input, select, textarea, button")

// labelControl returns the control activated by the label
func labelControl(label *html.Node) *html.Node {
	if id, ok := attr(label, "for"); ok && id != "" {
		return findByID(documentOf(label), id)
	}
	return cascadia.Query(label, labelable)
}

func findByID(root *html.Node, id string) *html.Node {
	if root.Type == html.ElementNode {
		if v, ok := attr(root, "id"); ok && v == id {
			return root
		}
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

var optionSel = cascadia.MustCompile("option")

func optionValue(o *html.Node) string {
	if v, ok := attr(o, "value"); ok {
		return v
	}
	return strings.TrimSpace(textContent(o))
}

func optionLabel(o *html.Node) string {
	if v, ok := attr(o, "label"); ok && v != "" {
		return v
	}
	return strings.TrimSpace(textContent(o))
}

// selectedOptions returns selected options with the browser defaults for the single select
func selectedOptions(sel *html.Node) []*html.Node {
	options := cascadia.QueryAll(sel, optionSel)
	var out []*html.Node
	for _, o := range options {
		if hasAttr(o, "selected") {
			out = append(out, o)
		}
	}
	if hasAttr(sel, "multiple") {
		return out
	}
	if len(out) > 1 {
		// The last one wins in the single select
		return out[len(out)-1:]
	}
	if len(out) == 0 {
		for _, o := range options {
			if !hasAttr(o, "disabled") {
				return []*html.Node{o}
			}
		}
	}
	return out
}
