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
	"testing"

	"gopkg.in/yaml.v3"
)

func Test_to_selector(t *testing.T) {
	tests := []struct {
		name  string
		chain Chain
		want  string
	}{
		{"empty", Chain{}, ""},
		{"testid", ByDataTestID("apple"), `[data-testid="apple"]`},
		{"nested", ByDataTestID("apple").Then(ByCSS("input")), `[data-testid="apple"] input`},
		{"same", ByDataTestID("apple").Then(ByClass("Mui-checked", Same)), `[data-testid="apple"].Mui-checked`},
		{"root", ByDataTestID("menu").Then(ByRole("option", Root), ByName("x")), `[role="option"] [name="x"]`},
		{"attr presence", ByAttribute("readonly", ""), `[readonly]`},
		{"attr value", ByAttribute("aria-label", `say "hi"`), `[aria-label="say \"hi\""]`},
		{"id digit", ByID("1st"), `#\31 st`},
		{"id special", ByID("a.b"), `#a\.b`},
		{"attr control", ByAttribute("data-x", "a\rb\fc\x00d\ne"), `[data-x="a\d b\c c\fffd d\a e"]`},
		{"id control", ByID("a\tb"), `#a\9 b`},
		{"tag and type", ByTag("input").Then(ByInputType("checkbox", Same)), `input[type="checkbox"]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ToSelector(tc.chain); got != tc.want {
				t.Fatalf("ToSelector(%s) = `%s`; want: `%s`", tc.chain, got, tc.want)
			}
		})
	}
}

// Verify the same chain always gives the same selector
func Test_to_selector_deterministic(t *testing.T) {
	c := ByDataTestID("parent").Then(ByCSS("div > span"), ByClass("x", Same))
	first := ToSelector(c)
	for i := 0; i < 100; i++ {
		if got := c.Selector(); got != first {
			t.Fatalf("ToSelector() = `%s` on round %d; want: `%s`", got, i, first)
		}
	}
}

func Test_chain_immutable(t *testing.T) {
	base := ByDataTestID("a")
	one := base.Then(ByCSS("b"))
	two := base.Then(ByCSS("c"))

	if base.Len() != 1 {
		t.Fatalf("base.Len() = %d; want: 1", base.Len())
	}
	if one.Selector() != `[data-testid="a"] b` || two.Selector() != `[data-testid="a"] c` {
		t.Fatalf("Then() shares storage: %q, %q", one.Selector(), two.Selector())
	}

	steps := one.Steps()
	steps[0].Value = "changed"
	if one.Steps()[0].Value != "a" {
		t.Fatalf("Steps() returned internal storage")
	}
}

func Test_split(t *testing.T) {
	prefix, last, ok := ByDataTestID("a").Then(ByCSS("b"), ByCSS("c")).Split()
	if !ok {
		t.Fatalf("Split() ok = false; want: true")
	}
	if prefix.Selector() != `[data-testid="a"] b` || last.Statement() != "c" {
		t.Fatalf("Split() = (%q, %q); want: (`[data-testid=\"a\"] b`, `c`)", prefix.Selector(), last.Statement())
	}

	// Growing prefix must not affect the source chain
	src := ByCSS("a").Then(ByCSS("b"))
	prefix, _, _ = src.Split()
	_ = prefix.Then(ByCSS("z"))
	if src.Selector() != "a b" {
		t.Fatalf("Split() prefix shares storage, source became %q", src.Selector())
	}

	prefix, last, ok = ByCSS("a").Then(ByCSS("root", Root)).Split()
	if !ok || !prefix.IsEmpty() || last.Value != "root" {
		t.Fatalf("Split() over root = (%v, %v, %v); want empty prefix and root step", prefix, last, ok)
	}

	if _, _, ok = (Chain{}).Split(); ok {
		t.Fatalf("Split() of empty chain ok = true; want: false")
	}
}

func Test_parse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`data-testid=apple`, `[data-testid="apple"]`},
		{`testid=apple >> input[type=checkbox]`, `[data-testid="apple"] input[type=checkbox]`},
		{`data-testid=field >> &class=Mui-disabled`, `[data-testid="field"].Mui-disabled`},
		{`data-testid=field >> /id=portal >> li`, `#portal li`},
		{`attr=readonly`, `[readonly]`},
		{`attr=aria-label=Close`, `[aria-label="Close"]`},
		{`  tag=textarea  `, `textarea`},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			c, err := Parse(tc.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tc.in, err)
			}
			if got := c.Selector(); got != tc.want {
				t.Fatalf("Parse(%q).Selector() = `%s`; want: `%s`", tc.in, got, tc.want)
			}
			again, err := Parse(c.String())
			if err != nil {
				t.Fatalf("Parse(%q) of String() error: %v", c.String(), err)
			}
			if again.Selector() != c.Selector() {
				t.Fatalf("String() round trip = `%s`; want: `%s`", again.Selector(), c.Selector())
			}
		})
	}
}

func Test_parse_errors(t *testing.T) {
	for _, in := range []string{"", "   ", "a >> >> b", "data-testid=", "attr==x", "&"} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("Parse(%q) error = nil; want error", in)
		}
	}
}

func Test_chain_yaml(t *testing.T) {
	var doc struct {
		Single Chain `yaml:"single"`
		List   Chain `yaml:"list"`
	}
	data := `
single: data-testid=apple >> input
list:
  - data-testid=parent
  - input[type=checkbox]
`
	if err := yaml.Unmarshal([]byte(data), &doc); err != nil {
		t.Fatalf("yaml.Unmarshal() error: %v", err)
	}
	if doc.Single.Selector() != `[data-testid="apple"] input` {
		t.Fatalf("single = `%s`", doc.Single.Selector())
	}
	if doc.List.Selector() != `[data-testid="parent"] input[type=checkbox]` {
		t.Fatalf("list = `%s`", doc.List.Selector())
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("yaml.Marshal() error: %v", err)
	}
	var back struct {
		Single Chain `yaml:"single"`
	}
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("yaml.Unmarshal() of marshaled error: %v", err)
	}
	if back.Single.Selector() != doc.Single.Selector() {
		t.Fatalf("yaml round trip = `%s`; want: `%s`", back.Single.Selector(), doc.Single.Selector())
	}
}
