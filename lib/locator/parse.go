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
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// StepSeparator splits the steps in the textual chain form
const StepSeparator = ">>"

var knownKinds = map[string]Kind{
	string(KindCSS):        KindCSS,
	string(KindDataTestID): KindDataTestID,
	"testid":               KindDataTestID,
	string(KindAttribute):  KindAttribute,
	string(KindID):         KindID,
	string(KindClass):      KindClass,
	string(KindTag):        KindTag,
	string(KindRole):       KindRole,
	string(KindName):       KindName,
	string(KindInputType):  KindInputType,
}

// Parse reads the textual chain form
//
// Steps are separated by ">>", each step is either `kind=value` or a raw css selector:
//
//	data-testid=apple >> input[type=checkbox]
//	data-testid=field >> &class=Mui-disabled >> /id=portal
//
// Leading "&" marks the step as Same (compound with the previous one) and leading "/" as Root.
func Parse(s string) (Chain, error) {
	if strings.TrimSpace(s) == "" {
		return Chain{}, fmt.Errorf("locator: empty chain")
	}
	tokens := strings.Split(s, StepSeparator)
	steps := make([]Step, 0, len(tokens))
	for i, token := range tokens {
		step, err := parseStep(token)
		if err != nil {
			return Chain{}, fmt.Errorf("locator: step %d of %q: %w", i, s, err)
		}
		steps = append(steps, step)
	}
	return Chain{steps: steps}, nil
}

// MustParse is like Parse but panics if the chain can't be parsed, useful for static fixtures
func MustParse(s string) Chain {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseStep(token string) (Step, error) {
	token = strings.TrimSpace(token)
	var step Step
	switch {
	case strings.HasPrefix(token, "&"):
		step.Relative = Same
		token = strings.TrimSpace(token[1:])
	case strings.HasPrefix(token, "/"):
		step.Relative = Root
		token = strings.TrimSpace(token[1:])
	}
	if token == "" {
		return step, fmt.Errorf("empty step")
	}

	step.Kind = KindCSS
	step.Value = token
	key, value, found := strings.Cut(token, "=")
	if !found {
		return step, nil
	}
	kind, ok := knownKinds[strings.TrimSpace(key)]
	if !ok {
		// Something like `input[type=checkbox]` - raw css
		return step, nil
	}
	step.Kind = kind
	step.Value = strings.TrimSpace(value)
	if kind == KindAttribute {
		name, val, _ := strings.Cut(step.Value, "=")
		step.Name = strings.TrimSpace(name)
		step.Value = strings.TrimSpace(val)
		if step.Name == "" {
			return step, fmt.Errorf("attribute step without name")
		}
		return step, nil
	}
	if step.Value == "" {
		return step, fmt.Errorf("%s step without value", kind)
	}
	return step, nil
}

// UnmarshalYAML allows to use the chain in yaml documents either as string or list of strings
func (c *Chain) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parsed, err := Parse(node.Value)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	case yaml.SequenceNode:
		chains := make([]Chain, 0, len(node.Content))
		for _, item := range node.Content {
			var sub Chain
			if err := sub.UnmarshalYAML(item); err != nil {
				return err
			}
			chains = append(chains, sub)
		}
		*c = Join(chains...)
		return nil
	default:
		return fmt.Errorf("locator: line %d: expected string or list of strings", node.Line)
	}
}

// MarshalYAML stores the chain in the textual form
func (c Chain) MarshalYAML() (any, error) {
	return c.String(), nil
}
