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

// Package tests contains the scene parts of the widget pages and their browser suites
package tests

import (
	"github.com/adobe/atomic-interactor/lib/driver"
	"github.com/adobe/atomic-interactor/lib/interactor"
	"github.com/adobe/atomic-interactor/lib/locator"
	"github.com/adobe/atomic-interactor/lib/scene"
)

func button(loc locator.Chain, it interactor.Interactor) driver.Driver {
	return driver.NewButton(loc, it)
}

func htmlElement(loc locator.Chain, it interactor.Interactor) driver.Driver {
	return driver.NewHTMLElement(loc, it)
}

func checkbox(loc locator.Chain, it interactor.Interactor) driver.Driver {
	return driver.NewCheckbox(loc, it)
}

func textField(loc locator.Chain, it interactor.Interactor) driver.Driver {
	return driver.NewTextField(loc, it)
}

func selectField(loc locator.Chain, it interactor.Interactor) driver.Driver {
	return driver.NewSelect(loc, it)
}

func part(testID string, factory driver.Factory) scene.Part {
	return scene.Part{Locator: locator.ByDataTestID(testID), Driver: factory}
}

// Button page
var (
	IconAndLabelExample = scene.Parts{
		"iconButton":      part("icon-button", button),
		"iconLabelButton": part("icon-label-button", button),
		"target":          part("target", htmlElement),
	}
	ComplexButtonExample = scene.Parts{
		"imageButton": part("image-button", button),
		"target":      part("image-button-target", htmlElement),
	}
)

// Checkbox page
var (
	LabelCheckboxExample = scene.Parts{
		"apple":  part("apple", checkbox),
		"banana": part("banana", checkbox),
	}
	IconCheckboxExample = scene.Parts{
		"favorite": part("favorite", checkbox),
		"bookmark": part("bookmark", checkbox),
	}
	IndeterminateCheckboxExample = scene.Parts{
		"parent": part("parent", checkbox),
		"child1": part("child1", checkbox),
		"child2": part("child2", checkbox),
	}
)

// Select page
var (
	BasicSelectExample  = scene.Parts{"select": part("simple-select", selectField)}
	NativeSelectExample = scene.Parts{"select": part("native-select", selectField)}
)

// Text field page
var (
	BasicTextFieldExample     = scene.Parts{"basic": part("basic", textField)}
	MultilineTextFieldExample = scene.Parts{"multiline": part("multiline", textField)}
	SelectTextFieldExample    = scene.Parts{"select": part("select", textField)}

	ReadonlyAndDisabledTextFieldExample = scene.Parts{
		"textDisabled":         part("text-disabled", textField),
		"textReadonly":         part("text-readonly", textField),
		"multilineDisabled":    part("multiline-disabled", textField),
		"multilineReadonly":    part("multiline-readonly", textField),
		"selectDisabled":       part("select-disabled", textField),
		"selectReadonly":       part("select-readonly", textField),
		"nativeSelectDisabled": part("native-select-disabled", textField),
		"nativeSelectReadonly": part("native-select-readonly", textField),
	}
)
