package framework

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Decode converts an untyped save payload (decoded JSON, YAML, MCP arguments or a typed
// map) into a Framework. The payload must be a mapping whose keys all belong to the
// category registry and whose values are lists of strings. A null category counts as
// empty; a null entry inside a list is rejected.
// Decode does not trim or filter; see Normalize.
func Decode(candidate any) (domain.Framework, error) {
	if candidate == nil {
		return nil, &domain.ValidationError{Reason: "payload must be an object, got null"}
	}
	if kind := reflect.ValueOf(candidate).Kind(); kind != reflect.Map {
		return nil, &domain.ValidationError{Reason: fmt.Sprintf("payload must be an object, got %s", kind)}
	}

	var raw map[string]any
	if err := mapstructure.Decode(candidate, &raw); err != nil {
		return nil, &domain.ValidationError{Reason: fmt.Sprintf("payload keys must be strings: %v", err)}
	}

	var unknown []string
	for key := range raw {
		if !domain.IsValidCategory(key) {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return nil, &domain.ValidationError{Keys: unknown, Reason: "unknown category"}
	}

	fw := make(domain.Framework, len(raw))
	for key, value := range raw {
		var templates []string
		if hasNullEntry(value) {
			return nil, &domain.ValidationError{
				Keys:   []string{key},
				Reason: "category must be a list of strings, got null entry",
			}
		}
		if err := mapstructure.Decode(value, &templates); err != nil {
			return nil, &domain.ValidationError{
				Keys:   []string{key},
				Reason: "category must be a list of strings",
			}
		}
		fw[domain.Category(key)] = templates
	}
	return fw, nil
}

// hasNullEntry reports whether value is a list holding a nil element.
// mapstructure would decode such an element to "" and Normalize would then drop it.
func hasNullEntry(value any) bool {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		switch elem := rv.Index(i); elem.Kind() {
		case reflect.Interface, reflect.Pointer:
			if elem.IsNil() {
				return true
			}
		}
	}
	return false
}

// Normalize trims every template, drops the ones left empty and completes the
// framework to exactly the known categories. Order and duplicates are preserved.
func Normalize(fw domain.Framework) domain.Framework {
	out := domain.NewFramework()
	for _, c := range domain.AllCategories() {
		for _, tmpl := range fw[c] {
			if trimmed := strings.TrimSpace(tmpl); trimmed != "" {
				out[c] = append(out[c], trimmed)
			}
		}
	}
	return out
}
