package keygen

import (
	"fmt"
	"reflect"
	"strconv"

	ustrings "github.com/conduit-lang/tablemeta/internal/util/strings"
)

// setProperty stores value on a map[string]any entry or on the struct field named property.
// Struct fields match by their Go name in lower camel case, the same naming FromStruct uses.
func setProperty(param any, property string, value any) error {
	if m, ok := param.(map[string]any); ok {
		m[property] = value
		return nil
	}

	field, err := propertyField(param, property)
	if err != nil {
		return err
	}
	return assign(field, value, property)
}

// getProperty returns the current value of a key property
func getProperty(param any, property string) (any, error) {
	if m, ok := param.(map[string]any); ok {
		return m[property], nil
	}

	field, err := propertyField(param, property)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

func propertyField(param any, property string) (reflect.Value, error) {
	v := reflect.ValueOf(param)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return reflect.Value{}, fmt.Errorf("key property %s needs a struct pointer or map[string]any, got %T", property, param)
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("key property %s needs a struct pointer or map[string]any, got %T", property, param)
	}

	field, err := findField(v, property, make(map[uintptr]bool))
	if err != nil {
		return reflect.Value{}, err
	}
	if !field.IsValid() {
		return reflect.Value{}, fmt.Errorf("%s has no field for key property %s", v.Type(), property)
	}
	if !field.CanSet() {
		return reflect.Value{}, fmt.Errorf("%s field for key property %s is not settable", v.Type(), property)
	}
	return field, nil
}

// findField searches v and its embedded structs, outermost first. Embedded pointers are followed
// when set; a nil one that would hold the property is an error. An invalid value means no match.
func findField(v reflect.Value, property string, visited map[uintptr]bool) (reflect.Value, error) {
	t := v.Type()
	var embedded []int

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		// Exported fields of an unexported embedded struct are still settable
		if sf.Anonymous && isStructType(sf.Type) {
			embedded = append(embedded, i)
			continue
		}
		if !sf.IsExported() {
			continue
		}
		if fieldName(sf) == property {
			return v.Field(i), nil
		}
	}

	for _, i := range embedded {
		ev := v.Field(i)
		if ev.Kind() == reflect.Pointer {
			if ev.IsNil() {
				if hasField(ev.Type().Elem(), property, make(map[reflect.Type]bool)) {
					return reflect.Value{}, fmt.Errorf("key property %s lives in nil embedded %s of %s", property, ev.Type(), t)
				}
				continue
			}
			if visited[ev.Pointer()] {
				continue
			}
			visited[ev.Pointer()] = true
			ev = ev.Elem()
		}

		f, err := findField(ev, property, visited)
		if err != nil || f.IsValid() {
			return f, err
		}
	}
	return reflect.Value{}, nil
}

// hasField reports whether values of t could hold the property, looking through embedded types
func hasField(t reflect.Type, property string, seen map[reflect.Type]bool) bool {
	if seen[t] {
		return false
	}
	seen[t] = true

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && isStructType(sf.Type) {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if hasField(ft, property, seen) {
				return true
			}
			continue
		}
		if sf.IsExported() && fieldName(sf) == property {
			return true
		}
	}
	return false
}

func isStructType(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

func fieldName(sf reflect.StructField) string {
	return ustrings.ToLowerCamel(sf.Name)
}

func assign(field reflect.Value, value any, property string) error {
	switch key := value.(type) {
	case int64:
		switch field.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if field.OverflowInt(key) {
				return fmt.Errorf("key %d overflows %s field %s", key, field.Type(), property)
			}
			field.SetInt(key)
			return nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if key < 0 || field.OverflowUint(uint64(key)) {
				return fmt.Errorf("key %d overflows %s field %s", key, field.Type(), property)
			}
			field.SetUint(uint64(key))
			return nil
		case reflect.String:
			field.SetString(strconv.FormatInt(key, 10))
			return nil
		}
	case string:
		switch field.Kind() {
		case reflect.String:
			field.SetString(key)
			return nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(key, 10, 64)
			if err != nil || field.OverflowInt(n) {
				return fmt.Errorf("key %q cannot be stored in %s field %s", key, field.Type(), property)
			}
			field.SetInt(n)
			return nil
		}
	}

	rv := reflect.ValueOf(value)
	if rv.IsValid() && rv.Type().AssignableTo(field.Type()) {
		field.Set(rv)
		return nil
	}
	return fmt.Errorf("key of type %T cannot be stored in %s field %s", value, field.Type(), property)
}

// isZeroKey reports whether a key property still needs a value
func isZeroKey(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.IsZero()
}
