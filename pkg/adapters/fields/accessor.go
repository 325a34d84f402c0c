// Package fields implements ports.VariableAccessor over exported struct fields.
//
// A variable name matches a field by its `mapstructure` tag or, case
// insensitively, by its Go name. Writes go through mapstructure with weak typing,
// so an int event can target a float field and vice versa.
package fields

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ErrUnknownVariable is returned when no field matches the variable name.
var ErrUnknownVariable = errors.New("unknown variable")

// Accessor is a stateless ports.VariableAccessor.
type Accessor struct{}

// New returns an Accessor.
func New() *Accessor {
	return &Accessor{}
}

func (a *Accessor) GetInt(target any, name string) (int, error) {
	v, err := lookup(target, name)
	if err != nil {
		return 0, err
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(v.Uint()), nil
	}
	return 0, mismatch(name, "int", v)
}

func (a *Accessor) GetFloat(target any, name string) (float64, error) {
	v, err := lookup(target, name)
	if err != nil {
		return 0, err
	}
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), nil
	}
	return 0, mismatch(name, "float", v)
}

func (a *Accessor) GetBool(target any, name string) (bool, error) {
	v, err := lookup(target, name)
	if err != nil {
		return false, err
	}
	if v.Kind() != reflect.Bool {
		return false, mismatch(name, "bool", v)
	}
	return v.Bool(), nil
}

func (a *Accessor) GetString(target any, name string) (string, error) {
	v, err := lookup(target, name)
	if err != nil {
		return "", err
	}
	if v.Kind() != reflect.String {
		return "", mismatch(name, "string", v)
	}
	return v.String(), nil
}

// Set writes value into the named field. target must be a pointer to a struct.
func (a *Accessor) Set(target any, name string, value any) error {
	if rv := reflect.ValueOf(target); rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("cannot set %q: target must be a non-nil pointer, got %T", name, target)
	}

	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Metadata:         &md,
		Result:           target,
	})
	if err != nil {
		return fmt.Errorf("cannot set %q: %w", name, err)
	}
	if err := dec.Decode(map[string]any{name: value}); err != nil {
		return fmt.Errorf("cannot set %q: %w", name, err)
	}
	if len(md.Unused) > 0 {
		return fmt.Errorf("cannot set %q on %T: %w", name, target, ErrUnknownVariable)
	}
	return nil
}

func lookup(target any, name string) (reflect.Value, error) {
	v := reflect.ValueOf(target)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("cannot read %q: target is nil", name)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("cannot read %q: %T is not a struct", name, target)
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if f.IsExported() && tag == name {
			return v.Field(i), nil
		}
	}

	f, ok := t.FieldByNameFunc(func(n string) bool { return strings.EqualFold(n, name) })
	if !ok || !f.IsExported() {
		return reflect.Value{}, fmt.Errorf("cannot read %q on %T: %w", name, target, ErrUnknownVariable)
	}
	return v.FieldByIndex(f.Index), nil
}

func mismatch(name, want string, v reflect.Value) error {
	return fmt.Errorf("variable %q is %s, not %s", name, v.Kind(), want)
}
