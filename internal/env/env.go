// Package env fills configuration structs from environment variables
// declared through `env:"VAR"` struct tags. Nested structs load
// recursively; any that implement Validator are validated as they load.
package env

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"
)

// Validator is implemented by configuration structs that check their
// own invariants after loading.
type Validator interface {
	Validate() error
}

// ErrInvalidValue reports an environment variable whose value could
// not be parsed into its target field.
type ErrInvalidValue struct {
	Field  string
	EnvVar string
	Value  string
	Err    error
}

func (e ErrInvalidValue) Error() string {
	return fmt.Sprintf("invalid value for %s=%q (field: %s): %v", e.EnvVar, e.Value, e.Field, e.Err)
}

func (e ErrInvalidValue) Unwrap() error {
	return e.Err
}

// ErrNotStructPointer reports a Load argument that is not a pointer to
// a struct.
type ErrNotStructPointer struct {
	Type string
}

func (e ErrNotStructPointer) Error() string {
	return fmt.Sprintf("env.Load: argument must be a pointer to struct, got %s", e.Type)
}

// ErrUnsupportedType reports a tagged field whose type Load cannot fill.
type ErrUnsupportedType struct {
	Kind string
}

func (e ErrUnsupportedType) Error() string {
	return fmt.Sprintf("unsupported type: %s", e.Kind)
}

// Load fills v, a pointer to a config struct, from the environment.
//
// Fields tagged `env:"VAR_NAME"` read VAR_NAME; untagged fields are
// skipped. Supported field types are string, the signed integer kinds,
// bool, and time.Duration (Go duration syntax, e.g. "45s"). Unset
// variables leave the field at its zero value; defaults belong to the
// consuming config package, not here.
//
// Nested structs load recursively, and each nested struct or the root
// that implements Validator has Validate called once its fields are in.
func Load(v any) error {
	root := reflect.ValueOf(v)
	if root.Kind() != reflect.Pointer || root.Elem().Kind() != reflect.Struct {
		return ErrNotStructPointer{Type: fmt.Sprintf("%T", v)}
	}

	if err := loadStruct(root.Elem()); err != nil {
		return err
	}

	if validator, ok := v.(Validator); ok {
		return validator.Validate()
	}
	return nil
}

func loadStruct(val reflect.Value) error {
	typ := val.Type()

	for i := range val.NumField() {
		field := val.Field(i)
		structField := typ.Field(i)

		if !field.CanSet() {
			continue
		}

		// Recurse into nested structs, except time.Time which is
		// filled as a leaf would be (and is unsupported anyway).
		if field.Kind() == reflect.Struct && field.Type() != reflect.TypeOf(time.Time{}) {
			if err := loadStruct(field); err != nil {
				return err
			}
			if field.CanAddr() {
				if validator, ok := field.Addr().Interface().(Validator); ok {
					if err := validator.Validate(); err != nil {
						return err
					}
				}
			}
			continue
		}

		envKey := structField.Tag.Get("env")
		if envKey == "" {
			continue
		}

		raw, ok := os.LookupEnv(envKey)
		if !ok {
			continue
		}

		if err := setValue(field, raw); err != nil {
			return ErrInvalidValue{
				Field:  structField.Name,
				EnvVar: envKey,
				Value:  raw,
				Err:    err,
			}
		}
	}

	return nil
}

func setValue(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
		return nil

	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
			return nil
		}

		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
		return nil

	default:
		return ErrUnsupportedType{Kind: field.Kind().String()}
	}
}
