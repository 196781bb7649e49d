package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
)

// envBinding ties one `env:"..."` tagged field to its variable name
type envBinding struct {
	key   string
	path  string
	field reflect.Value
}

// collectEnvBindings walks nested config sections and returns every tagged leaf field
func collectEnvBindings(v reflect.Value, prefix string) []envBinding {
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	var bindings []envBinding
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		sf := t.Field(i)
		path := prefix + sf.Name

		if v.Field(i).Kind() == reflect.Struct {
			bindings = append(bindings, collectEnvBindings(v.Field(i), path+".")...)
			continue
		}
		if key := sf.Tag.Get("env"); key != "" {
			bindings = append(bindings, envBinding{key: key, path: path, field: v.Field(i)})
		}
	}
	return bindings
}

// processStructFields overrides tagged fields with the environment variables that are set.
// Every malformed value is reported, not only the first.
func processStructFields(s interface{}) error {
	var errs []error
	for _, b := range collectEnvBindings(reflect.ValueOf(s), "") {
		raw, ok := os.LookupEnv(b.key)
		if !ok {
			continue
		}
		if err := assign(b.field, raw); err != nil {
			errs = append(errs, fmt.Errorf("%s (%s): %w", b.key, b.path, err))
		}
	}
	return errors.Join(errs...)
}

func assign(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid integer %q", raw)
		}
		field.SetInt(int64(n))
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", raw)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field type %s", field.Kind())
	}
	return nil
}
