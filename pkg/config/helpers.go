package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/klutchshots/klutch/pkg/errors"
)

var durationType = reflect.TypeOf(time.Duration(0))

// SetValue sets a configuration value by its YAML key.
// Durations use time.ParseDuration syntax ("30s", "2m").
func (c *Config) SetValue(key, value string) error {
	field, ok := c.settingsField(key)
	if !ok {
		return errors.Wrapf(errors.ErrUnknownConfigKey, "%s", key)
	}

	switch {
	case field.Type() == durationType:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %s", key, value)
		}
		field.SetInt(int64(d))
	case field.Kind() == reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %s", key, value)
		}
		field.SetInt(int64(n))
	case field.Kind() == reflect.String:
		field.SetString(value)
	default:
		return errors.Wrapf(errors.ErrUnknownConfigKey, "%s", key)
	}
	return nil
}

// GetValue returns the value of a configuration key as a string.
func (c *Config) GetValue(key string) (string, error) {
	field, ok := c.settingsField(key)
	if !ok {
		return "", errors.Wrapf(errors.ErrUnknownConfigKey, "%s", key)
	}
	return formatField(field), nil
}

// ToMap returns all settings keyed by their YAML names.
// This is useful for displaying the configuration.
func (c *Config) ToMap() map[string]string {
	result := make(map[string]string)

	settingsValue := reflect.ValueOf(c.Settings)
	settingsType := settingsValue.Type()
	for i := 0; i < settingsValue.NumField(); i++ {
		yamlKey := yamlName(settingsType.Field(i))
		if yamlKey == "" {
			continue
		}
		result[yamlKey] = formatField(settingsValue.Field(i))
	}
	return result
}

// Keys returns the supported configuration keys in declaration order.
func Keys() []string {
	settingsType := reflect.TypeOf(Settings{})
	keys := make([]string, 0, settingsType.NumField())
	for i := 0; i < settingsType.NumField(); i++ {
		if name := yamlName(settingsType.Field(i)); name != "" {
			keys = append(keys, name)
		}
	}
	return keys
}

func (c *Config) settingsField(key string) (reflect.Value, bool) {
	settingsValue := reflect.ValueOf(&c.Settings).Elem()
	settingsType := settingsValue.Type()
	for i := 0; i < settingsValue.NumField(); i++ {
		if yamlName(settingsType.Field(i)) == key {
			return settingsValue.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// yamlName handles yaml tags with options (e.g., "cache_dir,omitempty").
func yamlName(field reflect.StructField) string {
	tag := field.Tag.Get("yaml")
	if tag == "" || tag == "-" {
		return ""
	}
	return strings.Split(tag, ",")[0]
}

func formatField(v reflect.Value) string {
	if v.Type() == durationType {
		return time.Duration(v.Int()).String()
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.String:
		return v.String()
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
