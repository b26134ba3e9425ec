package config

import (
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Ptr returns a pointer to v. Handy for building Options literals.
func Ptr[T any](v T) *T {
	return &v
}

// ToNumber converts a CLI-style string to a number. Empty and non-numeric
// input yields nil so that the resolver's defaults still apply.
func ToNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func toString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toBool(s string) *bool {
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &v
}

// FromStrings builds Options from string key/value pairs, as produced by a
// command line or a query string. Keys use the option names ("paddingLeft",
// "bgColor", ...). Unrecognized keys are ignored.
func FromStrings(values map[string]string) Options {
	var o Options
	rv := reflect.ValueOf(&o).Elem()
	fields := optionFields()
	for key, raw := range values {
		idx, ok := fields[key]
		if !ok {
			continue
		}
		f := rv.Field(idx)
		switch f.Type().Elem().Kind() {
		case reflect.String:
			if p := toString(raw); p != nil {
				f.Set(reflect.ValueOf(p))
			}
		case reflect.Float64:
			if p := ToNumber(raw); p != nil {
				f.Set(reflect.ValueOf(p))
			}
		case reflect.Bool:
			if p := toBool(raw); p != nil {
				f.Set(reflect.ValueOf(p))
			}
		}
	}
	return o
}

// Keys lists every recognized option name, aliases included.
func Keys() []string {
	t := reflect.TypeOf(Options{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		keys = append(keys, optionName(t.Field(i)))
	}
	return keys
}

// Merge returns base with every field set in over applied on top of it.
func (base Options) Merge(over Options) Options {
	out := base
	dst := reflect.ValueOf(&out).Elem()
	src := reflect.ValueOf(over)
	for i := 0; i < src.NumField(); i++ {
		if !src.Field(i).IsNil() {
			dst.Field(i).Set(src.Field(i))
		}
	}
	return out
}

func optionFields() map[string]int {
	t := reflect.TypeOf(Options{})
	fields := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		fields[optionName(t.Field(i))] = i
	}
	return fields
}

func optionName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	return name
}
