// Package prefs loads and saves user preferences kept under a single
// key-value entry.
package prefs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/verte-zerg/wpmtimer/internal/duration"
)

// Key is the key-value entry holding the preferences document.
const Key = "preferences"

// KV is the storage the preferences live in.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Preferences are the persisted control states.
type Preferences struct {
	AutoAdvance     bool          `json:"autoAdvance"`
	ShowTimeCursor  bool          `json:"showTimeCursor"`
	ShowWordsCursor bool          `json:"showWordsCursor"`
	DurationSelect  string        `json:"durationSelect" validate:"duration_select"`
	DurationCustom  CustomMinutes `json:"durationCustom"`
}

// CustomMinutes is the custom duration field, encoded as a string or false.
type CustomMinutes struct {
	Value string
	Set   bool
}

// Custom returns a set CustomMinutes.
func Custom(value string) CustomMinutes {
	return CustomMinutes{Value: value, Set: true}
}

// MarshalJSON implements json.Marshaler.
func (c CustomMinutes) MarshalJSON() ([]byte, error) {
	if !c.Set {
		return []byte("false"), nil
	}
	return json.Marshal(c.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *CustomMinutes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "false", "null":
		*c = CustomMinutes{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("durationCustom must be a string or false")
	}
	*c = Custom(s)
	return nil
}

// Defaults returns the preferences used when nothing valid is stored.
func Defaults() Preferences {
	return Preferences{
		AutoAdvance:     false,
		ShowTimeCursor:  true,
		ShowWordsCursor: true,
		DurationSelect:  duration.Presets[0],
	}
}

// Minutes resolves the selected test duration.
func (p Preferences) Minutes() float64 {
	return duration.Minutes(p.DurationSelect, p.DurationCustom.Value)
}

// SettingsParseError reports a stored entry that was malformed in whole or
// in part. The preferences returned alongside it are still usable.
type SettingsParseError struct {
	Fields []string
	Err    error
}

func (e *SettingsParseError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("invalid preferences entry: %v", e.Err)
	}
	return fmt.Sprintf("invalid preferences fields %s, using defaults", strings.Join(e.Fields, ", "))
}

func (e *SettingsParseError) Unwrap() error {
	return e.Err
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("duration_select", func(fl validator.FieldLevel) bool {
		return duration.Valid(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Load reads the stored preferences. A missing entry yields the defaults.
// Malformed entries or fields fall back to defaults and are reported as a
// *SettingsParseError; storage failures are returned wrapped.
func Load(ctx context.Context, kv KV) (Preferences, error) {
	p := Defaults()
	raw, ok, err := kv.Get(ctx, Key)
	if err != nil {
		return p, fmt.Errorf("failed to read preferences: %w", err)
	}
	if !ok {
		return p, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil || fields == nil {
		if err == nil {
			err = errors.New("entry is not an object")
		}
		return p, &SettingsParseError{Err: err}
	}

	var bad []string
	decodeField(fields, "autoAdvance", &p.AutoAdvance, &bad)
	decodeField(fields, "showTimeCursor", &p.ShowTimeCursor, &bad)
	decodeField(fields, "showWordsCursor", &p.ShowWordsCursor, &bad)
	decodeField(fields, "durationSelect", &p.DurationSelect, &bad)
	decodeField(fields, "durationCustom", &p.DurationCustom, &bad)

	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return Defaults(), &SettingsParseError{Err: err}
		}
		defaults := Defaults()
		for _, fe := range verrs {
			if fe.Field() == "durationSelect" {
				p.DurationSelect = defaults.DurationSelect
			}
			bad = append(bad, fe.Field())
		}
	}
	if len(bad) > 0 {
		return p, &SettingsParseError{Fields: bad}
	}
	return p, nil
}

func decodeField[T any](fields map[string]json.RawMessage, name string, dst *T, bad *[]string) {
	raw, ok := fields[name]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		*bad = append(*bad, name)
		return
	}
	*dst = v
}

// Save writes the preferences entry.
func Save(ctx context.Context, kv KV, p Preferences) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := kv.Put(ctx, Key, string(data)); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// Reset removes the stored entry.
func Reset(ctx context.Context, kv KV) error {
	if err := kv.Delete(ctx, Key); err != nil {
		return fmt.Errorf("failed to reset preferences: %w", err)
	}
	return nil
}
