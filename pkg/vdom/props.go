package vdom

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Props holds attributes and event handlers.
type Props map[string]any

// Get returns the value stored under key, or nil.
func (p Props) Get(key string) any {
	if p == nil {
		return nil
	}
	return p[key]
}

// String returns the prop as a string. Non-string values are formatted.
func (p Props) String(key string) string {
	switch v := p.Get(key).(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the prop as an int, or 0.
func (p Props) Int(key string) int {
	switch v := p.Get(key).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Float returns the prop as a float64, or 0.
func (p Props) Float(key string) float64 {
	switch v := p.Get(key).(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

// Bool returns the prop as a bool, or false.
func (p Props) Bool(key string) bool {
	v, _ := p.Get(key).(bool)
	return v
}

// Func returns the prop as a no-argument handler, or nil.
func (p Props) Func(key string) func() {
	v, _ := p.Get(key).(func())
	return v
}

// Clone returns a shallow copy of the props.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Decode copies the props into the struct pointed to by out. Fields are
// matched by their `prop` tag, falling back to a case-insensitive field name
// match. Numeric and string values are converted where possible.
//
//	var in struct {
//	    Title string  `prop:"title"`
//	    Value float64 `prop:"value"`
//	}
//	err := props.Decode(&in)
func (p Props) Decode(out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "prop",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(map[string]any(p))
}
