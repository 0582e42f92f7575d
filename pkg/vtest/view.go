package vtest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vango-dev/reactor/pkg/vdom"
)

// View is the in-memory target Renderer creates for every host node.
type View struct {
	Serial    int
	Type      string
	Props     vdom.Props
	Parent    *View
	Children  []*View
	Destroyed bool
}

// Text returns the "text" prop.
func (v *View) Text() string {
	return v.Props.String("text")
}

// Value returns the "value" prop as a float.
func (v *View) Value() float64 {
	return v.Props.Float("value")
}

// Press calls the "onPress" handler. It reports false when there is none.
func (v *View) Press() bool {
	fn := v.Props.Func("onPress")
	if fn == nil {
		return false
	}
	fn()
	return true
}

// Slide calls the "onChange" handler with x. It reports false when there is
// none.
func (v *View) Slide(x float64) bool {
	fn, _ := v.Props.Get("onChange").(func(float64))
	if fn == nil {
		return false
	}
	fn(x)
	return true
}

// Find returns every descendant of the given type, depth first.
func (v *View) Find(typeName string) []*View {
	var out []*View
	for _, c := range v.Children {
		if c.Type == typeName {
			out = append(out, c)
		}
		out = append(out, c.Find(typeName)...)
	}
	return out
}

// Child returns the i-th child, or nil.
func (v *View) Child(i int) *View {
	if i < 0 || i >= len(v.Children) {
		return nil
	}
	return v.Children[i]
}

// String renders the view as "Type#serial".
func (v *View) String() string {
	return fmt.Sprintf("%s#%d", v.Type, v.Serial)
}

// Dump renders the subtree below v, one view per line, with scalar props
// sorted by name. Handlers are omitted.
func (v *View) Dump() string {
	var b strings.Builder
	for _, c := range v.Children {
		c.dump(&b, 0)
	}
	return b.String()
}

func (v *View) dump(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(v.Type)

	keys := make([]string, 0, len(v.Props))
	for k, val := range v.Props {
		switch val.(type) {
		case func(), func(float64):
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%v", k, v.Props[k])
	}
	b.WriteString("\n")

	for _, c := range v.Children {
		c.dump(b, depth+1)
	}
}

func (v *View) indexOf(c *View) int {
	for i, x := range v.Children {
		if x == c {
			return i
		}
	}
	return -1
}

func (v *View) detach(c *View) bool {
	i := v.indexOf(c)
	if i < 0 {
		return false
	}
	v.Children = append(v.Children[:i], v.Children[i+1:]...)
	return true
}

func (v *View) insert(c *View, before *View) bool {
	if before == nil {
		v.Children = append(v.Children, c)
		return true
	}
	i := v.indexOf(before)
	if i < 0 {
		return false
	}
	v.Children = append(v.Children, nil)
	copy(v.Children[i+1:], v.Children[i:])
	v.Children[i] = c
	return true
}
