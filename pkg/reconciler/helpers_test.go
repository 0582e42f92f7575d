package reconciler

import (
	"io"
	"log/slog"
	"strconv"
	"testing"

	"github.com/vango-dev/reactor/pkg/hooks"
	"github.com/vango-dev/reactor/pkg/vdom"
	"github.com/vango-dev/reactor/pkg/vtest"
)

var (
	_ Renderer          = (*vtest.Renderer)(nil)
	_ Inserter          = (*vtest.Renderer)(nil)
	_ Mover             = (*vtest.Renderer)(nil)
	_ PrimitiveExpander = (*vtest.Renderer)(nil)
	_ Renderer          = (*vtest.BasicRenderer)(nil)
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestReconciler(t *testing.T, opts ...Option) (*Reconciler, *vtest.Renderer) {
	t.Helper()
	ren := vtest.NewRenderer()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return New(ren, opts...), ren
}

func mustMount(t *testing.T, r *Reconciler, n *vdom.Node, parent Target) ID {
	t.Helper()
	id, err := r.Mount(n, parent)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return id
}

func mustCommit(t *testing.T, r *Reconciler) {
	t.Helper()
	if err := r.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
}

// counterHarness exposes the render count of a Counter component.
type counterHarness struct {
	renders int
	comp    *vdom.CompositeType
}

// newCounter returns a component rendering
//
//	VStack
//	  Button  (onPress increments the count)
//	  Label   (count)
//	  Slider  (onChange sets the level)
//	  Label   (level)
func newCounter() *counterHarness {
	h := &counterHarness{}
	h.comp = vdom.Component("Counter", func(s *hooks.Scope, p vdom.Props, _ []*vdom.Node) []*vdom.Node {
		h.renders++
		count, setCount := hooks.UseState(s, p.Int("value"))
		level, setLevel := hooks.UseState(s, 0.0)
		return vdom.Fragment(
			vdom.H(vtest.VStack, nil,
				vdom.H(vtest.Button, vdom.Props{
					"title":   "+",
					"onPress": func() { setCount.Update(func(n *int) { *n++ }) },
				}),
				vdom.H(vtest.Label, vdom.Props{"text": strconv.Itoa(count)}),
				vdom.H(vtest.Slider, vdom.Props{
					"value":    level,
					"onChange": func(x float64) { setLevel.Set(x) },
				}),
				vdom.H(vtest.Label, vdom.Props{"text": strconv.FormatFloat(level, 'g', -1, 64)}),
			),
		)
	})
	return h
}

// labels returns the text of every Label below v.
func labels(v *vtest.View) []string {
	var out []string
	for _, l := range v.Find("Label") {
		out = append(out, l.Text())
	}
	return out
}

func opsOf(ren *vtest.Renderer, kind vtest.OpKind) []string {
	var out []string
	for _, op := range ren.Ops() {
		if op.Kind == kind {
			out = append(out, op.View)
		}
	}
	return out
}
