package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/pkg/hooks"
	"github.com/vango-dev/reactor/pkg/reconciler"
	"github.com/vango-dev/reactor/pkg/vdom"
	"github.com/vango-dev/reactor/pkg/vtest"
)

// counterApp is the demo component: a button that increments a count and
// a slider whose level is echoed by a label.
var counterApp = vdom.Component("Counter", func(s *hooks.Scope, p vdom.Props, _ []*vdom.Node) []*vdom.Node {
	count, setCount := hooks.UseState(s, p.Int("start"))
	level, setLevel := hooks.UseState(s, 0.0)
	ticks := hooks.UseRef(s, 0)

	hooks.UseEffect(s, func() hooks.Cleanup {
		ticks.Set(ticks.Current() + 1)
		return nil
	}, []any{count})

	return vdom.Fragment(
		vdom.H(vtest.VStack, vdom.Props{"spacing": 8},
			vdom.H(vtest.Button, vdom.Props{
				"title":   "Increment",
				"onPress": func() { setCount.Update(func(n *int) { *n++ }) },
			}),
			vdom.H(vtest.Label, vdom.Props{"text": "Count: " + strconv.Itoa(count)}),
			vdom.H(vtest.Slider, vdom.Props{
				"value":    level,
				"onChange": func(x float64) { setLevel.Set(x) },
			}),
			vdom.H(vtest.Label, vdom.Props{"text": "Level: " + strconv.FormatFloat(level, 'f', 2, 64)}),
		),
	)
})

func demoCmd(flags *globalFlags) *cobra.Command {
	var (
		start   int
		presses int
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the counter demo against an in-memory renderer",
		Long: `Mount a counter component on the in-memory recording renderer,
press its button and move its slider, and print the view tree and the
renderer calls after every commit.

Examples:
  reactor demo
  reactor demo --start=10 --presses=3
  reactor demo --log-level=debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(flags, start, presses)
		},
	}

	cmd.Flags().IntVar(&start, "start", 0, "Initial count")
	cmd.Flags().IntVarP(&presses, "presses", "n", 2, "Number of button presses")

	return cmd
}

func runDemo(flags *globalFlags, start, presses int) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	ren := vtest.NewRenderer()
	r := reconciler.New(ren,
		reconciler.WithConfig(cfg.ReconcilerConfig()),
		reconciler.WithLogger(newLogger(cfg)))

	printBanner()
	fmt.Println("  demo")
	fmt.Println()

	if _, err := r.Mount(vdom.C(counterApp, vdom.Props{"start": start}), ren.Root); err != nil {
		return err
	}
	printStep(ren, "mount")

	button := ren.Root.Find("Button")[0]
	for i := 0; i < presses; i++ {
		button.Press()
		if err := r.Commit(); err != nil {
			return err
		}
		printStep(ren, fmt.Sprintf("press %d", i+1))
	}

	ren.Root.Find("Slider")[0].Slide(0.75)
	if err := r.Commit(); err != nil {
		return err
	}
	printStep(ren, "slide to 0.75")

	success("%d nodes mounted", r.Len())
	return nil
}

// printStep prints the view tree and the renderer calls since the last
// step.
func printStep(ren *vtest.Renderer, title string) {
	fmt.Println(paint("\033[1m", title))
	for _, line := range strings.Split(strings.TrimRight(ren.Dump(), "\n"), "\n") {
		info("%s", line)
	}
	ops := ren.Ops()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.String()
	}
	info("%s", paint("\033[90m", strings.Join(names, ", ")))
	fmt.Println()
	ren.Reset()
}
