package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/symdiff"
)

func newParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [program...]",
		Short: "Parse a program and print it in canonical form",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.program(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func newDiffCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff [program...]",
		Short: "Print a program with the derivative of each output",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.program(cmd, args)
			if err != nil {
				return err
			}
			d, err := p.Differentiate(a.cfg.Wrt)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), d)
			return nil
		},
	}
	cmd.Flags().String("wrt", "", "variable to differentiate with respect to (default from config, else x)")
	return cmd
}

func newEvalCmd(a *app) *cobra.Command {
	var (
		given []string
		diff  bool
	)
	cmd := &cobra.Command{
		Use:   "eval [program...]",
		Short: "Evaluate every output of a program",
		Long: `eval evaluates each output of a program once per row. Variables are bound
with --given; each value may be a constant expression such as pi()/2. The
number of rows is the length of the longest binding, or 1 if there are none.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.program(cmd, args)
			if err != nil {
				return err
			}
			if diff {
				if p, err = p.Differentiate(a.cfg.Wrt); err != nil {
					return err
				}
			}
			b, n, err := bindings(given)
			if err != nil {
				return err
			}
			evs, err := symdiff.Compile(p, b,
				symdiff.Parallelism(a.cfg.Parallelism),
				symdiff.WithLogger(a.log),
			)
			if err != nil {
				return err
			}
			rows := make([]symdiff.Row, n)
			out := cmd.OutOrStdout()
			for _, name := range p.Outputs() {
				r, err := evs[name](rows)
				if err != nil {
					return err
				}
				a.log.WithFields(logrus.Fields{"output": name, "rows": len(r)}).Debug("evaluated")
				vals := make([]string, len(r))
				for i, v := range r {
					vals[i] = fmt.Sprintf(a.cfg.Format, float64(v.Atom))
				}
				fmt.Fprintf(out, "%s = %s\n", name, strings.Join(vals, " "))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringArrayVar(&given, "given", nil, "NAME=v1,v2,... variable binding (any number of times)")
	f.BoolVarP(&diff, "diff", "d", false, "also evaluate derivatives")
	f.String("wrt", "", "variable to differentiate with respect to (default from config, else x)")
	f.IntP("parallel", "j", 1, "number of chunks to evaluate concurrently; 0 uses every CPU")
	return cmd
}

// bindings parses --given flags into variable bindings and returns the
// number of rows they describe.
func bindings(given []string) (symdiff.Bindings, int, error) {
	b := make(symdiff.Bindings, len(given))
	n := 1
	if len(given) != 0 {
		n = 0
	}
	for _, g := range given {
		name, vals, ok := strings.Cut(g, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, 0, errors.Errorf(`variable bindings must be "name=values", not %q`, g)
		}
		var s symdiff.Stream
		for _, v := range splitTop(vals) {
			x, err := constant(v)
			if err != nil {
				return nil, 0, errors.Wrapf(err, "binding %s", name)
			}
			s = append(s, symdiff.Pair{Label: name, Atom: symdiff.Atom(x)})
		}
		b[name] = append(b[name], s...)
		if len(b[name]) > n {
			n = len(b[name])
		}
	}
	return b, n, nil
}

// constant evaluates an expression with no variables.
func constant(src string) (float64, error) {
	e, err := symdiff.ParseExprString(src)
	if err != nil {
		return 0, err
	}
	p := symdiff.NewProgram(symdiff.Assignment{Name: "v", Expr: e})
	evs, err := symdiff.Compile(p, nil)
	if err != nil {
		return 0, err
	}
	r, err := evs["v"](make([]symdiff.Row, 1))
	if err != nil {
		return 0, err
	}
	return float64(r[0].Atom), nil
}

// splitTop splits s on commas outside brackets.
func splitTop(s string) []string {
	var r []string
	depth, start := 0, 0
	for i, c := range s {
		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				r = append(r, s[start:i])
				start = i + 1
			}
		}
	}
	return append(r, s[start:])
}
