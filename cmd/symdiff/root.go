package main

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/symdiff"
)

// app is the state shared by all commands.
type app struct {
	cfgFile string
	cfg     Config
	log     *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: logrus.New()}
	root := &cobra.Command{
		Use:   "symdiff",
		Short: "Parse, differentiate, and evaluate assignment programs",
		Long: `symdiff reads programs of assignments such as

  y = 3*x^2 - 2*x + 1
  z = sin(y) / y

from its arguments, or from standard input when none are given. Statements
are separated by newlines or semicolons.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "TOML config file")
	pf.String("log-level", "", "log level (default from config, else warning)")
	pf.String("format", "", `result formatting verb (default from config, else "%g")`)

	root.AddCommand(newParseCmd(a), newDiffCmd(a), newEvalCmd(a))
	return root
}

// setup loads the config file, applies flag overrides, and configures
// logging.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.cfgFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("format") {
		cfg.Format, _ = flags.GetString("format")
	}
	if f := flags.Lookup("wrt"); f != nil && f.Changed {
		cfg.Wrt = f.Value.String()
	}
	if flags.Changed("parallel") {
		cfg.Parallelism, _ = flags.GetInt("parallel")
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	lvl, _ := logrus.ParseLevel(cfg.LogLevel)
	a.log.SetLevel(lvl)
	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	a.cfg = cfg
	a.log.WithFields(logrus.Fields{
		"config":      a.cfgFile,
		"parallelism": cfg.Parallelism,
		"wrt":         cfg.Wrt,
	}).Debug("configured")
	return nil
}

// program reads and parses the program given in args, or on standard input if
// there are no args.
func (a *app) program(cmd *cobra.Command, args []string) (*symdiff.Program, error) {
	var src string
	if len(args) != 0 {
		src = strings.Join(args, "\n")
	} else {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errors.Wrap(err, "reading program")
		}
		src = string(b)
	}
	p, err := symdiff.ParseString(src)
	if err != nil {
		return nil, err
	}
	a.log.WithField("outputs", len(p.Outputs())).Debug("parsed program")
	return p, nil
}
