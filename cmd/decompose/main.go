package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var red = color.New(color.FgRed).SprintFunc()

// app carries the state shared by the commands of one invocation.
type app struct {
	v      *viper.Viper
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    zerolog.Logger
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		v:      viper.New(),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		log:    zerolog.Nop(),
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "decompose",
		Short:         "Flatten control flow out of expressions in IR modules",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (yaml, toml or json)")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")
	flags.Bool("no-color", false, "disable colored output")
	flags.Bool("stdin", false, "read the module from stdin")
	flags.IntP("concurrency", "j", 0, "functions lowered at the same time (0 means GOMAXPROCS)")
	flags.String("temp-prefix", "", "prefix of generated temporaries")
	flags.String("label-prefix", "", "prefix of generated loop labels")
	flags.StringSlice("function", nil, "only lower the named functions")
	for _, name := range []string{"config", "log-level", "no-color", "stdin", "concurrency", "temp-prefix", "label-prefix", "function"} {
		a.v.BindPFlag(name, flags.Lookup(name))
	}
	a.v.SetEnvPrefix("DECOMPOSE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	a.v.BindEnv("no-color", "NO_COLOR", "DECOMPOSE_NO_COLOR")

	root.AddCommand(a.lowerCmd(), a.checkCmd())
	return root
}

// init reads the config file and applies the global flags.
func (a *app) init() error {
	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	if a.v.GetBool("no-color") {
		color.NoColor = true
	}
	level, err := zerolog.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level %q", a.v.GetString("log-level"))
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: a.stderr, NoColor: color.NoColor}).
		Level(level).
		With().Timestamp().Logger()
	return nil
}

func main() {
	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := a.rootCmd().Execute(); err != nil {
		fatal(err)
	}
}
