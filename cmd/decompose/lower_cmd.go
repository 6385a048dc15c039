package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/risor-io/decompose/pipeline"
	"github.com/spf13/cobra"
)

func (a *app) lowerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lower [file]",
		Short: "Lower a JSON encoded module and print the result",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLower(cmd, args)
		},
	}
	cmd.Flags().StringP("output", "o", "text", "output format: text or json")
	cmd.Flags().Bool("stats", false, "print per function statistics to stderr")
	cmd.Flags().Bool("metrics", false, "print metrics in Prometheus format to stderr")
	cmd.Flags().Bool("verify", false, "check the shape of the lowered code")
	cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions([]string{"json", "text"}, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func (a *app) runLower(cmd *cobra.Command, args []string) error {
	m, err := a.readModule(args)
	if err != nil {
		return err
	}
	runner := pipeline.New(a.pipelineOptions()...)
	report, lowerErr := runner.Lower(cmd.Context(), m)

	flags := cmd.Flags()
	if ok, _ := flags.GetBool("stats"); ok && report != nil {
		bold := color.New(color.Bold).SprintFunc()
		for _, fr := range report.Functions {
			if fr.Err != nil {
				fmt.Fprintf(a.stderr, "%s %s\n", bold(fr.Name), red("failed"))
				continue
			}
			s := fr.Stats
			fmt.Fprintf(a.stderr, "%s temporaries=%d labels=%d loops=%d chains=%d terminations=%d\n",
				bold(fr.Name), s.Temporaries, s.Labels, s.Loops, s.Chains, s.Terminations)
		}
	}
	if ok, _ := flags.GetBool("metrics"); ok {
		runner.WritePrometheus(a.stderr)
	}
	if lowerErr != nil {
		return lowerErr
	}
	if ok, _ := flags.GetBool("verify"); ok {
		if err := verifyModule(m, a.lowerConfig().TempPrefix); err != nil {
			return err
		}
	}

	format, _ := flags.GetString("output")
	switch strings.ToLower(format) {
	case "json":
		out, err := a.outputJSON(m)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, string(out))
	case "text", "":
		for i, fn := range m.Functions {
			if i > 0 {
				fmt.Fprintln(a.stdout)
			}
			fmt.Fprintln(a.stdout, fn)
		}
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
	return nil
}
