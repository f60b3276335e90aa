package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/acc/internal/date"
	"github.com/cleared-dev/acc/internal/logger"
)

// bareAdvance is the value --advance takes when given without one. It reads
// as one day but differs from an explicit --advance=1, so a following
// positional count can only attach to the bare flag.
const bareAdvance = "+1"

func newDateCommand(a *app) *cobra.Command {
	var advance string

	cmd := &cobra.Command{
		Use:   "date [<date>]",
		Short: "Print, set or advance the current date",
		Long: "With no arguments, print the current date. With a YYYY-MM-DD date, set it.\n" +
			"With --advance, move it forward by a whole number of days (default 1);\n" +
			"the count may also follow a bare --advance as a separate argument.\n" +
			"A date argument wins over --advance.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			advancing := cmd.Flags().Changed("advance")
			if len(args) == 1 {
				if _, err := date.Parse(args[0]); err == nil || !advancing {
					return runSetDate(cmd, a, args[0])
				}
				if advance != bareAdvance {
					return fmt.Errorf("unexpected argument %q after --advance=%s", args[0], advance)
				}
				return runAdvanceDate(cmd, a, args[0])
			}
			if advancing {
				return runAdvanceDate(cmd, a, advance)
			}
			return runPrintDate(cmd, a)
		},
	}

	cmd.Flags().StringVar(&advance, "advance", "", "advance the date by this many `days`")
	cmd.Flags().Lookup("advance").NoOptDefVal = bareAdvance

	return cmd
}

func runPrintDate(cmd *cobra.Command, a *app) error {
	cfg, err := a.store.Read()
	if err != nil {
		return err
	}
	return writeLine(cmd, cfg.Date.String())
}

func runSetDate(cmd *cobra.Command, a *app, value string) error {
	d, err := date.Parse(value)
	if err != nil {
		return err
	}
	if err := a.store.SetDate(d); err != nil {
		return err
	}
	log := logger.FromContext(cmd.Context())
	log.Debug().Stringer("date", d).Msg("date set")
	a.logChange(cmd, "set_date", d.String(), "")
	return nil
}

func runAdvanceDate(cmd *cobra.Command, a *app, value string) error {
	n, err := date.ParseDays(value)
	if err != nil {
		return err
	}
	cfg, err := a.store.Read()
	if err != nil {
		return err
	}
	d, err := date.Advance(cfg.Date, n)
	if err != nil {
		return err
	}
	if err := a.store.SetDate(d); err != nil {
		return err
	}
	log := logger.FromContext(cmd.Context())
	log.Debug().
		Stringer("from", cfg.Date).
		Int("days", int(n)).
		Stringer("to", d).
		Msg("date advanced")
	a.logChange(cmd, "advance_date", fmt.Sprintf("%s +%d -> %s", cfg.Date, n, d), "")
	return nil
}
