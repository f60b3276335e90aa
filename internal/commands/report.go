package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/acc/internal/config"
	"github.com/cleared-dev/acc/internal/date"
	"github.com/cleared-dev/acc/internal/ledger"
	"github.com/cleared-dev/acc/internal/logger"
	"github.com/cleared-dev/acc/internal/report"
)

const datespecHelp = "A datespec is a single YYYY-MM-DD date or a START~END range where\n" +
	"either side may be left out to leave that end open."

func newReportCommand(a *app) *cobra.Command {
	var balance bool

	cmd := &cobra.Command{
		Use:   "report [<datespec>]",
		Short: "Show transactions or the net balance",
		Long:  "Show the transactions in the active ledger, or their net balance.\n" + datespecHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := report.Table
			if balance {
				mode = report.Balance
			}
			return runReport(cmd, a, specArg(args), mode)
		},
	}

	cmd.Flags().BoolVar(&balance, "balance", false, "print the net balance (debits minus credits)")

	return cmd
}

func newBalanceCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance [<datespec>]",
		Short: "Show the net balance (same as report --balance)",
		Long:  "Show the net balance of the active ledger: debits minus credits.\n" + datespecHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, a, specArg(args), report.Balance)
		},
	}
}

func specArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func runReport(cmd *cobra.Command, a *app, spec string, mode report.Mode) error {
	ctx := cmd.Context()

	r, err := date.ParseSpec(spec)
	if err != nil {
		return err
	}
	cfg, err := a.store.Read()
	if err != nil {
		return err
	}
	l := ledger.Open(cfg.Ledger)

	if a.settings.MissingLedger == config.MissingLedgerError {
		exists, err := l.Exists()
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %s", ledger.ErrNotFound, l.Path())
		}
	}

	log := logger.FromContext(ctx)
	log.Debug().
		Str("ledger", l.Path()).
		Stringer("range", r).
		Stringer("mode", mode).
		Msg("reporting")

	for line, err := range report.Lines(l, r, mode) {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeLine(cmd, line); err != nil {
			return err
		}
	}
	return nil
}
