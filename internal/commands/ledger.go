package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/acc/internal/logger"
)

func newLedgerCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ledger [<path>]",
		Short: "Print or select the active ledger file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cfg, err := a.store.Read()
				if err != nil {
					return err
				}
				return writeLine(cmd, cfg.Ledger)
			}

			if err := a.store.SetLedger(args[0]); err != nil {
				return err
			}
			log := logger.FromContext(cmd.Context())
			log.Debug().Str("ledger", args[0]).Msg("ledger selected")
			a.logChange(cmd, "set_ledger", args[0], "")
			return nil
		},
	}
}
