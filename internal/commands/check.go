package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/acc/internal/ledger"
)

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the active ledger file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.store.Read()
			if err != nil {
				return err
			}
			l := ledger.Open(cfg.Ledger)

			n, problems, err := l.Check()
			if err != nil {
				return err
			}
			if len(problems) == 0 {
				return writeLine(cmd, fmt.Sprintf("ok: %d transactions in %s", n, l.Path()))
			}
			for _, p := range problems {
				if err := writeLine(cmd, p.Error()); err != nil {
					return err
				}
			}
			return fmt.Errorf("ledger %s has %d problems", l.Path(), len(problems))
		},
	}
}
