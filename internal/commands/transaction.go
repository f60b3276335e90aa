package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/acc/internal/ledger"
	"github.com/cleared-dev/acc/internal/logger"
	"github.com/cleared-dev/acc/internal/model"
)

// newTransactionCommand builds the credit and debit commands, which differ
// only in the type they record.
func newTransactionCommand(a *app, name string) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   name + " <amount>",
		Short: fmt.Sprintf("Record a %s transaction at the current date", name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txType, err := model.ParseTxType(name)
			if err != nil {
				return err
			}
			amount, err := model.ParseAmount(args[0])
			if err != nil {
				return err
			}

			cfg, err := a.store.Read()
			if err != nil {
				return err
			}
			l := ledger.Open(cfg.Ledger)
			tx, err := l.Record(cfg.Date, amount, txType, description)
			if err != nil {
				return err
			}

			log := logger.FromContext(cmd.Context())
			log.Debug().
				Str("ledger", l.Path()).
				Int("id", tx.ID).
				Stringer("date", tx.Date).
				Str("amount", tx.Amount.StringFixed(2)).
				Str("type", string(tx.Type)).
				Msg("transaction recorded")
			a.logChange(cmd, "record", describe(l, tx), strconv.Itoa(tx.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "a short description of the transaction")

	return cmd
}

// describe summarizes tx for the audit log.
func describe(l *ledger.Ledger, tx model.Transaction) string {
	return fmt.Sprintf("%s %s on %s in %s", tx.Amount.StringFixed(2), tx.Type, tx.Date, l.Path())
}
