package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/acc/internal/audit"
	"github.com/cleared-dev/acc/internal/buildinfo"
	"github.com/cleared-dev/acc/internal/config"
	"github.com/cleared-dev/acc/internal/logger"
)

// app carries what every command needs once flags are parsed.
type app struct {
	settings config.Settings
	store    *config.Store
	now      func() time.Time
}

// logChange adds one row to the audit log when one is configured. A failure
// is logged rather than returned since the change itself has been made.
func (a *app) logChange(cmd *cobra.Command, action, details, txID string) {
	if a.settings.AuditLog == "" {
		return
	}
	e := audit.Entry{
		Timestamp: a.now().UTC(),
		Command:   cmd.Name(),
		Action:    action,
		Details:   details,
		TxID:      txID,
	}
	if err := audit.Append(a.settings.AuditLog, []audit.Entry{e}); err != nil {
		log := logger.FromContext(cmd.Context())
		log.Warn().Err(err).Str("path", a.settings.AuditLog).Msg("audit log not written")
	}
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(settings config.Settings) *cobra.Command {
	a := &app{settings: settings, now: time.Now}

	rootCmd := &cobra.Command{
		Use:     "acc",
		Short:   "Record credits and debits in a CSV ledger and report on them",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.settings.Validate(); err != nil {
				return err
			}
			log, err := logger.New(cmd.ErrOrStderr(), a.settings.LogLevel)
			if err != nil {
				return fmt.Errorf("configuring logger: %w", err)
			}
			cmd.SetContext(logger.WithContext(cmd.Context(), log))
			a.store = config.NewStore(a.settings.ConfigPath)
			log.Debug().Str("config", a.store.Path()).Str("command", cmd.Name()).Msg("starting")
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.settings.ConfigPath, "config", settings.ConfigPath, "config file (.yaml/.yml for YAML, CSV otherwise)")
	rootCmd.PersistentFlags().StringVar(&a.settings.LogLevel, "log-level", settings.LogLevel, "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&a.settings.AuditLog, "audit-log", settings.AuditLog, "append a CSV row here for every change (empty disables)")

	rootCmd.AddCommand(newDateCommand(a))
	rootCmd.AddCommand(newLedgerCommand(a))
	rootCmd.AddCommand(newTransactionCommand(a, "credit"))
	rootCmd.AddCommand(newTransactionCommand(a, "debit"))
	rootCmd.AddCommand(newReportCommand(a))
	rootCmd.AddCommand(newBalanceCommand(a))
	rootCmd.AddCommand(newCheckCommand(a))
	rootCmd.AddCommand(newInitCommand(a))
	rootCmd.AddCommand(newImportCommand(a))

	return rootCmd
}

// Run executes the CLI with args and returns the process exit code. Errors
// are reported on stderr; nothing below this point prints them.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer, settings config.Settings) int {
	rootCmd := NewRootCommand(settings)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	code := ExitCode(err)
	if code == ExitError {
		fmt.Fprintf(stderr, "acc: %v\n", err)
	}
	return code
}

func writeLine(cmd *cobra.Command, line string) error {
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
