package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/acc/internal/config"
	"github.com/cleared-dev/acc/internal/date"
	"github.com/cleared-dev/acc/internal/ledger"
	"github.com/cleared-dev/acc/internal/logger"
)

func newInitCommand(a *app) *cobra.Command {
	var startDate string
	var ledgerPath string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a fresh config and an empty ledger",
		Long: "Create the config file and a header-only ledger in directory (default \".\").\n" +
			"Relative config and ledger paths are resolved against that directory.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, a, absDir, startDate, ledgerPath)
		},
	}

	cmd.Flags().StringVar(&startDate, "date", date.Epoch.String(), "initial current `date`")
	cmd.Flags().StringVar(&ledgerPath, "ledger", ledger.DefaultPath, "initial ledger `path`")

	return cmd
}

func runInit(cmd *cobra.Command, a *app, dir, startDate, ledgerPath string) error {
	cfg, err := config.Default().With(config.FieldDate, startDate)
	if err != nil {
		return err
	}
	cfg, err = cfg.With(config.FieldLedger, ledgerPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	store := config.NewStore(within(dir, a.store.Path()))
	if _, err := os.Stat(store.Path()); err == nil {
		return fmt.Errorf("config %s already exists", store.Path())
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}
	if err := store.Write(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	l := ledger.Open(within(dir, cfg.Ledger))
	created, err := l.Create()
	if err != nil {
		return err
	}
	log := logger.FromContext(cmd.Context())
	log.Debug().
		Str("config", store.Path()).
		Str("ledger", l.Path()).
		Bool("created", created).
		Msg("initialized")
	a.logChange(cmd, "init", store.Path(), "")

	return writeLine(cmd, fmt.Sprintf("Initialized acc in %s", dir))
}

// within resolves a relative path against dir.
func within(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
