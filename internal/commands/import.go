package commands

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/acc/internal/importer"
	"github.com/cleared-dev/acc/internal/ledger"
	"github.com/cleared-dev/acc/internal/logger"
)

// maxParallelParses bounds how many export files are parsed at once.
const maxParallelParses = 4

func newImportCommand(a *app) *cobra.Command {
	var format string
	var dir string

	registry := importer.DefaultRegistry()
	formats := registry.Formats()
	slices.Sort(formats)

	cmd := &cobra.Command{
		Use:   "import [<file>...]",
		Short: "Record the rows of bank or ledger exports in the active ledger",
		Long: "Record every row of the named CSV files in the active ledger. Outflows\n" +
			"become credits and inflows become debits; each row keeps its own date.\n" +
			"With no files, every CSV in the import directory is recorded and then\n" +
			"moved into its processed/ subdirectory. Nothing is recorded unless every\n" +
			"file parses.",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := registry.Get(format)
			if p == nil {
				return fmt.Errorf("unknown import format %q (known: %s)", format, strings.Join(formats, ", "))
			}
			if len(args) > 0 {
				return runImport(cmd, a, p, args, nil)
			}

			files, err := importer.Scan(dir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return writeLine(cmd, fmt.Sprintf("nothing to import in %s", dir))
			}
			paths := make([]string, len(files))
			for i, f := range files {
				paths[i] = f.Path
			}
			return runImport(cmd, a, p, paths, func(i int) error {
				return importer.MarkProcessed(dir, files[i].Name)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "chase", "export format ("+strings.Join(formats, ", ")+")")
	cmd.Flags().StringVar(&dir, "dir", importer.Dir, "directory scanned when no files are given")

	return cmd
}

// runImport parses every file concurrently, then records them one file at a
// time in argument order. done, when set, runs after file i is recorded.
func runImport(cmd *cobra.Command, a *app, p importer.Parser, paths []string, done func(i int) error) error {
	parsed := make([][]importer.Entry, len(paths))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(maxParallelParses)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			entries, err := importer.ParseFile(p, path)
			if err != nil {
				return err
			}
			parsed[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	cfg, err := a.store.Read()
	if err != nil {
		return err
	}
	l := ledger.Open(cfg.Ledger)
	log := logger.FromContext(cmd.Context())

	for i, path := range paths {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		for _, e := range parsed[i] {
			tx, err := l.Record(e.Date, e.Amount.Abs(), e.Type(), e.Description)
			if err != nil {
				return fmt.Errorf("importing %s: %w", filepath.Base(path), err)
			}
			log.Debug().Int("id", tx.ID).Str("source", path).Msg("transaction imported")
			a.logChange(cmd, "import", describe(l, tx), strconv.Itoa(tx.ID))
		}
		if done != nil {
			if err := done(i); err != nil {
				return err
			}
		}
		if err := writeLine(cmd, fmt.Sprintf("imported %d transactions from %s", len(parsed[i]), filepath.Base(path))); err != nil {
			return err
		}
	}
	return nil
}
