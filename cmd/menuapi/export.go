package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-menu-cache/internal/bunrepo"
	"github.com/goliatone/go-menu-cache/menu"
)

var exportOutput string

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "-", "File to write the TSV dump to, - for stdout")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump every menu, submenu and dish as tab separated values",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, closer, err := setup()
		if err != nil {
			return err
		}
		defer closer.Close()

		ctx, cancel := handleSignals(context.Background())
		defer cancel()

		db, err := bunrepo.Open(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		rows, err := bunrepo.NewRepository(db).ExportRows(ctx)
		if err != nil {
			return err
		}

		var out io.Writer = os.Stdout
		if exportOutput != "-" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("create %s: %w", exportOutput, err)
			}
			defer f.Close()
			out = f
		}
		return menu.WriteTSV(out, rows)
	},
}
