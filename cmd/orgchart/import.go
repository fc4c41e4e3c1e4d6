package orgchart

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Merge an employee CSV file into the graph",
	Long: `Merge an employee CSV file into the graph, the same way POST /upload does.

Rows are merged in order. Importing the same file twice leaves the graph
unchanged. An interrupted import keeps the rows merged so far.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cliContext(context.Background()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.close(context.Background())

	if err := rt.client.CreateIndices(ctx); err != nil {
		return fmt.Errorf("failed to create indices: %w", err)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer f.Close()

	summary, err := rt.client.ImportCSV(ctx, f)
	if summary != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "imported: %d\nrelationships: %d\nskipped: %d\n",
			summary.Imported, summary.Relationships, summary.Skipped)
	}
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	return nil
}
