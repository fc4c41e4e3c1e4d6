package orgchart

import (
	"context"

	"github.com/soundprediction/orgchart/pkg/types"
	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the graph for data quality problems",
}

var auditDuplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "List full names shared by several employees",
	Long: `List full names shared by several Employee nodes, with their emails.

Rows without an email are merged by full name, so people sharing a name
and lacking an email end up as one node. Shared names listed here are the
ones where the data had enough emails to keep them apart; subtree queries
for such a name start from all of them.`,
	Args: cobra.NoArgs,
	RunE: runAuditDuplicates,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditDuplicatesCmd)
	auditDuplicatesCmd.Flags().StringP("format", "o", "yaml", "Output format (json, yaml)")
}

// auditReport is the output of audit duplicates.
type auditReport struct {
	Employees     int64                 `json:"employees" yaml:"employees"`
	Relationships int64                 `json:"relationships" yaml:"relationships"`
	Duplicates    []types.DuplicateName `json:"duplicates" yaml:"duplicates"`
}

func runAuditDuplicates(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cliContext(context.Background())
	rt, err := bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.close(context.Background())

	stats, err := rt.client.Stats(ctx)
	if err != nil {
		return err
	}
	dups, err := rt.client.DuplicateNames(ctx)
	if err != nil {
		return err
	}
	if dups == nil {
		dups = []types.DuplicateName{}
	}

	format, _ := cmd.Flags().GetString("format")
	return writeOutput(cmd.OutOrStdout(), format, auditReport{
		Employees:     stats.Employees,
		Relationships: stats.Relationships,
		Duplicates:    dups,
	})
}
