package orgchart

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

var subtreeCmd = &cobra.Command{
	Use:   "subtree <full name>",
	Short: "Print everyone reporting to an employee",
	Long: `Print the reporting subtree of every employee with the given full name,
as the node/link payload served by GET /employee.

The name must match exactly. An unknown name prints an empty payload.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSubtree,
}

func init() {
	rootCmd.AddCommand(subtreeCmd)
	subtreeCmd.Flags().StringP("format", "o", "json", "Output format (json, yaml)")
}

func runSubtree(cmd *cobra.Command, args []string) error {
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

	graph, err := rt.client.Employee(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	return writeOutput(cmd.OutOrStdout(), format, graph)
}
