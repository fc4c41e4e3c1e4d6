package orgchart

import (
	"context"
	"fmt"
	"time"

	"github.com/soundprediction/orgchart/pkg/secrets"
	"github.com/spf13/cobra"
)

var adminKeyCmd = &cobra.Command{
	Use:   "admin-key",
	Short: "Manage the admin key guarding uploads",
}

var adminKeyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Generate a new admin key",
	Long: `Generate a random URL-safe admin key and print it.

With --store the key is also written to SSM Parameter Store as a
SecureString under secrets.admin_key_parameter.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _ := cmd.Flags().GetBool("store")
		return runAdminKey(cmd, store)
	},
}

var adminKeyRotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Generate a new admin key and replace the stored one",
	Long: `Generate a new admin key and overwrite the SSM parameter. Running servers
keep the old key until they restart.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdminKey(cmd, true)
	},
}

func init() {
	rootCmd.AddCommand(adminKeyCmd)
	adminKeyCmd.AddCommand(adminKeyCreateCmd, adminKeyRotateCmd)

	adminKeyCreateCmd.Flags().Bool("store", false, "Store the key in SSM Parameter Store")
	adminKeyCmd.PersistentFlags().String("aws-region", "", "AWS region for SSM")
}

func runAdminKey(cmd *cobra.Command, store bool) error {
	key, err := secrets.GenerateKey()
	if err != nil {
		return err
	}

	if store {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("aws-region") {
			cfg.Secrets.Region, _ = cmd.Flags().GetString("aws-region")
		}

		ctx, cancel := context.WithTimeout(cliContext(context.Background()), time.Minute)
		defer cancel()

		client, err := secrets.NewSSMClient(ctx, cfg.Secrets.Region)
		if err != nil {
			return err
		}
		log, sink := newLogger(cfg)
		if sink != nil {
			defer sink.Close()
		}
		if err := secrets.NewSSMProvider(client, cfg.Secrets, log).StoreAdminKey(ctx, key); err != nil {
			return fmt.Errorf("failed to store admin key: %w", err)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), key)
	return nil
}
