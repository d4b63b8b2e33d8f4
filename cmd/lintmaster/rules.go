package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/lintmaster/app"
	"github.com/ludo-technologies/lintmaster/internal/config"
	"github.com/ludo-technologies/lintmaster/internal/vcs"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rules run for each language, in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			registry, err := app.NewRuleRegistryFromConfig(cfg, vcs.EmptyStagedFileSet())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, lang := range registry.Languages() {
				fmt.Fprintf(out, "%s:\n", lang)
				for i, rule := range registry.Rules(lang) {
					fmt.Fprintf(out, "  %d. %s\n", i+1, rule.Name())
				}
			}
			return nil
		},
	}

	cmd.Flags().StringP("config", "c", "", "Path to config file")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config [path]",
		Short: "Print the effective configuration",
		Long: `Print the configuration a check of path would use, after config file
discovery and LINTMASTER_* environment overrides.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			target := ""
			if len(args) > 0 {
				target = args[0]
			}

			cfg, err := config.LoadConfigWithTarget(configPath, target)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return config.WriteYAML(cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringP("config", "c", "", "Path to config file")
	return cmd
}
