package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"PhoneStore/internal/cleaner"
	"PhoneStore/internal/config"
	"PhoneStore/pkg/kit"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "phoneclean",
		Short: "Normalize and deduplicate a phone data file",
		Long: `phoneclean reads a phone data file, normalizes storage, RAM, camera,
battery and price values, drops duplicate brand/model/storage/RAM
combinations and writes the survivors to a new file.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, v)
		},
	}

	cmd.Flags().StringP("input", "i", "data.csv", "file to clean")
	cmd.Flags().StringP("output", "o", "data_cleaned.csv", "where to write the cleaned file")
	cmd.Flags().Bool("dry-run", false, "report what would change without writing")
	cmd.Flags().String("log-level", "warn", "log level")

	_ = v.BindPFlag("clean.input", cmd.Flags().Lookup("input"))
	_ = v.BindPFlag("clean.output", cmd.Flags().Lookup("output"))
	_ = v.BindPFlag("clean.dry_run", cmd.Flags().Lookup("dry-run"))
	_ = v.BindPFlag("clean.log_level", cmd.Flags().Lookup("log-level"))

	return cmd
}

func run(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := config.LoadClean(v)
	if err != nil {
		return err
	}

	log, err := kit.NewLogger("phoneclean", kit.LogConfig{Level: cfg.LogLevel, Format: "console"})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	rep, err := cleaner.New(log).Run(cfg.Input, cfg.Output, cfg.DryRun)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), rep.Render())
	return nil
}
