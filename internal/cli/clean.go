package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the generated site",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.DryRun {
			log.Infof("[DRY-RUN] Would remove: %s", cfg.Output.Directory)
			return nil
		}
		if err := os.RemoveAll(cfg.Output.Directory); err != nil {
			return fmt.Errorf("failed to remove %s: %w", cfg.Output.Directory, err)
		}
		log.Infof("Removed %s", cfg.Output.Directory)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
