package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/repovault/repovault/entity"
	"github.com/repovault/repovault/orchestrator"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and print the execution plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}

		orch := orchestrator.NewSave(
			orchestrator.WithConfigValues(cfg.EntityValues(entity.Catalog())),
			orchestrator.WithStrict(cfg.Run.StrictDependencies),
			orchestrator.WithLogger(logger.Logger),
		)
		levels, err := orch.Plan()
		if err != nil {
			return err
		}

		fmt.Printf("configuration valid: %s\n", cfgFile)
		for i, level := range levels {
			fmt.Printf("level %d: %s\n", i+1, strings.Join(level, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
