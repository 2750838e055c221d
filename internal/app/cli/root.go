// Package cli holds the quickfeedback command tree.
package cli

import (
	"fmt"

	"quickfeedback/config"
	"quickfeedback/database"
	"quickfeedback/internal/shared/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "quickfeedback",
		Short:         "QuickFeedback API server and maintenance tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newPlansCommand(),
		newPruneCommand(),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// bootstrap loads configuration, sets up logging and opens the database.
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg, err := config.LoadEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Log)

	db, err := database.InitDB(cfg.DBURL)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
