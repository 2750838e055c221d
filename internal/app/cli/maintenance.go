package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"quickfeedback/database"
	"quickfeedback/internal/domain/feedback"
	"quickfeedback/internal/domain/plans"
	"quickfeedback/internal/shared/logger"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			logger.WithComponent("migrate").Info("schema up to date")
			return nil
		},
	}
}

func newPruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Delete feedback older than each account's plan storage period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			n, err := feedback.PruneExpired(cmd.Context(), db, time.Now())
			if err != nil {
				return err
			}
			logger.WithComponent("prune").Info("expired feedback removed", "rows", n)
			return nil
		},
	}
}

func newPlansCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Print the plan catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeCatalog(cmd.OutOrStdout(), format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format (yaml, json)")
	return cmd
}

func writeCatalog(w io.Writer, format string) error {
	all := plans.All()
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(all); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(all)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
