package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/NomadCrew/feedback-service/config"
	"github.com/NomadCrew/feedback-service/db"
	"github.com/NomadCrew/feedback-service/internal/store/sqlite"
	"github.com/NomadCrew/feedback-service/logger"
	"github.com/NomadCrew/feedback-service/services"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type MigrateOptions struct {
	Database string
	Seed     string
}

// NewMigrateCommand creates the feedback-migrate root command. It applies
// schema migrations and optionally loads a YAML seed file.
func NewMigrateCommand() *cobra.Command {
	opts := &MigrateOptions{}
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "feedback-migrate",
		Short:         "Apply feedback schema migrations",
		Example:       "  feedback-migrate --db ./data/feedback.db --seed fixtures.yaml",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Database = v.GetString("db_path")
			return runMigrate(cmd, opts)
		},
	}

	cmd.Flags().String("db", config.DefaultDBPath, "path to SQLite database (env DB_PATH)")
	cmd.Flags().StringVar(&opts.Seed, "seed", "", "YAML file of feedback to insert after migrating")
	_ = v.BindPFlag("db_path", cmd.Flags().Lookup("db"))
	_ = v.BindEnv("db_path", "DB_PATH")

	return cmd
}

func runMigrate(cmd *cobra.Command, opts *MigrateOptions) error {
	log := logger.GetLogger()
	path := db.ResolvePath(opts.Database)

	if err := db.RunMigrations(path); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s\n", path)

	if opts.Seed == "" {
		return nil
	}

	f, err := os.Open(opts.Seed)
	if err != nil {
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	records, err := db.LoadSeed(f)
	if err != nil {
		return err
	}

	ctx := context.Background()
	m := db.NewManager(db.Config{Path: path})
	if _, err := m.Open(ctx); err != nil {
		return err
	}
	defer m.Close()

	svc := services.NewFeedbackService(sqlite.NewFeedbackStore(m, time.Now))
	for i, rec := range records {
		if err := svc.Validate(rec.FeedbackCreate()); err != nil {
			return fmt.Errorf("seed record %d: %w", i+1, err)
		}
	}
	for i, rec := range records {
		if _, err := svc.Create(ctx, rec.FeedbackCreate()); err != nil {
			return fmt.Errorf("seed record %d: %w", i+1, err)
		}
	}

	total, err := svc.Count(ctx)
	if err != nil {
		return err
	}

	log.Infow("Seed applied", "records", len(records), "total", total, "db", path)
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d records (%d total)\n", len(records), total)
	return nil
}
