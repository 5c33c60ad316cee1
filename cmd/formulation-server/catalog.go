package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/ehr/formulation/internal/config"
	"github.com/ehr/formulation/internal/domain/criteria"
	"github.com/ehr/formulation/internal/platform/db"
	"github.com/ehr/formulation/migrations"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Export or seed the criteria catalog",
	}

	// catalog export
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the effective catalog as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")

			svc, closeFn, err := cliService(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}
			if err := criteria.EncodeYAML(w, svc.Catalog().Entries()); err != nil {
				return err
			}
			if out != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d disorder(s) to %s\n", svc.Catalog().Len(), out)
			}
			return nil
		},
	}
	exportCmd.Flags().String("out", "", "Output file (default stdout)")
	cmd.AddCommand(exportCmd)

	// catalog seed
	cmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Upsert the built-in and CATALOG_FILE entries into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := context.Background()
			pool, err := requirePool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			// Seeding reads everything except the database itself.
			fileOnly := *cfg
			fileOnly.CatalogFromDB = false
			catalog, err := loadCatalog(ctx, &fileOnly, nil, newLogger(cfg, cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			if err := criteria.NewCatalogRepoPG(pool).Seed(ctx, catalog.Entries()); err != nil {
				return fmt.Errorf("seed catalog: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d disorder(s).\n", catalog.Len())
			return nil
		},
	})

	return cmd
}

func requirePool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
}

// migrationsFS returns the embedded migrations unless dir names a directory
// on disk.
func migrationsFS(dir string) fs.FS {
	if dir == "" {
		return migrations.FS
	}
	return os.DirFS(dir)
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}
	cmd.PersistentFlags().String("schema", db.DefaultSchema, "Target schema for migrations")
	cmd.PersistentFlags().String("dir", "", "Path to migrations directory (default embedded)")

	newMigrator := func(cmd *cobra.Command) (*db.Migrator, func(), error) {
		schema, _ := cmd.Flags().GetString("schema")
		dir, _ := cmd.Flags().GetString("dir")

		cfg, err := config.Load()
		if err != nil {
			return nil, nil, err
		}
		pool, err := requirePool(context.Background(), cfg)
		if err != nil {
			return nil, nil, err
		}
		return db.NewMigrator(pool, migrationsFS(dir), schema), pool.Close, nil
	}

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			to, _ := cmd.Flags().GetInt("to")
			schema, _ := cmd.Flags().GetString("schema")

			migrator, closeFn, err := newMigrator(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			fmt.Fprintf(cmd.OutOrStdout(), "Running migrations on schema: %s\n", schema)
			var count int
			if to > 0 {
				count, err = migrator.UpTo(context.Background(), to)
			} else {
				count, err = migrator.Up(context.Background())
			}
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().Int("to", 0, "Stop after this version (default all)")
	cmd.AddCommand(upCmd)

	// migrate status
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, _ := cmd.Flags().GetString("schema")

			migrator, closeFn, err := newMigrator(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			statuses, err := migrator.Status(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}
			printStatus(cmd.OutOrStdout(), schema, statuses)
			return nil
		},
	})

	return cmd
}

func printStatus(w io.Writer, schema string, statuses []db.MigrationStatus) {
	fmt.Fprintf(w, "Migration status for schema: %s\n", schema)
	fmt.Fprintf(w, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
	fmt.Fprintln(w, "---------- ---------------------------------------- ---------- --------------------")
	for _, s := range statuses {
		status := "pending"
		appliedAt := ""
		if s.Applied {
			status = "applied"
			if s.AppliedAt != nil {
				appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
		}
		fmt.Fprintf(w, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
	}
}
