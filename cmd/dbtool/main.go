package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"swap-match-service/internal/adapters/repositories"
	"swap-match-service/internal/config"
	"swap-match-service/internal/platform/db"

	"github.com/spf13/cobra"
)

var databaseURL string

var rootCmd = &cobra.Command{
	Use:   "dbtool",
	Short: "Manage the listings database schema and demo data",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if databaseURL == "" {
			return errors.New("DATABASE_URL is required (set it or pass --database-url)")
		}
		return nil
	},
	SilenceUsage: true,
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd.Context(), func(conn *sql.DB) error {
				log.Println("Applying migrations...")
				if err := repositories.Migrate(conn); err != nil {
					return err
				}
				log.Println("Schema ready.")
				return nil
			})
		},
	}
}

func newSeedCmd() *cobra.Command {
	var seedPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Apply migrations and upsert listings from a JSON seed file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			listings, err := repositories.LoadListingsJSON(seedPath)
			if err != nil {
				return err
			}

			return withDB(cmd.Context(), func(conn *sql.DB) error {
				if err := repositories.Migrate(conn); err != nil {
					return err
				}

				log.Printf("Seeding %d listings from %s...", len(listings), seedPath)
				if err := repositories.SeedListings(cmd.Context(), conn, listings); err != nil {
					return err
				}
				log.Println("Seeding complete.")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&seedPath, "file", config.Get("SEED_PATH", "data/seeds/listings.json"), "path to the listings seed file")

	return cmd
}

func withDB(ctx context.Context, fn func(*sql.DB) error) error {
	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(conn)
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal(err)
	}

	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", config.Get("DATABASE_URL", ""), "Postgres connection string")
	rootCmd.AddCommand(newMigrateCmd(), newSeedCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
