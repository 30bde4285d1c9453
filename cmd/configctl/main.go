// configctl is the administrative companion to the configurator service.
// The bulk import runs offline against the database, independent of the
// live selection flow.
package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/craftform/configurator/app/importer"
	"github.com/craftform/configurator/models"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	merchantID     string
	configuratorID string
)

var rootCmd = &cobra.Command{
	Use:   "configctl",
	Short: "Administrative tooling for the product configurator",
}

var importCmd = &cobra.Command{
	Use:   "import [payload.json|payload.csv]",
	Short: "Bulk-import categories, options and incompatibility rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open payload: %w", err)
		}
		defer f.Close()

		var payload importer.RawPayload
		if strings.EqualFold(filepath.Ext(path), ".csv") {
			payload, err = importer.ParseCSV(f)
			if err != nil {
				return err
			}
		} else {
			if err := json.NewDecoder(f).Decode(&payload); err != nil {
				return fmt.Errorf("decode payload: %w", err)
			}
		}

		db, err := openDB()
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}

		svc := importer.NewService(models.NewCatalogRepository(db))
		result, err := svc.Import(merchantID, configuratorID, payload)
		if err != nil {
			return err
		}

		fmt.Printf("imported %d categories, %d options, %d incompatibility rows\n",
			len(result.Categories), len(result.Options), result.IncompatibilitiesCreated)
		for _, warning := range result.Warnings {
			fmt.Printf("warning: %s\n", warning)
		}
		return nil
	},
}

func openDB() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
}

func main() {
	_ = godotenv.Load()

	importCmd.Flags().StringVar(&merchantID, "merchant", "", "merchant id owning the configurator")
	importCmd.Flags().StringVar(&configuratorID, "configurator", "", "target configurator id")
	_ = importCmd.MarkFlagRequired("merchant")
	_ = importCmd.MarkFlagRequired("configurator")
	rootCmd.AddCommand(importCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
