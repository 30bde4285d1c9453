package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/craftform/configurator/app/configurator"
	"github.com/craftform/configurator/app/importer"
	"github.com/craftform/configurator/app/session"
	"github.com/craftform/configurator/models"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// .env is optional; production sets variables directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	db, err := openDB()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Configurator{},
		&models.Category{},
		&models.Option{},
		&models.Incompatibility{},
	); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	repo := models.NewCatalogRepository(db)
	sessions := session.NewStore()
	configuratorHandler := configurator.NewHandler(repo, sessions)
	importHandler := importer.NewHandler(importer.NewService(repo))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /configurators/{id}/sessions", configuratorHandler.HandleOpenSession)
	mux.HandleFunc("GET /sessions/{id}", configuratorHandler.HandleGetSession)
	mux.HandleFunc("POST /sessions/{id}/select", configuratorHandler.HandleSelect)
	mux.HandleFunc("POST /sessions/{id}/quantity", configuratorHandler.HandleSetQuantity)
	mux.HandleFunc("DELETE /sessions/{id}", configuratorHandler.HandleCloseSession)
	mux.HandleFunc("POST /configurators/{id}/import", importHandler.HandleImport)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func openDB() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "postgres://localhost:5432/configurator?sslmode=disable"
	}
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
}
