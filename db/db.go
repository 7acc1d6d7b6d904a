package db

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq" // imported for side-effects only, not for direct use in the code.
	"github.com/rs/zerolog/log"
)

// CreatePostgresConnection opens the read-only connection to the upstream
// event-log database. Failure here is fatal for the run: the engine produces
// no partial output when the source is unreachable.
func CreatePostgresConnection() (*sql.DB, error) {
	connStr := fmt.Sprintf("user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_PORT"),
		os.Getenv("POSTGRES_DB"),
		os.Getenv("POSTGRES_SSLMODE"),
	)
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		return nil, err
	}

	log.Info().Msg("Successfully connected to the Postgres Database")

	return db, nil
}
