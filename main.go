package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	gorilla "github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ecelearn/hybrid-analytics/db"
	"github.com/ecelearn/hybrid-analytics/reconcile"
	"github.com/ecelearn/hybrid-analytics/services"
)

func main() {
	// .env is optional; in deployment the variables come from the environment
	godotenv.Load()

	setupLogger()

	// db initialization; an unreachable event source is fatal for the run
	conn, err := db.CreatePostgresConnection()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to the event source")
	}
	defer conn.Close()

	source := services.NewEventSource(conn)

	// router
	router := SetupRouter(source, sessionGap())

	port := 8080
	if p, err := strconv.Atoi(os.Getenv("PORT")); err == nil && p > 0 {
		port = p
	}
	address := fmt.Sprintf(":%d", port)

	log.Info().Int("port", port).Msg("Server is listening")

	err = http.ListenAndServe(address, gorilla.CORS( // cors config
		gorilla.AllowedOrigins([]string{"*"}),
		gorilla.AllowedMethods([]string{"GET", "OPTIONS"}),
		gorilla.AllowedHeaders([]string{"Content-Type"}),
	)(router))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

func setupLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// sessionGap reads the segmentation threshold override; the 300 second
// default is a design parameter of session inference, not a protocol
// guarantee of the upstream log.
func sessionGap() time.Duration {
	if s := os.Getenv("SESSION_GAP_SECONDS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
		log.Warn().Str("SESSION_GAP_SECONDS", s).Msg("Invalid session gap, using default")
	}
	return reconcile.DefaultSessionGap
}
