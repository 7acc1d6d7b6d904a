package main

import (
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ecelearn/hybrid-analytics/handlers"
	"github.com/ecelearn/hybrid-analytics/middleware"
)

func SetupRouter(source handlers.EventSource, gap time.Duration) *mux.Router {

	router := mux.NewRouter()
	router.Use(middleware.RequestLogger)

	// report routes, one per reconciliation view
	router.Handle("/api/reports/funnel", handlers.GetFunnel(source, gap)).Methods("GET")
	router.Handle("/api/reports/game-funnel", handlers.GetGameFunnel(source, gap)).Methods("GET")
	router.Handle("/api/reports/score-distribution", handlers.GetScoreDistribution(source, gap)).Methods("GET")
	router.Handle("/api/reports/question-correctness", handlers.GetQuestionCorrectness(source, gap)).Methods("GET")
	router.Handle("/api/reports/repeatability", handlers.GetRepeatability(source, gap)).Methods("GET")
	router.Handle("/api/reports/time-series", handlers.GetTimeSeries(source, gap)).Methods("GET")

	// CSV export of a view, for the dashboard's offline consumers
	router.Handle("/api/reports/{view}/csv", handlers.ExportCSV(source, gap)).Methods("GET")

	// recovered-failure counters
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return router
}
