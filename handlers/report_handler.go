package handlers

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ecelearn/hybrid-analytics/models"
	"github.com/ecelearn/hybrid-analytics/reconcile"
	"github.com/ecelearn/hybrid-analytics/utils"
)

// EventSource is what the report handlers need from the upstream event log.
type EventSource interface {
	FetchEvents(ctx context.Context) ([]models.RawEvent, error)
	FetchGames(ctx context.Context) ([]models.Game, error)
}

// snapshot fetches a fresh snapshot and reconciles it. Every report request
// recomputes from scratch; derived records are owned by a single run and
// discarded once the response is written.
func snapshot(ctx context.Context, source EventSource, gap time.Duration) ([]models.RawEvent, reconcile.Result, *reconcile.Engine, error) {
	events, err := source.FetchEvents(ctx)
	if err != nil {
		return nil, reconcile.Result{}, nil, err
	}

	games, err := source.FetchGames(ctx)
	if err != nil {
		return nil, reconcile.Result{}, nil, err
	}

	registry := reconcile.DefaultRegistry()
	if len(games) > 0 {
		registry = reconcile.NewRegistry(games)
	}

	engine := reconcile.NewEngine(registry, gap)
	return events, engine.Reconcile(events), engine, nil
}

func GetFunnel(source EventSource, gap time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, _, _, err := snapshot(r.Context(), source, gap)
		if err != nil {
			log.Error().Err(err).Msg("Error building funnel report")
			utils.WriteErrorResponse(w, http.StatusInternalServerError, err)
			return
		}
		writeReport(w, reconcile.BuildFunnel(events))
	}
}

func GetGameFunnel(source EventSource, gap time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, _, engine, err := snapshot(r.Context(), source, gap)
		if err != nil {
			log.Error().Err(err).Msg("Error building game funnel report")
			utils.WriteErrorResponse(w, http.StatusInternalServerError, err)
			return
		}
		writeReport(w, reconcile.BuildGameFunnel(events, engine.Registry()))
	}
}

func GetScoreDistribution(source EventSource, gap time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, result, engine, err := snapshot(r.Context(), source, gap)
		if err != nil {
			log.Error().Err(err).Msg("Error building score distribution report")
			utils.WriteErrorResponse(w, http.StatusInternalServerError, err)
			return
		}
		writeReport(w, reconcile.BuildScoreDistribution(result.Scores, engine.Registry()))
	}
}

func GetQuestionCorrectness(source EventSource, gap time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, result, engine, err := snapshot(r.Context(), source, gap)
		if err != nil {
			log.Error().Err(err).Msg("Error building question correctness report")
			utils.WriteErrorResponse(w, http.StatusInternalServerError, err)
			return
		}
		writeReport(w, reconcile.BuildQuestionCorrectness(result.Correctness, engine.Registry()))
	}
}

func GetRepeatability(source EventSource, gap time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, _, _, err := snapshot(r.Context(), source, gap)
		if err != nil {
			log.Error().Err(err).Msg("Error building repeatability report")
			utils.WriteErrorResponse(w, http.StatusInternalServerError, err)
			return
		}
		writeReport(w, reconcile.BuildRepeatability(events))
	}
}

func GetTimeSeries(source EventSource, gap time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, _, engine, err := snapshot(r.Context(), source, gap)
		if err != nil {
			log.Error().Err(err).Msg("Error building time series report")
			utils.WriteErrorResponse(w, http.StatusInternalServerError, err)
			return
		}
		writeReport(w, reconcile.BuildTimeSeries(events, engine.Registry()))
	}
}

func writeReport(w http.ResponseWriter, rows interface{}) {
	if err := utils.WriteJSONResponse(w, http.StatusOK, rows); err != nil {
		log.Error().Err(err).Msg("Error marshalling report")
	}
}

// ExportCSV streams one view as CSV. An empty view still gets its header row,
// so a run with no qualifying data produces a correctly shaped file rather
// than no file.
func ExportCSV(source EventSource, gap time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := utils.ExtractViewFromURL(r)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		events, result, engine, err := snapshot(r.Context(), source, gap)
		if err != nil {
			log.Error().Err(err).Msg("Error exporting report")
			utils.WriteErrorResponse(w, http.StatusInternalServerError, err)
			return
		}

		var header []string
		var records [][]string
		switch view {
		case "funnel":
			header = []string{"stage", "distinct_users", "distinct_visits", "instance_count"}
			for _, row := range reconcile.BuildFunnel(events) {
				records = append(records, []string{
					row.Stage,
					strconv.Itoa(row.DistinctUsers),
					strconv.Itoa(row.DistinctVisits),
					strconv.Itoa(row.InstanceCount),
				})
			}
		case "score-distribution":
			header = []string{"game", "score_or_band", "user_count"}
			for _, row := range reconcile.BuildScoreDistribution(result.Scores, engine.Registry()) {
				records = append(records, []string{
					row.Game,
					strconv.Itoa(row.Score),
					strconv.Itoa(row.UserCount),
				})
			}
		case "question-correctness":
			header = []string{"game", "question_number", "correctness", "user_count", "total_users", "percent"}
			for _, row := range reconcile.BuildQuestionCorrectness(result.Correctness, engine.Registry()) {
				records = append(records, []string{
					row.Game,
					strconv.Itoa(row.QuestionNumber),
					row.Correctness,
					strconv.Itoa(row.UserCount),
					strconv.Itoa(row.TotalUsers),
					strconv.FormatFloat(row.Percent, 'f', 2, 64),
				})
			}
		case "repeatability":
			header = []string{"games_played", "user_count"}
			for _, row := range reconcile.BuildRepeatability(events) {
				records = append(records, []string{
					strconv.Itoa(row.GamesPlayed),
					strconv.Itoa(row.UserCount),
				})
			}
		default:
			utils.WriteErrorResponse(w, http.StatusNotFound, fmt.Errorf("unknown view %q", view))
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", view))

		writer := csv.NewWriter(w)
		writer.Write(header)
		writer.WriteAll(records)
		if err := writer.Error(); err != nil {
			log.Error().Err(err).Msg("Error writing CSV export")
		}
	}
}
