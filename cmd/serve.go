package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jsphweid/harmonycheck/analyzer"
	"github.com/jsphweid/harmonycheck/constants"
	"github.com/jsphweid/harmonycheck/db"
	"github.com/jsphweid/harmonycheck/model"
	"github.com/jsphweid/harmonycheck/report"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var (
	serveAnalyzer *analyzer.Analyzer
	reportStore   db.ReportStore
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the analysis API",
	Long:  `Serves the JSON analysis API on $PORT (default 8080).`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAnalyzer(analyzer.WithParallel(true))
		if err != nil {
			return err
		}
		store, err := db.NewFromEnv()
		if err != nil {
			return err
		}
		LoadServeState(a, store)
		serve()
		return nil
	},
}

// LoadServeState sets the analyzer and report store the handlers use.
func LoadServeState(a *analyzer.Analyzer, store db.ReportStore) {
	serveAnalyzer = a
	reportStore = store
}

func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/analyze", HandleAnalyze).Methods("POST")
	router.HandleFunc("/reports/{id}", HandleGetReport).Methods("GET")
	router.HandleFunc("/reports/{id}/text", HandleGetReportText).Methods("GET")
	return cors.Default().Handler(router)
}

func serve() {
	addr := ":" + constants.GetPort()
	fmt.Printf("Listening on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, NewRouter()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("could not encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

// HandleAnalyze analyzes the raw request body as the score file named by
// the "filename" query parameter and stores the report.
func HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		writeError(w, http.StatusBadRequest, "filename query parameter is required")
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, constants.MaxUploadSize))
	if err != nil {
		status := HTTPStatus(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		writeError(w, status, "could not read request body: "+err.Error())
		return
	}

	res, err := serveAnalyzer.AnalyzeBytes(filename, data)
	if err != nil {
		status := HTTPStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("analysis of %v failed: %v", filename, err)
		}
		writeError(w, status, err.Error())
		return
	}

	stored := db.NewStoredReport(res)
	if err := reportStore.Put(r.Context(), stored); err != nil {
		log.Printf("could not store report for %v: %v", filename, err)
		writeError(w, http.StatusInternalServerError, "could not store report")
		return
	}
	writeJSON(w, http.StatusOK, model.AnalyzeResponse{ID: stored.ID, Report: res})
}

func getStoredReport(w http.ResponseWriter, r *http.Request) (*model.StoredReport, bool) {
	id := mux.Vars(r)["id"]
	if !db.ValidID(id) {
		writeError(w, http.StatusNotFound, "report not found")
		return nil, false
	}
	stored, err := reportStore.Get(r.Context(), id)
	if err != nil {
		status := HTTPStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("could not load report %v: %v", id, err)
		}
		writeError(w, status, err.Error())
		return nil, false
	}
	return stored, true
}

func HandleGetReport(w http.ResponseWriter, r *http.Request) {
	stored, ok := getStoredReport(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// HandleGetReportText renders a stored report as plain text with
// correction hints.
func HandleGetReportText(w http.ResponseWriter, r *http.Request) {
	stored, ok := getStoredReport(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := report.WriteText(w, stored.Report, report.TextOptions{Suggestions: true}); err != nil {
		log.Printf("could not write report %v: %v", stored.ID, err)
	}
}
