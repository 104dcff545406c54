package main

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/ayushitiwary/CallSense/internal/batch"
	"github.com/ayushitiwary/CallSense/internal/config"
	"github.com/ayushitiwary/CallSense/internal/export"
	"github.com/ayushitiwary/CallSense/internal/insights"
	"github.com/ayushitiwary/CallSense/internal/llm"
	"github.com/ayushitiwary/CallSense/internal/logger"
	"github.com/ayushitiwary/CallSense/internal/pipeline"
	"github.com/ayushitiwary/CallSense/internal/sample"
	"github.com/ayushitiwary/CallSense/internal/transcription"
	"github.com/ayushitiwary/CallSense/internal/types"
)

type analyzeRequest struct {
	Transcript string `json:"transcript"`
}

type analyzeResponse struct {
	types.Result
	ScoreLabels *export.ScoreLabels `json:"score_labels,omitempty"`
}

type batchResponse struct {
	Results    []types.Result      `json:"results"`
	Summary    insights.Summary    `json:"summary"`
	ActionCard insights.ActionCard `json:"action_card"`
}

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "callsense").Info("starting service")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	log.WithField("model", cfg.ChatModel).WithField("whisper_model", cfg.WhisperModel).Info("configuration loaded")

	pipe := pipeline.New(llm.NewClient(cfg))
	transcriber := transcription.NewClient(cfg)

	mux := http.NewServeMux()

	// health
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		logger.New().WithRequest(r).Info("health check")
		fmt.Fprint(w, "ok")
	})

	// analyze a pasted transcript
	mux.HandleFunc("/analyze", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "analyze")
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			reqLog.WithError(err).Warn("bad request body")
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		reqLog.WithField("chars", len(req.Transcript)).Info("analyze request received")

		res := pipe.ProcessCall(r.Context(), req.Transcript)
		if r.URL.Query().Get("format") == "xlsx" {
			writeWorkbook(w, reqLog, []types.Result{res}, cfg)
			return
		}
		writeResult(w, reqLog, res, cfg)
	})

	// analyze an uploaded call recording
	mux.HandleFunc("/analyze/audio", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "analyze_audio")
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		file, header, err := formFile(r, "audio", cfg.MaxAudioBytes)
		if err != nil {
			reqLog.WithError(err).Warn("bad audio upload")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		audio, err := io.ReadAll(file)
		if err != nil {
			reqLog.WithError(err).Warn("reading upload failed")
			http.Error(w, "could not read upload", http.StatusBadRequest)
			return
		}
		format := strings.TrimPrefix(filepath.Ext(header.Filename), ".")
		reqLog = reqLog.WithField("file", header.Filename).WithField("bytes", len(audio))
		reqLog.Info("audio upload received")

		text, err := transcriber.Transcribe(r.Context(), header.Filename, format, audio)
		if err != nil {
			reqLog.WithError(err).Warn("transcription failed")
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}

		res := pipe.ProcessCall(r.Context(), text)
		writeResult(w, reqLog, res, cfg)
	})

	// batch analysis from a spreadsheet of transcripts
	mux.HandleFunc("/batch", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "batch")
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		file, header, err := formFile(r, "file", 64<<20)
		if err != nil {
			reqLog.WithError(err).Warn("bad batch upload")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		records, err := batch.Load(file)
		if err != nil {
			reqLog.WithError(err).Warn("batch load failed")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		reqLog.WithField("file", header.Filename).WithField("calls", len(records)).Info("batch loaded")

		results := batch.Run(r.Context(), pipe, records)
		if r.URL.Query().Get("format") == "xlsx" {
			writeWorkbook(w, reqLog, results, cfg)
			return
		}

		summary := insights.Aggregate(results)
		writeJSON(w, reqLog, http.StatusOK, batchResponse{
			Results:    results,
			Summary:    summary,
			ActionCard: insights.GenerateCard(summary),
		})
	})

	// demo run over the bundled sample transcript
	mux.HandleFunc("/demo", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "demo")
		reqLog.Info("demo invoked")
		res := pipe.ProcessCall(r.Context(), sample.Transcript)
		writeResult(w, reqLog, res, cfg)
	})

	addr := fmt.Sprintf(":%s", envOr("PORT", "8080"))
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // five provider round trips per call
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}

// formFile pulls one multipart upload out of the request.
func formFile(r *http.Request, field string, maxBytes int64) (multipart.File, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, nil, fmt.Errorf("parse multipart form: %w", err)
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil, fmt.Errorf("missing %q upload", field)
	}
	return file, header, nil
}

func writeResult(w http.ResponseWriter, log *logrus.Entry, res types.Result, cfg config.Config) {
	status := http.StatusOK
	resp := analyzeResponse{Result: res}
	switch res.Status {
	case types.StatusRejected:
		status = http.StatusUnprocessableEntity
	case types.StatusFailed:
		status = http.StatusBadGateway
	default:
		labels := export.LabelScores(res.Analysis.QAScores, cfg)
		resp.ScoreLabels = &labels
	}
	log.WithField("status", res.Status).WithField("duration_ms", res.DurationMs).Info("pipeline finished")
	writeJSON(w, log, status, resp)
}

func writeJSON(w http.ResponseWriter, log *logrus.Entry, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		log.WithField("error", err.Error()).Error("failed to write response")
	}
}

func writeWorkbook(w http.ResponseWriter, log *logrus.Entry, results []types.Result, cfg config.Config) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="call_analysis.xlsx"`)
	if err := export.WriteWorkbook(w, results, cfg); err != nil {
		log.WithField("error", err.Error()).Error("failed to write workbook")
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
