package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/careassist/routetrack/internal/contact"
	"github.com/careassist/routetrack/internal/model"
	"github.com/careassist/routetrack/internal/ocr"
	"github.com/careassist/routetrack/internal/parse"
	"github.com/careassist/routetrack/internal/store"
)

var servePort int

// maxUploadBytes caps multipart uploads; route manifests are a few
// hundred KB, card photos a few MB.
const maxUploadBytes = 20 << 20

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the PDF and card upload server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		extractor, err := newExtractor()
		if err != nil {
			return err
		}
		parser, err := newParser()
		if err != nil {
			return err
		}
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		srvEnv := &serveEnv{
			extractor: extractor,
			images:    ocr.NewImageExtractor(cfg.OCR),
			parser:    parser,
			store:     st,
			limiter:   rate.NewLimiter(rate.Limit(cfg.Server.UploadRPS), cfg.Server.UploadBurst),
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: srvEnv.router(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

type serveEnv struct {
	extractor ocr.Extractor
	images    ocr.ImageExtractor
	parser    *parse.Parser
	store     store.Store
	limiter   *rate.Limiter
}

func (e *serveEnv) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(e.throttle)
		r.Post("/upload", e.handleUpload)
		r.Post("/scan", e.handleScan)
	})

	r.Get("/visits", e.handleListVisits)
	r.Get("/time-entries", e.handleListTimeEntries)

	return r
}

// throttle rejects upload bursts beyond the configured rate.
func (e *serveEnv) throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !e.limiter.Allow() {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many uploads, slow down"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (e *serveEnv) handleUpload(w http.ResponseWriter, r *http.Request) {
	path, cleanup, ok := saveUploadedFile(w, r, ".pdf")
	if !ok {
		return
	}
	defer cleanup()

	text, err := e.extractor.ExtractText(r.Context(), path)
	if err != nil {
		zap.L().Error("text extraction failed", zap.Error(err))
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "could not extract text from PDF"})
		return
	}

	result, err := e.parser.ParseDocument(text)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "document contains no extractable text"})
		return
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	resp := map[string]any{"type": result.Kind}

	switch result.Kind {
	case model.KindTimeTracking:
		resp["timesheet"] = result.Timesheet
		if result.Timesheet.TotalHours != nil {
			entry, err := e.store.SaveTimeEntry(r.Context(), timesheetDate(result.Timesheet.Date, today), *result.Timesheet.TotalHours)
			if err != nil {
				zap.L().Error("save time entry failed", zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not save time entry"})
				return
			}
			resp["entry_date"] = entry.EntryDate.Format(dateLayout)
		}
	default:
		saved, err := e.store.SaveVisits(r.Context(), result.Visits, today)
		if err != nil {
			zap.L().Error("save visits failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not save visits"})
			return
		}
		resp["visits"] = result.Visits
		resp["visits_saved"] = saved
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *serveEnv) handleScan(w http.ResponseWriter, r *http.Request) {
	path, cleanup, ok := saveUploadedFile(w, r, ".jpg")
	if !ok {
		return
	}
	defer cleanup()

	text, err := e.images.ExtractImageText(r.Context(), path)
	if err != nil {
		zap.L().Error("image OCR failed", zap.Error(err))
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "could not read card image"})
		return
	}

	c := contact.Validate(contact.Extract(text))
	saved, err := e.store.SaveContact(r.Context(), c)
	if err != nil {
		zap.L().Error("save contact failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not save contact"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"contact": saved})
}

func (e *serveEnv) handleListVisits(w http.ResponseWriter, r *http.Request) {
	filter := store.VisitFilter{City: r.URL.Query().Get("city")}
	if ds := r.URL.Query().Get("date"); ds != "" {
		d, err := time.Parse(dateLayout, ds)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
			return
		}
		filter.Date = &d
	}

	visits, err := e.store.ListVisits(r.Context(), filter)
	if err != nil {
		zap.L().Error("list visits failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not list visits"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"visits": visits, "count": len(visits)})
}

func (e *serveEnv) handleListTimeEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := e.store.ListTimeEntries(r.Context(), 0)
	if err != nil {
		zap.L().Error("list time entries failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not list time entries"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries, "count": len(entries)})
}

// saveUploadedFile copies the multipart "file" field to a temp file and
// returns its path with a cleanup func. On failure it writes the error
// response itself and returns ok=false.
func saveUploadedFile(w http.ResponseWriter, r *http.Request, ext string) (string, func(), bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return "", nil, false
	}
	defer file.Close() //nolint:errcheck

	tmp, err := os.CreateTemp("", "routetrack-*"+ext)
	if err != nil {
		zap.L().Error("create temp file failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not store upload"})
		return "", nil, false
	}

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()           //nolint:errcheck
		os.Remove(tmp.Name()) //nolint:errcheck
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not read upload"})
		return "", nil, false
	}
	tmp.Close() //nolint:errcheck

	zap.L().Info("upload received",
		zap.String("filename", filepath.Base(header.Filename)),
		zap.Int64("size", header.Size),
	)

	path := tmp.Name()
	return path, func() { os.Remove(path) }, true //nolint:errcheck
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
