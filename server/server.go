package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/jsphweid/choirdex/db"
	"github.com/jsphweid/choirdex/notation"
	"github.com/jsphweid/choirdex/schedule"
	"github.com/jsphweid/choirdex/storage"
	"github.com/rs/cors"
)

// maxUpload bounds MusicXML request bodies.
const maxUpload = 32 << 20

type Options struct {
	Scores   *storage.Scores
	History  *storage.History
	Settings *storage.Settings
	// Index is optional.
	Index *db.Index

	Scheduler      schedule.Scheduler
	StaffSpacing   float64
	Spacing        notation.Spacing
	LayoutWidth    float64
	AllowedOrigins []string
	Logger         *log.Logger
}

type Server struct {
	opts   Options
	logger *log.Logger
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if opts.LayoutWidth <= 0 {
		opts.LayoutWidth = 800
	}
	return &Server{opts: opts, logger: logger}
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.Use(s.logRequests)

	router.HandleFunc("/parse", s.handleParse).Methods("POST")
	router.HandleFunc("/scores", s.handleCreateScore).Methods("POST")
	router.HandleFunc("/scores", s.handleListScores).Methods("GET")
	router.HandleFunc("/scores/{id}", s.handleGetScore).Methods("GET")
	router.HandleFunc("/scores/{id}", s.handleDeleteScore).Methods("DELETE")
	router.HandleFunc("/scores/{id}/schedule", s.handleSchedule).Methods("GET")
	router.HandleFunc("/scores/{id}/midi", s.handleMIDI).Methods("GET")
	router.HandleFunc("/scores/{id}/parts/{index}/layout", s.handleLayout).Methods("GET")
	router.HandleFunc("/scores/{id}/sessions", s.handleRecordSession).Methods("POST")
	router.HandleFunc("/scores/{id}/sessions", s.handleListSessions).Methods("GET")
	router.HandleFunc("/settings", s.handleGetSettings).Methods("GET")
	router.HandleFunc("/settings", s.handlePutSettings).Methods("PUT")
	return router
}

// Handler is the router behind CORS.
func (s *Server) Handler() http.Handler {
	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(s.Router())
}

// ListenAndServe runs until ctx is cancelled, then drains open requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown", "err", err)
		}
	}()

	s.logger.Info("listening", "addr", addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		<-done
		return nil
	}
	return err
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"took", time.Since(start),
		)
	})
}
