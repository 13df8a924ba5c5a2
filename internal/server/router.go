package server

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/tpworkshop/garage-quotes/internal/events"
	"github.com/tpworkshop/garage-quotes/internal/handlers"
	"github.com/tpworkshop/garage-quotes/internal/httpx"
	"github.com/tpworkshop/garage-quotes/internal/middleware"
	"github.com/tpworkshop/garage-quotes/internal/models"
	"github.com/tpworkshop/garage-quotes/internal/services"
	"github.com/tpworkshop/garage-quotes/internal/view"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, bus *events.Bus) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	svc := services.NewQuoteService(db, bus)
	sum := services.NewSummaryService()

	qh := handlers.NewQuoteHandler(svc, sum)
	mux.HandleFunc("GET /quotes", qh.List)
	mux.HandleFunc("POST /quotes", qh.Create)
	mux.HandleFunc("GET /quotes/new", qh.Form)
	mux.HandleFunc("GET /quotes/{id}", qh.Detail)
	mux.HandleFunc("GET /quotes/{id}/edit", qh.Form)
	mux.HandleFunc("POST /quotes/{id}", qh.Update)
	mux.HandleFunc("POST /quotes/{id}/delete", qh.Delete)
	mux.HandleFunc("GET /quotes/{id}/print", qh.Print)
	mux.HandleFunc("GET /quotes/{id}/pdf", qh.PDF)

	ph := handlers.NewProductHandler(svc, sum)
	mux.HandleFunc("POST /quotes/{id}/products", ph.Create)
	mux.HandleFunc("POST /quotes/{id}/products/{pid}", ph.Update)
	mux.HandleFunc("POST /quotes/{id}/products/{pid}/delete", ph.Delete)

	eh := handlers.NewEventsHandler(bus)
	mux.HandleFunc("GET /events", eh.Stream)

	// Static assets (CSS)
	fs := http.StripPrefix("/static/", http.FileServer(http.Dir("static")))
	mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if os.Getenv("DEV") == "1" {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=86400")
		}
		fs.ServeHTTP(w, r)
	}))

	// OpenAPI spec
	mux.HandleFunc("GET /openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		http.ServeFile(w, r, "openapi.yaml")
	})

	// Landing page with a few counters
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		var quoteCount, productCount int64
		db.Model(&models.Quote{}).Count(&quoteCount)
		db.Model(&models.Product{}).Count(&productCount)
		data := map[string]any{"Stats": map[string]any{"QuoteCount": quoteCount, "ProductCount": productCount}}
		if err := view.Render(w, r, "index.html", data); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			if _, werr := w.Write([]byte("render error")); werr != nil {
				_ = werr
			}
		}
	})

	return middleware.Prefs(withRecover(withLogging(mux)))
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("request", "method", r.Method, "path", r.URL.Path, "duration_ms", time.Since(start).Milliseconds())
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered", "path", r.URL.Path, "panic", rec)
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
