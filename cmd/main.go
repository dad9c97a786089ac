package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/oculusrep/commission-api/internal/auth"
	"github.com/oculusrep/commission-api/internal/broker"
	"github.com/oculusrep/commission-api/internal/commissionsplit"
	"github.com/oculusrep/commission-api/internal/config"
	"github.com/oculusrep/commission-api/internal/deal"
	"github.com/oculusrep/commission-api/internal/httpx"
	"github.com/oculusrep/commission-api/internal/note"
	"github.com/oculusrep/commission-api/internal/notification"
	"github.com/oculusrep/commission-api/internal/payment"
	"github.com/oculusrep/commission-api/internal/paymentsplit"
	"github.com/oculusrep/commission-api/internal/report"
	"github.com/oculusrep/commission-api/internal/utils/db"
	"github.com/rs/cors"
	"gorm.io/gorm"
)

var migrateOnly = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()
	cfg := config.Load()

	database, dsn, err := db.ConnectDataBase(cfg)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := db.Migrate(database, dsn, cfg.Migrations); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if *migrateOnly {
		log.Println("migrations completed")
		return
	}
	if err := broker.EnsureAdmin(database, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("admin bootstrap failed: %v", err)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newCORS(cfg).Handler(withLogging(newRouter(database, cfg))),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on :%s (env=%s)", cfg.Port, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
	log.Println("server stopped")
}

func newRouter(database *gorm.DB, cfg config.Config) *mux.Router {
	notifier := notification.NewWebhook(cfg.AlertWebhookURL)
	syncer := paymentsplit.NewSynchronizer(database, notifier)
	schedule := payment.NewService(payment.NewRepository(database), syncer)
	defaults := deal.Defaults{
		House:       cfg.Defaults.House,
		Origination: cfg.Defaults.Origination,
		Site:        cfg.Defaults.Site,
		Deal:        cfg.Defaults.Deal,
	}

	brokerHandler := broker.NewHandler(database)
	dealHandler := deal.NewHandler(deal.NewRepository(database), defaults, schedule, syncer)
	splitHandler := commissionsplit.NewHandler(commissionsplit.NewRepository(database), syncer)
	paymentHandler := payment.NewHandler(schedule)
	paymentSplitHandler := paymentsplit.NewHandler(paymentsplit.NewRepository(database), syncer)
	noteHandler := note.NewHandler(database)
	reportHandler := report.NewHandler(report.NewRepository(database), notifier)

	r := mux.NewRouter()

	// Public
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/auth/login", brokerHandler.Login).Methods(http.MethodPost)
	r.Handle("/auth/refresh", auth.RefreshHTTPHandler(database)).Methods(http.MethodPost)
	r.Handle("/auth/logout", auth.LogoutHTTPHandler(database)).Methods(http.MethodPost)
	r.HandleFunc("/.well-known/jwks.json", auth.JWKSHandler).Methods(http.MethodGet)

	api := r.NewRoute().Subrouter()
	api.Use(auth.Authenticate)
	admin := func(h http.HandlerFunc) http.Handler { return auth.RequireAdmin(h) }

	// Brokers
	api.HandleFunc("/brokers", brokerHandler.List).Methods(http.MethodGet)
	api.Handle("/brokers", admin(brokerHandler.Create)).Methods(http.MethodPost)
	api.HandleFunc("/brokers/me", brokerHandler.Me).Methods(http.MethodGet)
	api.HandleFunc("/brokers/{id}", brokerHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/brokers/{id}", brokerHandler.Update).Methods(http.MethodPut)
	api.Handle("/brokers/{id}", admin(brokerHandler.Delete)).Methods(http.MethodDelete)
	api.HandleFunc("/brokers/{id}/summary", reportHandler.Broker).Methods(http.MethodGet)

	// Deals
	api.HandleFunc("/deals", dealHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/deals", dealHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/deals/{id}", dealHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/deals/{id}", dealHandler.Update).Methods(http.MethodPut)
	api.Handle("/deals/{id}", admin(dealHandler.Delete)).Methods(http.MethodDelete)
	api.HandleFunc("/deals/{id}/payments", paymentHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/deals/{id}/payments/generate", paymentHandler.Generate).Methods(http.MethodPost)
	api.HandleFunc("/deals/{id}/sync", paymentSplitHandler.SyncDeal).Methods(http.MethodPost)

	// Commission split templates
	api.HandleFunc("/deals/{id}/commission-splits", splitHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/deals/{id}/commission-splits", splitHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/commission-splits/{sid}", splitHandler.Update).Methods(http.MethodPut)
	api.HandleFunc("/commission-splits/{sid}", splitHandler.Delete).Methods(http.MethodDelete)

	// Payments
	api.HandleFunc("/payments/{pid}/received", paymentHandler.MarkReceived).Methods(http.MethodPatch)
	api.HandleFunc("/payments/{pid}/referral-paid", paymentHandler.MarkReferralPaid).Methods(http.MethodPatch)
	api.HandleFunc("/payments/{pid}/estimated-date", paymentHandler.SetEstimatedDate).Methods(http.MethodPatch)
	api.HandleFunc("/payments/{pid}/invoice", paymentHandler.SetInvoice).Methods(http.MethodPatch)
	api.HandleFunc("/payments/{pid}/splits", paymentSplitHandler.ListByPayment).Methods(http.MethodGet)
	api.Handle("/payment-splits/{id}/paid", admin(paymentSplitHandler.MarkPaid)).Methods(http.MethodPatch)

	// Notes
	api.HandleFunc("/deals/{id}/notes", noteHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/deals/{id}/notes", noteHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/notes/{id}", noteHandler.Update).Methods(http.MethodPut)
	api.HandleFunc("/notes/{id}", noteHandler.Delete).Methods(http.MethodDelete)

	// Reports
	api.HandleFunc("/reports/payments", reportHandler.Payments).Methods(http.MethodGet)
	api.HandleFunc("/reports/rob", reportHandler.Rob).Methods(http.MethodGet)

	return r
}

func newCORS(cfg config.Config) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
}

// withLogging logs method, path, status and duration of every request.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[http] %s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
