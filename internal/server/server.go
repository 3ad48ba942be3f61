package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/slok/go-http-metrics/metrics/prometheus"
	"github.com/slok/go-http-metrics/middleware"
	"github.com/slok/go-http-metrics/middleware/std"

	"leaguepay/internal/core/handler"
	"leaguepay/internal/core/logger"
	middlWre "leaguepay/internal/core/middleware"
	"leaguepay/internal/core/payments"
	"leaguepay/internal/core/repository/postgres"
	"leaguepay/internal/core/usecase"
	"leaguepay/pkg/config"
	"leaguepay/pkg/postgresdb"
)

type Server struct {
	router            *mux.Router
	log               logger.Logger
	httpServer        *http.Server
	cfg               *config.AppConfig
	walletHandler     *handler.WalletHandler
	withdrawalHandler *handler.WithdrawalHandler
	settlementHandler *handler.SettlementHandler
	db                *postgresdb.Database
}

func NewServer(log logger.Logger) (*Server, error) {

	cfgDB, err := config.LoadConfigDB()
	if err != nil {
		return nil, err
	}

	cfgApp, err := config.LoadConfigApp()
	if err != nil {
		return nil, err
	}

	db, err := postgresdb.NewPostgresDB(*cfgDB, log)
	if err != nil {
		return nil, err
	}

	if err := postgres.RunMigrations(db.DB); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	walletRepository := postgres.NewPostgresWalletRepo(db.DB, log)
	withdrawalRepository := postgres.NewPostgresWithdrawalRepo(db.DB, log)
	leagueRepository := postgres.NewPostgresLeagueRepo(db.DB, log)
	paymentClient := payments.NewClient(cfgApp.PaymentEndpoint, log)

	walletUsecase := usecase.NewWalletUsecase(walletRepository, leagueRepository, log)
	withdrawalUsecase := usecase.NewWithdrawalUsecase(withdrawalRepository, walletRepository, log)
	settlementUsecase := usecase.NewSettlementUsecase(walletRepository, leagueRepository, paymentClient, log)

	server := &Server{
		log:               log,
		router:            mux.NewRouter(),
		cfg:               cfgApp,
		walletHandler:     handler.NewWalletHandler(walletUsecase, log),
		withdrawalHandler: handler.NewWithdrawalHandler(withdrawalUsecase, log),
		settlementHandler: handler.NewSettlementHandler(settlementUsecase, log),
		db:                db,
	}

	server.router.Use(loggingMiddleware(server.log))

	mw := middleware.New(middleware.Config{
		Recorder: prometheus.NewRecorder(prometheus.Config{}),
	})

	server.router.Use(func(next http.Handler) http.Handler {
		return std.Handler("", mw, next)
	})

	server.RegisterRoutes()

	return server, nil
}

func (s *Server) RegisterRoutes() {
	s.router.Use(
		middlWre.WithErrorHandler(s.log),
		middlWre.Recovery(s.log),
	)

	// Member-facing routes require the identity header set by the gateway.
	member := middlWre.WithMemberIdentity(s.log)
	s.router.Handle("/api/v1/wallets", member(http.HandlerFunc(s.walletHandler.ListWallets))).Methods("GET")
	s.router.Handle("/api/v1/wallets/{wallet_id}/transactions", member(http.HandlerFunc(s.walletHandler.ListTransactions))).Methods("GET")
	s.router.Handle("/api/v1/wallets/{wallet_id}/promotion", member(http.HandlerFunc(s.walletHandler.PromotePending))).Methods("POST")
	s.router.Handle("/api/v1/leagues/{league_id}/payouts", member(http.HandlerFunc(s.walletHandler.IssuePayout))).Methods("POST")
	s.router.Handle("/api/v1/withdrawals", member(http.HandlerFunc(s.withdrawalHandler.Create))).Methods("POST")
	s.router.Handle("/api/v1/withdrawals", member(http.HandlerFunc(s.withdrawalHandler.History))).Methods("GET")

	// Callbacks from the transfer processor and the score-sync service.
	s.router.HandleFunc("/api/v1/withdrawals/{request_id}/resolution", s.withdrawalHandler.Resolve).Methods("POST")
	s.router.HandleFunc("/api/v1/leagues/{league_id}/weeks/{week}/settlement", s.settlementHandler.ProcessWeeklySync).Methods("POST")

	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	s.router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)
}

func (s *Server) Addr() string {
	return s.cfg.HTTPAddr
}

func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       9 * time.Second,
		WriteTimeout:      12 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 60 * time.Second,
	}

	s.httpServer = srv

	return srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	var shutdownErr error

	go func() {
		if s.httpServer != nil {
			err := s.httpServer.Shutdown(ctx)
			if err != nil {
				s.log.Error("failed to shutdown HTTP server", logger.ErrorField("error", err))
				shutdownErr = fmt.Errorf("HTTP server shutdown error: %w", err)
			}
		}

		if s.db != nil {
			err := s.db.Close()
			if err != nil {
				s.log.Error("failed to close database connection", logger.ErrorField("error", err))
				shutdownErr = fmt.Errorf("database shutdown error: %w", err)
			}
		}

		close(done)
	}()

	select {
	case <-done:
		return shutdownErr
	case <-ctx.Done():
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (s *Server) RunTLS(addr, certFile, keyFile string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       9 * time.Second,
		WriteTimeout:      9 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 6 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
	}

	s.httpServer = srv
	return srv.ListenAndServeTLS(certFile, keyFile)
}

func loggingMiddleware(log logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Info("HTTP request",
				logger.StringField("method", r.Method),
				logger.StringField("path", r.URL.Path),
				logger.StringField("remote_addr", r.RemoteAddr),
				logger.StringField("user_agent", r.UserAgent()),
			)
			next.ServeHTTP(w, r)
		})
	}
}
