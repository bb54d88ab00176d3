package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/versalles/versalles/api"
	"github.com/versalles/versalles/identity"
	"github.com/versalles/versalles/internal/config"
	"github.com/versalles/versalles/platform"
	"github.com/versalles/versalles/session"
	"github.com/versalles/versalles/store"
	bboltstore "github.com/versalles/versalles/store/bbolt"
	mongostore "github.com/versalles/versalles/store/mongo"
	"github.com/versalles/versalles/web"
)

var (
	port    int
	dataDir string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the platform server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			st.Close(ctx)
		}()

		if err := seedForums(cmd.Context(), st); err != nil {
			return fmt.Errorf("seeding forums: %w", err)
		}

		codec, err := session.NewCodec(cfg.SessionSecret, cfg.Production())
		if err != nil {
			return fmt.Errorf("invalid session secret: %w", err)
		}

		provider := identity.NewRESTProvider(cfg.IdentityURL, cfg.IdentityAPIKey)
		verifier := identity.NewTokenVerifier(cfg.IdentityJWTSecret)

		opts := []api.Option{
			api.WithLogger(logger),
			api.WithMetrics(api.NewMetrics(prometheus.DefaultRegisterer)),
		}
		if cfg.RedisAddr != "" {
			opts = append(opts, api.WithRateLimiter(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})))
		}
		a := api.New(st, codec, provider, verifier, opts...)

		r := chi.NewRouter()
		r.Use(middleware.Logger)
		r.Use(middleware.Recoverer)
		r.Use(api.SecurityHeaders)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})
		r.Handle("/metrics", promhttp.Handler())

		r.Mount("/api/v1", a.Router())

		webHandler, err := web.Handler()
		if err != nil {
			return err
		}
		r.Handle("/*", webHandler)

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		// Graceful shutdown on SIGINT/SIGTERM.
		done := make(chan error, 1)
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				done <- fmt.Errorf("server failed: %w", err)
				return
			}
			done <- nil
		}()

		printBanner()
		fmt.Printf("Starting server on port %d (env: %s)...\n", port, cfg.Env)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			fmt.Printf("\nReceived %s, shutting down...\n", sig)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("server shutdown failed: %w", err)
			}
			return nil
		case err := <-done:
			return err
		}
	},
}

// openStore selects the backend: MongoDB when configured, otherwise a
// local bbolt file under the data directory.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.MongoURI != "" {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		st, err := mongostore.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("opening mongodb store: %w", err)
		}
		return st, nil
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	st, err := bboltstore.NewFromFile(dataDir+"/versalles.db", nil)
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}
	return st, nil
}

// seedForums makes sure the fixed forum categories exist. Put is an
// upsert, so restarting never duplicates them.
func seedForums(ctx context.Context, st store.Store) error {
	forums := []platform.Forum{
		{ID: "geral", Title: "Discussão Geral", Description: "Conversa aberta sobre RPG de mesa."},
		{ID: "mesas", Title: "Procura-se Mesa", Description: "Encontre jogadores e mestres."},
		{ID: "regras", Title: "Regras e Sistemas", Description: "Dúvidas e debates sobre sistemas."},
		{ID: "criacao", Title: "Criação e Homebrew", Description: "Compartilhe cenários, classes e itens."},
	}
	for i := range forums {
		if err := st.Forums().Put(ctx, &forums[i]); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	serverCmd.Flags().StringVar(&dataDir, "data-dir", "./data", "Directory for persistent data")
}
