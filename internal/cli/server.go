package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"vyna-tutor-agent/internal/app"
	"vyna-tutor-agent/internal/catalog"
	"vyna-tutor-agent/internal/config"
	"vyna-tutor-agent/internal/infra/memory"
	pgloader "vyna-tutor-agent/internal/infra/postgres"
	redisinfra "vyna-tutor-agent/internal/infra/redis"
	agentrpc "vyna-tutor-agent/internal/rpc"
	"vyna-tutor-agent/internal/tools"
	transport "vyna-tutor-agent/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand to start the agent server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the tutoring agent server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	var catalogRepo app.CatalogRepository
	switch {
	case pool != nil && redisClient != nil:
		catalogRepo = redisinfra.NewCatalogRepository(redisClient, pgloader.NewCatalogLoader(pool), catalogTTL)
	case pool != nil:
		catalogRepo = memory.NewCatalogRepository(pgloader.NewCatalogLoader(pool), catalogTTL)
	default:
		catalogRepo = memory.NewCatalogRepository(memory.NewStaticCatalogLoader(catalog.Builtin()), catalogTTL)
	}

	newSession := func(string) *app.SessionState {
		return app.NewSessionState(catalogRepo)
	}
	var sessions app.SessionRepository
	if redisClient != nil {
		sessions = redisinfra.NewSessionStore(redisClient, redisTTL, newSession)
	} else {
		sessions = memory.NewSessionStore(newSession)
	}

	hub := transport.NewHub(func(room *transport.Room) {
		session := sessions.GetOrCreate(room.Name())
		room.RegisterHandler(tools.ToggleComponentMethod, tools.NewToggleComponentHandler(session))
	})

	gateway := agentrpc.NewGateway(config.TTLDuration(cfg.RPC.Timeout, agentrpc.DefaultTimeout))
	methods := methodsFromConfig(cfg)

	wsHandler := transport.NewWSHandler(hub)
	invokeHandler := transport.NewInvokeHandler(hub, sessions, gateway, methods)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.Handle("/invoke", invokeHandler)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting tutoring agent on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func methodsFromConfig(cfg config.Config) tools.Methods {
	methods := tools.DefaultMethods()
	if cfg.RPC.QuizMethod != "" {
		methods.Quiz = cfg.RPC.QuizMethod
	}
	if cfg.RPC.CanvasMethod != "" {
		methods.Canvas = cfg.RPC.CanvasMethod
	}
	if cfg.RPC.IllustrationMethod != "" {
		methods.Illustration = cfg.RPC.IllustrationMethod
	}
	if cfg.RPC.ComponentMethod != "" {
		methods.Component = cfg.RPC.ComponentMethod
	}
	return methods
}
