package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/KirkDiggler/rpg-gameplay/internal/config"
	"github.com/KirkDiggler/rpg-gameplay/internal/errors"
	scriptbridgev1alpha1 "github.com/KirkDiggler/rpg-gameplay/internal/handlers/scriptbridge/v1alpha1"
	"github.com/KirkDiggler/rpg-gameplay/internal/orchestrators/gameplay"
	"github.com/KirkDiggler/rpg-gameplay/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-gameplay/internal/redis"
	"github.com/KirkDiggler/rpg-gameplay/internal/repositories/snapshots"
	"github.com/KirkDiggler/rpg-gameplay/internal/world"
)

const (
	shutdownTimeout = 30 * time.Second
	redisPingTime   = 5 * time.Second
)

var (
	grpcPort   int
	tickRate   int
	spawnIDs   []string
	dialogPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tick loop and the script bridge gRPC server",
	Long: `Run the world tick at the configured rate and serve the ScriptBridge
gRPC service. When GAMEPLAY_REDIS_ADDR is set, entity snapshots are loaded at
startup and saved on shutdown.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&grpcPort, "port", 0, "gRPC server port (overrides GAMEPLAY_GRPC_PORT)")
	serveCmd.Flags().IntVar(&tickRate, "tick-rate", 0, "ticks per second (overrides GAMEPLAY_TICK_RATE)")
	serveCmd.Flags().StringSliceVar(&spawnIDs, "spawn", nil, "actor ids to spawn at startup")
	serveCmd.Flags().StringVar(&dialogPath, "dialogue", "", "dialogue content file (overrides GAMEPLAY_DIALOGUE_PATH)")
}

// loadConfig reads the environment and applies flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("port") {
		cfg.GRPCPort = grpcPort
	}
	if cmd.Flags().Changed("tick-rate") {
		cfg.TickRate = tickRate
	}
	if cmd.Flags().Changed("dialogue") {
		cfg.DialoguePath = dialogPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogging(cfg.SlogLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Received shutdown signal, gracefully stopping")
		cancel()
	}()

	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	if err := spawnActors(ctx, store, spawnIDs); err != nil {
		return err
	}

	persistence, err := newPersistence(ctx, cfg, store)
	if err != nil {
		return err
	}
	if persistence != nil {
		loaded, err := persistence.LoadAll(ctx, &gameplay.LoadAllInput{})
		if err != nil {
			return errors.Wrap(err, "failed to load snapshots")
		}
		slog.Info("Restored entity snapshots",
			"loaded", len(loaded.Loaded),
			"missing", len(loaded.Missing),
			"rejected", len(loaded.Rejected),
		)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return errors.Wrapf(err, "failed to listen on port %d", cfg.GRPCPort)
	}

	srv, err := newGRPCServer(cfg, store)
	if err != nil {
		return err
	}

	errChan := make(chan error, 2)
	go func() {
		if err := store.Run(ctx, cfg.TickPeriod()); err != nil {
			errChan <- err
		}
	}()
	go func() {
		slog.Info("gRPC server starting", "port", cfg.GRPCPort)
		if err := srv.Serve(lis); err != nil {
			errChan <- errors.Wrap(err, "failed to serve")
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errChan:
		cancel()
	}

	stopServer(srv)

	if persistence != nil {
		// the tick context is gone; saving gets its own deadline
		saveCtx, saveCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer saveCancel()
		if _, err := persistence.SaveAll(saveCtx, &gameplay.SaveAllInput{}); err != nil {
			slog.Error("Failed to save snapshots on shutdown", "error", err)
		}
	}

	return runErr
}

// newPersistence connects snapshot storage when Redis is configured. It
// returns nil when persistence is off.
func newPersistence(ctx context.Context, cfg *config.Config, store *world.Store) (gameplay.Service, error) {
	if cfg.RedisAddr == "" {
		slog.Info("Snapshot persistence disabled, GAMEPLAY_REDIS_ADDR is not set")
		return nil, nil
	}

	client, err := redis.NewClient(cfg.RedisAddr, nil)
	if err != nil {
		return nil, err
	}
	if err := redis.Ping(ctx, client, redisPingTime); err != nil {
		return nil, err
	}

	repo, err := snapshots.NewRedisRepository(&snapshots.Config{
		Client: client,
		Clock:  clock.New(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create snapshot repository")
	}

	return gameplay.NewOrchestrator(&gameplay.Config{
		Store:        store,
		SnapshotRepo: repo,
		SnapshotTTL:  cfg.SnapshotTTL,
	})
}

func newGRPCServer(cfg *config.Config, store *world.Store) (*grpc.Server, error) {
	logger := grpc_logging.LoggerFunc(logFunc)
	recovery := grpc_recovery.WithRecoveryHandler(func(p any) error {
		slog.Error("Recovered from panic in handler", "panic", p)
		return status.Error(codes.Internal, "internal error")
	})

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(logger),
			grpc_recovery.UnaryServerInterceptor(recovery),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(logger),
			grpc_recovery.StreamServerInterceptor(recovery),
		),
	)

	handler, err := scriptbridgev1alpha1.NewHandler(&scriptbridgev1alpha1.HandlerConfig{
		Sink:   store,
		State:  store,
		Bridge: cfg.Bridge(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create script bridge handler")
	}
	scriptbridgev1alpha1.RegisterScriptBridgeServer(srv, handler)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)

	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(scriptbridgev1alpha1.ScriptBridgeServiceDesc.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	return srv, nil
}

func stopServer(srv *grpc.Server) {
	slog.Info("Shutting down gRPC server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	stopped := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-shutdownCtx.Done():
		slog.Warn("Graceful shutdown timeout exceeded, forcing stop")
		srv.Stop()
	case <-stopped:
		slog.Info("Server stopped gracefully")
	}
}

func logFunc(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
	slog.Log(ctx, slog.Level(level), msg, fields...)
}
