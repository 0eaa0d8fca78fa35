package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	cmtlog "cosmossdk.io/log"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"onchainpoker/internal/config"
	"onchainpoker/internal/httpapi"
	"onchainpoker/internal/ledger"
	"onchainpoker/internal/ledger/operator"
	"onchainpoker/internal/ledger/store"
	"onchainpoker/internal/ledger/storepg"
	"onchainpoker/internal/ocpcrypto"
	"onchainpoker/internal/query"
)

func newServeCmd(v *viper.Viper, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP surface and operator",
		RunE: func(c *cobra.Command, args []string) error {
			return runServe(c.Context(), v, *configPath)
		},
	}
}

func runServe(ctx context.Context, v *viper.Viper, configPath string) error {
	cfg, err := config.Load(v, configPath)
	if err != nil {
		return err
	}
	logger := cmtlog.NewLogger(os.Stdout)

	var events store.EventStore
	var snapshots store.SnapshotStore
	if cfg.UsesMemoryStore() {
		logger.Info("no postgres dsn configured, using in-memory stores")
		events = store.NewMemoryEventStore()
		snapshots = store.NewMemorySnapshotStore()
	} else {
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("serve: connect postgres: %w", err)
		}
		defer pool.Close()
		pgEvents := storepg.NewEventStore(pool)
		pgSnapshots := storepg.NewSnapshotStore(pool)
		if err := pgEvents.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("serve: ensure event schema: %w", err)
		}
		if err := pgSnapshots.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("serve: ensure snapshot schema: %w", err)
		}
		events = pgEvents
		snapshots = pgSnapshots
	}

	op := operator.New(events, snapshots, logger)
	qsvc := query.New(op, events, snapshots)

	committeeKey, err := committeeKeyFromConfig(cfg)
	if err != nil {
		return err
	}

	server := &httpapi.Server{
		Query:    qsvc,
		Operator: op,
		NewDemo: func() (ledger.GameId, ledger.HandId, ledger.AnyTableSnapshot, string, error) {
			return ledger.GameId(1), ledger.HandId(1), ledger.AnyTableSnapshot{Phase: ledger.PhaseShuffling}, ocpcrypto.BytesToHex(committeeKey.Bytes()), nil
		},
	}

	httpServer := &http.Server{Addr: cfg.ListenAddr, Handler: server.Router()}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		logger.Info("shutting down")
		return httpServer.Shutdown(context.Background())
	}
}

// committeeKeyFromConfig aggregates each configured shuffler's secret
// into the committee's public key, Y = sum(secret_i * G), the same
// aggregation §4.10's DKG FinalizeEpoch step performs from each member's
// polynomial constant term.
func committeeKeyFromConfig(cfg config.Config) (ocpcrypto.Point, error) {
	agg := ocpcrypto.PointIdentity()
	for _, sh := range cfg.Shufflers {
		raw, err := ocpcrypto.HexToBytes(sh.SecretHex)
		if err != nil {
			return ocpcrypto.Point{}, fmt.Errorf("serve: shuffler %d secret: %w", sh.ID, err)
		}
		secret, err := ocpcrypto.ScalarFromBytesCanonical(raw)
		if err != nil {
			return ocpcrypto.Point{}, fmt.Errorf("serve: shuffler %d secret: %w", sh.ID, err)
		}
		agg = ocpcrypto.PointAdd(agg, ocpcrypto.MulBase(secret))
	}
	return agg, nil
}
