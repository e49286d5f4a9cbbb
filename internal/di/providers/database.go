package providers

import (
	"context"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/paginoid/paginoid-server/internal/config"
	"github.com/paginoid/paginoid-server/internal/logger"
	"github.com/paginoid/paginoid-server/internal/sse"
	"github.com/paginoid/paginoid-server/internal/store"
	"github.com/paginoid/paginoid-server/internal/store/sqlite"
)

// SSEManagerHandle wraps the SSE manager with its context for lifecycle management.
type SSEManagerHandle struct {
	*sse.Manager
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *SSEManagerHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Manager.Shutdown(ctx)
}

// ProvideSSEManager provides the server-sent events manager.
func ProvideSSEManager(i do.Injector) (*SSEManagerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	manager := sse.NewManager(log.Logger)

	// Start in background
	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)

	log.Info("SSE manager started")

	return &SSEManagerHandle{
		Manager: manager,
		cancel:  cancel,
	}, nil
}

// StoreHandle wraps the document store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the document store. Shelf mutations are broadcast
// through the SSE manager, so it must exist first.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)

	dbPath := filepath.Join(cfg.Data.BasePath, "db")
	db, err := store.New(dbPath, log.Logger, sseHandle.Manager)
	if err != nil {
		return nil, err
	}

	log.Info("Document store initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// TimeseriesStoreHandle wraps the sqlite store that holds reading sessions
// and goals, with shutdown capability.
type TimeseriesStoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *TimeseriesStoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideTimeseriesStore provides the sqlite store for reading sessions and goals.
func ProvideTimeseriesStore(i do.Injector) (*TimeseriesStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Data.BasePath, "timeseries.db")
	db, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Timeseries store initialized", "path", dbPath)

	return &TimeseriesStoreHandle{Store: db}, nil
}
