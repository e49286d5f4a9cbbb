package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/samber/do/v2"

	"github.com/paginoid/paginoid-server/internal/api"
	"github.com/paginoid/paginoid-server/internal/auth"
	"github.com/paginoid/paginoid-server/internal/config"
	"github.com/paginoid/paginoid-server/internal/domain"
	"github.com/paginoid/paginoid-server/internal/logger"
	"github.com/paginoid/paginoid-server/internal/mdns"
	"github.com/paginoid/paginoid-server/internal/service"
	"github.com/paginoid/paginoid-server/internal/sse"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	// Get all services
	authService := do.MustInvoke[*service.AuthService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	bookService := do.MustInvoke[*service.BookService](i)
	profileService := do.MustInvoke[*service.ProfileService](i)
	readingService := do.MustInvoke[*service.ReadingService](i)
	goalService := do.MustInvoke[*service.GoalService](i)
	searchService := do.MustInvoke[*service.SearchService](i)

	// SSE endpoints sit outside huma and authenticate on their own. EventSource
	// cannot set headers, so the access token may also arrive as a query param.
	authenticate := func(r *http.Request) (string, error) {
		token := r.URL.Query().Get("access_token")
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			token = h[7:]
		}
		claims, err := tokenService.VerifyAccessToken(token)
		if err != nil {
			return "", err
		}
		return claims.UserID, nil
	}

	sseHandler := sse.NewHandler(sseHandle.Manager, authenticate, log.Logger)
	streamHandler := sse.NewStreamHandler(func(ctx context.Context, ownerID string, status domain.Status) (sse.ShelfSubscription, error) {
		return bookService.Subscribe(ctx, ownerID, status)
	}, authenticate, log.Logger)

	services := &api.Services{
		Auth:    authService,
		Session: sessionService,
		Book:    bookService,
		Profile: profileService,
		Reading: readingService,
		Goal:    goalService,
		Search:  searchService,
	}

	handler := api.NewServer(storeHandle.Store, services, sseHandler, sseHandle.Manager, streamHandler, cfg.Server.CORSOrigins, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}

// MDNSServiceHandle wraps mdns.Service with Shutdownable.
type MDNSServiceHandle struct {
	*mdns.Service
	started bool
}

// Shutdown implements do.Shutdownable.
func (h *MDNSServiceHandle) Shutdown() error {
	if h.started && h.Service != nil {
		h.Stop()
	}
	return nil
}

// ProvideMDNSService provides the mDNS advertisement service.
func ProvideMDNSService(i do.Injector) (*MDNSServiceHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Server.AdvertiseMDNS {
		log.Info("mDNS advertisement disabled by configuration")
		return &MDNSServiceHandle{Service: nil, started: false}, nil
	}

	svc := mdns.NewService(log.Logger)

	// Parse port
	port := 8080
	if _, err := fmt.Sscanf(cfg.Server.Port, "%d", &port); err != nil {
		log.Warn("Failed to parse server port for mDNS, using default", "port", cfg.Server.Port)
	}

	if err := svc.Start(cfg.Server.Name, port); err != nil {
		log.Warn("mDNS advertisement unavailable", "error", err)
		// Non-fatal: server works without mDNS (e.g., Docker, cloud)
		return &MDNSServiceHandle{Service: svc, started: false}, nil
	}

	return &MDNSServiceHandle{Service: svc, started: true}, nil
}
