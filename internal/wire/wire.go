package wire

import (
	"context"
	"net/http"
	"time"

	"resort-booking/internal/adaptor"
	"resort-booking/internal/data/repository"
	"resort-booking/internal/usecase"
	"resort-booking/pkg/middleware"
	"resort-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the wired router.
type App struct {
	Router *chi.Mux
}

// Deps are the process-level collaborators built in main.
type Deps struct {
	Repo        *repository.Repository
	Tx          repository.Transactor
	Events      usecase.EventPublisher
	Idempotency middleware.IdempotencyStore
	Ping        func(ctx context.Context) error
}

// Wiring builds services, handlers and routes.
func Wiring(deps Deps, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(deps.Repo, deps.Tx, deps.Events, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, deps, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	deps Deps,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Timeout(config.App.RequestTimeout))

	wireRoomBooking(r, handler.RoomBooking, deps, config, logger)
	wireFacilityBooking(r, handler.FacilityBooking, deps, config, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if deps.Ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Ping(ctx); err != nil {
				logger.Warn("Health check failed", zap.Error(err))
				utils.ResponseJSON(w, http.StatusServiceUnavailable, false, "database unavailable", nil, nil)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if config.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}
