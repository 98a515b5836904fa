package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/tripbooking/api"
	"github.com/Domenick1991/tripbooking/config"
	"github.com/Domenick1991/tripbooking/internal/service/booking"
	"github.com/Domenick1991/tripbooking/internal/service/catalog"
	"github.com/Domenick1991/tripbooking/internal/service/flights"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

type Services struct {
	Bookings booking.BookingUseCase
	Catalog  catalog.CatalogUseCase
	Flights  flights.FlightUseCase
	Checks   map[string]api.HealthCheck
}

// Run serves the HTTP API and blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context, cfg *config.Config, log *logrus.Logger, svc Services) error {
	srv := newServer(cfg, log, svc)

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down http server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newServer(cfg *config.Config, log *logrus.Logger, svc Services) *http.Server {
	router := api.NewRouter(api.RouterConfig{
		JWTSecret:  cfg.Auth.JWTSecret,
		SwaggerDir: cfg.HTTP.SwaggerDir,
		Log:        log,
		Bookings:   svc.Bookings,
		Catalog:    svc.Catalog,
		Flights:    svc.Flights,
		Checks:     svc.Checks,
	})
	return &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
