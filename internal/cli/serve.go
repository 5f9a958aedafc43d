package cli

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"hylehub-store/internal/analytics"
	"hylehub-store/internal/cache"
	"hylehub-store/internal/routes"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	// Sin subcomando se arranca el servidor
	rootCmd.RunE = serveCmd.RunE
}

func serve(ctx context.Context) error {
	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rt.Close(shutdownCtx)
	}()
	cfg := rt.cfg

	gin.SetMode(cfg.GinMode)

	productCache := cache.New(cfg.CacheTTL)
	defer productCache.Close()

	tracker := analytics.NewService(rt.store.Visitors, rt.store.Products)
	go tracker.RunPruner(ctx, cfg.PruneInterval, cfg.RetentionDays)

	locale, err := language.Parse(cfg.CollationLocale)
	if err != nil {
		logrus.WithError(err).WithField("locale", cfg.CollationLocale).Warn("invalid collation locale, using vi")
		locale = language.Vietnamese
	}

	router := routes.NewRouter(routes.Dependencies{
		Store:          rt.store,
		Cache:          productCache,
		Tracker:        tracker,
		AdminPassword:  cfg.AdminPassword,
		CORSOrigins:    cfg.CORSOrigins,
		TrustedProxies: cfg.TrustedProxies,
		Locale:         locale,
		Logger:         logrus.StandardLogger(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithFields(logrus.Fields{"port": cfg.Port, "store": cfg.StoreDriver}).Info("🚀 Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}

	logrus.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
