package cli

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"hylehub-store/internal/config"
	"hylehub-store/internal/database"
	"hylehub-store/internal/logger"
	"hylehub-store/internal/repository"
	"hylehub-store/internal/repository/memory"
)

var rootCmd = &cobra.Command{
	Use:           "hylehub",
	Short:         "HyleHub catalog API",
	Long:          "Backend of the HyleHub storefront: catalog, site settings and visit analytics",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("command failed")
		return err
	}
	return nil
}

// runtime agrupa lo que comparten todos los subcomandos
type runtime struct {
	cfg     *config.Config
	store   *repository.Store
	closers []func(context.Context) error
}

func (r *runtime) Close(ctx context.Context) {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](ctx); err != nil {
			logrus.WithError(err).Warn("shutdown step failed")
		}
	}
}

// bootstrap carga configuración, logger y el store elegido por STORE_DRIVER
func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	logCloser, err := logger.Init(cfg.Log)
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg}
	rt.closers = append(rt.closers, closeFunc(logCloser))

	if cfg.StoreDriver == config.DriverMemory {
		logrus.Warn("using in-memory store, data is lost on restart")
		rt.store = memory.NewStore()
		return rt, nil
	}

	client, err := database.Connect(ctx, cfg.MongoURI, cfg.ServerSelection)
	if err != nil {
		rt.Close(ctx)
		return nil, errors.Wrap(err, "connect mongo")
	}
	rt.closers = append(rt.closers, client.Disconnect)

	db := client.Database(cfg.MongoDB)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		rt.Close(ctx)
		return nil, errors.Wrap(err, "ensure indexes")
	}
	rt.store = repository.NewMongoStore(db, cfg.DBTimeout)
	return rt, nil
}

func closeFunc(c io.Closer) func(context.Context) error {
	return func(context.Context) error { return c.Close() }
}
