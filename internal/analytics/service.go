package analytics

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"hylehub-store/internal/models"
	"hylehub-store/internal/repository"
)

const (
	UnknownUserAgent = "unknown"

	topProductsLimit    = 10
	historyDays         = 7
	recentVisitorsLimit = 50
)

// Service registra visitas y vistas de producto y arma el reporte del panel
type Service struct {
	visitors repository.VisitorStore
	products repository.ProductStore
	log      logrus.FieldLogger
	now      func() time.Time
}

type Option func(*Service)

// WithClock reemplaza el reloj (tests)
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Service) { s.log = log }
}

func NewService(visitors repository.VisitorStore, products repository.ProductStore, opts ...Option) *Service {
	s := &Service{
		visitors: visitors,
		products: products,
		log:      logrus.StandardLogger(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today devuelve el bucket diario actual (UTC, YYYY-MM-DD)
func (s *Service) Today() string {
	return s.now().UTC().Format(models.DateLayout)
}

// TrackVisit suma una visita al registro (ip, hoy, userAgent)
func (s *Service) TrackVisit(ctx context.Context, ip, userAgent string) error {
	if userAgent == "" {
		userAgent = UnknownUserAgent
	}
	now := s.now().UTC()
	return s.visitors.Record(ctx, ip, now.Format(models.DateLayout), userAgent, now)
}

// TrackProductView suma una vista al producto. Un producto inexistente no es error.
func (s *Service) TrackProductView(ctx context.Context, productID string) error {
	found, err := s.products.IncrementViews(ctx, productID)
	if err != nil {
		return err
	}
	if !found {
		s.log.WithField("product_id", productID).Debug("view for unknown product ignored")
	}
	return nil
}

// Stats calcula los contadores del día y los totales históricos
func (s *Service) Stats(ctx context.Context) (models.VisitStats, error) {
	var stats models.VisitStats
	g, ctx := errgroup.WithContext(ctx)
	s.collectStats(ctx, g, &stats)
	if err := g.Wait(); err != nil {
		return models.VisitStats{}, err
	}
	return stats, nil
}

func (s *Service) collectStats(ctx context.Context, g *errgroup.Group, stats *models.VisitStats) {
	today := s.Today()

	g.Go(func() error {
		hits, records, err := s.visitors.DaySummary(ctx, today)
		if err != nil {
			return err
		}
		stats.TodayViews, stats.TodayUnique = hits, records
		return nil
	})
	g.Go(func() error {
		total, err := s.visitors.TotalHits(ctx)
		stats.TotalViews = total
		return err
	})
	g.Go(func() error {
		ips, err := s.visitors.DistinctIPs(ctx)
		stats.TotalUniqueIPs = ips
		return err
	})
}

// Report arma el reporte completo; las consultas corren en paralelo
func (s *Service) Report(ctx context.Context) (*models.Report, error) {
	report := &models.Report{}
	g, gctx := errgroup.WithContext(ctx)

	s.collectStats(gctx, g, &report.Stats)
	g.Go(func() error {
		top, err := s.products.TopViewed(gctx, topProductsLimit)
		report.TopProducts = top
		return err
	})
	g.Go(func() error {
		history, err := s.visitors.History(gctx, historyDays)
		report.VisitorHistory = history
		return err
	})
	g.Go(func() error {
		recent, err := s.visitors.Recent(gctx, recentVisitorsLimit)
		report.RecentVisitors = recent
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "build analytics report")
	}
	if report.TopProducts == nil {
		report.TopProducts = []models.TopProduct{}
	}
	if report.VisitorHistory == nil {
		report.VisitorHistory = []models.DailyVisits{}
	}
	if report.RecentVisitors == nil {
		report.RecentVisitors = []models.Visitor{}
	}
	return report, nil
}

// PruneVisitors borra los registros más antiguos que retentionDays.
// Con retentionDays <= 0 no hace nada.
func (s *Service) PruneVisitors(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := s.now().UTC().AddDate(0, 0, -retentionDays).Format(models.DateLayout)
	deleted, err := s.visitors.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.log.WithFields(logrus.Fields{"cutoff": cutoff, "deleted": deleted}).Info("visitor records pruned")
	return deleted, nil
}

// RunPruner ejecuta PruneVisitors cada interval hasta que ctx termine
func (s *Service) RunPruner(ctx context.Context, interval time.Duration, retentionDays int) {
	if interval <= 0 || retentionDays <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.PruneVisitors(ctx, retentionDays); err != nil {
				s.log.WithError(err).Warn("prune visitor records failed")
			}
		}
	}
}
