// Package memory implementa el Store en memoria. Se usa en modo desarrollo
// (STORE_DRIVER=memory) y en los tests de handlers y analytics.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"hylehub-store/internal/models"
	"hylehub-store/internal/repository"
)

// NewStore devuelve un Store vacío respaldado en memoria
func NewStore() *repository.Store {
	return &repository.Store{
		Products:    NewProducts(),
		Categories:  NewCategories(),
		SiteConfig:  &SiteConfig{},
		SocialLinks: &SocialLinks{},
		Visitors:    NewVisitors(),
		Health:      alwaysUp{},
	}
}

// cloneProduct copia los slices para que el store no comparta memoria con quien llama
func cloneProduct(p models.Product) models.Product {
	p.Tags = slices.Clone(p.Tags)
	p.GalleryURLs = slices.Clone(p.GalleryURLs)
	p.PriceOptions = slices.Clone(p.PriceOptions)
	return p
}

type alwaysUp struct{}

func (alwaysUp) Ping(context.Context) error { return nil }

// Products guarda productos por id
type Products struct {
	mu    sync.RWMutex
	items map[string]models.Product
	now   func() time.Time
}

func NewProducts() *Products {
	return &Products{items: make(map[string]models.Product), now: time.Now}
}

func (s *Products) List(context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0, len(s.items))
	for _, p := range s.items {
		out = append(out, cloneProduct(p))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsHot != out[j].IsHot {
			return out[i].IsHot
		}
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Products) FindByID(_ context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = cloneProduct(p)
	return &p, nil
}

func (s *Products) Upsert(_ context.Context, product *models.Product) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repository.PrepareProduct(product)
	now := s.now().UTC()

	saved := cloneProduct(*product)
	saved.UpdatedAt = now
	if existing, ok := s.items[product.ID]; ok {
		saved.CreatedAt = existing.CreatedAt
		saved.Views = existing.Views
	} else {
		saved.CreatedAt = now
		saved.Views = 0
	}
	s.items[saved.ID] = saved
	out := cloneProduct(saved)
	return &out, nil
}

// InsertMany falla sin insertar nada si algún id ya existe o se repite en el lote
func (s *Products) InsertMany(_ context.Context, products []models.Product) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	batch := make([]models.Product, 0, len(products))
	seen := make(map[string]struct{}, len(products))
	for i := range products {
		p := cloneProduct(products[i])
		repository.PrepareProduct(&p)
		if _, ok := s.items[p.ID]; ok {
			return 0, errors.Wrapf(repository.ErrDuplicateID, "product %s", p.ID)
		}
		if _, ok := seen[p.ID]; ok {
			return 0, errors.Wrapf(repository.ErrDuplicateID, "product %s", p.ID)
		}
		seen[p.ID] = struct{}{}
		p.Views = 0
		p.CreatedAt = now
		p.UpdatedAt = now
		batch = append(batch, p)
	}
	for _, p := range batch {
		s.items[p.ID] = p
	}
	return len(batch), nil
}

func (s *Products) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *Products) IncrementViews(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.items[id]
	if !ok {
		return false, nil
	}
	p.Views++
	s.items[id] = p
	return true, nil
}

func (s *Products) TopViewed(ctx context.Context, limit int) ([]models.TopProduct, error) {
	all, _ := s.List(ctx)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Views > all[j].Views })
	if len(all) > limit {
		all = all[:limit]
	}

	top := make([]models.TopProduct, 0, len(all))
	for _, p := range all {
		top = append(top, models.TopProduct{
			ID:           p.ID,
			Name:         p.Name,
			ThumbnailURL: p.ThumbnailURL,
			Views:        p.Views,
			CategoryID:   p.CategoryID,
		})
	}
	return top, nil
}

// Categories guarda categorías por id
type Categories struct {
	mu    sync.RWMutex
	items map[string]models.Category
}

func NewCategories() *Categories {
	return &Categories{items: make(map[string]models.Category)}
}

func (s *Categories) List(context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Category, 0, len(s.items))
	for _, c := range s.items {
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Categories) Upsert(_ context.Context, category *models.Category) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if category.ID == "" {
		category.ID = repository.NewID()
	}
	saved := *category
	s.items[saved.ID] = saved
	return &saved, nil
}

func (s *Categories) InsertMany(_ context.Context, categories []models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range categories {
		if c.ID == "" {
			c.ID = repository.NewID()
		}
		s.items[c.ID] = c
	}
	return nil
}

func (s *Categories) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

// SiteConfig guarda el documento único de configuración
type SiteConfig struct {
	mu  sync.RWMutex
	cfg *models.SiteConfig
}

func (s *SiteConfig) Get(context.Context) (*models.SiteConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cfg == nil {
		return nil, repository.ErrNotFound
	}
	cfg := *s.cfg
	cfg.Notices = slices.Clone(s.cfg.Notices)
	return &cfg, nil
}

func (s *SiteConfig) Replace(_ context.Context, cfg *models.SiteConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *cfg
	stored.Notices = slices.Clone(cfg.Notices)
	if stored.Notices == nil {
		stored.Notices = []string{}
	}
	s.cfg = &stored
	return nil
}

// SocialLinks guarda la lista completa de enlaces
type SocialLinks struct {
	mu    sync.RWMutex
	links []models.SocialLink
}

func (s *SocialLinks) List(context.Context) ([]models.SocialLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Clone(s.links)
	if out == nil {
		out = []models.SocialLink{}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (s *SocialLinks) ReplaceAll(_ context.Context, links []models.SocialLink) ([]models.SocialLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := make([]models.SocialLink, 0, len(links))
	for _, l := range links {
		if l.ID == "" {
			l.ID = repository.NewID()
		}
		saved = append(saved, l)
	}
	s.links = saved
	return slices.Clone(saved), nil
}

type visitorKey struct {
	ip, date, userAgent string
}

// Visitors guarda un registro por (ip, date, userAgent)
type Visitors struct {
	mu      sync.Mutex
	records map[visitorKey]*models.Visitor
}

func NewVisitors() *Visitors {
	return &Visitors{records: make(map[visitorKey]*models.Visitor)}
}

func (s *Visitors) Record(_ context.Context, ip, date, userAgent string, seen time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := visitorKey{ip: ip, date: date, userAgent: userAgent}
	v, ok := s.records[key]
	if !ok {
		v = &models.Visitor{IP: ip, Date: date, UserAgent: userAgent}
		s.records[key] = v
	}
	v.Hits++
	v.LastSeen = seen
	return nil
}

func (s *Visitors) DaySummary(_ context.Context, date string) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var hits, records int64
	for k, v := range s.records {
		if k.date == date {
			hits += v.Hits
			records++
		}
	}
	return hits, records, nil
}

func (s *Visitors) TotalHits(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var hits int64
	for _, v := range s.records {
		hits += v.Hits
	}
	return hits, nil
}

func (s *Visitors) DistinctIPs(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ips := make(map[string]struct{})
	for k := range s.records {
		ips[k.ip] = struct{}{}
	}
	return int64(len(ips)), nil
}

func (s *Visitors) History(_ context.Context, limit int) ([]models.DailyVisits, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byDate := make(map[string]*models.DailyVisits)
	for k, v := range s.records {
		d, ok := byDate[k.date]
		if !ok {
			d = &models.DailyVisits{Date: k.date}
			byDate[k.date] = d
		}
		d.Hits += v.Hits
		d.Unique++
	}

	history := make([]models.DailyVisits, 0, len(byDate))
	for _, d := range byDate {
		history = append(history, *d)
	}
	sort.Slice(history, func(i, j int) bool { return history[i].Date > history[j].Date })
	if len(history) > limit {
		history = history[:limit]
	}
	return history, nil
}

func (s *Visitors) Recent(_ context.Context, limit int) ([]models.Visitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Visitor, 0, len(s.records))
	for _, v := range s.records {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastSeen.After(out[j].LastSeen) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Visitors) DeleteBefore(_ context.Context, date string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for k := range s.records {
		if k.date < date {
			delete(s.records, k)
			deleted++
		}
	}
	return deleted, nil
}
