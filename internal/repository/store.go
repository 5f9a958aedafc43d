package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"hylehub-store/internal/models"
)

// ErrNotFound se devuelve cuando el documento buscado no existe
var ErrNotFound = errors.New("not found")

// ErrDuplicateID se devuelve cuando un alta masiva trae un id que ya existe
var ErrDuplicateID = errors.New("duplicate id")

type ProductStore interface {
	// List devuelve todos los productos: destacados primero, luego por updatedAt desc
	List(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	// Upsert crea o reemplaza el producto por id; asigna id si viene vacío
	Upsert(ctx context.Context, product *models.Product) (*models.Product, error)
	// InsertMany da de alta productos nuevos; con un id repetido devuelve
	// ErrDuplicateID sin insertar ninguno
	InsertMany(ctx context.Context, products []models.Product) (int, error)
	Delete(ctx context.Context, id string) error
	// IncrementViews suma 1 a views; false si el producto no existe
	IncrementViews(ctx context.Context, id string) (bool, error)
	TopViewed(ctx context.Context, limit int) ([]models.TopProduct, error)
}

type CategoryStore interface {
	// List devuelve las categorías ordenadas por Order asc
	List(ctx context.Context) ([]models.Category, error)
	Upsert(ctx context.Context, category *models.Category) (*models.Category, error)
	InsertMany(ctx context.Context, categories []models.Category) error
	Delete(ctx context.Context, id string) error
}

type SiteConfigStore interface {
	// Get devuelve ErrNotFound si todavía no hay configuración
	Get(ctx context.Context) (*models.SiteConfig, error)
	Replace(ctx context.Context, cfg *models.SiteConfig) error
}

type SocialLinkStore interface {
	List(ctx context.Context) ([]models.SocialLink, error)
	// ReplaceAll sustituye el conjunto completo de enlaces
	ReplaceAll(ctx context.Context, links []models.SocialLink) ([]models.SocialLink, error)
}

// VisitorStore guarda un registro por (ip, date, userAgent)
type VisitorStore interface {
	// Record incrementa hits de forma atómica, creando el registro si no existe
	Record(ctx context.Context, ip, date, userAgent string, seen time.Time) error
	// DaySummary devuelve hits totales y número de registros de la fecha
	DaySummary(ctx context.Context, date string) (hits, records int64, err error)
	TotalHits(ctx context.Context) (int64, error)
	DistinctIPs(ctx context.Context) (int64, error)
	// History agrupa por fecha, de la más reciente a la más antigua
	History(ctx context.Context, limit int) ([]models.DailyVisits, error)
	Recent(ctx context.Context, limit int) ([]models.Visitor, error)
	// DeleteBefore elimina los registros con fecha anterior a date
	DeleteBefore(ctx context.Context, date string) (int64, error)
}

// Pinger comprueba que el almacenamiento responde
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store agrupa todos los repositorios del catálogo
type Store struct {
	Products    ProductStore
	Categories  CategoryStore
	SiteConfig  SiteConfigStore
	SocialLinks SocialLinkStore
	Visitors    VisitorStore
	Health      Pinger
}

// NewID genera un id para documentos creados sin id
func NewID() string {
	return uuid.NewString()
}

// PrepareProduct completa id, estado y slices vacíos antes de persistir
func PrepareProduct(p *models.Product) {
	if p.ID == "" {
		p.ID = NewID()
	}
	if p.Status == "" {
		p.Status = models.StatusDraft
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.GalleryURLs == nil {
		p.GalleryURLs = []string{}
	}
	if p.PriceOptions == nil {
		p.PriceOptions = []models.PriceOption{}
	}
	for i := range p.PriceOptions {
		if p.PriceOptions[i].ID == "" {
			p.PriceOptions[i].ID = NewID()
		}
	}
}
