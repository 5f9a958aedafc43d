// Package seed contiene el catálogo inicial y lo escribe en el Store.
package seed

import (
	"context"
	_ "embed"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"hylehub-store/internal/models"
	"hylehub-store/internal/repository"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Data es el contenido de un archivo de semilla
type Data struct {
	Config     *models.SiteConfig  `yaml:"config"`
	Categories []models.Category   `yaml:"categories"`
	Socials    []models.SocialLink `yaml:"socials"`
	Products   []models.Product    `yaml:"products"`
}

// Defaults devuelve una copia nueva del catálogo embebido
func Defaults() *Data {
	data, err := Parse(defaultsYAML)
	if err != nil {
		panic(errors.Wrap(err, "embedded seed data"))
	}
	return data
}

func Parse(raw []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrap(err, "parse seed yaml")
	}
	return &data, nil
}

func LoadFile(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read seed file %s", path)
	}
	return Parse(raw)
}

// Result resume lo escrito por Apply
type Result struct {
	Config     bool
	Categories int
	Socials    int
	Products   int
}

// Apply escribe data en el store. Config y enlaces se reemplazan;
// categorías y productos se insertan por upsert (idempotente por id).
func Apply(ctx context.Context, store *repository.Store, data *Data) (Result, error) {
	var res Result

	if data.Config != nil {
		if err := store.SiteConfig.Replace(ctx, data.Config); err != nil {
			return res, err
		}
		res.Config = true
	}
	for i := range data.Categories {
		if _, err := store.Categories.Upsert(ctx, &data.Categories[i]); err != nil {
			return res, err
		}
		res.Categories++
	}
	if len(data.Socials) > 0 {
		saved, err := store.SocialLinks.ReplaceAll(ctx, data.Socials)
		if err != nil {
			return res, err
		}
		res.Socials = len(saved)
	}
	for i := range data.Products {
		if _, err := store.Products.Upsert(ctx, &data.Products[i]); err != nil {
			return res, err
		}
		res.Products++
	}
	return res, nil
}

// SiteConfigOrDefault devuelve la configuración guardada o guarda y devuelve la inicial
func SiteConfigOrDefault(ctx context.Context, store repository.SiteConfigStore) (*models.SiteConfig, error) {
	cfg, err := store.Get(ctx)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	cfg = Defaults().Config
	if err := store.Replace(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CategoriesOrDefault siembra las categorías iniciales si la colección está vacía
func CategoriesOrDefault(ctx context.Context, store repository.CategoryStore) ([]models.Category, error) {
	categories, err := store.List(ctx)
	if err != nil || len(categories) > 0 {
		return categories, err
	}
	defaults := Defaults().Categories
	if err := store.InsertMany(ctx, defaults); err != nil {
		return nil, err
	}
	return defaults, nil
}

// SocialLinksOrDefault siembra los enlaces iniciales si la colección está vacía
func SocialLinksOrDefault(ctx context.Context, store repository.SocialLinkStore) ([]models.SocialLink, error) {
	links, err := store.List(ctx)
	if err != nil || len(links) > 0 {
		return links, err
	}
	return store.ReplaceAll(ctx, Defaults().Socials)
}
