// Package cache guarda en memoria las lecturas públicas del catálogo.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Claves y prefijos usados por las lecturas públicas del catálogo
const (
	KeyProducts    = "catalog:products"
	KeyCategories  = "catalog:categories"
	KeySiteConfig  = "catalog:config"
	KeySocialLinks = "catalog:socials"
	PrefixCatalog  = "catalog:"
)

const sweepInterval = 5 * time.Minute

type entry struct {
	value   any
	expires time.Time
}

// Cache es un mapa con TTL. Un *Cache nil o con ttl <= 0 no guarda nada.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	// gen cambia en cada invalidación; una carga iniciada antes no se guarda
	gen   uint64
	group singleflight.Group
	now   func() time.Time

	stop chan struct{}
	once sync.Once
}

func New(ttl time.Duration) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if ttl > 0 {
		go c.sweep(sweepInterval)
	}
	return c
}

func (c *Cache) Enabled() bool {
	return c != nil && c.ttl > 0
}

func (c *Cache) Set(key string, value any) {
	if !c.Enabled() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expires: c.now().Add(c.ttl)}
}

func (c *Cache) Get(key string) (any, bool) {
	if !c.Enabled() {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().After(e.expires) {
		return nil, false
	}
	return e.value, true
}

// Load devuelve el valor cacheado o lo obtiene con fn. Las llamadas
// concurrentes para la misma clave comparten una sola ejecución de fn, que
// recibe un contexto sin cancelación: si quien la inició se va, los demás
// siguen esperando el resultado. Cada llamada deja de esperar cuando su ctx termina.
func Load[T any](ctx context.Context, c *Cache, key string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	if !c.Enabled() {
		return fn(ctx)
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		gen := c.generation()
		value, err := fn(loadCtx)
		if err != nil {
			return nil, err
		}
		c.setIfGeneration(key, value, gen)
		return value, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func (c *Cache) generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

func (c *Cache) setIfGeneration(key string, value any, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return
	}
	c.entries[key] = entry{value: value, expires: c.now().Add(c.ttl)}
}

// Invalidate borra todas las claves con el prefijo dado
func (c *Cache) Invalidate(prefix string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close detiene el barrido periódico
func (c *Cache) Close() {
	if c == nil {
		return
	}
	c.once.Do(func() { close(c.stop) })
}

func (c *Cache) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := c.now()
			for key, e := range c.entries {
				if now.After(e.expires) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
