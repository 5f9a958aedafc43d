package config

import (
	"net"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Port        string   `env:"PORT" envDefault:"8080"`
	GinMode     string   `env:"GIN_MODE" envDefault:"release"`
	MongoURI    string   `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB     string   `env:"MONGO_DB" envDefault:"hylehub_store"`
	StoreDriver string   `env:"STORE_DRIVER" envDefault:"mongo"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	// IPs o CIDR de proxies de confianza; por defecto ninguno
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// Secreto compartido del panel de administración (cabecera X-Admin-Password)
	AdminPassword string `env:"ADMIN_PASSWORD"`

	DBTimeout       time.Duration `env:"DB_TIMEOUT" envDefault:"5s"`
	ServerSelection time.Duration `env:"MONGO_SERVER_SELECTION_TIMEOUT" envDefault:"5s"`
	CacheTTL        time.Duration `env:"CACHE_TTL" envDefault:"2m"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	RetentionDays int           `env:"ANALYTICS_RETENTION_DAYS" envDefault:"90"`
	PruneInterval time.Duration `env:"ANALYTICS_PRUNE_INTERVAL" envDefault:"0s"`

	// Locale para ordenar por nombre en /products?sort=name_asc
	CollationLocale string `env:"COLLATION_LOCALE" envDefault:"vi"`

	Log LogConfig
}

type LogConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	Format     string `env:"LOG_FORMAT" envDefault:"text"`
	File       string `env:"LOG_FILE"`
	MaxSize    int    `env:"LOG_MAX_SIZE" envDefault:"100"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"7"`
	MaxAge     int    `env:"LOG_MAX_AGE" envDefault:"7"`
	Compress   bool   `env:"LOG_COMPRESS" envDefault:"true"`
}

// LoadConfig carga .env (si existe) y luego las variables de entorno
func LoadConfig() (*Config, error) {
	// Solo cargar .env en desarrollo local
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			logrus.WithError(err).Warn("⚠️ Error loading .env file")
		} else {
			logrus.Info("✅ .env file loaded successfully")
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate comprueba combinaciones inválidas de configuración
func (c *Config) Validate() error {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required when STORE_DRIVER=mongo")
		}
		if c.AdminPassword == "" {
			return errors.New("ADMIN_PASSWORD is required when STORE_DRIVER=mongo")
		}
	case DriverMemory:
		if c.AdminPassword == "" {
			c.AdminPassword = "admin123"
			logrus.Warn("⚠️ ADMIN_PASSWORD not set, using development default")
		}
	default:
		return errors.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.GinMode {
	case "", "debug", "release", "test":
	default:
		return errors.Errorf("invalid GIN_MODE %q", c.GinMode)
	}
	for _, proxy := range c.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				return errors.Errorf("invalid TRUSTED_PROXIES entry %q", proxy)
			}
		}
	}
	if c.DBTimeout <= 0 {
		return errors.New("DB_TIMEOUT must be positive")
	}
	if c.RetentionDays < 0 {
		return errors.New("ANALYTICS_RETENTION_DAYS cannot be negative")
	}
	return nil
}
