package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Store         StoreConfig
	POS           POSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CONSTRUPLAZA_APP_ENV" required:"true"`
	Port         string `envconfig:"CONSTRUPLAZA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CONSTRUPLAZA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CONSTRUPLAZA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CONSTRUPLAZA_DB_DSN"`
	Driver string `envconfig:"CONSTRUPLAZA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CONSTRUPLAZA_DB_HOST"`
	LegacyPort     int    `envconfig:"CONSTRUPLAZA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CONSTRUPLAZA_DB_USER"`
	LegacyPassword string `envconfig:"CONSTRUPLAZA_DB_PASSWORD"`
	LegacyName     string `envconfig:"CONSTRUPLAZA_DB_NAME"`
	LegacySSLMode  string `envconfig:"CONSTRUPLAZA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CONSTRUPLAZA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CONSTRUPLAZA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CONSTRUPLAZA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CONSTRUPLAZA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CONSTRUPLAZA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CONSTRUPLAZA_REDIS_ADDR"`
	Password     string        `envconfig:"CONSTRUPLAZA_REDIS_PASSWORD"`
	DB           int           `envconfig:"CONSTRUPLAZA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CONSTRUPLAZA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CONSTRUPLAZA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CONSTRUPLAZA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CONSTRUPLAZA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CONSTRUPLAZA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"CONSTRUPLAZA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"CONSTRUPLAZA_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"CONSTRUPLAZA_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"CONSTRUPLAZA_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CONSTRUPLAZA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CONSTRUPLAZA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CONSTRUPLAZA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CONSTRUPLAZA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CONSTRUPLAZA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"CONSTRUPLAZA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"CONSTRUPLAZA_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"CONSTRUPLAZA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CONSTRUPLAZA_AUTO_MIGRATE" default:"false"`
}

// StoreConfig carries the fiscal identity printed on every receipt.
type StoreConfig struct {
	Name    string `envconfig:"CONSTRUPLAZA_STORE_NAME" default:"FERRETERÍA CONSTRUPLAZA"`
	TaxID   string `envconfig:"CONSTRUPLAZA_STORE_TAX_ID" default:"20123456789"`
	Address string `envconfig:"CONSTRUPLAZA_STORE_ADDRESS" default:"Av. Los Constructores 123, Lima - Perú"`
	Phone   string `envconfig:"CONSTRUPLAZA_STORE_PHONE" default:"(01) 555-1234"`
	Website string `envconfig:"CONSTRUPLAZA_STORE_WEBSITE" default:"www.construplaza.com"`
}

type POSConfig struct {
	CartTTL time.Duration `envconfig:"CONSTRUPLAZA_POS_CART_TTL" default:"12h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
