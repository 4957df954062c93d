package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	Inventory    InventoryConfig
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
	Env          string `envconfig:"GROCER_APP_ENV" required:"true"`
	Port         string `envconfig:"GROCER_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GROCER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GROCER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GROCER_DB_DSN"`
	Driver string `envconfig:"GROCER_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GROCER_DB_HOST"`
	LegacyPort     int    `envconfig:"GROCER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GROCER_DB_USER"`
	LegacyPassword string `envconfig:"GROCER_DB_PASSWORD"`
	LegacyName     string `envconfig:"GROCER_DB_NAME"`
	LegacySSLMode  string `envconfig:"GROCER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GROCER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GROCER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GROCER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GROCER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GROCER_REDIS_URL"`
	Address      string        `envconfig:"GROCER_REDIS_ADDR"`
	Password     string        `envconfig:"GROCER_REDIS_PASSWORD"`
	DB           int           `envconfig:"GROCER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GROCER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GROCER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GROCER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GROCER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GROCER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"GROCER_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GROCER_JWT_ISSUER" default:"grocer-backend"`
	ExpirationMinutes int    `envconfig:"GROCER_JWT_EXPIRATION_MINUTES" default:"480"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"GROCER_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"GROCER_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"GROCER_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"GROCER_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"GROCER_ARGON_KEY_LEN" default:"32"`
}

type RateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"GROCER_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"GROCER_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"GROCER_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GROCER_AUTO_MIGRATE" default:"false"`
}

type InventoryConfig struct {
	ConflictRetries      int           `envconfig:"GROCER_INVENTORY_CONFLICT_RETRIES" default:"3"`
	ConflictRetryBackoff time.Duration `envconfig:"GROCER_INVENTORY_CONFLICT_BACKOFF" default:"50ms"`
}

// AccessTokenTTL returns the configured access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
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
