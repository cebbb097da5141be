package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix 環境變數覆寫前綴
const EnvPrefix = "CREDIT_LEDGER_"

// Config 應用程式設定
//
// 載入順序（後者覆寫前者）：
// 1. Default()
// 2. TOML 設定檔
// 3. .env 檔案（只補上尚未設定的環境變數）
// 4. CREDIT_LEDGER_* 環境變數
type Config struct {
	Log     LogConfig     `toml:"log"`
	DB      DBConfig      `toml:"db"`
	Mongo   MongoConfig   `toml:"mongo"`
	Metrics MetricsConfig `toml:"metrics"`
}

// LogConfig 日誌設定
type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"` // text | json
	AddSource bool       `toml:"add_source"`
}

// DBConfig 關聯式資料庫設定
type DBConfig struct {
	Driver   string `toml:"driver"` // sqlite | postgres | mongo
	DSN      string `toml:"dsn"`
	PoolSize int    `toml:"pool_size"`
	LogSQL   bool   `toml:"log_sql"`
}

// MongoConfig MongoDB 設定（driver = "mongo" 時使用）
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// MetricsConfig Prometheus 指標設定
type MetricsConfig struct {
	Enabled   bool   `toml:"enabled"`
	Namespace string `toml:"namespace"`
}

// 支援的資料庫驅動
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Default 預設設定：本機 SQLite、text 日誌
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  slog.LevelInfo,
			Format: "text",
		},
		DB: DBConfig{
			Driver:   DriverSQLite,
			DSN:      "credit_ledger.db",
			PoolSize: 10,
		},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "credit_ledger",
		},
		Metrics: MetricsConfig{
			Namespace: "credit_ledger",
		},
	}
}

// Load 載入設定
//
// path 為空或檔案不存在時只使用預設值與環境變數；
// envFiles 為要載入的 .env 檔案，不存在的檔案略過。
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	if err := toml.NewDecoder(file).DisallowUnknownFields().Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	return nil
}

// applyEnv 以 CREDIT_LEDGER_<SECTION>_<KEY> 覆寫設定
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
		}
		*dst = b
		return nil
	}

	str("DB_DRIVER", &cfg.DB.Driver)
	str("DB_DSN", &cfg.DB.DSN)
	str("MONGO_URI", &cfg.Mongo.URI)
	str("MONGO_DATABASE", &cfg.Mongo.Database)
	str("LOG_FORMAT", &cfg.Log.Format)
	str("METRICS_NAMESPACE", &cfg.Metrics.Namespace)

	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		if err := cfg.Log.Level.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid %sLOG_LEVEL: %w", EnvPrefix, err)
		}
	}
	if v, ok := lookup(EnvPrefix + "DB_POOL_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sDB_POOL_SIZE: %w", EnvPrefix, err)
		}
		cfg.DB.PoolSize = n
	}
	if err := boolean("DB_LOG_SQL", &cfg.DB.LogSQL); err != nil {
		return err
	}
	if err := boolean("METRICS_ENABLED", &cfg.Metrics.Enabled); err != nil {
		return err
	}
	return boolean("LOG_ADD_SOURCE", &cfg.Log.AddSource)
}

// Validate 檢查設定值
func (c *Config) Validate() error {
	var errs []error

	switch c.DB.Driver {
	case DriverSQLite, DriverPostgres:
		if strings.TrimSpace(c.DB.DSN) == "" {
			errs = append(errs, fmt.Errorf("db.dsn is required for driver %q", c.DB.Driver))
		}
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			errs = append(errs, errors.New("mongo.uri and mongo.database are required for driver \"mongo\""))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported db.driver %q", c.DB.Driver))
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unsupported log.format %q", c.Log.Format))
	}

	if c.DB.PoolSize < 0 {
		errs = append(errs, fmt.Errorf("db.pool_size must not be negative, got %d", c.DB.PoolSize))
	}

	return errors.Join(errs...)
}
