package config

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config はアプリケーション設定を表す
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig
	Worker   WorkerConfig
}

// ServerConfig はサーバー設定
// MetricsUser/MetricsPasswordが両方設定されている場合のみ/metricsにBasic認証がかかる
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MetricsUser     string
	MetricsPassword string
}

// DatabaseConfig はデータベース設定
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrationsPath  string
}

// RedisConfig はRedis設定
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// LogConfig はログ設定
// Fileが空のときは標準出力のみに書く
type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// WorkerConfig はバックグラウンドワーカー設定
type WorkerConfig struct {
	AuditInterval time.Duration
}

// Load は設定を読み込む
// 優先順位: 環境変数 > .env ファイル > デフォルト値
// DATABASE_URL / REDIS_URL が設定されていれば個別項目より優先する
func Load() *Config {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	setDefaults(v)

	// .envは任意。なければ環境変数とデフォルト値だけで動く
	_ = v.ReadInConfig()
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("PORT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			MetricsUser:     v.GetString("METRICS_USER"),
			MetricsPassword: v.GetString("METRICS_PASSWORD"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			MigrationsPath:  v.GetString("DB_MIGRATIONS_PATH"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Log: LogConfig{
			Level:      v.GetString("LOG_LEVEL"),
			File:       v.GetString("LOG_FILE"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
		},
		Worker: WorkerConfig{
			AuditInterval: v.GetDuration("WORKER_AUDIT_INTERVAL"),
		},
	}

	applyDatabaseURL(v.GetString("DATABASE_URL"), &cfg.Database)
	applyRedisURL(v.GetString("REDIS_URL"), &cfg.Redis)

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("METRICS_USER", "")
	v.SetDefault("METRICS_PASSWORD", "")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "seat_booking")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	v.SetDefault("DB_MIGRATIONS_PATH", "migrations")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 3)
	v.SetDefault("LOG_MAX_AGE_DAYS", 7)

	v.SetDefault("WORKER_AUDIT_INTERVAL", time.Minute)
}

// applyDatabaseURL はDATABASE_URL（Railway等のマネージド環境形式）を個別項目に展開する
func applyDatabaseURL(raw string, db *DatabaseConfig) {
	if raw == "" {
		return
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		// パースできなければ個別の環境変数に従う
		return
	}
	db.Host = u.Hostname()
	if p := u.Port(); p != "" {
		db.Port = p
	}
	if u.User != nil {
		db.User = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			db.Password = pw
		}
	}
	if name := strings.TrimPrefix(u.Path, "/"); name != "" {
		db.DBName = name
	}
	if ssl := u.Query().Get("sslmode"); ssl != "" {
		db.SSLMode = ssl
	} else {
		// URL指定のマネージド環境はTLS前提
		db.SSLMode = "require"
	}
}

// applyRedisURL はREDIS_URLを個別項目に展開する
func applyRedisURL(raw string, r *RedisConfig) {
	if raw == "" {
		return
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return
	}
	r.Host = u.Hostname()
	if p := u.Port(); p != "" {
		r.Port = p
	}
	if u.User != nil {
		if pw, ok := u.User.Password(); ok {
			r.Password = pw
		}
	}
	if path := strings.TrimPrefix(u.Path, "/"); path != "" {
		if db, err := strconv.Atoi(path); err == nil {
			r.DB = db
		}
	}
}

// DSN はPostgreSQL接続文字列を返す
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

// Addr はRedis接続アドレスを返す
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}
