package configs

import (
	"context"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // image distroless tidak membawa zoneinfo

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// Config adalah seluruh konfigurasi runtime, dibaca dari ENV (dan .env kalau ada).
type Config struct {
	Port     string `env:"PORT" envDefault:"3000"`
	Timezone string `env:"APP_TIMEZONE" envDefault:"Asia/Jakarta"` // dipakai quick stats (hari ini / bulan ini)

	// Database
	DBDriver             string `env:"DB_DRIVER" envDefault:"postgres"` // postgres | sqlite
	DBUser               string `env:"DB_USER"`
	DBPassword           string `env:"DB_PASSWORD"`
	DBHost               string `env:"DB_HOST" envDefault:"localhost"`
	DBPort               string `env:"DB_PORT" envDefault:"5432"`
	DBName               string `env:"DB_NAME" envDefault:"pesantren"`
	DBSSLMode            string `env:"DB_SSLMODE" envDefault:"require"`
	DBDSN                string `env:"DB_DSN"` // path file untuk sqlite, atau DSN postgres lengkap
	DBStatementTimeoutMS int    `env:"DB_STATEMENT_TIMEOUT_MS" envDefault:"3000"`
	DBMaxOpenConns       int    `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	DBMaxIdleConns       int    `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBSlowQueryMS        int    `env:"DB_SLOW_QUERY_MS" envDefault:"200"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // text | json

	// HTTP
	CORSOrigins        string `env:"CORS_ORIGINS" envDefault:"*"`
	RequestTimeoutMS   int    `env:"REQUEST_TIMEOUT_MS" envDefault:"5000"`
	RateLimitEnabled   bool   `env:"RATE_LIMIT_ENABLED" envDefault:"false"`
	RateLimitMax       int    `env:"RATE_LIMIT_MAX" envDefault:"100"`
	LoginRateLimitMax  int    `env:"LOGIN_RATE_LIMIT_MAX" envDefault:"5"`
	RateLimitWindowSec int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`

	// Auth
	AuthIssueToken     bool   `env:"AUTH_ISSUE_TOKEN" envDefault:"false"`
	AuthRequireToken   bool   `env:"AUTH_REQUIRE_TOKEN" envDefault:"false"`
	JWTSecret          string `env:"JWT_SECRET"`
	JWTTTLHours        int    `env:"JWT_TTL_HOURS" envDefault:"12"`
	StorePlainPassword bool   `env:"STORE_PLAIN_PASSWORD" envDefault:"false"`

	// Upload signature
	UploadProvider  string `env:"UPLOAD_PROVIDER" envDefault:"signed-params"` // signed-params | oss
	UploadAPIKey    string `env:"UPLOAD_API_KEY"`
	UploadAPISecret string `env:"UPLOAD_API_SECRET"`
	UploadCloudName string `env:"UPLOAD_CLOUD_NAME"`
	UploadFolder    string `env:"UPLOAD_FOLDER" envDefault:"pesantren"`

	OSSEndpoint     string `env:"ALI_OSS_ENDPOINT"`
	OSSAccessKey    string `env:"ALI_OSS_ACCESS_KEY"`
	OSSSecretKey    string `env:"ALI_OSS_SECRET_KEY"`
	OSSBucket       string `env:"ALI_OSS_BUCKET"`
	OSSPrefix       string `env:"ALI_OSS_PREFIX" envDefault:"uploads/"`
	OSSSignTTLSec   int    `env:"ALI_OSS_SIGN_TTL" envDefault:"900"`
	OSSPublicDomain string `env:"ALI_OSS_PUBLIC_DOMAIN"`

	// Scheduler & audit
	StorePingSchedule string `env:"STORE_PING_SCHEDULE" envDefault:"@every 5m"`
	AuditEnabled      bool   `env:"AUDIT_ENABLED" envDefault:"true"`
	AuditRetention    int    `env:"AUDIT_RETENTION_DAYS" envDefault:"0"` // 0 = simpan selamanya
	AuditCleanupCron  string `env:"AUDIT_CLEANUP_SCHEDULE" envDefault:"@daily"`
}

// =======================
// ENV LOADER
// =======================

// LoadEnv memuat .env (kalau ada) lalu parse ENV ke Config.
// Di Railway/production .env tidak dipakai, ENV sistem yang berlaku.
func LoadEnv(files ...string) (*Config, error) {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(files...); err != nil {
			logrus.Debug("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			logrus.Info("✅ .env file berhasil dimuat!")
		}
	} else {
		logrus.Info("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.UploadProvider = strings.ToLower(strings.TrimSpace(cfg.UploadProvider))
	return cfg, nil
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// Location: zona waktu aplikasi; fallback UTC kalau nama zona tidak dikenal.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil || c.Timezone == "" {
		return time.UTC
	}
	return loc
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLHours) * time.Hour
}

// =======================
// GORM LOGGER CUSTOM
// =======================

// GormLogger meneruskan log gorm ke logrus. Query lambat naik ke level warn.
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
	Log           logrus.FieldLogger
}

func NewGormLogger(slow time.Duration) gormLogger.Interface {
	level := gormLogger.Warn
	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		level = gormLogger.Info
	}
	return &GormLogger{
		SlowThreshold: slow,
		LogLevel:      level,
		Log:           logrus.WithField("component", "gorm"),
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	cp := *l
	cp.LogLevel = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		l.Log.Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		l.Log.Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		l.Log.Errorf(msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	entry := l.Log.WithFields(logrus.Fields{
		"file":    utils.FileWithLineNum(),
		"elapsed": elapsed.String(),
		"rows":    rows,
	})

	switch {
	case err != nil && l.LogLevel >= gormLogger.Error:
		entry.WithError(err).Error(sql)
	case l.SlowThreshold > 0 && elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		entry.Warn("[SLOW SQL] " + sql)
	case l.LogLevel >= gormLogger.Info:
		entry.Debug(sql)
	}
}
