package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens a PostgreSQL connection via GORM and verifies connectivity.
func Connect(ctx context.Context, dsn string) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// ConnectOrFallback dials PostgreSQL and returns the DB plus a cleanup function.
// When dsn is empty or the connection fails, it logs and returns nil with a no-op cleanup
// so the caller can fall back to the in-memory store.
func ConnectOrFallback(ctx context.Context, dsn string, logger *slog.Logger) (*gorm.DB, func()) {
	if strings.TrimSpace(dsn) == "" {
		if logger != nil {
			logger.Warn("database not configured, falling back to in-memory shipment store")
		}
		return nil, func() {}
	}
	db, err := Connect(ctx, dsn)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to connect to postgres, falling back to in-memory shipment store",
				slog.String("target", Describe(dsn)),
				slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		if logger != nil {
			logger.Warn("failed to unwrap postgres connection, falling back to in-memory shipment store", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	if logger != nil {
		logger.Info("postgres connection established", slog.String("target", Describe(dsn)))
	}
	return db, func() { _ = sqlDB.Close() }
}

// DSN assembles a key/value connection string from discrete settings.
func DSN(host, port, user, password, dbname, sslmode string) string {
	parts := []string{
		"host=" + quote(host),
		"port=" + quote(port),
		"user=" + quote(user),
	}
	if password != "" {
		parts = append(parts, "password="+quote(password))
	}
	parts = append(parts, "dbname="+quote(dbname))
	if sslmode == "" {
		sslmode = "disable"
	}
	parts = append(parts, "sslmode="+quote(sslmode))
	return strings.Join(parts, " ")
}

// Describe renders host, port and database of a DSN without credentials, for logs.
func Describe(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		converted, err := pq.ParseURL(dsn)
		if err != nil {
			if u, uerr := url.Parse(dsn); uerr == nil {
				return u.Host + u.Path
			}
			return "unparseable dsn"
		}
		dsn = converted
	}
	fields := map[string]string{}
	for _, part := range strings.Fields(dsn) {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		fields[key] = strings.Trim(value, "'")
	}
	return fmt.Sprintf("%s:%s/%s", fields["host"], fields["port"], fields["dbname"])
}

func quote(v string) string {
	if v == "" || strings.ContainsAny(v, " '\\") {
		return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v) + "'"
	}
	return v
}
