package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // include bind variables in spans; development only
	SlowQueryThresh time.Duration
	DBName          string
}

// DefaultDBTracingConfig returns tracing disabled with a 200ms slow query threshold.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		SlowQueryThresh: 200 * time.Millisecond,
		DBName:          "postgresql",
	}
}

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// RegisterDBTracing installs the otelgorm plugin on db together with callbacks
// that flag slow queries and failed statements on the active span.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = DefaultDBTracingConfig().SlowQueryThresh
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if err := registerTimingCallbacks(db, &slowQueryCallback{thresh: cfg.SlowQueryThresh}); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

func registerTimingCallbacks(db *gorm.DB, cb *slowQueryCallback) error {
	c := db.Callback()
	steps := []func() error{
		func() error { return c.Create().Before("gorm:create").Register("otel_timing:before_create", cb.before) },
		func() error { return c.Query().Before("gorm:query").Register("otel_timing:before_query", cb.before) },
		func() error { return c.Update().Before("gorm:update").Register("otel_timing:before_update", cb.before) },
		func() error { return c.Delete().Before("gorm:delete").Register("otel_timing:before_delete", cb.before) },
		func() error { return c.Row().Before("gorm:row").Register("otel_timing:before_row", cb.before) },
		func() error { return c.Raw().Before("gorm:raw").Register("otel_timing:before_raw", cb.before) },
		func() error { return c.Create().After("gorm:create").Register("otel_timing:after_create", cb.after) },
		func() error { return c.Query().After("gorm:query").Register("otel_timing:after_query", cb.after) },
		func() error { return c.Update().After("gorm:update").Register("otel_timing:after_update", cb.after) },
		func() error { return c.Delete().After("gorm:delete").Register("otel_timing:after_delete", cb.after) },
		func() error { return c.Row().After("gorm:row").Register("otel_timing:after_row", cb.after) },
		func() error { return c.Raw().After("gorm:raw").Register("otel_timing:after_raw", cb.after) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

type slowQueryCallback struct {
	thresh time.Duration
}

func (c *slowQueryCallback) before(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

func (c *slowQueryCallback) after(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))

	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > c.thresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", c.thresh.Milliseconds()),
		))
	}
}
