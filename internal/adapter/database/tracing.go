package database

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const tracerName = "training-center.repository"

// base concentra o que todo repositório GORM compartilha: a conexão
// (ou transação), o logger e o tracer
type base struct {
	db     *gorm.DB
	logger *zap.Logger
	tracer trace.Tracer
}

func newBase(db *gorm.DB, logger *zap.Logger) base {
	return base{
		db:     db,
		logger: logger,
		tracer: otel.GetTracerProvider().Tracer(tracerName),
	}
}

func (b base) startSpan(ctx context.Context, name, operation, table string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String("db.operation", operation),
		attribute.String("db.table", table),
	)
	return b.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// fail registra o erro no span e no log e devolve o erro embrulhado.
// Not found não é logado como erro.
func (b base) fail(span trace.Span, msg string, err error, notFound error, fields ...zap.Field) error {
	if errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil {
		span.SetStatus(codes.Error, "not found")
		span.SetAttributes(attribute.Bool("db.found", false))
		return notFound
	}

	b.logger.Error(msg, append(fields, zap.Error(err))...)
	span.SetStatus(codes.Error, "database error")
	span.SetAttributes(
		attribute.Bool("error", true),
		attribute.String("error.message", err.Error()),
	)
	return fmt.Errorf("%s: %w", msg, err)
}
