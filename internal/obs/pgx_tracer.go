package obs

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ctxSpanKey struct{}

// PGXTracer implements pgx.QueryTracer to create spans for database interactions.
type PGXTracer struct{}

// TraceQueryStart starts a span for the SQL statement. Statements generated by
// sqlc carry a "-- name: X" header which becomes the span name.
func (PGXTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	spanName := "pgx.query"
	name, statement := splitQueryName(data.SQL)
	if name != "" {
		spanName = "pgx." + name
	}
	ctx, span := otel.Tracer("db.pgx").Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.statement", truncateSQL(statement)),
	)
	if fields := strings.Fields(statement); len(fields) > 0 {
		span.SetAttributes(attribute.String("db.operation", strings.ToUpper(fields[0])))
	}
	return context.WithValue(ctx, ctxSpanKey{}, span)
}

// TraceQueryEnd ends the span and records any error.
func (PGXTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	if span, ok := ctx.Value(ctxSpanKey{}).(trace.Span); ok {
		if data.Err != nil {
			span.RecordError(data.Err)
			span.SetStatus(codes.Error, "query failed")
		} else {
			span.SetAttributes(attribute.Int64("db.rows_affected", data.CommandTag.RowsAffected()))
		}
		span.End()
	}
}

// splitQueryName separates the sqlc name header from the statement body.
func splitQueryName(sql string) (string, string) {
	trimmed := strings.TrimSpace(sql)
	if !strings.HasPrefix(trimmed, "-- name:") {
		return "", trimmed
	}
	header, rest, _ := strings.Cut(trimmed, "\n")
	fields := strings.Fields(strings.TrimPrefix(header, "-- name:"))
	if len(fields) == 0 {
		return "", strings.TrimSpace(rest)
	}
	return fields[0], strings.TrimSpace(rest)
}

func truncateSQL(sql string) string {
	trimmed := strings.TrimSpace(sql)
	if len(trimmed) > 300 {
		return trimmed[:300] + "..."
	}
	return trimmed
}
