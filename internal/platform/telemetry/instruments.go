package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/jsamuelsen/library-catalog/telemetry"

// StoreInstruments traces and times catalog persistence calls.
type StoreInstruments struct {
	tracer   trace.Tracer
	duration metric.Float64Histogram
	records  metric.Int64Counter
}

// NewStoreInstruments creates instruments from the global providers, so it
// must run after New. With telemetry disabled the globals are noop.
func NewStoreInstruments() (*StoreInstruments, error) {
	meter := otel.Meter(instrumentationName)

	duration, err := meter.Float64Histogram(
		"catalog.store.duration",
		metric.WithDescription("Duration of catalog load and save calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	records, err := meter.Int64Counter(
		"catalog.store.records",
		metric.WithDescription("Records moved through the catalog store"),
	)
	if err != nil {
		return nil, err
	}

	return &StoreInstruments{
		tracer:   otel.Tracer(instrumentationName),
		duration: duration,
		records:  records,
	}, nil
}

// StoreCall is one in-flight traced store operation.
type StoreCall struct {
	inst  *StoreInstruments
	span  trace.Span
	op    string
	start time.Time
}

// Start opens a span named "catalog.<op>" tagged with the store location.
func (s *StoreInstruments) Start(ctx context.Context, op, location string) (context.Context, *StoreCall) {
	ctx, span := s.tracer.Start(ctx, "catalog."+op,
		trace.WithAttributes(
			attribute.String("catalog.operation", op),
			attribute.String("catalog.store", location),
		),
	)

	return ctx, &StoreCall{inst: s, span: span, op: op, start: time.Now()}
}

// End records the duration and the number of records moved, marks the span
// as failed when err is non-nil and closes it.
func (c *StoreCall) End(ctx context.Context, records int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		c.span.RecordError(err)
		c.span.SetStatus(codes.Error, err.Error())
	}

	attrs := metric.WithAttributes(
		attribute.String("operation", c.op),
		attribute.String("status", status),
	)

	c.inst.duration.Record(ctx, time.Since(c.start).Seconds(), attrs)
	if records > 0 {
		c.inst.records.Add(ctx, int64(records), attrs)
	}

	c.span.SetAttributes(attribute.Int("catalog.records", records))
	c.span.End()
}
