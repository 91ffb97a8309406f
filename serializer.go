// Package avaserial normalizes values into plain JSON-ready data for API
// handlers. A caller-supplied serializer transforms each value, then an
// allow-list/deny-list property-path filter is applied, with criteria merged
// from call-site options and request query parameters.
package avaserial

import (
	"context"
	"reflect"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/vyrodovalexey/avaserial/internal/filter"
	"github.com/vyrodovalexey/avaserial/internal/observability"
)

// serializerTracer is the OpenTelemetry tracer for serialize operations.
var serializerTracer = otel.Tracer("avaserial/serializer")

// Func is the function form of a serializer. It converts one item into a
// plain JSON-ready value. Returning a map[string]interface{} makes the
// result eligible for property filtering; any other return type passes
// through unfiltered.
type Func func(ctx context.Context, req *Request, item interface{}, opts *Options) (interface{}, error)

// Serializer is the object form of a serializer. Both forms are accepted by
// Serialize and resolved once at call entry.
type Serializer interface {
	Serialize(ctx context.Context, req *Request, item interface{}, opts *Options) (interface{}, error)
}

// Dispatcher invokes serializers and applies property filtering.
type Dispatcher struct {
	logger observability.Logger
	filter *filter.Filter
}

// DispatcherOption is a functional option for configuring a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the logger for the dispatcher.
func WithLogger(logger observability.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a new Dispatcher instance.
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = observability.NopLogger()
	}
	d.filter = filter.New(d.logger)
	return d
}

var defaultDispatcher = NewDispatcher()

// Serialize transforms data with the given serializer and filters the result.
// It is the package-level convenience over a default Dispatcher.
func Serialize(
	ctx context.Context,
	req *Request,
	data interface{},
	serializer interface{},
	opts *Options,
) (interface{}, error) {
	return defaultDispatcher.Serialize(ctx, req, data, serializer, opts)
}

// Serialize transforms data with the given serializer and filters the result.
//
// When data is a slice or array, the serializer runs once per element
// concurrently; the first failure fails the whole call and the output slice
// preserves input order regardless of completion order. Otherwise the
// serializer runs once on data itself.
//
// Structural validation of req and serializer happens before any serializer
// invocation: a malformed request yields *InvalidRequestError and an
// unusable serializer yields *InvalidSerializerError.
func (d *Dispatcher) Serialize(
	ctx context.Context,
	req *Request,
	data interface{},
	serializer interface{},
	opts *Options,
) (interface{}, error) {
	items, isCollection := asCollection(data)
	mode := "single"
	if isCollection {
		mode = "collection"
	}
	metrics := GetSerializerMetrics()

	if !req.valid() {
		metrics.RecordOperation(mode, "error")
		metrics.RecordError(mode, "request")
		return nil, &InvalidRequestError{}
	}

	fn, err := resolveSerializer(serializer)
	if err != nil {
		metrics.RecordOperation(mode, "error")
		metrics.RecordError(mode, "serializer")
		return nil, err
	}

	crit := mergeCriteria(req, opts)

	itemCount := 1
	if isCollection {
		itemCount = len(items)
	}

	ctx, span := serializerTracer.Start(ctx, "serialize.dispatch",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Bool("serialize.collection", isCollection),
			attribute.Int("serialize.item_count", itemCount),
			attribute.Int("serialize.only_count", len(crit.only)),
			attribute.Int("serialize.except_count", len(crit.except)),
		),
	)
	defer span.End()

	start := time.Now()
	logger := d.logger.WithContext(ctx)
	logger.Debug("starting serialization",
		observability.Bool("collection", isCollection),
		observability.Int("itemCount", itemCount),
		observability.Bool("hasOnly", crit.onlyEnabled),
		observability.Bool("hasExcept", len(crit.except) > 0))

	if !isCollection {
		result, err := fn(ctx, req, data, opts)
		if err != nil {
			metrics.RecordOperation(mode, "error")
			metrics.RecordError(mode, "transform")
			span.RecordError(err)
			return nil, err
		}
		metrics.operationDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
		metrics.RecordOperation(mode, "success")
		return d.applyFilter(result, crit), nil
	}

	results := make([]interface{}, len(items))
	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			out, err := fn(gctx, req, item, opts)
			if err != nil {
				return err
			}
			results[i] = d.applyFilter(out, crit)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		metrics.RecordOperation(mode, "error")
		metrics.RecordError(mode, "transform")
		span.RecordError(err)
		return nil, err
	}

	metrics.operationDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	metrics.RecordOperation(mode, "success")
	logger.Debug("serialization completed",
		observability.Int("itemCount", itemCount),
		observability.Duration("elapsed", time.Since(start)))

	return results, nil
}

// applyFilter applies the resolved criteria to one serialized item.
// Allow filtering runs first, deny filtering second, so a path present in
// both ends up removed. Non-map items pass through unfiltered.
func (d *Dispatcher) applyFilter(item interface{}, crit criteria) interface{} {
	data, ok := item.(map[string]interface{})
	if !ok {
		return item
	}
	if crit.onlyEnabled {
		if len(crit.only) == 0 {
			// Enabled allow-list with an empty intersection keeps nothing.
			data = map[string]interface{}{}
		} else {
			data = d.filter.Allow(data, crit.only)
		}
	}
	if len(crit.except) > 0 {
		data = d.filter.Deny(data, crit.except)
	}
	return data
}

// resolveSerializer resolves the accepted serializer forms into a Func.
func resolveSerializer(serializer interface{}) (Func, error) {
	switch s := serializer.(type) {
	case Func:
		return s, nil
	case func(context.Context, *Request, interface{}, *Options) (interface{}, error):
		return s, nil
	case Serializer:
		return s.Serialize, nil
	}
	return nil, &InvalidSerializerError{}
}

// asCollection reports whether data is an ordered sequence of items and, if
// so, returns its elements. Byte slices count as a single item.
func asCollection(data interface{}) ([]interface{}, bool) {
	switch v := data.(type) {
	case nil, []byte:
		return nil, false
	case []interface{}:
		return v, true
	}

	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]interface{}, v.Len())
	for i := range items {
		items[i] = v.Index(i).Interface()
	}
	return items, true
}
