package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/homeyscriptkit/hsk/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// batch runs one function per item concurrently and collects exactly one
// Result per item, in input order.
type batch[T any] struct {
	// span names the per-item trace span, e.g. "push".
	span string
	// label identifies an item in spans and logs.
	label func(T) string
	// run processes one item. It must turn its own failures into a Rejected.
	run func(context.Context, T) Result
	// rejected builds the result for an item whose run panicked.
	rejected func(T, error) Result
}

// execute starts every item at once and waits for all of them. No item is
// cancelled because another one failed.
func (b batch[T]) execute(ctx context.Context, items []T) []Result {
	results := make([]Result, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = b.one(ctx, item)
		}()
	}
	wg.Wait()

	return results
}

func (b batch[T]) one(ctx context.Context, item T) (res Result) {
	ctx, span := tracing.StartSpan(ctx, b.span, trace.SpanKindInternal,
		attribute.String("hsk.item", b.label(item)),
	)
	defer func() {
		if p := recover(); p != nil {
			res = b.rejected(item, fmt.Errorf("unexpected panic: %v", p))
		}
		span.SetAttributes(attribute.String("hsk.action", string(res.Op())))
		tracing.EndSpan(span, res.Err())
	}()

	res = b.run(ctx, item)
	if res == nil {
		res = b.rejected(item, fmt.Errorf("no result produced"))
	}
	return res
}
