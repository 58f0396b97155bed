package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/zbdpay/zbd-mcp/internal/tools/schema"
)

// DefaultMaxItems is the largest batch accepted when Options.MaxItems is unset.
const DefaultMaxItems = 10

// Item status values.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// CapacityError is returned when a batch holds more items than allowed.
// No item of such a batch is executed.
type CapacityError struct {
	Submitted int
	Max       int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("batch of %d items exceeds the maximum of %d", e.Submitted, e.Max)
}

// Hard marks the error as a request-level rejection rather than a tool failure.
func (e *CapacityError) Hard() bool { return true }

// ItemHandler executes a single batch item.
type ItemHandler func(ctx context.Context, index int, item schema.Args) (*mcp.CallToolResult, error)

// Options configures Process.
type Options struct {
	// MaxItems caps the batch size. Zero means DefaultMaxItems.
	MaxItems int

	// CorrelationField names the item field echoed back in each result.
	CorrelationField string
}

// ItemResult is the outcome of one batch item.
type ItemResult struct {
	Index            int
	CorrelationValue string
	Status           string
	Result           *mcp.CallToolResult
	Error            string
}

// Summary is the aggregated outcome of a batch, one result per submitted item
// in submission order.
type Summary struct {
	TotalCount int
	Results    []ItemResult
}

// Succeeded returns the number of successful items.
func (s *Summary) Succeeded() int {
	n := 0
	for _, r := range s.Results {
		if r.Status == StatusSuccess {
			n++
		}
	}
	return n
}

// Failed returns the number of failed items.
func (s *Summary) Failed() int {
	return len(s.Results) - s.Succeeded()
}

// Process executes fn on each item, strictly one after another in submission
// order. A failing or panicking item is recorded as failed and the remaining
// items still run. The only error returned is a *CapacityError, before any
// item is executed.
func Process(ctx context.Context, items []schema.Args, opts Options, fn ItemHandler) (*Summary, error) {
	limit := opts.MaxItems
	if limit <= 0 {
		limit = DefaultMaxItems
	}
	if len(items) > limit {
		return nil, &CapacityError{Submitted: len(items), Max: limit}
	}

	summary := &Summary{
		TotalCount: len(items),
		Results:    make([]ItemResult, 0, len(items)),
	}
	for i, item := range items {
		r := ItemResult{Index: i}
		if opts.CorrelationField != "" {
			r.CorrelationValue = item.String(opts.CorrelationField)
		}

		res, err := runItem(ctx, fn, i, item)
		if err != nil {
			r.Status = StatusFailed
			r.Error = err.Error()
		} else {
			r.Status = StatusSuccess
			r.Result = res
		}
		summary.Results = append(summary.Results, r)
	}
	return summary, nil
}

func runItem(ctx context.Context, fn ItemHandler, i int, item schema.Args) (res *mcp.CallToolResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("item %d panicked: %v", i, r)
		}
	}()

	res, err = fn(ctx, i, item)
	if err == nil && res == nil {
		err = errors.New("item returned no result")
	}
	return res, err
}

// Render formats the summary as indented JSON:
//
//	{"<totalKey>": N, "results": [{"<correlationKey>": v, "status": "success", "content": [...]}, ...]}
//
// Failed entries carry "error" instead of "content". Keys keep that order.
func (s *Summary) Render(totalKey, correlationKey string) (string, error) {
	results := make([]*orderedmap.OrderedMap[string, any], 0, len(s.Results))
	for _, r := range s.Results {
		entry := orderedmap.New[string, any]()
		if correlationKey != "" {
			entry.Set(correlationKey, r.CorrelationValue)
		}
		entry.Set("status", r.Status)
		if r.Status == StatusSuccess {
			content := r.Result.Content
			if content == nil {
				content = []mcp.Content{}
			}
			entry.Set("content", content)
		} else {
			entry.Set("error", r.Error)
		}
		results = append(results, entry)
	}

	out := orderedmap.New[string, any]()
	out.Set(totalKey, s.TotalCount)
	out.Set("results", results)

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render batch summary: %w", err)
	}
	return string(b), nil
}

// ItemsFromArgs returns the validated array-of-objects argument field.
func ItemsFromArgs(args schema.Args, field string) ([]schema.Args, error) {
	return args.Objects(field)
}
