package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/zbdpay/zbd-mcp/internal/server"
	"github.com/zbdpay/zbd-mcp/internal/tools/registry"
	"github.com/zbdpay/zbd-mcp/internal/tools/schema"
	"github.com/zbdpay/zbd-mcp/internal/zbd"
)

// AmountField is the argument holding a millisatoshi amount.
const AmountField = "amount"

// BatchField is the argument holding the items of a batch tool.
const BatchField = "payments"

// ErrInvalidAmount is returned for amounts that are not a positive integer
// number of millisatoshis.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrNoClient is returned when a tool is invoked without a ZBD client.
var ErrNoClient = errors.New("ZBD client is not configured")

// Endpoint describes the ZBD API request a tool maps onto.
type Endpoint struct {
	// Method is http.MethodGet or http.MethodPost
	Method string

	// Path is the API path (e.g. "payments")
	Path string

	// URLParam names the argument appended to the path (GET tools)
	URLParam string

	// CheckAmount rejects a supplied amount that is not a positive integer
	CheckAmount bool
}

// Get returns the endpoint of a GET request, with param appended to the
// path when non-empty.
func Get(path, param string) Endpoint {
	return Endpoint{Method: http.MethodGet, Path: path, URLParam: param}
}

// Post returns the endpoint of a POST request whose body is the validated
// arguments.
func Post(path string) Endpoint {
	return Endpoint{Method: http.MethodPost, Path: path}
}

// Payment is Post with amount checking, for tools that move funds.
func Payment(path string) Endpoint {
	return Endpoint{Method: http.MethodPost, Path: path, CheckAmount: true}
}

// RequestHandler returns a handler that performs ep with the validated
// arguments and returns the API response as a single text block.
func RequestHandler(sc *server.ServerContext, ep Endpoint) registry.Handler {
	return func(ctx context.Context, args schema.Args) (*mcp.CallToolResult, error) {
		body, err := Request(ctx, sc, ep, args)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(body)), nil
	}
}

// Request performs ep with args and returns the formatted response body.
func Request(ctx context.Context, sc *server.ServerContext, ep Endpoint, args schema.Args) ([]byte, error) {
	if ep.CheckAmount {
		if amount, ok := args.OptionalString(AmountField); ok {
			if err := ValidateAmount(amount); err != nil {
				return nil, err
			}
		}
	}

	client := sc.ZBDClient()
	if client == nil {
		return nil, ErrNoClient
	}

	req := zbd.Request{Path: ep.Path, Method: ep.Method}
	if ep.URLParam != "" {
		param := args.String(ep.URLParam)
		if param == "" {
			return nil, fmt.Errorf("%s is required", ep.URLParam)
		}
		req.URLParam = param
	}
	if ep.Method == http.MethodPost {
		req.Body = map[string]any(args)
	}

	return client.Do(ctx, req)
}

// ValidateAmount checks that amount is a positive integer number of
// millisatoshis written in plain decimal digits.
func ValidateAmount(amount string) error {
	amount = strings.TrimSpace(amount)
	if amount == "" || strings.IndexFunc(amount, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return ErrInvalidAmount
	}
	n, err := strconv.ParseUint(amount, 10, 64)
	if err != nil || n == 0 {
		return ErrInvalidAmount
	}
	return nil
}
