// Package zbd is a small client for the ZBD payments REST API.
//
// Every tool in zbd-mcp maps onto exactly one request: a path, a method, an
// optional JSON body built from the validated tool arguments and an optional
// URL parameter (payment id, lightning address, gamertag ...). The client
// authenticates with the "apikey" header and returns the response body
// re-indented for display.
//
// Requests are traced through otelhttp plus a "zbd.<method>.<path>" span,
// and counted in the zbd_api_requests_total metric.
package zbd
