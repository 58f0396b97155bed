// Package dispatch routes tool invocations to registered handlers.
//
// A Dispatcher looks the tool up, validates the raw arguments against the
// tool's schema and calls the handler. Lookup and validation failures are
// protocol errors; handler failures are reported in-band as an
// "Error: <message>" text result so that a client sees what went wrong.
package dispatch
