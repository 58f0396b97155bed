// Package common provides the pieces every tool package is built from:
// request handlers that map validated arguments onto one ZBD API call,
// amount checking for tools that move funds, and the instrumentation
// wrapper that traces, meters and audits each invocation.
package common
