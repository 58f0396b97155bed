// Package batch runs one tool operation over a bounded list of items.
//
// Process rejects oversized batches up front with a *CapacityError, then
// executes the items sequentially. A failure in one item is recorded in its
// ItemResult and never stops, removes or reorders the others. Summary.Render
// produces the JSON document returned to the client.
package batch
