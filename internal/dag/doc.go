// Package dag is the ordering core of the scheduler. It holds the directed
// graph a phase compiles its tasks into and turns it into a deterministic
// execution order.
//
// Sorting is Kahn's algorithm with the ready set ordered by registration
// index, so nodes without a constraint between them always come out in the
// order they were added. A node may name a preferred successor (used for
// chains); when that successor becomes ready it is emitted immediately,
// which keeps chained nodes contiguous.
//
// When no node is ready but some remain, the graph contains a cycle and Sort
// returns an *errors.CycleError naming the nodes involved.
//
// Reachability and Unordered support ambiguity detection: two nodes with no
// path between them in either direction run in a stable but unintended
// relative order.
package dag
