// Package scheduler decides which phases are due on each call to advance a
// frame.
//
// # Main Order
//
// MainOrder holds two sequences of phase labels:
//   - **Startup:** run exactly once, on the first advance.
//   - **Loop:** run on every later advance.
//
// A latch records whether startup has run. The guarantee lives in the
// latch, not in the caller: however often a tick driver calls Advance, and
// whichever driver it is, the startup phases run once.
//
// # Editing
//
// Sequences are edited by label. InsertBefore and InsertAfter splice a new
// phase next to an existing one and leave the sequence unchanged when the
// target is absent. A label belongs to at most one of the two sequences at
// a time.
//
// # Relationship with Other Components
//
//   - **schedule.Phase:** the units a label refers to.
//   - **executor:** runs one phase; Advance calls back into it per label.
//   - **app:** owns the MainOrder and exposes Advance as App.Update.
package scheduler
