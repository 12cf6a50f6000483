// Package engine implements the commit stack editing model: a linear stack
// of draft commits ingested from an SCM export, per-file revision chains
// with line-level dependency tracking, and non-destructive stack rewrites
// (fold, drop, reorder, content edits) that each produce a new immutable
// snapshot. The edited stack is serialized back into import instructions
// for the SCM process to materialize.
package engine
