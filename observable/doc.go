// Package observable is the reactive substrate underneath the store.
//
// A Runtime owns a set of tagged containers (Sequence, Map, Record). Every
// mutation of a container is reported synchronously, in order, to the
// runtime's spies as a Change. Mutations can be grouped into named actions,
// which are delimited on the change feed by action-start and action-end
// changes, and into batches, which defer reactions until the outermost batch
// finishes.
//
// Reactions registered with Autorun re-run after every batch of changes in
// their runtime. There is no per-read dependency tracking.
//
// A Runtime and its containers are not safe for concurrent use.
package observable
