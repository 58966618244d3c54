// Package pipeline implements a copy-on-write graph of GPU pipeline state.
//
// Every Pipeline derives from a parent and records only the state groups it
// overrides (its differences). The value of a group is read from the
// group's authority: the nearest ancestor, starting at the pipeline
// itself, that overrides it. The root of a Graph is the authority for
// every group nothing else overrides.
//
// Modifying a pipeline that other pipelines derive from moves those
// dependants to a snapshot of the old state first, so copies never see
// later changes of their parent. Weak copies are not preserved this way:
// they are destroyed, and their destroy callback runs, when the parent
// changes or is freed. They are meant for caches that can rebuild an entry
// on demand.
//
// Equal and Hash only visit authorities, so their cost depends on the
// number of groups compared and not on the depth of the graph.
//
// A Graph and its pipelines must only be used from one goroutine at a time.
package pipeline
