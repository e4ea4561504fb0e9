// Package arenakit is a low-level memory-management toolkit for
// performance-sensitive Go programs: simulation loops, engines and
// servers that allocate many short- or mid-lived objects and need
// stable, validity-checked references to them.
//
// The toolkit is a stack of small packages, leaf to root:
//
//   - arena: a fixed-capacity bump allocator and a paged arena that
//     grows by chaining pages without moving issued memory.
//   - freelist: a LIFO recycler for retired indices.
//   - typedarena: a paged, index-addressed object arena with O(1)
//     allocate/deallocate and stable element pointers.
//   - slotmap: a generational slot map over two typed arenas, exposing
//     handle-validated add/remove/access and live-element iteration.
//
// Alongside the core sit two ordinary containers (ringbuf, smallvec),
// an Apache Arrow allocator adapter (arrowalloc) and Prometheus
// collectors for the allocators' statistics (memmetrics).
//
// Every data structure is single-threaded by design; callers needing
// concurrency supply their own external locking.
package arenakit
