// Package schedule runs checks from a Redis-backed task queue.
//
// The scheduler registers one periodic check:run task per configured directory. The
// worker consumes them one at a time with the same check service the CLI uses. Tasks
// are unique per directory while pending, and runs that find bit rot or a corrupted
// inventory are not retried.
package schedule
