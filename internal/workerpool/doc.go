// Package workerpool runs tasks on a fixed number of goroutines fed from a
// bounded queue.
//
// The worker count is chosen once at construction and never changes. When the
// queue is full, Submit blocks the caller until a slot frees up, the caller's
// context ends, or the pool is closed; nothing is dropped silently.
package workerpool
