// Package locking serializes runs of the same mode.
//
// Manager holds an in-process lock per key and, when configured, a
// ports.DistributedLocker on top of it so several processes share the
// exclusion.
package locking
