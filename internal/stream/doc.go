// Package stream implements the transfer scheduling engine.
//
// # Overview
//
// An Engine owns one payment stream: Start resolves the payer/recipient token
// accounts and arms a fixed-interval timer; every firing executes one tick
// (blockhash via cache, build + sign, fire-and-forget submit) and records the
// outcome. Stop disarms the timer. Logs and Status are pure reads.
//
// # Lifecycle
//
// Idle -> Running (successful Start) -> Idle (Stop). There is no paused
// state. Start on a running engine fails with ErrAlreadyRunning and leaves
// all state untouched. Stop is idempotent. The tick counter resets to zero
// on both transitions.
//
// # Failure policy
//
// Steady-state tick failures are absorbed: a missed tick is acceptable
// because the next one fires in a few seconds at the full rate. The only
// failure with a side effect is a stale blockhash, which invalidates the
// cache. Only Start-time failures are surfaced to callers.
//
// # Concurrency
//
// Timer firings run in their own goroutines; a single-slot run guard skips
// a firing while the previous tick is still in flight, so ticks are mutually
// exclusive by construction. Stop disarms future firings only; a tick already
// past the guard may still record its outcome afterwards.
package stream
