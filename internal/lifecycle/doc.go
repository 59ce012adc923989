// Package lifecycle starts and stops the transport's daemon goroutines
// (Receiver, Sender, and the four waiting-processor/cleaner workers) as a
// single unit, per SPEC_FULL.md §5: all are keyed off one shutdown signal
// so a coordinated startup failure unwinds cleanly instead of leaving a
// partial worker set running.
package lifecycle
