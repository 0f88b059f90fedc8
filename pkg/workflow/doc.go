// Package workflow runs a resume editor submission.
//
// # States
//
// A submission moves through
//
//	Idle -> Validating -> Running -> Succeeded | Failed -> Idle
//
// Validating is synchronous. The first failing input check (missing link,
// invalid link, missing improvement type) emits a destructive notification and
// returns the form to Idle without entering Running.
//
// # Phases
//
// Running executes the fixed Phases strictly in order. Each phase waits the
// runner's delay, moves progress to its checkpoint (25, 50, 75, 100) and emits a
// "Processing" notification. The next phase's delay starts only after the
// previous notification has been emitted.
//
// When an Enhancer is configured, the request is sent during the phase marked
// Remote, after its delay and before its checkpoint.
//
// # Cancellation
//
// Every wait observes the run's context. A cancelled context, an enhancer error
// or a panic inside a phase ends the run in Failed with a *Failure. Both
// Succeeded and Failed reset the form.
package workflow
