// Package procpool runs chunk tasks in a fixed set of isolated worker
// processes.
//
// Workers are copies of the current binary started with TRIPBENCH_WORKER=1.
// The parent writes gob-encoded requests to a worker's stdin and reads one
// response per request from its stdout; workers share no memory with the
// parent or with each other. A worker exits cleanly when its stdin is closed.
//
// Binaries that use a Pool must call ServeIfWorker at the very start of main
// (and test binaries at the start of TestMain) so the re-executed copy turns
// into a worker instead of running the program again.
package procpool
