// Package statsview serves live runtime charts (heap, goroutines, GC) while
// the emulator runs. It is only built with the statsview build tag, other
// builds get a stub that reports it as unavailable.
//
// Charts are served at localhost:12600/debug/statsview and the standard
// pprof endpoints at localhost:12600/debug/pprof/.
package statsview

// Address the stats server listens on.
const Address = "localhost:12600"
