// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The pipeline is deliberately single-threaded: ingestion and retrieval
// are sequences of blocking calls, and ordering is load-bearing because
// vectors are zipped back onto chunks by position.
package services
