// Package logger provides the structured logger shared by the store's
// components: pkg/kvs builds one here and hands it to the engine, which
// passes it on to the index and compaction collaborators.
package logger

import "go.uber.org/zap"

// New builds a development-mode sugared logger tagged with the given
// component name. Development mode favors readable console output over
// the JSON encoding a production deployment would want, matching how this
// store is meant to be embedded (a local, single-process CLI or library)
// rather than run as a long-lived service.
func New(name string) *zap.SugaredLogger {
	base, err := zap.NewDevelopment()
	if err != nil {
		// zap.NewDevelopment only fails if the default config can't
		// build its encoder/sink, which doesn't happen with the
		// built-in console encoder and stderr sink used here.
		panic(err)
	}
	return base.Named(name).Sugar()
}

// Nop returns a logger that discards everything, for tests and other
// callers that don't want console noise.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
