package sm2

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	nopLogger = zap.NewNop()
	logger    atomic.Pointer[zap.Logger]
)

// SetLogger installs l as the package logger. Entries are emitted at debug
// level under the "sm2" name and never carry key material. A nil logger
// restores the default no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		logger.Store(nopLogger)
		return
	}
	logger.Store(l.Named("sm2"))
}

func log() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return nopLogger
}
