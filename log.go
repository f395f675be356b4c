package bson

import "go.uber.org/zap"

var logger = zap.NewNop()

// SetLogger installs l, scoped under the "bson" name, as the logger used to
// report corrupt documents encountered during iteration. The default is a
// no-op logger; passing nil restores it.
func SetLogger(l *zap.Logger) {
	if l == nil {
		logger = zap.NewNop()
		return
	}
	logger = l.Named("bson")
}
