package logger

import (
	"go.uber.org/zap"
)

// Log is the process logger. It discards everything until Init is called,
// so library code can log unconditionally.
var Log = zap.NewNop()

// Init replaces Log with a console logger. debug lowers the level to Debug.
func Init(debug bool) {
	cfg := zap.NewDevelopmentConfig()
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	Log = log
}
