package logger

import "go.uber.org/zap"

// Log is the process-wide logger. Call Init before use.
var Log *zap.Logger

func Init() {
	if Log != nil {
		return
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		Log = zap.NewNop()
		return
	}
	Log = l
}
