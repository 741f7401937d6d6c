package main

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var log *zap.SugaredLogger = zap.NewNop().Sugar()

// setupLogging builds the shared SugaredLogger: console output plus a
// rolling file under logs/. When debug is false the file core still keeps
// debug lines but the console only shows info and above.
func setupLogging(debug bool) {
	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		MessageKey:   "msg",
		CallerKey:    "caller",
		LineEnding:   zapcore.DefaultLineEnding,
		EncodeLevel:  zapcore.CapitalLevelEncoder,
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}
	enc := zapcore.NewConsoleEncoder(encCfg)

	consoleLevel := zapcore.InfoLevel
	if debug {
		consoleLevel = zapcore.DebugLevel
	}
	cores := []zapcore.Core{
		zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), consoleLevel),
	}

	lj := &lumberjack.Logger{
		Filename:   filepath.Join("logs", "client.log"),
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
	}
	cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(lj), zapcore.DebugLevel))

	log = zap.New(zapcore.NewTee(cores...), zap.AddCaller()).Sugar()
}

// syncLogging flushes any buffered log output; called on shutdown.
func syncLogging() {
	_ = log.Sync()
}

func logError(format string, v ...interface{}) { log.Errorf(format, v...) }
func logWarn(format string, v ...interface{})  { log.Warnf(format, v...) }
func logDebug(format string, v ...interface{}) { log.Debugf(format, v...) }
