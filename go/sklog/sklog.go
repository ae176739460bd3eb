// Package sklog defines the logging functions (e.g. Info, Errorf, etc.)
// used throughout this repo. All output goes to stderr.
package sklog

import (
	"os"

	logger "github.com/jcgregorio/logger"
)

var log = logger.NewFromOptions(&logger.Options{
	SyncWriter:   os.Stderr,
	DepthDelta:   2,
	IncludeDebug: true,
})

// Functions to log at various levels. Debug, Info, Warning, Error, and
// Fatal use fmt.Sprint to format the arguments; functions ending in f
// use fmt.Sprintf.

func Debug(msg ...interface{}) {
	log.Debug(msg...)
}

func Debugf(format string, v ...interface{}) {
	log.Debugf(format, v...)
}

func Info(msg ...interface{}) {
	log.Info(msg...)
}

func Infof(format string, v ...interface{}) {
	log.Infof(format, v...)
}

func Warning(msg ...interface{}) {
	log.Warning(msg...)
}

func Warningf(format string, v ...interface{}) {
	log.Warningf(format, v...)
}

func Error(msg ...interface{}) {
	log.Error(msg...)
}

func Errorf(format string, v ...interface{}) {
	log.Errorf(format, v...)
}

// Fatal* exits the program after logging.

func Fatal(msg ...interface{}) {
	log.Fatal(msg...)
}

func Fatalf(format string, v ...interface{}) {
	log.Fatalf(format, v...)
}
