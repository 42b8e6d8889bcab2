// Package logger provides adapters for popular logger libraries to work
// with latchtree's Logger interface.
//
// The adapters let you use your existing logger with latchtree without
// writing boilerplate. Note that the standard library's slog.Logger already
// implements latchtree.Logger directly.
//
// Example with zap:
//
//	import (
//	    "latchtree"
//	    "latchtree/logger"
//	    "go.uber.org/zap"
//	)
//
//	func main() {
//	    zapLogger, _ := zap.NewProduction()
//
//	    tree, err := latchtree.New(4, 4, latchtree.WithLogger(logger.NewZap(zapLogger)))
//	    if err != nil {
//	        panic(err)
//	    }
//	}
//
// Logrus and zerolog adapters follow the same shape: NewLogrus wraps a
// *logrus.Logger, NewZerolog wraps a zerolog.Logger.
package logger
