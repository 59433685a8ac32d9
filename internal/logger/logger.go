package logger

import (
	"os"

	"go.uber.org/zap"
)

// New builds the process-wide structured logger. Development output unless
// APP_ENV=production.
func New() *zap.SugaredLogger {
	var lg *zap.Logger
	var err error

	if os.Getenv("APP_ENV") == "production" {
		lg, err = zap.NewProduction()
	} else {
		lg, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return lg.Sugar()
}
