package logging

import (
	"os"

	"go.uber.org/zap"
)

// New builds the process-wide sugared logger. Set LOG_DEBUG=1 for the
// development encoder and debug level.
func New() (*zap.SugaredLogger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if os.Getenv("LOG_DEBUG") != "" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
