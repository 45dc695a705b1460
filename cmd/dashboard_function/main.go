// Command dashboard_function runs the aggregator as an AWS Lambda / Netlify
// function. Services are built once per cold start so the token is reused by
// every warm invocation.
package main

import (
	"fmt"
	"os"

	"iol_dashboard/internal/app/provider"
	"iol_dashboard/internal/infrastructure/configloader"
	"iol_dashboard/internal/pkg/logger"
	"iol_dashboard/internal/pkg/utils"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

func main() {
	cfg, err := configloader.Load(utils.GetEnv("CONFIG_PATH", ""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := logger.New(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync() //nolint:errcheck

	svcs, err := provider.NewServices(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize services", zap.Error(err))
	}

	lambda.Start(newFunctionHandler(svcs, zapLogger).Handle)
}
