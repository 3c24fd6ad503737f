// Package main implements the AWS Lambda entry point for the sapinvoices-ui web app.
// Requests arrive from the application load balancer and are served by the same
// router used by the local server.
package main

import (
	"context"
	"os"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/app"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/config"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/logger"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/providers/aws/lambdaapi"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	cfg := config.MustLoad()
	log := logger.Initialize(constants.Production, cfg.GetLogLevel())
	ctx, cancel := context.WithTimeout(context.Background(), cfg.InitTimeout)

	a, err := app.Initialize(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}

	log.With("version", *constants.GetVersion()).Debug("starting web app Lambda handler")
	lambda.Start(lambdaapi.NewHandler(a.Handler(), log))
}
