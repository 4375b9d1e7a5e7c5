// Package main is the entry point for the gitserve CLI.
package main

import (
	"os"

	"github.com/stacklok/gitserve/cmd/gitserve/app"
	"github.com/stacklok/gitserve/pkg/logger"
)

func main() {
	// Initialize the logger
	logger.Initialize()

	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
