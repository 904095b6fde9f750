package main

import (
	"context"
	"os"

	"github.com/agbru/statsdump/internal/app"
)

func main() {
	application := app.New(os.Args, os.Stderr)
	exitCode := application.Run(context.Background(), os.Stdout)
	os.Exit(exitCode)
}
