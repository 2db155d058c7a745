package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/zostay/docmail/cmd/docmail/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cmd.Execute(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
