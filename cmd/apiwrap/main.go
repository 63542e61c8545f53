// Command apiwrap performs one HTTP request from the command line through
// the easy executors, in the spirit of curl:
//
//	apiwrap https://api.example.com/users/42
//	apiwrap -X PUT -d '{"name":"gopher"}' -H 'Content-Type: application/json' https://api.example.com/users/42
//	apiwrap -F name=gopher -F avatar=@gopher.png https://api.example.com/upload
//
// Defaults are read from an optional config file, a .env file and APIWRAP_*
// environment variables; flags win over all of them.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
