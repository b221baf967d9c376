// people-sync-service runs the HRIS directory sync on a schedule, keeping the
// users table current so People-sourced populations reflect the directory.
//
// Usage:
//   DB_USER=... DB_PASSWORD=... HRIS_API_BASE_URL=... HRIS_API_KEY=... go run ./cmd/people-sync-service
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/laikahq/audit_backend/config"
	"github.com/laikahq/audit_backend/peoplesync"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config.ConnectDatabaseWithRetry()
	peoplesync.Run(ctx)
}
