// Command bd is a thin CLI front end over internal/service: it parses
// flags, opens the configured store, drives one Service call per
// invocation, and renders the result as the stable JSON schema of
// spec.md §6 — no ASCII tables, no colored output, no shell completion.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/steveyegge/beads/internal/config"
	"github.com/steveyegge/beads/internal/service"
	"github.com/steveyegge/beads/internal/storage"
	"github.com/steveyegge/beads/internal/storage/sqlite"
)

var (
	dbPath     string
	actor      string
	jsonOutput bool

	store storage.Store
	svc   *service.Service

	rootCtx    context.Context
	rootCancel context.CancelFunc
)

var rootCmd = &cobra.Command{
	Use:   "bd",
	Short: "bd is a dependency-aware issue tracker for autonomous agents",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "init" {
			return nil
		}
		return openStore(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			store.Close()
		}
	},
}

func init() {
	if err := config.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize config: %v\n", err)
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (default: "+config.DBPath()+")")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "", "Actor name for audit trail (default: $BD_ACTOR)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", true, "Output in JSON format")
}

// openStore opens the configured sqlite store and builds the Service
// every subcommand drives, honoring BD_DB_PATH, BD_LOCK_TIMEOUT, BD_ACTOR
// and BD_NOW per spec.md's environment section.
func openStore(ctx context.Context) error {
	path := dbPath
	if path == "" {
		path = config.DBPath()
	}
	s, err := sqlite.Open(ctx, path, config.LockTimeout())
	if err != nil {
		exitWithErr(err)
	}
	store = s

	resolvedActor := actor
	if resolvedActor == "" {
		resolvedActor = config.Actor()
	}

	opts := []service.Option{service.WithActor(resolvedActor)}
	if now, ok := config.Now(); ok {
		opts = append(opts, service.WithClock(service.FixedClock{At: now}))
	}
	svc = service.New(store, opts...)
	return nil
}

func main() {
	rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer rootCancel()

	if err := rootCmd.ExecuteContext(rootCtx); err != nil {
		exitWithErr(err)
	}
}
