package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnightlabs/goodnight/internal/common"
)

// Sync runs a manual push-then-pull pass and prints the outcome.
func (a *App) Sync(ctx context.Context) error {
	push, err := a.engine.PushPending(ctx)
	if errors.Is(err, common.ErrSyncInProgress) {
		printlnFn("Sync already running.")
		return nil
	}
	if err != nil {
		return err
	}

	pull, err := a.engine.PullCompleted(ctx)
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Pushed %d, pulled %d, conflicts %d, failed %d.",
		push.Pushed, pull.Pulled, pull.Conflicts, push.Failed+pull.Failed))
	return nil
}

// Backup uploads a JSON snapshot of all local entries to object storage.
func (a *App) Backup(ctx context.Context) error {
	key, err := a.journal.Backup(ctx)
	if err != nil {
		return err
	}
	printlnFn("Backup stored as " + key + ".")
	return nil
}
