package cli

import (
	"context"
	"fmt"
	"io"
	"time"
)

// settleDelay lets editors finish writing before a changed file is read.
const settleDelay = 100 * time.Millisecond

// Watch registers every definition, then reloads definitions as the loader
// reports changes until ctx is done. Failed reloads keep the previous
// registration and are reported to out.
func (s *Session) Watch(ctx context.Context, out io.Writer) error {
	if _, err := s.Load(ctx); err != nil {
		printSystemMessage(out, "Initial load reported problems:\n%v", err)
	}

	ch, err := s.Engine.Watch(ctx)
	if err != nil {
		return fmt.Errorf("cannot watch: %w", err)
	}
	printSystemMessage(out, "Watching %d definitions. Press Ctrl+C to stop.", len(s.Engine.Definitions()))

	for {
		select {
		case <-ctx.Done():
			return nil
		case id, ok := <-ch:
			if !ok {
				return nil
			}
			s.Logger.Info("Change detected, reloading", "id", id)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(settleDelay):
			}
			if err := s.Engine.Reload(ctx, id); err != nil {
				printSystemMessage(out, "Reload of '%s' failed: %v", id, err)
				continue
			}
			printSystemMessage(out, "Reloaded '%s'.", id)
		}
	}
}
