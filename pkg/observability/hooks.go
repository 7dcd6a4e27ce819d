package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/cadence/pkg/domain"
)

// Logging returns hooks writing one record per lifecycle event. Failed
// events are logged at warn level.
func Logging(logger *slog.Logger) domain.LifecycleHooks {
	log := func(ctx context.Context, err error, msg string, args ...any) {
		if err != nil {
			logger.WarnContext(ctx, msg, append(args, "err", err)...)
			return
		}
		logger.InfoContext(ctx, msg, args...)
	}
	return domain.LifecycleHooks{
		OnRegister: func(ctx context.Context, e *domain.RegisterEvent) {
			log(ctx, e.Error, "register", "id", e.ID, "kind", e.Kind)
		},
		OnCreate: func(ctx context.Context, e *domain.PlayerEvent) {
			log(ctx, e.Error, "create", "id", e.ID, "players", e.Players, "total_time", e.TotalTime)
		},
		OnCommand: func(ctx context.Context, e *domain.CommandEvent) {
			log(ctx, e.Error, "command", "id", e.ID, "command", e.Command)
		},
		OnDestroy: func(ctx context.Context, e *domain.PlayerEvent) {
			log(ctx, e.Error, "destroy", "id", e.ID)
		},
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			log(ctx, e.Error, "transition",
				"trigger", e.Trigger,
				"from", e.FromState,
				"to", e.ToState,
				"matched", e.Matched,
			)
		},
	}
}

// Chain calls every non-nil hook of each set in order.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, s := range sets {
		out.OnRegister = chain(out.OnRegister, s.OnRegister)
		out.OnCreate = chain(out.OnCreate, s.OnCreate)
		out.OnCommand = chain(out.OnCommand, s.OnCommand)
		out.OnDestroy = chain(out.OnDestroy, s.OnDestroy)
		out.OnTransition = chain(out.OnTransition, s.OnTransition)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
