package commands

import (
	"errors"

	"fooddelivery/internal/pkg/guard"
)

var ErrRefreshBroadcastsCommandIsNotConstructed = errors.New(
	"RefreshBroadcastsCommand must be created via NewRefreshBroadcastsCommand constructor",
)

// RefreshBroadcastsCommand triggers re-selection of candidates for delivery
// offers that have been sitting unclaimed. Couriers who have become free
// since the original broadcast get the offer too.
//
// Example:
//
//	cmd := NewRefreshBroadcastsCommand()
//	handler := NewRefreshBroadcastsCommandHandler(uowFactory, couriers, fanoutService, logger)
//
//	// Run periodically from a scheduled job
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("Broadcast refresh failed: %v", err)
//	}
type RefreshBroadcastsCommand struct {
	guard guard.ConstructorGuard
}

// NewRefreshBroadcastsCommand creates a parameterless refresh command.
func NewRefreshBroadcastsCommand() RefreshBroadcastsCommand {
	return RefreshBroadcastsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *RefreshBroadcastsCommand) Validate() error {
	return c.guard.Validate(ErrRefreshBroadcastsCommandIsNotConstructed)
}
