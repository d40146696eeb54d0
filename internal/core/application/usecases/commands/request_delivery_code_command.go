package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrRequestDeliveryCodeCommandIsNotConstructed = errors.New(
	"RequestDeliveryCodeCommand must be created via NewRequestDeliveryCodeCommand constructor",
)

// RequestDeliveryCodeCommand represents a courier asking to start delivery
// confirmation for their current assignment.
type RequestDeliveryCodeCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRequestDeliveryCodeCommand creates a code-request command.
func NewRequestDeliveryCodeCommand(courierID kernel.UUID) (RequestDeliveryCodeCommand, error) {
	cmd := RequestDeliveryCodeCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setCourierID(courierID); err != nil {
		return RequestDeliveryCodeCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RequestDeliveryCodeCommand) Validate() error {
	return c.guard.Validate(ErrRequestDeliveryCodeCommandIsNotConstructed)
}

// CourierID returns the courier requesting the code.
func (c RequestDeliveryCodeCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c *RequestDeliveryCodeCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}
