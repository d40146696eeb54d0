package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
	"ConfirmDeliveryCommand must be created via NewConfirmDeliveryCommand constructor",
)

// ConfirmDeliveryCommand represents a courier submitting the customer's
// confirmation code to close out the delivery.
type ConfirmDeliveryCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	code      string

	guard guard.ConstructorGuard
}

// NewConfirmDeliveryCommand creates a confirmation command.
func NewConfirmDeliveryCommand(courierID kernel.UUID, code string) (ConfirmDeliveryCommand, error) {
	cmd := ConfirmDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCourierID(courierID),
		cmd.setCode(code),
	); err != nil {
		return ConfirmDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDeliveryCommandIsNotConstructed)
}

// CourierID returns the courier confirming the delivery.
func (c ConfirmDeliveryCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Code returns the submitted confirmation code.
func (c ConfirmDeliveryCommand) Code() string {
	return c.code
}

func (c *ConfirmDeliveryCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

func (c *ConfirmDeliveryCommand) setCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("delivery code")
	}

	c.code = code
	return nil
}
