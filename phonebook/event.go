package phonebook

import (
	"context"
	"fmt"
)

// Command is a user intent on a single contact (or on none, for Create).
type Command int

const (
	Create Command = iota
	Edit
	Delete
	ToggleFavorite
)

func (c Command) String() string {
	switch c {
	case Create:
		return "create"
	case Edit:
		return "edit"
	case Delete:
		return "delete"
	case ToggleFavorite:
		return "toggle-favorite"
	}
	return fmt.Sprintf("command(%d)", int(c))
}

type Event struct {
	Command   Command
	ContactID int64
}

// Dispatch routes a UI event to the matching controller operation.
func (c *Controller) Dispatch(ctx context.Context, e Event) error {
	switch e.Command {
	case Create:
		c.OpenNew()
		return nil
	case Edit:
		return c.OpenEdit(e.ContactID)
	case Delete:
		return c.RequestDelete(e.ContactID)
	case ToggleFavorite:
		return c.ToggleFavorite(ctx, e.ContactID)
	}
	return fmt.Errorf("unknown command %v", e.Command)
}
