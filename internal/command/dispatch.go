package command

import (
	"context"
	"fmt"
)

// Handler executes parsed commands. Every Kind maps to exactly one method.
type Handler interface {
	Help(ctx context.Context, topic string) error
	Exit(ctx context.Context) error
	GotoCharger(ctx context.Context) error
	GotoRow(ctx context.Context, field string, row int) error
	Plant(ctx context.Context, crop, field string, row int) error
	Status(ctx context.Context) error
	Tasks(ctx context.Context) error
	Where(ctx context.Context) error
}

// Dispatch calls the Handler method for cmd.Kind.
func Dispatch(ctx context.Context, h Handler, cmd Command) error {
	switch cmd.Kind {
	case KindHelp:
		return h.Help(ctx, cmd.Topic)
	case KindExit:
		return h.Exit(ctx)
	case KindGotoCharger:
		return h.GotoCharger(ctx)
	case KindGotoRow:
		return h.GotoRow(ctx, cmd.Field, cmd.Row)
	case KindPlant:
		return h.Plant(ctx, cmd.Crop, cmd.Field, cmd.Row)
	case KindStatus:
		return h.Status(ctx)
	case KindTasks:
		return h.Tasks(ctx)
	case KindWhere:
		return h.Where(ctx)
	default:
		return fmt.Errorf("no handler for %s", cmd.Kind.Name())
	}
}
