package shell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/fieldrover/internal/command"
	"github.com/specialistvlad/fieldrover/internal/ctxlog"
	"github.com/specialistvlad/fieldrover/internal/geo"
	"github.com/specialistvlad/fieldrover/internal/task"
	"github.com/specialistvlad/fieldrover/internal/world"
)

// ErrNoSuchRow is returned when a command names a field or row that is not
// in the world. Nothing is enqueued.
var ErrNoSuchRow = errors.New("that field or row doesn't exist")

// Help implements command.Handler.
func (s *Shell) Help(_ context.Context, topic string) error {
	if topic == "" {
		topic = "help"
	}
	if usage, ok := command.Usage(topic); ok {
		s.printf("%s\n", usage)
	} else {
		s.printf("%s : unknown command\n", topic)
	}
	s.printCommands()
	return nil
}

// Exit implements command.Handler.
func (s *Shell) Exit(context.Context) error {
	s.printf("Exiting\n")
	s.done = true
	return nil
}

// GotoCharger implements command.Handler.
func (s *Shell) GotoCharger(ctx context.Context) error {
	s.enqueue(ctx, s.opts.Operator.GotoTask("goto charger", s.opts.Charger))
	return nil
}

// GotoRow implements command.Handler.
func (s *Shell) GotoRow(ctx context.Context, field string, row int) error {
	fieldKey, rowKey := world.FieldKey(field), world.RowKey(row)
	destination, err := s.opts.Model.ResolveRow(fieldKey, rowKey)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoSuchRow, err)
	}
	s.enqueue(ctx, s.opts.Operator.GotoTask(fmt.Sprintf("goto %s %s", fieldKey, rowKey), destination))
	return nil
}

// Plant implements command.Handler.
func (s *Shell) Plant(ctx context.Context, crop, field string, row int) error {
	fieldKey, rowKey := world.FieldKey(field), world.RowKey(row)
	if _, err := s.opts.Model.ResolveRow(fieldKey, rowKey); err != nil {
		return fmt.Errorf("%w: %w", ErrNoSuchRow, err)
	}
	s.enqueue(ctx, s.opts.Operator.PlantTask(crop, fieldKey, rowKey))
	return nil
}

func (s *Shell) enqueue(ctx context.Context, t *task.Task) {
	ctxlog.FromContext(ctx).Info("Task enqueued.", "task", t.Name, "task_id", t.ID)
	s.opts.Queue.Enqueue(t)
	s.printf("queued %s\n", t)
}

// Status implements command.Handler.
func (s *Shell) Status(context.Context) error {
	loc := s.opts.Rover.Location()
	var b strings.Builder
	fmt.Fprintf(&b, "location: %s\n", s.describe(loc))
	for _, field := range s.opts.Model.Fields() {
		fmt.Fprintf(&b, "%s\n", field.Name)
		for _, row := range field.Rows {
			crop := row.Crop
			if crop == "" {
				crop = "-"
			}
			fmt.Fprintf(&b, "\t%s\t%v\t%s\n", row.Name, []int(row.Location), crop)
		}
	}
	s.printf("%s", b.String())
	return nil
}

// Tasks implements command.Handler.
func (s *Shell) Tasks(context.Context) error {
	var b strings.Builder
	if current, ok := s.opts.Queue.Current(); ok {
		fmt.Fprintf(&b, "running: %s\n", current)
	} else {
		b.WriteString("running: none\n")
	}
	pending := s.opts.Queue.Pending()
	fmt.Fprintf(&b, "pending: %d\n", len(pending))
	for i, t := range pending {
		fmt.Fprintf(&b, "\t%d. %s\n", i+1, t)
	}
	s.printf("%s", b.String())
	return nil
}

// Where implements command.Handler.
func (s *Shell) Where(context.Context) error {
	loc := s.opts.Rover.Location()
	nearest, ok := s.opts.Places.Nearest(loc)
	if !ok {
		s.printf("location: %s, no known places\n", loc)
		return nil
	}
	s.printf("location: %s, nearest: %s, distance %.1f\n", loc, s.describe(nearest), loc.Distance(nearest))
	return nil
}

func (s *Shell) describe(n geo.Node) string {
	names := s.opts.Places.Names(n)
	if len(names) == 0 {
		return n.String()
	}
	return fmt.Sprintf("%s [%s]", n, strings.Join(names, " "))
}
