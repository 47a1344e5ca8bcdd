package rover

import (
	"context"
	"fmt"
	"io"

	"github.com/specialistvlad/fieldrover/internal/ctxlog"
	"github.com/specialistvlad/fieldrover/internal/geo"
	"github.com/specialistvlad/fieldrover/internal/task"
	"github.com/specialistvlad/fieldrover/internal/world"
)

// Traveler moves the rover along the shortest route. *pathfinder.Traveler
// satisfies it.
type Traveler interface {
	Goto(ctx context.Context, destination geo.Node) error
}

// Operator builds the task bodies behind the goto and plant commands.
type Operator struct {
	travel Traveler
	model  *world.Model
	store  world.Store
	out    io.Writer
}

// NewOperator returns an Operator. out receives the operator-facing result
// lines and must be safe for concurrent use.
func NewOperator(travel Traveler, model *world.Model, store world.Store, out io.Writer) *Operator {
	return &Operator{travel: travel, model: model, store: store, out: out}
}

// GotoTask returns a task that drives the rover to destination.
func (o *Operator) GotoTask(name string, destination geo.Node) *task.Task {
	return task.New(name, func(ctx context.Context) error {
		return o.travel.Goto(ctx, destination)
	})
}

// PlantTask returns a task that drives the rover to a row, records crop as
// planted there and saves the world. field and row are world keys
// ("field-a", "row-04"). The row is resolved again when the task runs.
func (o *Operator) PlantTask(crop, field, row string) *task.Task {
	name := fmt.Sprintf("plant %s in %s %s", crop, field, row)
	return task.New(name, func(ctx context.Context) error {
		return o.plant(ctx, crop, field, row)
	})
}

func (o *Operator) plant(ctx context.Context, crop, field, row string) error {
	logger := ctxlog.FromContext(ctx).With("crop", crop, "field", field, "row", row)

	destination, err := o.model.ResolveRow(field, row)
	if err != nil {
		return err
	}
	if err := o.travel.Goto(ctx, destination); err != nil {
		return err
	}
	if err := o.model.SetCrop(field, row, crop); err != nil {
		return err
	}
	logger.Debug("Crop recorded, saving world.")

	if err := o.store.Save(ctx, o.model.Snapshot()); err != nil {
		return fmt.Errorf("failed to save world after planting: %w", err)
	}
	fmt.Fprintf(o.out, "successfully planted %s in %s %s\n", crop, field, row)
	return nil
}
