// Package shell is the interactive operator prompt. It reads command lines,
// validates them against the world and turns goto and plant commands into
// tasks for the scheduler.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/fieldrover/internal/command"
	"github.com/specialistvlad/fieldrover/internal/ctxlog"
	"github.com/specialistvlad/fieldrover/internal/geo"
	"github.com/specialistvlad/fieldrover/internal/rover"
	"github.com/specialistvlad/fieldrover/internal/task"
	"github.com/specialistvlad/fieldrover/internal/world"
)

// Prompt is printed whenever the shell is ready for a command.
const Prompt = ">> "

// Queue accepts tasks and reports on them. *scheduler.DefaultScheduler
// satisfies it.
type Queue interface {
	Enqueue(t *task.Task)
	Current() (*task.Task, bool)
	Pending() []*task.Task
}

// Places resolves node labels and the closest node to a point. *graph.Graph
// satisfies it.
type Places interface {
	Names(n geo.Node) []string
	Nearest(p geo.Node) (geo.Node, bool)
}

// Locator reports where the rover is. *rover.Rover satisfies it.
type Locator interface {
	Location() geo.Node
}

// Options are the shell's collaborators.
type Options struct {
	Queue    Queue
	Operator *rover.Operator
	Model    *world.Model
	Places   Places
	Rover    Locator
	// Charger is the destination of "goto charger".
	Charger geo.Node
}

// Shell implements command.Handler.
type Shell struct {
	out  io.Writer
	opts Options
	done bool
}

var _ command.Handler = (*Shell)(nil)

// New returns a shell printing to out. out must be safe for concurrent use;
// see SyncWriter.
func New(out io.Writer, opts Options) *Shell {
	return &Shell{out: out, opts: opts}
}

// Run prints the prompt and handles lines from in until in is exhausted, the
// operator types exit, or ctx is cancelled.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	logger := ctxlog.FromContext(ctx)
	// Releases the reader goroutine when Run returns before input ends.
	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-readCtx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	s.Prompt()
	for {
		select {
		case <-ctx.Done():
			logger.Debug("Shell stopped by context.")
			return nil
		case line, ok := <-lines:
			if !ok {
				logger.Debug("Shell input closed.")
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("failed to read command input: %w", err)
					}
				default:
				}
				return nil
			}
			s.handle(ctx, line)
			if s.done {
				return nil
			}
			s.Prompt()
		}
	}
}

func (s *Shell) handle(ctx context.Context, line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	cmd, err := command.Parse(line)
	if err != nil {
		s.printf("%v\n", err)
		if errors.Is(err, command.ErrUnknownCommand) {
			s.printCommands()
		}
		return
	}
	ctxlog.FromContext(ctx).Debug("Command received.", "command", cmd.Kind.Name())
	if err := command.Dispatch(ctx, s, cmd); err != nil {
		s.printf("%v\n", err)
	}
}

// Exited reports whether the operator typed exit.
func (s *Shell) Exited() bool {
	return s.done
}

// Prompt prints the prompt.
func (s *Shell) Prompt() {
	s.printf("%s", Prompt)
}

// OnTaskDone is the scheduler completion hook. It reports failures and
// reprints the prompt.
func (s *Shell) OnTaskDone(t *task.Task, err error) {
	if err != nil {
		s.printf("\ntask %s failed: %v\n", t, err)
	}
	s.Prompt()
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) printCommands() {
	var b strings.Builder
	b.WriteString("\nAvailable commands:\n")
	for _, name := range command.Names() {
		fmt.Fprintf(&b, "\t%s\n", name)
	}
	s.printf("%s", b.String())
}
