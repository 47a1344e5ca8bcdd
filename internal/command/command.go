package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies a command.
type Kind int

const (
	KindHelp Kind = iota
	KindExit
	KindGotoCharger
	KindGotoRow
	KindPlant
	KindStatus
	KindTasks
	KindWhere
)

var (
	// ErrUsage marks a known command with malformed arguments.
	ErrUsage = errors.New("missing required arguments")
	// ErrUnknownCommand marks a line whose first word is not a command.
	ErrUnknownCommand = errors.New("command not found")
)

// Command is a parsed operator command. Only the fields relevant to Kind are
// set.
type Command struct {
	Kind Kind
	// Topic is the optional command name given to help.
	Topic string
	// Crop is the crop given to plant.
	Crop string
	// Field is the field name as typed ("A"), not the world key.
	Field string
	// Row is the row number as typed.
	Row int
}

type entry struct {
	name  string
	usage string
}

// entries lists the commands in the order help prints them.
var entries = []entry{
	{"help", "usage: `help` or `help <command>`\nPrints this help text or <command> help if given"},
	{"exit", "usage: `exit`\nExits the program"},
	{"goto", "usage: `goto <location>` where <location> is 'charger' or a field and row (e.g. `goto field A row 10`)"},
	{"plant", "usage: `plant <crop> in field <field> row <row>`. (e.g. `plant BEETS in field A row 4`)"},
	{"status", "usage: `status`\nPrints the rover location and the crops planted in every field"},
	{"tasks", "usage: `tasks`\nLists the running task and the tasks waiting behind it"},
	{"where", "usage: `where`\nPrints the named location closest to the rover"},
}

// Name returns the command word for k.
func (k Kind) Name() string {
	switch k {
	case KindHelp:
		return "help"
	case KindExit:
		return "exit"
	case KindGotoCharger, KindGotoRow:
		return "goto"
	case KindPlant:
		return "plant"
	case KindStatus:
		return "status"
	case KindTasks:
		return "tasks"
	case KindWhere:
		return "where"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Usage returns the usage text for k.
func (k Kind) Usage() string {
	u, _ := Usage(k.Name())
	return u
}

// Usage returns the usage text of the named command.
func Usage(name string) (string, bool) {
	for _, s := range entries {
		if s.name == name {
			return s.usage, true
		}
	}
	return "", false
}

// Names returns every command word, in help order.
func Names() []string {
	out := make([]string, len(entries))
	for i, s := range entries {
		out[i] = s.name
	}
	return out
}

// Parse turns an input line into a Command.
func Parse(line string) (Command, error) {
	words := strings.Fields(line)
	if len(words) == 0 {
		return Command{}, fmt.Errorf("empty line: %w", ErrUnknownCommand)
	}
	name, args := words[0], words[1:]

	switch name {
	case "help":
		if len(args) > 1 {
			return Command{}, usageError(KindHelp)
		}
		cmd := Command{Kind: KindHelp}
		if len(args) == 1 {
			cmd.Topic = args[0]
		}
		return cmd, nil
	case "exit":
		return noArgs(KindExit, args)
	case "status":
		return noArgs(KindStatus, args)
	case "tasks":
		return noArgs(KindTasks, args)
	case "where":
		return noArgs(KindWhere, args)
	case "goto":
		return parseGoto(args)
	case "plant":
		return parsePlant(args)
	default:
		return Command{}, fmt.Errorf("%s : %w", name, ErrUnknownCommand)
	}
}

// parseGoto accepts "charger" or "field <field> row <row>".
func parseGoto(args []string) (Command, error) {
	if len(args) == 1 && args[0] == "charger" {
		return Command{Kind: KindGotoCharger}, nil
	}
	if len(args) != 4 || args[0] != "field" || args[2] != "row" {
		return Command{}, usageError(KindGotoRow)
	}
	row, err := parseRow(KindGotoRow, args[3])
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: KindGotoRow, Field: args[1], Row: row}, nil
}

// parsePlant accepts "<crop> in field <field> row <row>".
func parsePlant(args []string) (Command, error) {
	if len(args) != 6 || args[1] != "in" || args[2] != "field" || args[4] != "row" {
		return Command{}, usageError(KindPlant)
	}
	row, err := parseRow(KindPlant, args[5])
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: KindPlant, Crop: args[0], Field: args[3], Row: row}, nil
}

func parseRow(k Kind, s string) (int, error) {
	row, err := strconv.Atoi(s)
	if err != nil || row < 0 {
		return 0, fmt.Errorf("%w: row %q is not a number\n%s", ErrUsage, s, k.Usage())
	}
	return row, nil
}

func noArgs(k Kind, args []string) (Command, error) {
	if len(args) > 0 {
		return Command{}, fmt.Errorf("%w: %s takes no arguments\n%s", ErrUsage, k.Name(), k.Usage())
	}
	return Command{Kind: k}, nil
}

func usageError(k Kind) error {
	return fmt.Errorf("%w\n%s", ErrUsage, k.Usage())
}
