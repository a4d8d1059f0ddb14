// Package shell provides the interactive command line for timerctl.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/chzyer/readline"

	"timerdeck/internal/core/model"
	"timerdeck/internal/core/timekeeper"
	"timerdeck/internal/report"
)

// Keeper is the part of the TimeKeeper API the shell drives.
type Keeper interface {
	AddTimer(name string, duration int, category string, halfwayAlert bool) (model.Timer, error)
	DeleteTimer(id string) error
	GetTimer(id string) (model.Timer, error)
	ListAll() []model.Timer
	ListByCategory(category string) []model.Timer
	Categories() []string
	SetHalfwayAlert(id string, enabled bool) error
	Start(id string) error
	Pause(id string) error
	Reset(id string) error
	StartAllInCategory(category string) (int, error)
	PauseAllInCategory(category string) (int, error)
	ResetAllInCategory(category string) (int, error)
	CompletedHistory() []model.CompletedTimerRecord
}

var _ Keeper = (*timekeeper.TimeKeeper)(nil)

// Shell executes timer commands and prints results to out.
type Shell struct {
	keeper Keeper
	now    func() time.Time

	outMu sync.Mutex
	out   io.Writer
	rl    *readline.Instance
}

// New creates a shell writing to out.
func New(keeper Keeper, out io.Writer) *Shell {
	return &Shell{keeper: keeper, out: out, now: time.Now}
}

// NewInteractive creates a shell backed by a readline prompt.
func NewInteractive(keeper Keeper) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "timerdeck> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	shell := New(keeper, rl.Stdout())
	shell.rl = rl
	return shell, nil
}

// Stdout returns a writer that does not clobber the prompt.
func (shell *Shell) Stdout() io.Writer {
	if shell.rl != nil {
		return shell.rl.Stdout()
	}
	return shell.out
}

// Run reads commands until quit, EOF or ctx is done.
func (shell *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	if shell.rl == nil {
		return
	}
	defer shell.rl.Close()

	shell.printHelp()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := shell.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			shell.println("Exiting...")
			cancel()
			return
		}
		if quit := shell.Execute(line); quit {
			cancel()
			return
		}
	}
}

// Watch prints alerts and storage warnings from events until the channel closes.
func (shell *Shell) Watch(events <-chan timekeeper.Event) {
	for event := range events {
		switch event.Type {
		case timekeeper.EventHalfway:
			shell.printf("[halfway] %s (%s) has %s left\n", event.Name, shortID(event.TimerID), model.FormatClock(event.Remaining))
		case timekeeper.EventCompleted:
			shell.printf("[done] %s (%s) finished at %s\n", event.Name, shortID(event.TimerID), event.At.Format("15:04:05"))
		case timekeeper.EventStorageWarning:
			shell.printf("[warning] changes not saved: %s\n", event.Message)
		case timekeeper.EventStorageRecovered:
			shell.println("[storage] changes are being saved again")
		}
	}
}

// Execute runs one command line and reports whether the shell should exit.
func (shell *Shell) Execute(line string) bool {
	parts := strings.Fields(strings.TrimSpace(line))
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		shell.printHelp()
	case "add", "a":
		shell.cmdAdd(args)
	case "list", "ls":
		shell.cmdList(args)
	case "categories", "cats":
		shell.cmdCategories()
	case "start", "pause", "reset", "delete", "rm":
		shell.cmdTimer(cmd, args)
	case "halfway":
		shell.cmdHalfway(args)
	case "startall", "pauseall", "resetall":
		shell.cmdCategory(cmd, args)
	case "history":
		shell.cmdHistory()
	case "export":
		shell.cmdExport(args)
	case "quit", "exit", "q":
		shell.println("Exiting...")
		return true
	default:
		shell.printf("Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (shell *Shell) cmdAdd(args []string) {
	if len(args) < 3 || len(args) > 4 {
		shell.println("Usage: add <name> <seconds|duration> <category> [halfway]")
		return
	}
	seconds, err := model.ParseSeconds(args[1])
	if err != nil {
		shell.printf("Error: %v\n", err)
		return
	}
	halfway := false
	if len(args) == 4 && strings.EqualFold(args[3], "halfway") {
		halfway = true
	} else if len(args) == 4 {
		if halfway, err = parseSwitch(args[3]); err != nil {
			shell.printf("Error: %v\n", err)
			return
		}
	}

	timer, err := shell.keeper.AddTimer(args[0], seconds, args[2], halfway)
	if err != nil {
		shell.printf("Error: %v\n", err)
		return
	}
	shell.printf("Added %s (%s) in %s: %s\n", timer.Name, shortID(timer.ID), timer.Category, model.FormatClock(timer.Duration))
}

func (shell *Shell) cmdList(args []string) {
	timers := shell.keeper.ListAll()
	if len(args) > 0 {
		timers = shell.keeper.ListByCategory(strings.Join(args, " "))
	}
	if len(timers) == 0 {
		shell.println("No timers.")
		return
	}

	shell.outMu.Lock()
	defer shell.outMu.Unlock()
	writer := tabwriter.NewWriter(shell.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tNAME\tCATEGORY\tREMAINING\tSTATUS\tHALFWAY")
	for _, timer := range timers {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s / %s\t%s\t%s\n",
			shortID(timer.ID),
			timer.Name,
			timer.Category,
			model.FormatClock(timer.RemainingTime),
			model.FormatClock(timer.Duration),
			timer.Status,
			onOff(timer.HalfwayAlert),
		)
	}
	_ = writer.Flush()
}

func (shell *Shell) cmdCategories() {
	categories := shell.keeper.Categories()
	if len(categories) == 0 {
		shell.println("No categories.")
		return
	}
	for _, category := range categories {
		timers := shell.keeper.ListByCategory(category)
		running := 0
		for _, timer := range timers {
			if timer.Status == model.StatusRunning {
				running++
			}
		}
		shell.printf("%s: %d timers, %d running\n", category, len(timers), running)
	}
}

func (shell *Shell) cmdTimer(cmd string, args []string) {
	if len(args) != 1 {
		shell.printf("Usage: %s <id>\n", cmd)
		return
	}
	id, err := shell.resolveID(args[0])
	if err != nil {
		shell.printf("Error: %v\n", err)
		return
	}

	switch cmd {
	case "start":
		err = shell.keeper.Start(id)
	case "pause":
		err = shell.keeper.Pause(id)
	case "reset":
		err = shell.keeper.Reset(id)
	case "delete", "rm":
		err = shell.keeper.DeleteTimer(id)
		if err == nil {
			shell.printf("Deleted %s\n", shortID(id))
			return
		}
	}
	if err != nil {
		shell.printf("Error: %v\n", err)
		return
	}
	shell.printTimer(id)
}

func (shell *Shell) cmdHalfway(args []string) {
	if len(args) != 2 {
		shell.println("Usage: halfway <id> on|off")
		return
	}
	enabled, err := parseSwitch(args[1])
	if err != nil {
		shell.printf("Error: %v\n", err)
		return
	}
	id, err := shell.resolveID(args[0])
	if err != nil {
		shell.printf("Error: %v\n", err)
		return
	}
	if err := shell.keeper.SetHalfwayAlert(id, enabled); err != nil {
		shell.printf("Error: %v\n", err)
		return
	}
	shell.printTimer(id)
}

func (shell *Shell) cmdCategory(cmd string, args []string) {
	if len(args) == 0 {
		shell.printf("Usage: %s <category>\n", cmd)
		return
	}
	category := strings.Join(args, " ")

	var (
		changed int
		err     error
		verb    string
	)
	switch cmd {
	case "startall":
		changed, err = shell.keeper.StartAllInCategory(category)
		verb = "Started"
	case "pauseall":
		changed, err = shell.keeper.PauseAllInCategory(category)
		verb = "Paused"
	case "resetall":
		changed, err = shell.keeper.ResetAllInCategory(category)
		verb = "Reset"
	}
	if err != nil {
		shell.printf("Error: %v\n", err)
		return
	}
	shell.printf("%s %d timer(s) in %s\n", verb, changed, category)
}

func (shell *Shell) cmdHistory() {
	history := shell.keeper.CompletedHistory()
	if len(history) == 0 {
		shell.println("No completed timers yet.")
		return
	}
	for i, record := range history {
		shell.printf("%3d. %s  %s\n", i+1, record.CompletionTime.Format("2006-01-02 15:04:05"), record.Name)
	}
}

func (shell *Shell) cmdExport(args []string) {
	if len(args) != 2 {
		shell.println("Usage: export pdf|xlsx <path>")
		return
	}
	format := strings.ToLower(args[0])
	data, err := report.Build(format, shell.keeper.CompletedHistory(), shell.now())
	if err != nil {
		shell.printf("Error: %v\n", err)
		return
	}
	if err := os.WriteFile(args[1], data, 0o644); err != nil {
		shell.printf("Error: write %s: %v\n", args[1], err)
		return
	}
	shell.printf("Wrote %s (%d bytes)\n", args[1], len(data))
}

// resolveID accepts a full id or a unique prefix of one.
func (shell *Shell) resolveID(input string) (string, error) {
	if _, err := shell.keeper.GetTimer(input); err == nil {
		return input, nil
	}
	var matches []string
	for _, timer := range shell.keeper.ListAll() {
		if strings.HasPrefix(timer.ID, input) {
			matches = append(matches, timer.ID)
		}
	}
	switch len(matches) {
	case 0:
		return input, nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id prefix %q matches %d timers", input, len(matches))
	}
}

func (shell *Shell) printTimer(id string) {
	timer, err := shell.keeper.GetTimer(id)
	if err != nil {
		shell.printf("Error: %v\n", err)
		return
	}
	shell.printf("%s (%s): %s, %s left, halfway %s\n",
		timer.Name, shortID(timer.ID), timer.Status, model.FormatClock(timer.RemainingTime), onOff(timer.HalfwayAlert))
}

func (shell *Shell) printHelp() {
	shell.println(`
Timer Commands:
  add <name> <secs|dur> <cat> [halfway]  - Create a paused timer (e.g. add Tea 3m Kitchen halfway)
  list [category]                        - List timers
  categories                             - List categories with counts
  start|pause|reset <id>                 - Control one timer (unique id prefix is enough)
  delete <id>                            - Remove a timer
  halfway <id> on|off                    - Toggle the halfway alert

Category Commands:
  startall|pauseall|resetall <category>  - Control every timer in a category

History:
  history                                - Show completed timers
  export pdf|xlsx <path>                 - Write the history report

  help                                   - Show this help
  quit                                   - Exit`)
}

func (shell *Shell) printf(format string, args ...any) {
	shell.outMu.Lock()
	defer shell.outMu.Unlock()
	fmt.Fprintf(shell.out, format, args...)
}

func (shell *Shell) println(text string) {
	shell.outMu.Lock()
	defer shell.outMu.Unlock()
	fmt.Fprintln(shell.out, text)
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("add"),
		readline.PcItem("list"),
		readline.PcItem("categories"),
		readline.PcItem("start"),
		readline.PcItem("pause"),
		readline.PcItem("reset"),
		readline.PcItem("delete"),
		readline.PcItem("halfway"),
		readline.PcItem("startall"),
		readline.PcItem("pauseall"),
		readline.PcItem("resetall"),
		readline.PcItem("history"),
		readline.PcItem("export", readline.PcItem(report.FormatPDF), readline.PcItem(report.FormatXLSX)),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

func parseSwitch(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", value)
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
