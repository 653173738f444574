package dispatcher

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/julianstephens/dailyfocus/internal/logger"
)

// Opener brings up the main view after a notification click.
type Opener interface {
	Open(ctx context.Context) error
}

// LogOpener only records the click. It is used when no open command is
// configured.
type LogOpener struct{}

func (LogOpener) Open(context.Context) error {
	logger.Info("Notification clicked, no open_command configured")
	return nil
}

// CommandOpener runs a shell command, typically one that launches a
// terminal with "dailyfocus tui".
type CommandOpener struct {
	Command string
}

var execCommand = exec.Command

func (o CommandOpener) Open(ctx context.Context) error {
	if strings.TrimSpace(o.Command) == "" {
		return LogOpener{}.Open(ctx)
	}
	cmd := execCommand("sh", "-c", o.Command)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to run open command: %w", err)
	}
	// Not waited on: the launched viewer outlives the click.
	go func() { _ = cmd.Wait() }()
	return nil
}

// NewOpener picks CommandOpener when command is set.
func NewOpener(command string) Opener {
	if strings.TrimSpace(command) == "" {
		return LogOpener{}
	}
	return CommandOpener{Command: command}
}
