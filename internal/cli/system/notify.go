package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/dailyfocus/internal/cli"
	"github.com/julianstephens/dailyfocus/internal/constants"
	"github.com/julianstephens/dailyfocus/internal/models"
	"github.com/julianstephens/dailyfocus/internal/notifier"
)

// NotifyCmd is called by the tray app, which cannot reach the daemon socket
// itself, and is handy for checking a notifier setup.
type NotifyCmd struct {
	Click NotifyClickCmd `cmd:"" help:"Report a notification click to the daemon."`
	Test  NotifyTestCmd  `cmd:"" help:"Show a test notification."`
}

type NotifyClickCmd struct {
	ID string `arg:"" help:"Notification id that was clicked."`
}

func (c *NotifyClickCmd) Run(ctx *cli.Context) error {
	if c.ID == "" {
		return errors.New("notification id is required")
	}
	if err := ctx.Client().Click(ctx.Context(), c.ID); err != nil {
		return fmt.Errorf("failed to report click: %w", err)
	}
	return nil
}

type NotifyTestCmd struct {
	Notifier string `help:"Notifier to test (tray or log). Defaults to the configured one."`
}

var newNotifier = notifier.New

func (c *NotifyTestCmd) Run(ctx *cli.Context) error {
	kind := ctx.Config.Notifier
	if c.Notifier != "" {
		kind = c.Notifier
	}
	n, err := newNotifier(kind, os.Stdout)
	if err != nil {
		return err
	}

	notif := models.Notification{
		Type:    constants.NotificationType,
		IconURL: constants.NotificationIconURL,
		Title:   "Daily Focus",
		Message: "Test notification from dailyfocus",
	}
	if err := n.Create(testNotificationID, notif); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	fmt.Printf("✓ Test notification sent via %s notifier\n", kind)
	return nil
}

const testNotificationID = constants.AppName + "-test"
