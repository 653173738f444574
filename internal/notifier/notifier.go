package notifier

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/dailyfocus/internal/constants"
	"github.com/julianstephens/dailyfocus/internal/models"
)

// Service is the notification contract the dispatcher depends on. Clicks are
// reported back separately through the daemon's IPC socket.
type Service interface {
	Create(id string, n models.Notification) error
	Clear(id string) error
}

// New returns the backend selected by kind ("tray" or "log").
func New(kind string, out io.Writer) (Service, error) {
	switch kind {
	case constants.NotifierTray:
		return NewTray(), nil
	case constants.NotifierLog, "":
		if out == nil {
			out = os.Stdout
		}
		return NewLog(out), nil
	default:
		return nil, fmt.Errorf("unknown notifier %q", kind)
	}
}
