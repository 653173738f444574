package notifier

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/julianstephens/dailyfocus/internal/logger"
	"github.com/julianstephens/dailyfocus/internal/models"
)

// LogNotifier prints notifications to a writer. It is used headless and
// when no tray app is installed.
type LogNotifier struct {
	out    io.Writer
	mu     sync.Mutex
	active map[string]models.Notification
}

func NewLog(out io.Writer) *LogNotifier {
	return &LogNotifier{
		out:    out,
		active: make(map[string]models.Notification),
	}
}

func (n *LogNotifier) Create(id string, notif models.Notification) error {
	n.mu.Lock()
	n.active[id] = notif
	n.mu.Unlock()

	logger.Info("Notification shown", "id", id, "title", notif.Title)
	_, err := fmt.Fprintf(n.out, "🔔 %s: %s\n", notif.Title, notif.Message)
	return err
}

func (n *LogNotifier) Clear(id string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.active, id)
	return nil
}

// Active returns the ids of notifications not yet cleared.
func (n *LogNotifier) Active() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	ids := make([]string, 0, len(n.active))
	for id := range n.active {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
