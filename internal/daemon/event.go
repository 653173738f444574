package daemon

import (
	"github.com/julianstephens/dailyfocus/internal/ipc"
)

type EventKind int

const (
	EventInstalled EventKind = iota
	EventStartup
	EventAlarmFired
	EventNotificationClicked
	EventMessage
)

func (k EventKind) String() string {
	switch k {
	case EventInstalled:
		return "installed"
	case EventStartup:
		return "startup"
	case EventAlarmFired:
		return "alarm"
	case EventNotificationClicked:
		return "click"
	case EventMessage:
		return "message"
	default:
		return "unknown"
	}
}

// Event is everything the background context reacts to. Name holds the alarm
// name or notification id. Reply, when set, receives exactly one response.
type Event struct {
	Kind    EventKind
	Name    string
	Message ipc.Message
	Reply   chan<- ipc.Response
}

func Installed() Event { return Event{Kind: EventInstalled} }

func Startup() Event { return Event{Kind: EventStartup} }

func AlarmFired(name string) Event {
	return Event{Kind: EventAlarmFired, Name: name}
}

func NotificationClicked(id string) Event {
	return Event{Kind: EventNotificationClicked, Name: id}
}
