package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/dailyfocus/internal/constants"
	"github.com/julianstephens/dailyfocus/internal/models"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int { return m.pid }

func (m *mockProcess) PPid() int { return 0 }

func (m *mockProcess) Executable() string { return m.executable }

func stubConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := userConfigDirFunc
	t.Cleanup(func() { userConfigDirFunc = old })
	userConfigDirFunc = func() (string, error) { return dir, nil }
	return dir
}

func stubProcess(t *testing.T, executable string) {
	t.Helper()
	old := findProcessFunc
	t.Cleanup(func() { findProcessFunc = old })
	findProcessFunc = func(pid int) (ps.Process, error) {
		if executable == "" {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: executable}, nil
	}
}

func TestGetTrayAppConfigDir(t *testing.T) {
	base := stubConfigDir(t)

	want := filepath.Join(base, constants.TrayAppIdentifier)
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != want {
		t.Errorf("expected %s, got %s", want, dir)
	}

	if err := os.MkdirAll(want, 0755); err != nil {
		t.Fatal(err)
	}
	customDir := "/run/user/1000/dailyfocus"
	settingsJSON := fmt.Sprintf(`{"settings": {"lockfile_dir": %q}}`, customDir)
	if err := os.WriteFile(filepath.Join(want, "settings.json"), []byte(settingsJSON), 0644); err != nil {
		t.Fatal(err)
	}

	dir, err = GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != customDir {
		t.Errorf("expected %s, got %s", customDir, dir)
	}
}

func TestFindAndValidateTrayProcess(t *testing.T) {
	lockfilePath := filepath.Join(t.TempDir(), constants.NotifierLockfileName)

	if _, _, err := findAndValidateTrayProcess(lockfilePath); err != ErrTrayNotRunning {
		t.Errorf("missing lockfile: got %v, want ErrTrayNotRunning", err)
	}

	tests := []struct {
		name       string
		content    string
		executable string
		wantErr    string
	}{
		{name: "two parts", content: "8080|12345", executable: "dailyfocus-tray", wantErr: "malformed"},
		{name: "garbage", content: "invalid", executable: "dailyfocus-tray", wantErr: "malformed"},
		{name: "empty secret", content: "8080|12345|", executable: "dailyfocus-tray", wantErr: "secret"},
		{name: "empty port", content: "|12345|s3cret", executable: "dailyfocus-tray", wantErr: "port"},
		{name: "port out of range", content: "99999|12345|s3cret", executable: "dailyfocus-tray", wantErr: "range"},
		{name: "bad pid", content: "8080|abc|s3cret", executable: "dailyfocus-tray", wantErr: "process ID"},
		{name: "process gone", content: "8080|12345|s3cret", executable: "", wantErr: "not running"},
		{name: "wrong executable", content: "8080|12345|s3cret", executable: "firefox", wantErr: "is not dailyfocus-tray"},
		{name: "ok", content: "8080|12345|s3cret\n", executable: "dailyfocus-tray"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubProcess(t, tt.executable)
			if err := os.WriteFile(lockfilePath, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			port, secret, err := findAndValidateTrayProcess(lockfilePath)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if port != "8080" || secret != "s3cret" {
				t.Errorf("got port %q secret %q", port, secret)
			}
		})
	}
}

// fakeTray is a tray webhook that records what it receives.
type fakeTray struct {
	server  *httptest.Server
	shown   []WebhookPayload
	cleared []string
}

func newFakeTray(t *testing.T, secret string) *fakeTray {
	t.Helper()
	ft := &fakeTray{}
	ft.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("X-Dailyfocus-Secret") != secret {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized"))
			return
		}
		if r.Header.Get("X-Request-Id") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		switch r.URL.Path {
		case "/":
			var payload WebhookPayload
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if payload.Text == "fail" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			ft.shown = append(ft.shown, payload)
		case "/clear":
			var payload clearPayload
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			ft.cleared = append(ft.cleared, payload.ID)
		default:
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(ft.server.Close)
	return ft
}

func (ft *fakeTray) port(t *testing.T) string {
	t.Helper()
	u, err := url.Parse(ft.server.URL)
	if err != nil {
		t.Fatal(err)
	}
	return u.Port()
}

func TestSendWebhook(t *testing.T) {
	tray := newFakeTray(t, "test-secret")
	port := tray.port(t)
	client := &http.Client{}

	if err := sendWebhook(client, port, "/", "test-secret", WebhookPayload{ID: "a", Text: "hello"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := sendWebhook(client, port, "/", "", WebhookPayload{Text: "hello"}); err == nil {
		t.Error("expected error for missing secret")
	}
	if err := sendWebhook(client, port, "/", "wrong-secret", WebhookPayload{Text: "hello"}); err == nil {
		t.Error("expected error for wrong secret")
	}
	if err := sendWebhook(client, port, "/", "test-secret", WebhookPayload{Text: "fail"}); err == nil {
		t.Error("expected error for server failure")
	}
	if err := sendWebhook(client, port, "/unknown", "test-secret", clearPayload{ID: "a"}); err == nil {
		t.Error("expected error for unknown path")
	}
}

func TestTrayNotifierCreateAndClear(t *testing.T) {
	base := stubConfigDir(t)
	stubProcess(t, "dailyfocus-tray")
	tray := newFakeTray(t, "s3cret")

	lockDir := filepath.Join(base, constants.TrayAppIdentifier)
	if err := os.MkdirAll(lockDir, 0755); err != nil {
		t.Fatal(err)
	}
	lock := fmt.Sprintf("%s|4242|s3cret", tray.port(t))
	if err := os.WriteFile(filepath.Join(lockDir, constants.NotifierLockfileName), []byte(lock), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Running(); err != nil {
		t.Fatalf("Running() = %v", err)
	}

	n := NewTray()
	notif := models.Notification{Type: "basic", IconURL: "icon.png", Title: "Good morning!", Message: "Set your task"}
	if err := n.Create(constants.NotifMorning, notif); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if err := n.Clear(constants.NotifMorning); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}

	if len(tray.shown) != 1 {
		t.Fatalf("tray received %d notifications, want 1", len(tray.shown))
	}
	got := tray.shown[0]
	if got.ID != constants.NotifMorning || got.Title != "Good morning!" || got.Text != "Set your task" || got.Icon != "icon.png" {
		t.Errorf("payload = %+v", got)
	}
	if n := len(got.ClickCommand); n < 4 || got.ClickCommand[n-1] != constants.NotifMorning {
		t.Errorf("click command = %v", got.ClickCommand)
	}
	if len(tray.cleared) != 1 || tray.cleared[0] != constants.NotifMorning {
		t.Errorf("cleared = %v", tray.cleared)
	}
}

func TestTrayNotifierWithoutTray(t *testing.T) {
	stubConfigDir(t)
	if err := NewTray().Create("x", models.Notification{Title: "t"}); err != ErrTrayNotRunning {
		t.Errorf("Create() = %v, want ErrTrayNotRunning", err)
	}
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLog(&buf)

	if err := n.Create(constants.NotifEvening, models.Notification{Title: "Evening check-in", Message: "Did you complete your task today?"}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if err := n.Create(constants.NotifReminder, models.Notification{Title: "Reminder: Today's Focus", Message: "Write report"}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Evening check-in: Did you complete your task today?") {
		t.Errorf("output = %q", buf.String())
	}

	if err := n.Clear(constants.NotifEvening); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	if got := n.Active(); len(got) != 1 || got[0] != constants.NotifReminder {
		t.Errorf("Active() = %v", got)
	}
}

func TestNew(t *testing.T) {
	if _, err := New(constants.NotifierTray, nil); err != nil {
		t.Errorf("tray: %v", err)
	}
	if n, err := New(constants.NotifierLog, &bytes.Buffer{}); err != nil {
		t.Errorf("log: %v", err)
	} else if _, ok := n.(*LogNotifier); !ok {
		t.Errorf("log backend has type %T", n)
	}
	if _, err := New("desktop", nil); err == nil {
		t.Error("expected error for unknown kind")
	}
}
