// Package notify is the delivery boundary for reminders. The engine decides
// what and when; implementations here only hand the payload to whatever the
// host can display. Delivery is fire-and-forget.
package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"questlog/internal/model"
)

// Reminder is the payload handed to the delivery mechanism. Tag is the
// dedupe key chosen by the scheduler.
type Reminder struct {
	Title              string
	Body               string
	Tag                string
	RequireInteraction bool
}

type Notifier interface {
	// RequestPermission asks the host for delivery permission and reports
	// the resulting state. It never re-prompts once granted.
	RequestPermission(ctx context.Context) (model.Permission, error)
	Permission() model.Permission
	Send(r Reminder) error
}

// ExecNotifier delivers through the platform notification command. Sending
// is best-effort; a missing binary just drops the reminder.
type ExecNotifier struct {
	mu         sync.Mutex
	permission model.Permission
}

func NewExecNotifier() *ExecNotifier {
	return &ExecNotifier{permission: model.PermissionUndetermined}
}

func (n *ExecNotifier) RequestPermission(_ context.Context) (model.Permission, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.permission == model.PermissionGranted {
		return n.permission, nil
	}
	// Desktop notification commands need no OS-level grant; availability
	// of the binary is the effective permission.
	if notifyCommandAvailable() {
		n.permission = model.PermissionGranted
	} else {
		n.permission = model.PermissionDenied
	}
	return n.permission, nil
}

func (n *ExecNotifier) Permission() model.Permission {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.permission
}

func (n *ExecNotifier) Send(r Reminder) error {
	if n.Permission() != model.PermissionGranted {
		return nil
	}
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", r.Title, r.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(r.Body), escapeAppleScript(r.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

func notifyCommandAvailable() bool {
	switch runtime.GOOS {
	case "linux":
		_, err := exec.LookPath("notify-send")
		return err == nil
	case "darwin":
		_, err := exec.LookPath("osascript")
		return err == nil
	default:
		return false
	}
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// NoopNotifier drops everything and never grants permission.
type NoopNotifier struct{}

func (NoopNotifier) RequestPermission(context.Context) (model.Permission, error) {
	return model.PermissionDenied, nil
}
func (NoopNotifier) Permission() model.Permission { return model.PermissionDenied }
func (NoopNotifier) Send(Reminder) error          { return nil }

// MemoryNotifier records sends for tests.
type MemoryNotifier struct {
	mu         sync.Mutex
	permission model.Permission
	sent       []Reminder
}

func NewMemoryNotifier(p model.Permission) *MemoryNotifier {
	return &MemoryNotifier{permission: p}
}

func (n *MemoryNotifier) RequestPermission(context.Context) (model.Permission, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.permission == model.PermissionUndetermined {
		n.permission = model.PermissionGranted
	}
	return n.permission, nil
}

func (n *MemoryNotifier) Permission() model.Permission {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.permission
}

func (n *MemoryNotifier) SetPermission(p model.Permission) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.permission = p
}

func (n *MemoryNotifier) Send(r Reminder) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, r)
	return nil
}

func (n *MemoryNotifier) Sent() []Reminder {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Reminder(nil), n.sent...)
}
