package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

type DesktopSender interface {
	Send(title, body string) error
}

type NoopDesktopSender struct{}

func (NoopDesktopSender) Send(string, string) error { return nil }

type ExecDesktopSender struct{}

func (ExecDesktopSender) Send(title, body string) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", title, body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(body), escapeAppleScript(title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

// ProbeDesktop checks once at startup whether desktop notifications can be
// delivered. Denial is tolerated silently: the caller gets a no-op sender and
// reminders simply never appear on the desktop.
func ProbeDesktop(enabled bool, log *zap.Logger) DesktopSender {
	if log == nil {
		log = zap.NewNop()
	}
	if !enabled {
		return NoopDesktopSender{}
	}
	switch runtime.GOOS {
	case "linux":
		if _, err := exec.LookPath("notify-send"); err != nil {
			log.Info("desktop notifications unavailable", zap.Error(err))
			return NoopDesktopSender{}
		}
	case "darwin":
		if _, err := exec.LookPath("osascript"); err != nil {
			log.Info("desktop notifications unavailable", zap.Error(err))
			return NoopDesktopSender{}
		}
	default:
		return NoopDesktopSender{}
	}
	return ExecDesktopSender{}
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
