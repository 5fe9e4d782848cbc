package infrastructure

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/yourusername/podgrab-go/internal/domain"
	"go.uber.org/zap"
)

// commandRunner executes an external notifier
type commandRunner func(name string, args ...string) error

// NotificationService handles sending desktop notifications
type NotificationService struct {
	config *domain.NotificationConfig
	logger *zap.Logger
	run    commandRunner
}

// NewNotificationService creates a new notification service
func NewNotificationService(config *domain.NotificationConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		config: config,
		logger: logger,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// Send sends a notification
func (n *NotificationService) Send(title, message string) error {
	if !n.config.Enabled {
		n.logger.Debug("Notifications disabled, skipping",
			zap.String("title", title),
			zap.String("message", message))
		return nil
	}

	switch n.config.Method {
	case "osascript":
		return n.sendOSAScript(title, message)
	case "notify-send":
		return n.sendNotifySend(title, message)
	default:
		n.logger.Warn("Unknown notification method", zap.String("method", n.config.Method))
		return nil
	}
}

// exec runs an external notifier
func (n *NotificationService) exec(name string, args ...string) error {
	n.logger.Debug("Running notifier", zap.String("command", commandLine(name, args...)))
	return n.run(name, args...)
}

// sendOSAScript sends notification using macOS osascript
func (n *NotificationService) sendOSAScript(title, message string) error {
	script := fmt.Sprintf(`display notification %q with title %q`, message, title)

	if err := n.exec("osascript", "-e", script); err != nil {
		n.logger.Error("Failed to send notification",
			zap.String("method", "osascript"),
			zap.Error(err))
		return err
	}

	n.logger.Debug("Notification sent",
		zap.String("title", title),
		zap.String("message", message))

	return nil
}

// sendNotifySend sends notification using Linux notify-send
func (n *NotificationService) sendNotifySend(title, message string) error {
	if err := n.exec("notify-send", title, message); err != nil {
		n.logger.Error("Failed to send notification",
			zap.String("method", "notify-send"),
			zap.Error(err))
		return err
	}

	n.logger.Debug("Notification sent",
		zap.String("title", title),
		zap.String("message", message))

	return nil
}

// NotifyRunCompleted sends notification when a download run finishes
func (n *NotificationService) NotifyRunCompleted(summary *domain.RunSummary) {
	if summary == nil {
		return
	}

	title := "Podcast Downloads Completed"
	if summary.HasFailures() {
		title = "Podcast Downloads Finished With Errors"
	}
	message := fmt.Sprintf("%d downloaded, %d skipped, %d failed: %s",
		summary.Succeeded, summary.Skipped, summary.Failed, truncateString(summary.Folder, 40))
	n.Send(title, message)
}

// truncateString truncates a string to at most maxLen runes
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// commandLine renders a command for logs, single-quoting arguments that need it
func commandLine(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	for _, part := range append([]string{name}, args...) {
		parts = append(parts, shellQuote(part))
	}
	return strings.Join(parts, " ")
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"$`\\!*?[](){}|;<>&~#%") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
