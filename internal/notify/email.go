package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/user"
	"strings"

	"github.com/repology-tools/outdated-notifier/internal/domain/errors"
	"github.com/repology-tools/outdated-notifier/internal/domain/models"
)

// EmailNotifier hands composed messages to a local sendmail-compatible
// relay. The sender identity is derived from the local user and host.
type EmailNotifier struct {
	recipient    string
	sendmailPath string
	logger       *slog.Logger
}

func NewEmailNotifier(recipient, sendmailPath string, logger *slog.Logger) *EmailNotifier {
	if sendmailPath == "" {
		sendmailPath = "sendmail"
	}

	return &EmailNotifier{
		recipient:    recipient,
		sendmailPath: sendmailPath,
		logger:       logger,
	}
}

// ValidateMailRelay checks at startup that the relay command exists.
// Its absence is a fatal configuration error, not a runtime one.
func ValidateMailRelay(sendmailPath string) error {
	if sendmailPath == "" {
		sendmailPath = "sendmail"
	}

	if _, err := exec.LookPath(sendmailPath); err != nil {
		return &errors.ErrMailRelayUnavailable{Command: sendmailPath, Cause: err}
	}

	return nil
}

func (n *EmailNotifier) Channel() string {
	return "email"
}

func (n *EmailNotifier) Send(ctx context.Context, update *models.Update) error {
	message := n.compose(update)

	cmd := exec.CommandContext(ctx, n.sendmailPath, "-t")
	cmd.Stdin = strings.NewReader(message)

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to send email via %s: %w (output: %s)",
			n.sendmailPath, err, strings.TrimSpace(string(output)))
	}

	n.logger.Info("Email notification sent",
		"recipient", n.recipient,
		"update", update.String(),
	)

	return nil
}

func (n *EmailNotifier) compose(update *models.Update) string {
	var b strings.Builder

	fmt.Fprintf(&b, "From: Repology Updater <%s>\r\n", senderAddress())
	fmt.Fprintf(&b, "To: %s\r\n", n.recipient)
	fmt.Fprintf(&b, "Subject: Outdated package: %s\r\n", update.Summary())
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Details: %s\r\n", update.DetailsURL)

	return b.String()
}

func senderAddress() string {
	username := "nobody"
	if u, err := user.Current(); err == nil {
		username = u.Username
	}

	return username + "@" + hostFQDN()
}

func hostFQDN() string {
	// hostname --fqdn gives the mail-relevant name; plain os.Hostname
	// is the fallback when the flag is unsupported.
	if out, err := exec.Command("hostname", "--fqdn").Output(); err == nil {
		if fqdn := strings.TrimSpace(string(out)); fqdn != "" {
			return fqdn
		}
	}

	hostname, err := os.Hostname()
	if err != nil {
		return "localhost"
	}

	return hostname
}
