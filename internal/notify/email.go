// Package notify delivers NEW-verdict alerts over SMTP as multipart
// plain/HTML messages.
package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/edgarwatch/edgarwatch/internal/model"
)

const excerptLimit = 800

// Mailer sends alert emails through an SMTPS endpoint (implicit TLS, the
// Gmail port-465 scheme). Without credentials it degrades to a no-op so the
// monitor runs alert-less rather than failing.
type Mailer struct {
	host       string
	port       int
	user       string
	password   string
	recipients []string

	// send is swapped out in tests.
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer creates a Mailer from email config.
func NewMailer(cfg model.EmailConfig) *Mailer {
	m := &Mailer{
		host:       cfg.SMTPHost,
		port:       cfg.SMTPPort,
		user:       cfg.User,
		password:   cfg.Password,
		recipients: cfg.Recipients,
	}
	m.send = m.sendTLS
	return m
}

// Enabled reports whether credentials and recipients are configured.
func (m *Mailer) Enabled() bool {
	return m.user != "" && m.password != "" && len(m.recipients) > 0
}

// Notify sends one alert email. Implements classify.Notifier.
func (m *Mailer) Notify(ctx context.Context, alert model.Alert) error {
	if !m.Enabled() {
		fmt.Println("  [email] skipping, no credentials configured")
		return nil
	}

	msg, err := m.buildMessage(alert)
	if err != nil {
		return fmt.Errorf("build alert message: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	if err := m.send(addr, auth, m.user, m.recipients, msg); err != nil {
		return fmt.Errorf("send alert email: %w", err)
	}
	fmt.Printf("  [email] sent alert to %d recipient(s)\n", len(m.recipients))
	return nil
}

// buildMessage assembles the multipart/alternative message body.
func (m *Mailer) buildMessage(alert model.Alert) ([]byte, error) {
	var buf strings.Builder
	mw := multipart.NewWriter(&buf)

	excerpt := alert.Excerpt
	if len(excerpt) > excerptLimit {
		excerpt = excerpt[:excerptLimit]
	}
	filed := ""
	if !alert.FiledAt.IsZero() {
		filed = alert.FiledAt.Format("2006-01-02")
	}

	subject := fmt.Sprintf("%s Alert: %s (%s) - %s", categoryTitle(alert.Category), alert.Company, alert.Ticker, alert.Form)
	buf.WriteString("From: " + m.user + "\r\n")
	buf.WriteString("To: " + strings.Join(m.recipients, ", ") + "\r\n")
	buf.WriteString("Subject: " + subject + "\r\n")
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: multipart/alternative; boundary=" + mw.Boundary() + "\r\n")
	buf.WriteString("\r\n")

	plain, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/plain; charset=utf-8"}})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(plain, `%s Disclosure Detected

Company: %s (%s)
Filing Type: %s
Filing Date: %s
SEC Filing: %s

Excerpt:
%s

---
This is an automated alert from edgarwatch
`, categoryTitle(alert.Category), alert.Company, alert.Ticker, alert.Form, filed, alert.SourceURL, excerpt)

	html, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/html; charset=utf-8"}})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(html, `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6;">
  <div style="background-color: #d32f2f; color: white; padding: 15px;">
    <h2>%s Disclosure Detected</h2>
  </div>
  <div style="padding: 20px;">
    <div><b>Company:</b> %s (%s)</div>
    <div><b>Filing Type:</b> %s</div>
    <div><b>Filing Date:</b> %s</div>
    <div><b>SEC Filing:</b> <a href="%s">%s</a></div>
    <div style="background-color: #f5f5f5; padding: 15px; border-left: 4px solid #d32f2f; margin: 15px 0;">
      <b>Excerpt:</b><br>%s
    </div>
    <div style="color: #666; font-size: 12px; margin-top: 20px;">
      This is an automated alert from edgarwatch<br>Generated at %s
    </div>
  </div>
</body>
</html>`, categoryTitle(alert.Category), alert.Company, alert.Ticker, alert.Form, filed,
		alert.SourceURL, alert.SourceURL,
		strings.ReplaceAll(excerpt, "\n", "<br>"),
		time.Now().UTC().Format("2006-01-02 15:04:05 UTC"))

	if err := mw.Close(); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

// sendTLS delivers over implicit TLS. Port 465 endpoints expect the TLS
// handshake before any SMTP traffic, so smtp.SendMail (STARTTLS) won't do.
func (m *Mailer) sendTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("parse smtp address: %w", err)
	}

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(strings.TrimSpace(rcpt)); err != nil {
			return fmt.Errorf("smtp rcpt %s: %w", rcpt, err)
		}
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish message: %w", err)
	}
	return client.Quit()
}

func categoryTitle(category string) string {
	switch category {
	case "cyber":
		return "Nation-State Cyber Incident"
	default:
		return "Export Restriction"
	}
}
