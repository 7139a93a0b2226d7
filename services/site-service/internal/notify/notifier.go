// Package notify emails booking confirmations to clients.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/metrics"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/model"
)

const sendTimeout = 10 * time.Second

// Notifier sends mail in the background so a slow relay never delays the
// booking response. Wait blocks until in-flight sends finish.
type Notifier struct {
	sender Sender
	logger *slog.Logger
	wg     sync.WaitGroup
}

func NewNotifier(sender Sender, logger *slog.Logger) *Notifier {
	if sender == nil {
		sender = NoopSender{}
	}
	return &Notifier{sender: sender, logger: logger}
}

// AppointmentBooked confirms appt to the client. provider may be nil when
// the booking references an unknown provider.
func (n *Notifier) AppointmentBooked(ctx context.Context, appt model.Appointment, provider *model.Provider) {
	if n == nil || appt.ClientEmail == "" {
		return
	}
	subject, body := BookingConfirmation(appt, provider)

	ctx = context.WithoutCancel(ctx)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
		defer cancel()
		if err := n.sender.Send(sendCtx, appt.ClientEmail, subject, body); err != nil {
			metrics.IncEmailSent("error")
			n.logger.Warn("booking confirmation failed", "appointment_id", appt.ID, "err", err)
			return
		}
		metrics.IncEmailSent("ok")
		n.logger.Debug("booking confirmation sent", "appointment_id", appt.ID)
	}()
}

func (n *Notifier) Wait() {
	if n != nil {
		n.wg.Wait()
	}
}

func BookingConfirmation(appt model.Appointment, provider *model.Provider) (subject, body string) {
	with := "your provider"
	if provider != nil && provider.Name != "" {
		with = provider.Name
	}
	subject = "Your appointment request with " + with

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", appt.ClientName)
	fmt.Fprintf(&b, "We received your appointment request with %s", with)
	if provider != nil && provider.Category != "" {
		fmt.Fprintf(&b, " (%s)", provider.Category)
	}
	fmt.Fprintf(&b, " on %s at %s.\n", appt.AppointmentDate, appt.AppointmentTime)
	fmt.Fprintf(&b, "Status: %s\n", appt.Status)
	if appt.Notes != nil && strings.TrimSpace(*appt.Notes) != "" {
		fmt.Fprintf(&b, "Your notes: %s\n", strings.TrimSpace(*appt.Notes))
	}
	fmt.Fprintf(&b, "\nReference: %s\n", appt.ID)
	return subject, b.String()
}
