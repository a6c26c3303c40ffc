package utils

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/entities"
	"github.com/mohammedgidrah/testing-hotel-sub000/config"
)

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer mails the accounting desk when a booking's payment has to be
// recorded by hand.
type Mailer struct {
	dialer sender
	from   string
	to     string
}

func NewMailer(cfg *config.Config) *Mailer {
	d := gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password)
	return &Mailer{dialer: d, from: cfg.SMTP.From, to: cfg.SMTP.AccountsTo}
}

func (m *Mailer) NotifyPaymentFollowUp(f entities.PaymentFollowUp) error {
	if err := m.dialer.DialAndSend(m.followUpMessage(f)); err != nil {
		return fmt.Errorf("failed to send follow-up mail: %w", err)
	}
	return nil
}

func (m *Mailer) followUpMessage(f entities.PaymentFollowUp) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", fmt.Sprintf("Payment follow-up #%d for booking %d", f.ID, f.BookingID))

	htmlBody := fmt.Sprintf(`
    <h1>Payment needs manual recording</h1>
    <p>Booking <b>%d</b> was created but its payment could not be recorded.</p>
    <ul>
      <li>Guest: %d</li>
      <li>Room: %d</li>
      <li>Amount: %.2f</li>
      <li>Method: %s</li>
      <li>Payment date: %s</li>
      <li>Booked by: %s</li>
    </ul>
    <p>Reason: %s</p>
    `, f.BookingID, f.GuestID, f.RoomID, f.Amount, f.PaymentMethod, f.PaymentDate, f.CreatedBy, f.Reason)

	msg.SetBody("text/html", htmlBody)
	return msg
}
