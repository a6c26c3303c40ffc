package utils

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"gopkg.in/gomail.v2"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/entities"
	"github.com/mohammedgidrah/testing-hotel-sub000/config"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (s *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m...)
	return nil
}

func TestNotifyPaymentFollowUp(t *testing.T) {
	cfg := &config.Config{}
	cfg.SMTP.Host = "smtp.example.com"
	cfg.SMTP.Port = 587
	cfg.SMTP.From = "frontdesk@example.com"
	cfg.SMTP.AccountsTo = "accounts@example.com"

	m := NewMailer(cfg)
	fake := &fakeSender{}
	m.dialer = fake

	f := entities.PaymentFollowUp{ID: 4, BookingID: 501, GuestID: 7, RoomID: 1, Amount: 242, PaymentMethod: "cash", PaymentDate: "2024-09-15", Reason: "backend down", CreatedBy: "frontdesk"}
	if err := m.NotifyPaymentFollowUp(f); err != nil {
		t.Fatalf("NotifyPaymentFollowUp: %v", err)
	}
	if len(fake.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(fake.sent))
	}

	msg := fake.sent[0]
	if got := msg.GetHeader("To"); len(got) != 1 || got[0] != "accounts@example.com" {
		t.Fatalf("To = %v", got)
	}
	if got := msg.GetHeader("Subject"); len(got) != 1 || got[0] != "Payment follow-up #4 for booking 501" {
		t.Fatalf("Subject = %v", got)
	}

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if !strings.Contains(buf.String(), "242.00") {
		t.Fatalf("body is missing the amount:\n%s", buf.String())
	}
}

func TestNotifyPaymentFollowUpError(t *testing.T) {
	boom := errors.New("connection refused")
	m := &Mailer{dialer: &fakeSender{err: boom}}

	if err := m.NotifyPaymentFollowUp(entities.PaymentFollowUp{ID: 1}); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
