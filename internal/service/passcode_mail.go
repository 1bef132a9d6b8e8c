package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

var ErrUnsupportedAddress = errors.New("address can't be delivered to by this sender")

// PasscodeSender delivers a passcode to the address it was issued for
type PasscodeSender interface {
	SendPasscode(ctx context.Context, address, code string, expiresAt time.Time) error
}

// LogSender only writes the passcode to the log. Meant for development
type LogSender struct{}

func (LogSender) SendPasscode(_ context.Context, address, code string, expiresAt time.Time) error {
	zap.L().Info("Passcode issued",
		zap.String("address", address),
		zap.String("code", code),
		zap.Time("expires_at", expiresAt),
	)

	return nil
}

// MailSender sends passcodes over SMTP
type MailSender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (m *MailSender) SendPasscode(_ context.Context, address, code string, expiresAt time.Time) error {
	if !strings.Contains(address, "@") {
		return ErrUnsupportedAddress
	}

	if address == m.From {
		return errors.New("invalid email address")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", address)
	msg.SetHeader("Subject", "Your gamedash sign in code")
	msg.SetBody("text/html", fmt.Sprintf(
		"Your sign in code is <b>%s</b>.<br><br>It expires in %d minutes. If you didn't ask for it you can ignore this email.",
		code, int(time.Until(expiresAt).Round(time.Minute).Minutes()),
	))

	d := gomail.NewDialer(m.Host, m.Port, m.Username, m.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send passcode mail, %w", err)
	}

	return nil
}

// RoutedSender picks a sender based on the kind of address. There's no SMS
// gateway yet so phone numbers usually go to a LogSender
type RoutedSender struct {
	Email PasscodeSender
	Phone PasscodeSender
}

func (r RoutedSender) SendPasscode(ctx context.Context, address, code string, expiresAt time.Time) error {
	s := r.Phone
	if strings.Contains(address, "@") {
		s = r.Email
	}

	if s == nil {
		return ErrUnsupportedAddress
	}

	return s.SendPasscode(ctx, address, code, expiresAt)
}
