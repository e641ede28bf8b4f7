package queue

import (
	"fmt"

	"github.com/ezra-kip/farmlink-api/internal/usecase"
	gomail "gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer { return &SMTPMailer{cfg: cfg} }

func (m *SMTPMailer) SendOrderConfirmation(msg usecase.OrderConfirmationMsg) error {
	mail := gomail.NewMessage()
	mail.SetHeader("From", m.cfg.From)
	mail.SetHeader("To", msg.CustomerEmail)
	mail.SetHeader("Subject", "FarmLink Order Confirmation")
	mail.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nYour order (ID #%d) has been received successfully. "+
			"We'll contact you shortly for delivery.\n\nThank you for shopping with FarmLink!",
		msg.CustomerName, msg.OrderID))

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	return d.DialAndSend(mail)
}

var _ Mailer = (*SMTPMailer)(nil)
