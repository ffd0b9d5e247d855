package mailer

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"time"

	"gopkg.in/gomail.v2"
)

// OTPSender generates a one-time code, delivers it to the address and hands
// the code back to the caller for persistence. The sender itself keeps no
// state.
type OTPSender interface {
	SendOTP(email string) (string, error)
}

type SMTPSender struct {
	host     string
	port     int
	user     string
	password string
	from     string
	otpTTL   time.Duration
}

func NewSMTPSender(host string, port int, user, password, from string, otpTTL time.Duration) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
		otpTTL:   otpTTL,
	}
}

func (s *SMTPSender) SendOTP(email string) (string, error) {
	code, err := generateOTP(6)
	if err != nil {
		return "", err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your verification code")
	m.SetBody("text/plain", fmt.Sprintf(
		"Your one-time code is %s. It expires in %d minute(s).",
		code, int(s.otpTTL.Minutes()),
	))

	d := gomail.NewDialer(s.host, s.port, s.user, s.password)
	if err := d.DialAndSend(m); err != nil {
		log.Println("[OTP] [ERROR] send failed:", err)
		return "", err
	}

	log.Println("[OTP] [INFO] code sent to:", email)
	return code, nil
}

func generateOTP(digits int) (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
