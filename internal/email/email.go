// Package email delivers operator notifications by mail.
package email

import "context"

// AppointmentReminder is the content of a reminder sent to the operator a
// lead is assigned to.
type AppointmentReminder struct {
	AssigneeName    string
	LeadName        string
	LeadPhone       string
	WhatsAppURL     string
	AppointmentDate string // DD/MM/YYYY
	Observation     string
}

type Sender interface {
	SendAppointmentReminder(ctx context.Context, toEmail string, reminder AppointmentReminder) error
}

type NoopSender struct{}

func (NoopSender) SendAppointmentReminder(ctx context.Context, toEmail string, reminder AppointmentReminder) error {
	return nil
}
