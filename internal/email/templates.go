package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

type appointmentReminderEmailData struct {
	baseEmailData
	AssigneeName    string
	LeadName        string
	LeadPhone       string
	AppointmentDate string
	Observation     string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func renderAppointmentReminder(reminder AppointmentReminder) (subject, body string, err error) {
	body, err = renderEmailTemplate("appointment_reminder.html", appointmentReminderEmailData{
		baseEmailData: baseEmailData{
			Title:      "Lembrete de agendamento",
			Heading:    "Você tem um agendamento hoje",
			Subheading: reminder.LeadName,
			CTALabel:   "Abrir conversa no WhatsApp",
			CTAURL:     reminder.WhatsAppURL,
		},
		AssigneeName:    reminder.AssigneeName,
		LeadName:        reminder.LeadName,
		LeadPhone:       reminder.LeadPhone,
		AppointmentDate: reminder.AppointmentDate,
		Observation:     reminder.Observation,
	})
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf(subjectAppointmentReminderFmt, reminder.LeadName, reminder.AppointmentDate), body, nil
}
