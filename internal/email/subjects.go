package email

const (
	subjectAppointmentReminderFmt = "Lembrete: agendamento com %s em %s"
)
