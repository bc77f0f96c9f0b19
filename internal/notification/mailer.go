package notification

import (
	"fmt"

	"hrcore/internal/events"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Mailer interface {
	SendLeaveNotification(event events.LeaveNotificationEvent) error
	SendEmployeeInvite(event events.EmployeeInvitedEvent) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

func NewSMTPMailer(host string, port int, username, password, from string, logger ...*zap.Logger) Mailer {
	l := zap.L().Named("notification.mailer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.mailer")
	}
	return &smtpMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		logger: l,
	}
}

func (m *smtpMailer) SendLeaveNotification(event events.LeaveNotificationEvent) error {
	var to, subject, body string

	switch event.EventType {
	case events.LeaveEventRequested:
		to = event.ManagerEmail
		subject = fmt.Sprintf("[%s] Leave request from %s", event.TenantName, event.EmployeeName)
		body = fmt.Sprintf(
			"Hello %s,\n\n"+
				"%s has requested %d day(s) of %s leave, from %s to %s.\n\n"+
				"Description: %s\n\n"+
				"Please review this request.\n\n%s",
			event.ManagerName, event.EmployeeName, event.Duration, event.LeaveTypeName,
			event.StartDate, event.ResumptionDate, event.Description, event.TenantName,
		)
	case events.LeaveEventApproved:
		to = event.EmployeeEmail
		subject = fmt.Sprintf("[%s] Your leave request was approved", event.TenantName)
		body = fmt.Sprintf(
			"Hello %s,\n\n"+
				"Your %s leave from %s (resuming %s) has been approved.\n\n%s",
			event.EmployeeName, event.LeaveTypeName,
			event.StartDate, event.ResumptionDate, event.TenantName,
		)
	case events.LeaveEventRejected:
		to = event.EmployeeEmail
		subject = fmt.Sprintf("[%s] Your leave request was rejected", event.TenantName)
		body = fmt.Sprintf(
			"Hello %s,\n\n"+
				"Your %s leave from %s (resuming %s) has been rejected.\n\n"+
				"Reason: %s\n\n%s",
			event.EmployeeName, event.LeaveTypeName,
			event.StartDate, event.ResumptionDate, event.RejectionReason, event.TenantName,
		)
	default:
		return fmt.Errorf("unknown leave event type %q", event.EventType)
	}

	return m.send(to, subject, body)
}

func (m *smtpMailer) SendEmployeeInvite(event events.EmployeeInvitedEvent) error {
	subject := fmt.Sprintf("Welcome to %s", event.TenantName)
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"An account has been created for you at %s. "+
			"Your administrator will share your login details shortly.\n\n%s",
		event.EmployeeName, event.TenantName, event.TenantName,
	)
	return m.send(event.EmployeeEmail, subject, body)
}

func (m *smtpMailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	m.logger.Info("mail sent",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}
