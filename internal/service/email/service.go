package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"

	"mantenimiento-equipos/internal/config"
)

type Service interface {
	SendWelcomeEmail(ctx context.Context, toEmail, displayName string) error
	SendReminderDigest(ctx context.Context, toEmail, displayName string, count int) error
}

type service struct {
	client *resend.Client
	cfg    *config.Config
}

func NewService(cfg *config.Config) Service {
	return &service{
		client: resend.NewClient(cfg.ResendAPIKey),
		cfg:    cfg,
	}
}

var digestTmpl = template.Must(template.New("digest").Parse(`
<h2>Hola {{.Name}},</h2>
<p>Tienes {{.Count}} recordatorio(s) nuevo(s) de mantenimiento.</p>
<p><a href="http://{{.Domain}}/dashboard">Ver en el panel</a></p>
`))

var welcomeTmpl = template.Must(template.New("welcome").Parse(`
<h2>Bienvenido, {{.Name}}</h2>
<p>Tu cuenta ha sido creada. Inicia sesión para ver los equipos y su mantenimiento.</p>
<p><a href="http://{{.Domain}}/login">Iniciar sesión</a></p>
`))

func (s *service) sendEmail(toEmail, subject string, tmpl *template.Template, data interface{}) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Mantenimiento de Equipos <%s>", s.cfg.FromEmail),
		To:      []string{toEmail},
		Html:    body.String(),
		Subject: subject,
	}

	_, err := s.client.Emails.Send(params)
	return err
}

func (s *service) SendWelcomeEmail(ctx context.Context, toEmail, displayName string) error {
	data := struct {
		Name   string
		Domain string
	}{displayName, s.cfg.Domain}
	return s.sendEmail(toEmail, "Bienvenido a Mantenimiento de Equipos", welcomeTmpl, data)
}

func (s *service) SendReminderDigest(ctx context.Context, toEmail, displayName string, count int) error {
	data := struct {
		Name   string
		Count  int
		Domain string
	}{displayName, count, s.cfg.Domain}
	return s.sendEmail(toEmail, "Recordatorios de mantenimiento pendientes", digestTmpl, data)
}
