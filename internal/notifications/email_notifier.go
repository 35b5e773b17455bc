package notifications

import (
	"context"
	"errors"
	"fmt"

	appconfig "doefood/backend/pkg/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// EmailNotifier define a interface para um notificador de email.
type EmailNotifier interface {
	SendEmail(ctx context.Context, to, subject, bodyHTML, bodyText string) error
}

// sesAPI é o subconjunto do cliente SES v2 usado aqui.
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESEmailNotifier implementa EmailNotifier usando AWS SES.
type SESEmailNotifier struct {
	client sesAPI
	sender string
	logger *zap.Logger
}

func NewSESEmailNotifier(ctx context.Context, region, sender string, logger *zap.Logger) (*SESEmailNotifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config for SES: %w", err)
	}
	return &SESEmailNotifier{client: sesv2.NewFromConfig(cfg), sender: sender, logger: logger}, nil
}

func (s *SESEmailNotifier) SendEmail(ctx context.Context, to, subject, bodyHTML, bodyText string) error {
	if s.client == nil {
		return errors.New("SES client not initialized")
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(bodyHTML), Charset: aws.String("UTF-8")},
					Text: &types.Content{Data: aws.String(bodyText), Charset: aws.String("UTF-8")},
				},
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		s.logger.Error("Failed to send email via SES", zap.Error(err), zap.String("recipient", to))
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	s.logger.Info("Successfully sent email", zap.String("recipient", to), zap.String("subject", subject))
	return nil
}

type smtpDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPEmailNotifier envia e-mails por SMTP (Ethereal em desenvolvimento).
type SMTPEmailNotifier struct {
	dialer smtpDialer
	from   string
	logger *zap.Logger
}

func NewSMTPEmailNotifier(host string, port int, username, password, from string, logger *zap.Logger) *SMTPEmailNotifier {
	return &SMTPEmailNotifier{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		logger: logger,
	}
}

// SendEmail monta uma mensagem multipart (texto + HTML). O gomail não aceita
// context, então o cancelamento só é checado antes do envio.
func (s *SMTPEmailNotifier) SendEmail(ctx context.Context, to, subject, bodyHTML, bodyText string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", bodyText)
	m.AddAlternative("text/html", bodyHTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("Failed to send email via SMTP", zap.Error(err), zap.String("recipient", to))
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}
	s.logger.Info("Successfully sent email", zap.String("recipient", to), zap.String("subject", subject))
	return nil
}

// logNotifier apenas registra o envio. Usado quando nenhum transporte está configurado.
type logNotifier struct {
	logger *zap.Logger
}

func (l *logNotifier) SendEmail(_ context.Context, to, subject, _, bodyText string) error {
	l.logger.Info("--- SIMULATING EMAIL SEND (Fallback) ---",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", bodyText))
	return nil
}

// NewEmailNotifier escolhe o transporte pelo EMAIL_PROVIDER. Se o transporte
// escolhido não estiver configurado, cai no logNotifier.
func NewEmailNotifier(ctx context.Context, cfg appconfig.AppConfig, logger *zap.Logger) EmailNotifier {
	log := logger.Named("email")

	switch cfg.EmailProvider {
	case "ses":
		sender := cfg.AWSSESEmailSender
		if sender == "" {
			sender = cfg.EmailFrom
		}
		if cfg.AWSRegion == "" || sender == "" {
			log.Warn("AWS SES email service is not configured (missing AWS_REGION or AWS_SES_EMAIL_SENDER). Falling back to log notifier.")
			break
		}
		notifier, err := NewSESEmailNotifier(ctx, cfg.AWSRegion, sender, log)
		if err != nil {
			log.Error("Failed to initialize SES notifier", zap.Error(err))
			break
		}
		log.Info("AWS SES email service initialized.", zap.String("sender", sender), zap.String("region", cfg.AWSRegion))
		return notifier
	case "smtp":
		if cfg.SMTPHost == "" || cfg.SMTPUser == "" {
			log.Warn("SMTP email service is not configured (missing SMTP_HOST or ETHEREAL_USER). Falling back to log notifier.")
			break
		}
		log.Info("SMTP email service initialized.", zap.String("host", cfg.SMTPHost), zap.Int("port", cfg.SMTPPort))
		return NewSMTPEmailNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom, log)
	case "log":
	default:
		log.Warn("Unknown EMAIL_PROVIDER, falling back to log notifier.", zap.String("provider", cfg.EmailProvider))
	}
	return &logNotifier{logger: log}
}
