package service

import (
	"context"
	"fmt"
	"html"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"chorechampions/internal/models"
)

// emailSender is the part of the SES client the notifier uses
type emailSender interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// NotificationService e-mails the parent through Amazon SES when a prize is
// redeemed
type NotificationService struct {
	client      emailSender
	fromEmail   string
	fromName    string
	parentEmail string
	enabled     bool
	debug       bool
}

// NewNotificationService creates a new notification service. It is disabled
// when either the sender or the parent address is empty.
func NewNotificationService(ctx context.Context, awsRegion, fromEmail, fromName, parentEmail string, debug bool) (*NotificationService, error) {
	if fromEmail == "" || parentEmail == "" {
		log.Println("Notifications disabled: SES_FROM_EMAIL or PARENT_EMAIL not configured")
		return &NotificationService{debug: debug}, nil
	}

	if debug {
		log.Printf("[DEBUG] Initializing notifications with AWS SES")
		log.Printf("[DEBUG] AWS Region: %s", awsRegion)
		log.Printf("[DEBUG] From: %s <%s>, to: %s", fromName, fromEmail, parentEmail)
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Notifications enabled: from=%s, region=%s", fromEmail, awsRegion)
	return newNotificationService(sesv2.NewFromConfig(cfg), fromEmail, fromName, parentEmail, debug), nil
}

func newNotificationService(client emailSender, fromEmail, fromName, parentEmail string, debug bool) *NotificationService {
	return &NotificationService{
		client:      client,
		fromEmail:   fromEmail,
		fromName:    fromName,
		parentEmail: parentEmail,
		enabled:     true,
		debug:       debug,
	}
}

// IsEnabled returns whether notifications are sent
func (s *NotificationService) IsEnabled() bool {
	return s.enabled
}

// PrizeRedeemed tells the parent which prize a learner just redeemed
func (s *NotificationService) PrizeRedeemed(ctx context.Context, learner models.Learner, prize models.Prize) error {
	if !s.enabled {
		if s.debug {
			log.Printf("[DEBUG] Skipping redemption notice (disabled): %s redeemed %s", learner.Name, prize.Name)
		}
		return nil
	}

	subject := fmt.Sprintf("%s redeemed a prize!", learner.Name)
	textBody := fmt.Sprintf("%s just redeemed \"%s\" for %d points and has %d points left.",
		learner.Name, prize.Name, prize.PointsNeeded, learner.Points)
	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>%s redeemed a prize!</h2>
	<p><strong>%s</strong> for %d points.</p>
	<p>Points left: %d</p>
</body>
</html>`, html.EscapeString(learner.Name), html.EscapeString(prize.Name), prize.PointsNeeded, learner.Points)

	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{s.parentEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", s.parentEmail, err)
	}
	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] Redemption notice sent, message ID: %s", *result.MessageId)
	}
	return nil
}
