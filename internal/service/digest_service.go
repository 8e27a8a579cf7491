package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"scalecoach/internal/models"
)

// DigestService emails a short summary of the previous day's practice via
// Amazon SES. When no sender address is configured the service is created
// disabled and every send becomes a no-op.
type DigestService struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	toEmail   string
	enabled   bool

	practice *PracticeService
	daily    *DailyService
}

// NewDigestService creates a new digest service
func NewDigestService(awsRegion, fromEmail, fromName, toEmail string, practice *PracticeService, daily *DailyService) (*DigestService, error) {
	if fromEmail == "" || toEmail == "" {
		log.Println("Digest service disabled: SES_FROM_EMAIL or DIGEST_TO_EMAIL not configured")
		return &DigestService{enabled: false, practice: practice, daily: daily}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &DigestService{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
		toEmail:   toEmail,
		enabled:   true,
		practice:  practice,
		daily:     daily,
	}, nil
}

// Enabled reports whether sending is configured
func (s *DigestService) Enabled() bool {
	return s.enabled
}

// SendDailyDigest emails the totals for the given calendar day
func (s *DigestService) SendDailyDigest(ctx context.Context, date string) error {
	if !s.enabled {
		return nil
	}

	stats := s.practice.Stats()
	record := s.daily.Get(date)

	seconds := 0
	if record != nil {
		seconds = record.TotalTime
	}

	favorite := "none yet"
	if stats.FavoriteScale != nil {
		favorite = *stats.FavoriteScale
	}

	subject := fmt.Sprintf("Practice digest for %s", date)
	body := fmt.Sprintf(
		"Practice time: %d minutes\nSessions on record: %d\nMost practiced scale: %s\n",
		seconds/60, stats.TotalSessions, favorite,
	)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)),
		Destination: &types.Destination{
			ToAddresses: []string{s.toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send digest email: %w", err)
	}

	log.Printf("Practice digest sent for %s", date)
	return nil
}

// RunScheduler sends the digest for the previous day once per day at the
// configured hour, until the context is cancelled. Intended to run in its
// own goroutine.
func (s *DigestService) RunScheduler(ctx context.Context, hour int) {
	if !s.enabled {
		return
	}

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	var lastSent string
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if now.Hour() != hour {
				continue
			}
			yesterday := now.AddDate(0, 0, -1).Format(models.DateLayout)
			if yesterday == lastSent {
				continue
			}
			if err := s.SendDailyDigest(ctx, yesterday); err != nil {
				log.Printf("Error sending practice digest: %v", err)
				continue
			}
			lastSent = yesterday
		}
	}
}
