package digest

import (
	"context"
	"fmt"
	"time"

	"gaming-sentiment-tracker/internal/ingestor/repository"
	"gaming-sentiment-tracker/pkg/logger"
	"gaming-sentiment-tracker/pkg/telegram"

	"github.com/robfig/cron/v3"
)

const digestWindow = 24 * time.Hour

// Digest periodically summarizes the trailing day of mentions and
// reports it to the log and, when configured, to Telegram.
type Digest struct {
	cron     *cron.Cron
	repo     repository.MentionRepository
	notifier telegram.Notifier
	logger   *logger.Logger
}

// New schedules the digest job with the given cron expression. The
// notifier may be nil, in which case summaries are only logged.
func New(spec string, repo repository.MentionRepository, notifier telegram.Notifier, log *logger.Logger) (*Digest, error) {
	d := &Digest{
		cron:     cron.New(),
		repo:     repo,
		notifier: notifier,
		logger:   log,
	}
	if _, err := d.cron.AddFunc(spec, d.run); err != nil {
		return nil, fmt.Errorf("invalid digest cron expression %q: %w", spec, err)
	}
	return d, nil
}

// Start begins the cron scheduler.
func (d *Digest) Start() {
	d.cron.Start()
}

// Stop halts the scheduler, waiting for a running job to finish.
func (d *Digest) Stop() {
	ctx := d.cron.Stop()
	<-ctx.Done()
}

func (d *Digest) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	since := time.Now().Add(-digestWindow).Unix()

	count, err := d.repo.CountSince(ctx, since)
	if err != nil {
		d.logger.Error("Digest: failed to count mentions", logger.ErrorField(err))
		return
	}

	topEntity, err := d.repo.TopEntitySince(ctx, since)
	if err != nil {
		d.logger.Error("Digest: failed to find top entity", logger.ErrorField(err))
		return
	}
	if topEntity == "" {
		topEntity = "n/a"
	}

	d.logger.Info("Daily mention digest",
		logger.IntField("mentions_24h", int(count)),
		logger.StringField("top_entity", topEntity))

	if d.notifier == nil {
		return
	}
	msg := fmt.Sprintf("📊 *Daily digest*\nMentions (24h): %d\nTop entity: %s", count, topEntity)
	if err := d.notifier.SendMessage(msg); err != nil {
		d.logger.Error("Digest: failed to send Telegram summary", logger.ErrorField(err))
	}
}
