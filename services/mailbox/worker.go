package mailbox

import (
	"context"
	"fmt"
	"log"
	"time"

	"resortagent/config"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeMailboxPoll = "mailbox:poll"

// InitMailboxWorker runs the async worker and the periodic scheduler that
// enqueues a mailbox poll at the configured interval.
func InitMailboxWorker(poller *Poller) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDedupDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			// Polls must not overlap.
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeMailboxPoll, handleMailboxPoll(poller))

	interval := config.AppConfig.MailPollIntervalMin
	if interval <= 0 {
		interval = 2
	}
	scheduler := asynq.NewScheduler(redisOpts, nil)
	if _, err := scheduler.Register(
		fmt.Sprintf("@every %dm", interval),
		asynq.NewTask(TypeMailboxPoll, nil),
		asynq.MaxRetry(0),
	); err != nil {
		log.Fatalf("[MailboxWorker] Failed to register poll schedule: %v", err)
	}

	// Start async worker with retry logic
	go func() {
		log.Println("[MailboxWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[MailboxWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[MailboxWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()

	go func() {
		if err := scheduler.Run(); err != nil {
			log.Printf("[MailboxWorker] Scheduler stopped: %v", err)
		}
	}()
}

func handleMailboxPoll(poller *Poller) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		if err := poller.CheckNewMail(ctx); err != nil {
			poller.Logger.Error("Mailbox poll failed", zap.Error(err))
			return err
		}
		return nil
	}
}
