package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"tourbook/config"
	"tourbook/models"
	"tourbook/services/telemetry"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitAlertWorker runs the async worker that delivers queued alerts in
// the background. Delivery runs out of process so notification latency
// never touches the booking path.
func InitAlertWorker(logger *zap.Logger) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(telemetry.TypeAlertDispatch, handleAlertTask(logger))

	// Start async worker with retry logic
	go func() {
		log.Println("[AlertWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[AlertWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[AlertWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleAlertTask(logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var alert models.Alert
		if err := json.Unmarshal(task.Payload(), &alert); err != nil {
			logger.Error("alert worker: invalid payload", zap.Error(err))
			return err
		}

		// TODO(ops): deliver to the on-call channel once the webhook URL
		// is provisioned; until then the structured log is the sink.
		logger.Error("ALERT delivered",
			zap.String("kind", alert.Kind),
			zap.String("message", alert.Message),
			zap.Float64("value", alert.Value),
			zap.Time("firedAt", alert.FiredAt),
		)
		return nil
	}
}
