package scheduler

import (
	"context"
	"fmt"

	"detailing_portal_backend/internal/audit/repository"
	"detailing_portal_backend/platform/config"
	"detailing_portal_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Worker drains the background queue and writes the intake audit trail
// to Postgres.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   *repository.Repository
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		repo:   repository.New(pool),
		log:    log,
	}

	mux.HandleFunc(TaskRecordIntakeEvent, w.handleRecordIntakeEvent)

	return w, nil
}

func (w *Worker) handleRecordIntakeEvent(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseRecordIntakeEventPayload(task)
	if err != nil {
		return err
	}

	sessionID, err := uuid.Parse(payload.SessionID)
	if err != nil {
		return err
	}

	if err := w.repo.RecordEvent(ctx, repository.RecordEventParams{
		SessionID:  sessionID,
		Name:       payload.Name,
		OccurredAt: payload.OccurredAt,
		Body:       payload.Body,
	}); err != nil {
		return err
	}

	w.log.Debug("recorded intake event", "session_id", payload.SessionID, "name", payload.Name)
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
