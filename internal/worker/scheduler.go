package worker

import (
	"context"
	"log"
	"time"

	"planeteye/backend/internal/quote"
	"planeteye/backend/internal/services"

	"gorm.io/gorm"
)

// Scheduler enqueues the recurring jobs: the hourly motivational-quote
// refresh and the overdue-deadline sweep.
type Scheduler struct {
	queue         *JobQueue
	queueName     string
	quoteInterval time.Duration
	sweepInterval time.Duration
	cancel        context.CancelFunc
}

func NewScheduler(queue *JobQueue, queueName string, quoteInterval, sweepInterval time.Duration) *Scheduler {
	return &Scheduler{
		queue:         queue,
		queueName:     queueName,
		quoteInterval: quoteInterval,
		sweepInterval: sweepInterval,
	}
}

func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	// Fire-and-forget: a failed enqueue only delays the next refresh.
	s.enqueue(JobTypeQuoteRefresh)

	go s.loop(ctx, s.quoteInterval, JobTypeQuoteRefresh)
	go s.loop(ctx, s.sweepInterval, JobTypeOverdueSweep)
}

func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Scheduler) loop(ctx context.Context, interval time.Duration, jobType JobType) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.enqueue(jobType)
		}
	}
}

func (s *Scheduler) enqueue(jobType JobType) {
	if err := s.queue.Enqueue(s.queueName, jobType, nil); err != nil {
		log.Printf("Failed to enqueue %s: %v", jobType, err)
	}
}

// RegisterJobHandlers binds the recurring jobs to their implementations.
func RegisterJobHandlers(w *Worker, db *gorm.DB, tasks services.TaskService, quotes *quote.Service) {
	w.RegisterHandler(JobTypeQuoteRefresh, func(ctx context.Context, job *Job) error {
		// Refresh never errors outward: a failed fetch falls back and the
		// breaker decides when to try upstream again.
		quotes.Refresh(ctx)
		return nil
	})

	w.RegisterHandler(JobTypeOverdueSweep, func(ctx context.Context, job *Job) error {
		marked, err := tasks.MarkOverdue(db.WithContext(ctx), time.Now())
		if err != nil {
			return err
		}
		if marked > 0 {
			log.Printf("Overdue sweep marked %d tasks", marked)
		}
		return nil
	})
}
