package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/redis/go-redis/v9"
)

type JobType string

const (
	JobTypeQuoteRefresh JobType = "quote_refresh"
	JobTypeOverdueSweep JobType = "overdue_sweep"
)

const (
	retryQueue      = "retry_queue"
	deadQueue       = "dead_queue"
	defaultMaxTries = 3
	jobTimeout      = 30 * time.Second
)

type Job struct {
	ID        string                 `json:"id"`
	Type      JobType                `json:"type"`
	Payload   map[string]interface{} `json:"payload"`
	Attempts  int                    `json:"attempts"`
	MaxTries  int                    `json:"max_tries"`
	CreatedAt time.Time              `json:"created_at"`
	ProcessAt time.Time              `json:"process_at"`
}

type JobHandler func(ctx context.Context, job *Job) error

type WorkerConfig struct {
	RedisClient  *redis.Client
	Concurrency  int
	PollInterval time.Duration
	Queues       []string
}

// Worker drains redis-backed job queues. The dashboard service itself is
// synchronous; only the periodic quote refresh and the overdue sweep run
// through here.
type Worker struct {
	client *redis.Client
	queues []string
	poll   time.Duration

	mu       sync.RWMutex
	handlers map[JobType]JobHandler

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWorker(config WorkerConfig) *Worker {
	queues := config.Queues
	if len(queues) == 0 {
		queues = []string{"default"}
	}
	poll := config.PollInterval
	if poll <= 0 {
		poll = 5 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		client:   config.RedisClient,
		queues:   queues,
		poll:     poll,
		handlers: make(map[JobType]JobHandler),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (w *Worker) RegisterHandler(jobType JobType, handler JobHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[jobType] = handler
}

func (w *Worker) Start(concurrency int) {
	log.Printf("worker: starting %d consumers on queues %v", concurrency, w.queues)
	for i := 0; i < concurrency; i++ {
		w.wg.Add(1)
		go w.consume()
	}
}

func (w *Worker) Stop() {
	w.cancel()
	w.wg.Wait()
	log.Println("worker: stopped")
}

func (w *Worker) consume() {
	defer w.wg.Done()

	for w.ctx.Err() == nil {
		if err := w.step(); err != nil {
			log.Printf("worker: %v", err)
			time.Sleep(time.Second)
		}
	}
}

// step blocks on the queues for one poll interval and dispatches at most
// one job.
func (w *Worker) step() error {
	popped, err := w.client.BLPop(w.ctx, w.poll, w.queues...).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return nil
	case w.ctx.Err() != nil:
		return nil
	case err != nil:
		return fmt.Errorf("pop job: %w", err)
	}
	if len(popped) < 2 {
		return fmt.Errorf("malformed BLPop reply: %v", popped)
	}

	var job Job
	if err := json.Unmarshal([]byte(popped[1]), &job); err != nil {
		return fmt.Errorf("decode job: %w", err)
	}

	// Not due yet (a delayed retry): put it back where it came from.
	if time.Now().Before(job.ProcessAt) {
		return w.push(popped[0], &job)
	}
	return w.dispatch(&job)
}

func (w *Worker) dispatch(job *Job) error {
	w.mu.RLock()
	handler, ok := w.handlers[job.Type]
	w.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no handler for job type %q", job.Type)
	}

	ctx, cancel := context.WithTimeout(w.ctx, jobTimeout)
	defer cancel()

	err := handler(ctx, job)
	if err == nil {
		return nil
	}

	job.Attempts++
	if job.Attempts < job.MaxTries {
		log.Printf("worker: job %s attempt %d/%d failed, scheduling retry: %v",
			job.ID, job.Attempts, job.MaxTries, err)
		// Exponential backoff keyed on the attempt count.
		job.ProcessAt = time.Now().Add(time.Duration(1<<job.Attempts) * time.Minute)
		return w.push(retryQueue, job)
	}

	log.Printf("worker: job %s exhausted %d attempts: %v", job.ID, job.Attempts, err)
	return w.park(job, err)
}

func (w *Worker) push(queue string, job *Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	return w.client.RPush(w.ctx, queue, data).Err()
}

func (w *Worker) park(job *Job, cause error) error {
	data, err := json.Marshal(map[string]interface{}{
		"original_job": job,
		"error":        cause.Error(),
		"failed_at":    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("encode dead job: %w", err)
	}
	return w.client.RPush(w.ctx, deadQueue, data).Err()
}

// JobQueue is the producer side.
type JobQueue struct {
	client *redis.Client
}

func NewJobQueue(client *redis.Client) *JobQueue {
	return &JobQueue{client: client}
}

func (q *JobQueue) Enqueue(queue string, jobType JobType, payload map[string]interface{}) error {
	id, err := uuid.NewV4()
	if err != nil {
		return err
	}

	now := time.Now()
	data, err := json.Marshal(&Job{
		ID:        id.String(),
		Type:      jobType,
		Payload:   payload,
		MaxTries:  defaultMaxTries,
		CreatedAt: now,
		ProcessAt: now,
	})
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return q.client.RPush(ctx, queue, data).Err()
}

func (q *JobQueue) GetQueueSize(queue string) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return q.client.LLen(ctx, queue).Result()
}
