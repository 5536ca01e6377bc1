package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"cv-screening/internal/repositories"
)

// Worker dispatches orchestrator invocations asynchronously, one per
// submitted job. Starts are paced by a shared rate limiter to protect
// the upstream model quota, and each invocation carries a hard
// wall-clock timeout.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(evalID uuid.UUID)
}

type worker struct {
	evalRepo         repositories.EvaluationRepository
	evaluatorService EvaluatorService
	jobQueue         chan uuid.UUID
	concurrency      int
	limiter          *rate.Limiter
	jobTimeout       time.Duration
	wg               sync.WaitGroup
	stopChan         chan struct{}
}

func NewWorker(
	evalRepo repositories.EvaluationRepository,
	evaluatorService EvaluatorService,
	concurrency int,
	startsPerMinute int,
	jobTimeout time.Duration,
) Worker {
	return &worker{
		evalRepo:         evalRepo,
		evaluatorService: evaluatorService,
		jobQueue:         make(chan uuid.UUID, 100),
		concurrency:      concurrency,
		limiter:          rate.NewLimiter(rate.Every(time.Minute/time.Duration(startsPerMinute)), 1),
		jobTimeout:       jobTimeout,
		stopChan:         make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	// Re-enqueue jobs still queued (missed enqueues, process restarts).
	// Only queued jobs are picked up, which also guards against
	// re-running completed ones.
	w.wg.Add(1)
	go w.pollPendingJobs(ctx)

	log.Println("✅ Worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Worker stopped")
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(evalID uuid.UUID) {
	select {
	case w.jobQueue <- evalID:
		log.Printf("📥 Job %s enqueued\n", evalID)
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue job %s\n", evalID)
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log.Printf("👷 Worker #%d started processing jobs\n", workerID)

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case evalID := <-w.jobQueue:
			if err := w.limiter.Wait(ctx); err != nil {
				log.Printf("⚠️  Worker #%d rate limiter aborted: %v\n", workerID, err)
				return
			}

			log.Printf("👷 Worker #%d processing job %s\n", workerID, evalID)
			if err := w.runJob(ctx, evalID); err != nil {
				// Repository or not-found failure: the job state could
				// not be recorded, surface it for operational alerting.
				log.Printf("❌ Worker #%d failed to process job %s: %v\n", workerID, evalID, err)
			} else {
				log.Printf("✅ Worker #%d finished job %s\n", workerID, evalID)
			}
		}
	}
}

// runJob invokes the orchestrator under the per-invocation timeout. A
// timeout surfaces inside the pipeline and ends the job as failed, the
// same as any other pipeline error.
func (w *worker) runJob(ctx context.Context, evalID uuid.UUID) error {
	jobCtx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	return w.evaluatorService.EvaluateCandidate(jobCtx, evalID)
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	log.Println("🔄 Starting pending jobs poller")

	for {
		select {
		case <-w.stopChan:
			log.Println("🔄 Pending jobs poller stopped")
			return
		case <-ticker.C:
			pendingJobs, err := w.evalRepo.FindPendingJobs(10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch pending jobs: %v\n", err)
				continue
			}

			if len(pendingJobs) > 0 {
				log.Printf("📋 Found %d pending jobs\n", len(pendingJobs))
			}

			for _, job := range pendingJobs {
				w.EnqueueJob(job.ID)
			}
		}
	}
}
