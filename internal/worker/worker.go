package worker

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"pdfbabel/internal/models"
	"pdfbabel/internal/storage"
)

// JobHandler processes one claimed job and returns the result filename.
// Progress reported through onProgress is persisted by the worker.
type JobHandler func(ctx context.Context, job *models.TranslationJob, onProgress func(progress int)) (string, error)

// Worker runs a bounded pool of goroutines that claim queued jobs from the
// repository and execute the registered handler for the job type. Exactly one
// goroutine owns a claimed job; job-phase errors mark the job failed with the
// error recorded verbatim, without automatic retry.
type Worker struct {
	jobRepo     *storage.JobRepository
	handlers    map[string]JobHandler
	concurrency int
	interval    time.Duration
	stop        chan struct{}
	wg          sync.WaitGroup
	mu          sync.RWMutex

	retention   time.Duration
	cleanupDirs []string
}

// NewWorker creates a worker pool with the given concurrency.
func NewWorker(jobRepo *storage.JobRepository, concurrency int) *Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Worker{
		jobRepo:     jobRepo,
		handlers:    make(map[string]JobHandler),
		concurrency: concurrency,
		interval:    500 * time.Millisecond,
		stop:        make(chan struct{}),
	}
}

// RegisterHandler registers a handler for a job type.
func (w *Worker) RegisterHandler(jobType string, handler JobHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[jobType] = handler
}

// SetInterval sets the polling interval.
func (w *Worker) SetInterval(interval time.Duration) {
	w.interval = interval
}

// EnableCleanup turns on periodic removal of terminal jobs older than
// retention, deleting their files from the given directories first.
func (w *Worker) EnableCleanup(retention time.Duration, dirs ...string) {
	w.retention = retention
	w.cleanupDirs = dirs
}

// Start begins processing jobs.
func (w *Worker) Start(ctx context.Context) {
	for n := 0; n < w.concurrency; n++ {
		w.wg.Add(1)
		go w.run(ctx)
	}
	if w.retention > 0 {
		w.wg.Add(1)
		go w.runJanitor(ctx)
	}
	log.Printf("Worker started (%d workers)", w.concurrency)
}

// Stop gracefully stops the worker and waits for in-flight jobs.
func (w *Worker) Stop() {
	close(w.stop)
	w.wg.Wait()
	log.Println("Worker stopped")
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-ticker.C:
			// Drain the queue before sleeping again
			for w.processNextJob(ctx) {
				select {
				case <-ctx.Done():
					return
				case <-w.stop:
					return
				default:
				}
			}
		}
	}
}

// processNextJob claims and runs one job. Returns true when a job was found.
func (w *Worker) processNextJob(ctx context.Context) bool {
	job, err := w.jobRepo.ClaimNextQueued(ctx)
	if err != nil {
		log.Printf("Error claiming next job: %v", err)
		return false
	}
	if job == nil {
		return false
	}

	w.mu.RLock()
	handler, ok := w.handlers[job.Type]
	w.mu.RUnlock()

	if !ok {
		log.Printf("No handler for job type: %s", job.Type)
		_ = w.jobRepo.Fail(ctx, job.ID, "no handler registered for job type: "+job.Type)
		return true
	}

	log.Printf("Processing job %s (%s)", job.ID, job.Filename)

	onProgress := func(progress int) {
		if err := w.jobRepo.UpdateProgress(ctx, job.ID, progress); err != nil {
			log.Printf("Error updating progress for job %s: %v", job.ID, err)
		}
	}

	result, err := handler(ctx, job, onProgress)
	if err != nil {
		log.Printf("Job %s failed: %v", job.ID, err)
		if err := w.jobRepo.Fail(ctx, job.ID, err.Error()); err != nil {
			log.Printf("Error failing job %s: %v", job.ID, err)
		}
		return true
	}

	if err := w.jobRepo.Complete(ctx, job.ID, result); err != nil {
		log.Printf("Error completing job %s: %v", job.ID, err)
		return true
	}

	log.Printf("Job %s completed: %s", job.ID, result)
	return true
}

func (w *Worker) runJanitor(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-ticker.C:
			w.cleanupExpired(ctx)
		}
	}
}

// cleanupExpired enforces the retention policy: terminal jobs older than the
// retention window lose their files and their rows.
func (w *Worker) cleanupExpired(ctx context.Context) {
	cutoff := time.Now().Add(-w.retention)
	jobs, err := w.jobRepo.ListExpired(ctx, cutoff)
	if err != nil {
		log.Printf("Error listing expired jobs: %v", err)
		return
	}

	for _, job := range jobs {
		if job.UploadPath != "" {
			removeIfPresent(job.UploadPath)
		}
		if job.TranslatedFile != "" {
			for _, dir := range w.cleanupDirs {
				removeIfPresent(filepath.Join(dir, job.TranslatedFile))
			}
		}
		if err := w.jobRepo.Delete(ctx, job.ID); err != nil {
			log.Printf("Error deleting expired job %s: %v", job.ID, err)
			continue
		}
	}

	if len(jobs) > 0 {
		log.Printf("Cleaned up %d expired jobs", len(jobs))
	}
}

func removeIfPresent(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to remove %s: %v", path, err)
	}
}
