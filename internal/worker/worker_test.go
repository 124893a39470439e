package worker

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"pdfbabel/internal/models"
	"pdfbabel/internal/storage"
)

func newTestRepo(t *testing.T) *storage.JobRepository {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return storage.NewJobRepository(db)
}

func waitForTerminal(t *testing.T, repo *storage.JobRepository, id string) *models.TranslationJob {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := repo.GetByID(context.Background(), id)
		if err != nil {
			t.Fatalf("GetByID returned error: %v", err)
		}
		if job != nil && models.IsTerminal(job.Status) {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never reached a terminal state", id)
	return nil
}

func TestWorkerCompletesJob(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	job := &models.TranslationJob{Filename: "a.pdf", UploadPath: "a"}
	if err := repo.Create(ctx, job); err != nil {
		t.Fatal(err)
	}

	w := NewWorker(repo, 1)
	w.SetInterval(10 * time.Millisecond)
	w.RegisterHandler(models.JobTypeTranslate, func(ctx context.Context, job *models.TranslationJob, onProgress func(int)) (string, error) {
		onProgress(50)
		return "a_translated_en.pdf", nil
	})
	w.Start(ctx)
	defer w.Stop()

	got := waitForTerminal(t, repo, job.ID)
	if got.Status != models.JobStatusCompleted {
		t.Fatalf("status = %s, want completed (error: %s)", got.Status, got.Error)
	}
	if got.TranslatedFile != "a_translated_en.pdf" {
		t.Errorf("translated_file = %s", got.TranslatedFile)
	}
	if got.Progress != 100 {
		t.Errorf("progress = %d, want 100", got.Progress)
	}
}

func TestWorkerRecordsFailureWithoutRetry(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	job := &models.TranslationJob{Filename: "a.pdf", UploadPath: "a"}
	if err := repo.Create(ctx, job); err != nil {
		t.Fatal(err)
	}

	var calls atomic.Int32
	w := NewWorker(repo, 1)
	w.SetInterval(10 * time.Millisecond)
	w.RegisterHandler(models.JobTypeTranslate, func(ctx context.Context, job *models.TranslationJob, onProgress func(int)) (string, error) {
		calls.Add(1)
		return "", fmt.Errorf("translation API returned status 429")
	})
	w.Start(ctx)

	got := waitForTerminal(t, repo, job.ID)

	// Give a hypothetical retry a chance to happen before stopping
	time.Sleep(100 * time.Millisecond)
	w.Stop()

	if got.Status != models.JobStatusFailed {
		t.Fatalf("status = %s, want failed", got.Status)
	}
	if got.Error != "translation API returned status 429" {
		t.Errorf("error = %q, want the handler error verbatim", got.Error)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("handler called %d times, want exactly 1 (no retry)", n)
	}
}

func TestWorkerFailsUnknownJobType(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	job := &models.TranslationJob{Filename: "a.pdf", UploadPath: "a", Type: "mystery"}
	if err := repo.Create(ctx, job); err != nil {
		t.Fatal(err)
	}

	w := NewWorker(repo, 1)
	w.SetInterval(10 * time.Millisecond)
	w.Start(ctx)
	defer w.Stop()

	got := waitForTerminal(t, repo, job.ID)
	if got.Status != models.JobStatusFailed {
		t.Fatalf("status = %s, want failed", got.Status)
	}
}

func TestWorkerProcessesEachJobOnce(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	const jobCount = 8
	ids := make([]string, 0, jobCount)
	for i := 0; i < jobCount; i++ {
		job := &models.TranslationJob{Filename: fmt.Sprintf("f%d.pdf", i), UploadPath: "x"}
		if err := repo.Create(ctx, job); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, job.ID)
	}

	var runs atomic.Int32
	w := NewWorker(repo, 3)
	w.SetInterval(10 * time.Millisecond)
	w.RegisterHandler(models.JobTypeTranslate, func(ctx context.Context, job *models.TranslationJob, onProgress func(int)) (string, error) {
		runs.Add(1)
		return job.Filename, nil
	})
	w.Start(ctx)
	defer w.Stop()

	for _, id := range ids {
		got := waitForTerminal(t, repo, id)
		if got.Status != models.JobStatusCompleted {
			t.Fatalf("job %s status = %s", id, got.Status)
		}
	}
	if n := runs.Load(); n != jobCount {
		t.Errorf("handler ran %d times for %d jobs", n, jobCount)
	}
}
