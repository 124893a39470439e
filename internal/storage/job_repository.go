package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"pdfbabel/internal/models"
)

const jobColumns = `id, filename, upload_path, source_lang, type, status, progress,
	translated_file, error, created_at, started_at, completed_at`

// JobRepository is the data access layer for translation jobs.
//
// The gateway only reads jobs; after creation a job's mutable fields are
// written exclusively by the worker that claimed it.
type JobRepository struct {
	db *DB
}

// NewJobRepository creates a new JobRepository.
func NewJobRepository(db *DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new job in the queued state.
func (r *JobRepository) Create(ctx context.Context, job *models.TranslationJob) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.Type == "" {
		job.Type = models.JobTypeTranslate
	}
	if job.SourceLang == "" {
		job.SourceLang = "auto"
	}
	job.Status = models.JobStatusQueued
	job.Progress = 0
	job.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO translation_jobs (id, filename, upload_path, source_lang, type, status, progress, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.Filename, job.UploadPath, job.SourceLang, job.Type,
		job.Status, job.Progress, job.CreatedAt.Unix(),
	)
	return err
}

// GetByID returns the job with the given id, or nil when it does not exist.
func (r *JobRepository) GetByID(ctx context.Context, id string) (*models.TranslationJob, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM translation_jobs WHERE id = ?`, id)
	return scanJob(row)
}

// ClaimNextQueued atomically moves the oldest queued job to processing and
// returns it. Returns nil when the queue is empty. The conditional update
// guarantees that exactly one worker claims a given job.
func (r *JobRepository) ClaimNextQueued(ctx context.Context) (*models.TranslationJob, error) {
	for {
		row := r.db.QueryRowContext(ctx, `
			SELECT id FROM translation_jobs
			WHERE status = ? ORDER BY created_at, id LIMIT 1`,
			models.JobStatusQueued)

		var id string
		if err := row.Scan(&id); err == sql.ErrNoRows {
			return nil, nil
		} else if err != nil {
			return nil, err
		}

		res, err := r.db.ExecContext(ctx, `
			UPDATE translation_jobs SET status = ?, started_at = ?
			WHERE id = ? AND status = ?`,
			models.JobStatusProcessing, time.Now().Unix(), id, models.JobStatusQueued)
		if err != nil {
			return nil, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			// Another worker claimed it first, try the next one
			continue
		}

		return r.GetByID(ctx, id)
	}
}

// UpdateProgress records forward progress for a processing job. Progress is
// clamped to never decrease.
func (r *JobRepository) UpdateProgress(ctx context.Context, id string, progress int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE translation_jobs SET progress = MAX(progress, ?)
		WHERE id = ? AND status = ?`,
		progress, id, models.JobStatusProcessing)
	return err
}

// Complete marks a processing job as completed with its output file.
func (r *JobRepository) Complete(ctx context.Context, id, translatedFile string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE translation_jobs SET status = ?, progress = 100, translated_file = ?, completed_at = ?
		WHERE id = ? AND status = ?`,
		models.JobStatusCompleted, translatedFile, time.Now().Unix(),
		id, models.JobStatusProcessing)
	return err
}

// Fail marks a processing job as failed with the error message.
func (r *JobRepository) Fail(ctx context.Context, id, errorMsg string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE translation_jobs SET status = ?, error = ?, completed_at = ?
		WHERE id = ? AND status IN (?, ?)`,
		models.JobStatusFailed, errorMsg, time.Now().Unix(),
		id, models.JobStatusQueued, models.JobStatusProcessing)
	return err
}

// ListRecent returns the most recently created jobs.
func (r *JobRepository) ListRecent(ctx context.Context, limit int) ([]models.TranslationJob, error) {
	if limit == 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM translation_jobs ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

// CountByStatus returns the number of jobs per status.
func (r *JobRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM translation_jobs GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// Delete removes a job record.
func (r *JobRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM translation_jobs WHERE id = ?`, id)
	return err
}

// ListExpired returns terminal jobs completed before the cutoff, so their
// files can be removed before the rows are deleted.
func (r *JobRepository) ListExpired(ctx context.Context, cutoff time.Time) ([]models.TranslationJob, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+jobColumns+` FROM translation_jobs
		WHERE status IN (?, ?) AND completed_at < ?`,
		models.JobStatusCompleted, models.JobStatusFailed, cutoff.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*models.TranslationJob, error) {
	var job models.TranslationJob
	var translatedFile, errorMsg sql.NullString
	var createdAt int64
	var startedAt, completedAt sql.NullInt64

	err := row.Scan(
		&job.ID, &job.Filename, &job.UploadPath, &job.SourceLang, &job.Type,
		&job.Status, &job.Progress, &translatedFile, &errorMsg,
		&createdAt, &startedAt, &completedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	job.TranslatedFile = translatedFile.String
	job.Error = errorMsg.String
	job.CreatedAt = time.Unix(createdAt, 0)
	if startedAt.Valid {
		t := time.Unix(startedAt.Int64, 0)
		job.StartedAt = &t
	}
	if completedAt.Valid {
		t := time.Unix(completedAt.Int64, 0)
		job.CompletedAt = &t
	}
	return &job, nil
}

func scanJobs(rows *sql.Rows) ([]models.TranslationJob, error) {
	var jobs []models.TranslationJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}
