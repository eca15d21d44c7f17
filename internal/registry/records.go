package registry

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Run statuses.
const (
	RunStatusRunning = "running"
	RunStatusOK      = "ok"
	RunStatusFailed  = "failed"
)

// Deployment records one provisioning of a working directory.
type Deployment struct {
	ID          string
	ImageRef    string
	ImageDigest string
	Workdir     string
	MountCount  int
	CreatedAt   time.Time
}

// Run records one entry-point execution attempt.
type Run struct {
	ID         string
	Workdir    string
	EntryPoint string
	Status     string
	StartedAt  time.Time
	FinishedAt sql.NullTime
}

func InsertDeployment(ctx context.Context, db *sql.DB, d *Deployment) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO deployments (id, image_ref, image_digest, workdir, mount_count) VALUES (?, ?, ?, ?, ?)`,
		d.ID, d.ImageRef, d.ImageDigest, d.Workdir, d.MountCount)
	if err != nil {
		return fmt.Errorf("insert deployment: %w", err)
	}
	return nil
}

func ListDeployments(ctx context.Context, db *sql.DB, limit int) ([]Deployment, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, image_ref, image_digest, workdir, mount_count, created_at
		 FROM deployments ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list deployments: %w", err)
	}
	defer rows.Close()

	var out []Deployment
	for rows.Next() {
		var d Deployment
		if err := rows.Scan(&d.ID, &d.ImageRef, &d.ImageDigest, &d.Workdir, &d.MountCount, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan deployment: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func StartRun(ctx context.Context, db *sql.DB, r *Run) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO runs (id, workdir, entry_point, status) VALUES (?, ?, ?, ?)`,
		r.ID, r.Workdir, r.EntryPoint, RunStatusRunning)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func FinishRun(ctx context.Context, db *sql.DB, id, status string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE runs SET status = ?, finished_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

func ListRuns(ctx context.Context, db *sql.DB, limit int) ([]Run, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, workdir, entry_point, status, started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Workdir, &r.EntryPoint, &r.Status, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
