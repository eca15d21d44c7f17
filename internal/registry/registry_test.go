package registry

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "wasmbox.db"))
	if err != nil {
		t.Fatalf("open registry: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDeploymentRecords(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	d := &Deployment{
		ID:          "dep-1",
		ImageRef:    "/tmp/task.zip",
		ImageDigest: "sha256:abc",
		Workdir:     "/tmp/work",
		MountCount:  2,
	}
	if err := InsertDeployment(ctx, db, d); err != nil {
		t.Fatalf("insert: %v", err)
	}

	list, err := ListDeployments(ctx, db, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d deployments, want 1", len(list))
	}
	got := list[0]
	if got.ID != d.ID || got.ImageDigest != d.ImageDigest || got.MountCount != 2 {
		t.Errorf("deployment = %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at not populated")
	}
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	r := &Run{ID: "run-1", Workdir: "/tmp/work", EntryPoint: "run"}
	if err := StartRun(ctx, db, r); err != nil {
		t.Fatalf("start: %v", err)
	}

	list, err := ListRuns(ctx, db, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Status != RunStatusRunning {
		t.Fatalf("runs = %+v", list)
	}
	if list[0].FinishedAt.Valid {
		t.Error("finished_at set before FinishRun")
	}

	if err := FinishRun(ctx, db, "run-1", RunStatusOK); err != nil {
		t.Fatalf("finish: %v", err)
	}

	list, err = ListRuns(ctx, db, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list[0].Status != RunStatusOK || !list[0].FinishedAt.Valid {
		t.Errorf("finished run = %+v", list[0])
	}
}
