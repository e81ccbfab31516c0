package job

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/newthinker/mercado/internal/core"
)

func TestStore_CreateAndGet(t *testing.T) {
	store := NewStore(100, time.Hour)

	job := store.Create("scan")
	if _, err := uuid.Parse(job.ID); err != nil {
		t.Errorf("expected UUID job ID, got %q", job.ID)
	}
	if job.Status != StatusPending {
		t.Errorf("expected pending, got %s", job.Status)
	}

	retrieved, err := store.Get(job.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if retrieved.ID != job.ID {
		t.Error("IDs don't match")
	}
}

func TestStore_Update(t *testing.T) {
	store := NewStore(100, time.Hour)
	job := store.Create("scan")

	err := store.Update(job.ID, func(j *Job) {
		j.Status = StatusRunning
		j.Progress = 50
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	retrieved, _ := store.Get(job.ID)
	if retrieved.Status != StatusRunning {
		t.Errorf("expected running, got %s", retrieved.Status)
	}
	if retrieved.Progress != 50 {
		t.Errorf("expected 50, got %d", retrieved.Progress)
	}
}

func TestStore_MaxSize(t *testing.T) {
	store := NewStore(2, time.Hour)

	job1 := store.Create("scan")
	store.Create("scan")
	store.Create("scan") // Should evict job1

	_, err := store.Get(job1.ID)
	if err == nil {
		t.Error("expected job1 to be evicted")
	}
}

func TestStore_MaxSize_EvictsFinishedFirst(t *testing.T) {
	store := NewStore(3, time.Hour)

	running := store.Create("scan")
	store.Update(running.ID, func(j *Job) { j.Status = StatusRunning })
	failed := store.Create("scan")
	store.Update(failed.ID, func(j *Job) { j.Status = StatusFailed })
	pending := store.Create("scan")

	store.Create("scan") // evicts failed

	if _, err := store.Get(failed.ID); err == nil {
		t.Error("expected the finished job to be evicted")
	}
	for _, id := range []string{running.ID, pending.ID} {
		if _, err := store.Get(id); err != nil {
			t.Errorf("unfinished job %s was evicted", id)
		}
	}

	ids := make([]string, 0, 3)
	for _, j := range store.List() {
		ids = append(ids, j.ID)
	}
	if len(ids) != 3 || ids[0] != running.ID || ids[1] != pending.ID {
		t.Errorf("unexpected order after eviction: %v", ids)
	}
}

func TestStore_NotFound(t *testing.T) {
	store := NewStore(100, time.Hour)

	_, err := store.Get("nonexistent")
	if !errors.Is(err, core.ErrJobNotFound) {
		t.Errorf("expected ErrJobNotFound, got %v", err)
	}
	if err := store.Update("nonexistent", func(*Job) {}); !errors.Is(err, core.ErrJobNotFound) {
		t.Errorf("expected ErrJobNotFound on update, got %v", err)
	}
}

func TestStore_List(t *testing.T) {
	store := NewStore(100, time.Hour)
	first := store.Create("scan")
	store.Create("export")

	jobs := store.List()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].ID != first.ID {
		t.Error("expected oldest job first")
	}
}

func TestStore_ExpiresFinishedJobs(t *testing.T) {
	store := NewStore(100, time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	done := store.Create("scan")
	running := store.Create("scan")
	store.Update(done.ID, func(j *Job) { j.Status = StatusComplete })
	store.Update(running.ID, func(j *Job) { j.Status = StatusRunning })

	now = now.Add(2 * time.Minute)
	store.Create("scan")

	if _, err := store.Get(done.ID); err == nil {
		t.Error("expected finished job to expire")
	}
	if _, err := store.Get(running.ID); err != nil {
		t.Error("running job should not expire")
	}
}

func TestStore_Active(t *testing.T) {
	store := NewStore(100, time.Hour)
	a := store.Create("scan")
	store.Create("scan")
	store.Create("export")
	store.Update(a.ID, func(j *Job) { j.Status = StatusFailed })

	if n := store.Active("scan"); n != 1 {
		t.Errorf("expected 1 active scan, got %d", n)
	}
}
