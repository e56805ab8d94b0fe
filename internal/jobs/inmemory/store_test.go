package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/finsight-labs/statement-insights/internal/jobs"
)

func newJob(id, sessionID string, status jobs.JobStatus, createdAt time.Time) *jobs.AnalyzeStatementJob {
	return &jobs.AnalyzeStatementJob{
		JobID:     id,
		SessionID: sessionID,
		Status:    status,
		CreatedAt: createdAt,
	}
}

func TestStore_SaveAndGetJob(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	job := newJob("job-1", "sess-1", jobs.JobStatusPending, time.Now())
	if err := store.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob() error = %v", err)
	}

	got, err := store.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	if got.SessionID != "sess-1" || got.Status != jobs.JobStatusPending {
		t.Errorf("got %+v, want session sess-1 pending", got)
	}

	// Mutating the returned copy must not leak into the store.
	got.Status = jobs.JobStatusFailed
	again, _ := store.GetJob(ctx, "job-1")
	if again.Status != jobs.JobStatusPending {
		t.Errorf("returned job is not a copy: store now holds %q", again.Status)
	}

	if err := store.SaveJob(ctx, &jobs.AnalyzeStatementJob{}); err == nil {
		t.Error("SaveJob() without a job ID did not fail")
	}
	if _, err := store.GetJob(ctx, "missing"); err == nil {
		t.Error("GetJob() with unknown ID did not fail")
	}
}

func TestStore_ListJobs(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	base := time.Date(2024, 11, 9, 12, 0, 0, 0, time.UTC)

	seed := []*jobs.AnalyzeStatementJob{
		newJob("job-a", "sess-1", jobs.JobStatusCompleted, base),
		newJob("job-b", "sess-1", jobs.JobStatusPending, base.Add(time.Minute)),
		newJob("job-c", "sess-2", jobs.JobStatusPending, base.Add(2*time.Minute)),
	}
	for _, j := range seed {
		if err := store.SaveJob(ctx, j); err != nil {
			t.Fatalf("SaveJob(%s) error = %v", j.JobID, err)
		}
	}

	tests := []struct {
		name    string
		filter  jobs.JobFilter
		wantIDs []string
	}{
		{"all, newest first", jobs.JobFilter{}, []string{"job-c", "job-b", "job-a"}},
		{"by session", jobs.JobFilter{SessionID: "sess-1"}, []string{"job-b", "job-a"}},
		{"by status", jobs.JobFilter{Status: jobs.JobStatusPending}, []string{"job-c", "job-b"}},
		{"limit", jobs.JobFilter{Limit: 2}, []string{"job-c", "job-b"}},
		{"offset", jobs.JobFilter{Offset: 1}, []string{"job-b", "job-a"}},
		{"offset past end", jobs.JobFilter{Offset: 10}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.ListJobs(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListJobs() error = %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("ListJobs() returned %d jobs, want %d", len(got), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if got[i].JobID != want {
					t.Errorf("ListJobs()[%d] = %s, want %s", i, got[i].JobID, want)
				}
			}
		})
	}
}

func TestStore_UpdateJobStatus(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.SaveJob(ctx, newJob("job-1", "sess-1", jobs.JobStatusPending, time.Now())); err != nil {
		t.Fatalf("SaveJob() error = %v", err)
	}

	if err := store.UpdateJobStatus(ctx, "job-1", jobs.JobStatusFailed, "boom"); err != nil {
		t.Fatalf("UpdateJobStatus() error = %v", err)
	}

	got, _ := store.GetJob(ctx, "job-1")
	if got.Status != jobs.JobStatusFailed || got.Error != "boom" {
		t.Errorf("got %+v, want failed with error boom", got)
	}

	if err := store.UpdateJobStatus(ctx, "missing", jobs.JobStatusFailed, ""); err == nil {
		t.Error("UpdateJobStatus() with unknown ID did not fail")
	}
}
