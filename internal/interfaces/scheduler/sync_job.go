package scheduler

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"finbot/internal/domain/openfinance"
)

// SyncJob imports open finance transactions for a single user.
type SyncJob struct {
	userID      int64
	syncService *openfinance.SyncService
}

func NewSyncJob(userID int64, syncService *openfinance.SyncService) *SyncJob {
	return &SyncJob{userID: userID, syncService: syncService}
}

// Execute runs the sync. Partial failures (an account that could not be
// read) are reported as an error so the run shows up as failed in metrics,
// but whatever was imported stays imported.
func (j *SyncJob) Execute(ctx context.Context) error {
	result, err := j.syncService.SyncUser(ctx, j.userID)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	if len(result.Errors) > 0 {
		return fmt.Errorf("sync completed with %d errors", len(result.Errors))
	}

	return nil
}

func (j *SyncJob) UserID() string {
	return strconv.FormatInt(j.userID, 10)
}

func (j *SyncJob) Description() string {
	return fmt.Sprintf("open finance sync for user %d", j.userID)
}

// UserLister enumerates the users eligible for a periodic sync.
type UserLister interface {
	ListActiveIDs(ctx context.Context) ([]int64, error)
}

// SyncJobProvider builds one SyncJob per active user. Plug it into
// SchedulerConfig.JobProvider.
func SyncJobProvider(users UserLister, syncService *openfinance.SyncService) func(context.Context) ([]Job, error) {
	return func(ctx context.Context) ([]Job, error) {
		ids, err := users.ListActiveIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list users for sync: %w", err)
		}

		jobs := make([]Job, 0, len(ids))
		for _, id := range ids {
			jobs = append(jobs, NewSyncJob(id, syncService))
		}

		log.Printf("Scheduler: prepared %d sync jobs", len(jobs))
		return jobs, nil
	}
}
