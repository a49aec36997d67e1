package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"jobportal/resume-parser/internal/models"
	"jobportal/resume-parser/internal/repositories"
)

// Indexer feeds successful parse runs into the talent index in the
// background so the parse response never waits on embedding calls.
type Indexer interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(runID uuid.UUID)
}

type indexer struct {
	runRepo     repositories.ParseRunRepository
	talent      TalentService
	jobQueue    chan uuid.UUID
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
}

func NewIndexer(
	runRepo repositories.ParseRunRepository,
	talent TalentService,
	concurrency int,
) Indexer {
	return &indexer{
		runRepo:     runRepo,
		talent:      talent,
		jobQueue:    make(chan uuid.UUID, 100),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
	}
}

// Start implements Indexer.
func (i *indexer) Start(ctx context.Context) {
	log.Printf("🚀 Starting talent indexer with %d workers\n", i.concurrency)

	for w := 0; w < i.concurrency; w++ {
		i.wg.Add(1)
		go i.processJobs(ctx, w+1)
	}

	// Pick up runs that were recorded but never indexed, e.g. after a restart
	i.wg.Add(1)
	go i.pollUnindexed(ctx)
}

// Stop implements Indexer.
func (i *indexer) Stop() {
	log.Println("🛑 Stopping talent indexer...")
	close(i.stopChan)
	i.wg.Wait()
	log.Println("✅ Talent indexer stopped")
}

// Enqueue implements Indexer.
func (i *indexer) Enqueue(runID uuid.UUID) {
	select {
	case i.jobQueue <- runID:
	case <-i.stopChan:
		log.Printf("⚠️  Indexer stopped, cannot enqueue run %s\n", runID)
	}
}

func (i *indexer) processJobs(ctx context.Context, workerID int) {
	defer i.wg.Done()

	for {
		select {
		case <-i.stopChan:
			return
		case runID := <-i.jobQueue:
			if err := i.indexRun(ctx, runID); err != nil {
				log.Printf("❌ Indexer worker #%d failed on run %s: %v\n", workerID, runID, err)
			}
		}
	}
}

func (i *indexer) indexRun(ctx context.Context, runID uuid.UUID) error {
	run, err := i.runRepo.FindByID(runID)
	if err != nil {
		return err
	}
	// A run with no document record has no stable point ID; indexing it
	// would overwrite whatever sits under the zero UUID
	if run.Indexed || !run.Success || run.DocumentID == uuid.Nil {
		return nil
	}

	var profile models.Profile
	if err := json.Unmarshal([]byte(run.ProfileJSON), &profile); err != nil {
		return err
	}

	if err := i.talent.IndexProfile(ctx, run.DocumentID, profile); err != nil {
		return err
	}

	return i.runRepo.MarkIndexed(run.ID)
}

func (i *indexer) pollUnindexed(ctx context.Context) {
	defer i.wg.Done()
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-i.stopChan:
			return
		case <-ticker.C:
			runs, err := i.runRepo.FindUnindexed(10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch unindexed runs: %v\n", err)
				continue
			}

			for _, run := range runs {
				i.Enqueue(run.ID)
			}
		}
	}
}
