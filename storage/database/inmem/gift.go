package inmemrepos

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/studyclub/core"
	"github.com/trezcool/studyclub/core/gift"
)

type GiftRepository struct {
	mutex sync.RWMutex
	db    map[string]*gift.Record // keyed by ID
}

var _ gift.Repository = (*GiftRepository)(nil) // interface compliance check

func NewGiftRepository() *GiftRepository {
	return &GiftRepository{db: make(map[string]*gift.Record)}
}

func (repo *GiftRepository) CreateRecord(ctx context.Context, rec gift.Record) (gift.Record, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	stored := rec
	repo.db[rec.ID] = &stored
	return rec, nil
}

func (repo *GiftRepository) QueryRecords(ctx context.Context, weekKey string, ordering ...core.DBOrdering) ([]gift.Record, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	recs := make([]gift.Record, 0, len(repo.db))
	for _, rec := range repo.db {
		if rec.WeekKey == weekKey {
			recs = append(recs, *rec)
		}
	}
	// newest first unless asked otherwise
	ascending := false
	for _, ord := range ordering {
		if ord.Field == "created_at" {
			ascending = ord.Ascending
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		if ascending {
			return recs[i].CreatedAt.Before(recs[j].CreatedAt)
		}
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	return recs, nil
}

func (repo *GiftRepository) DeleteWeekRecords(ctx context.Context, weekKey string) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	for id, rec := range repo.db {
		if rec.WeekKey == weekKey {
			delete(repo.db, id)
		}
	}
	return nil
}
