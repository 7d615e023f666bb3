// Package inmemrepos provides mutex-guarded in-memory repositories: the
// "local" storage variant, and the backing store for tests.
package inmemrepos

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/studyclub/core"
	"github.com/trezcool/studyclub/core/study"
)

type ParticipantRepository struct {
	mutex sync.RWMutex
	db    map[string]*study.Participant // keyed by ID
}

var _ study.Repository = (*ParticipantRepository)(nil) // interface compliance check

func NewParticipantRepository() *ParticipantRepository {
	return &ParticipantRepository{db: make(map[string]*study.Participant)}
}

func clone(p study.Participant) study.Participant {
	p.DailyHours = append([]int(nil), p.DailyHours...)
	p.Comments = append([]string(nil), p.Comments...)
	return p
}

func (repo *ParticipantRepository) GetParticipant(ctx context.Context, weekKey, name string) (study.Participant, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	for _, p := range repo.db {
		if p.WeekKey == weekKey && p.Name == name {
			return clone(*p), nil
		}
	}
	return study.Participant{}, study.ErrNotFound
}

func (repo *ParticipantRepository) GetParticipantByID(ctx context.Context, weekKey, id string) (study.Participant, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	if p, ok := repo.db[id]; ok && p.WeekKey == weekKey {
		return clone(*p), nil
	}
	return study.Participant{}, study.ErrNotFound
}

func (repo *ParticipantRepository) QueryParticipants(ctx context.Context, weekKey string, ordering ...core.DBOrdering) ([]study.Participant, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	ps := make([]study.Participant, 0, len(repo.db))
	for _, p := range repo.db {
		if p.WeekKey == weekKey {
			ps = append(ps, clone(*p))
		}
	}
	// name ordering only; good enough for the local variant
	ascending := true
	for _, ord := range ordering {
		if ord.Field == "name" {
			ascending = ord.Ascending
		}
	}
	sort.Slice(ps, func(i, j int) bool {
		if ascending {
			return ps[i].Name < ps[j].Name
		}
		return ps[i].Name > ps[j].Name
	})
	return ps, nil
}

func (repo *ParticipantRepository) UpsertParticipant(ctx context.Context, p study.Participant) (study.Participant, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	for id, existing := range repo.db {
		if existing.WeekKey == p.WeekKey && existing.Name == p.Name {
			p.ID = id
			break
		}
	}
	stored := clone(p)
	repo.db[p.ID] = &stored
	return clone(stored), nil
}

func (repo *ParticipantRepository) UpdateParticipant(ctx context.Context, p study.Participant) (study.Participant, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	existing, ok := repo.db[p.ID]
	if !ok || existing.WeekKey != p.WeekKey {
		return study.Participant{}, study.ErrNotFound
	}
	stored := clone(p)
	repo.db[p.ID] = &stored
	return clone(stored), nil
}

func (repo *ParticipantRepository) DeleteParticipant(ctx context.Context, weekKey, id string) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	if p, ok := repo.db[id]; ok && p.WeekKey == weekKey {
		delete(repo.db, id)
		return nil
	}
	return study.ErrNotFound
}

func (repo *ParticipantRepository) DeleteWeekParticipants(ctx context.Context, weekKey string) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	for id, p := range repo.db {
		if p.WeekKey == weekKey {
			delete(repo.db, id)
		}
	}
	return nil
}
