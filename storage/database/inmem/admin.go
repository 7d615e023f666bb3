package inmemrepos

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/studyclub/core/admin"
)

type AdminRepository struct {
	mutex sync.RWMutex
	db    map[string]*admin.Admin // keyed by ID
}

var _ admin.Repository = (*AdminRepository)(nil) // interface compliance check

func NewAdminRepository() *AdminRepository {
	return &AdminRepository{db: make(map[string]*admin.Admin)}
}

func (repo *AdminRepository) GetAdminByNickname(ctx context.Context, nickname string) (admin.Admin, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	for _, adm := range repo.db {
		if adm.Nickname == nickname {
			return cloneAdmin(adm), nil
		}
	}
	return admin.Admin{}, admin.ErrNotFound
}

func (repo *AdminRepository) GetAdminByID(ctx context.Context, id string) (admin.Admin, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	if adm, ok := repo.db[id]; ok {
		return cloneAdmin(adm), nil
	}
	return admin.Admin{}, admin.ErrNotFound
}

func (repo *AdminRepository) UpdateOrCreateAdmin(ctx context.Context, adm admin.Admin) (admin.Admin, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	for _, existing := range repo.db {
		if existing.Nickname == adm.Nickname {
			adm.ID = existing.ID
			break
		}
	}
	if adm.ID == "" {
		adm.ID = uuid.New().String()
	}
	stored := cloneAdmin(&adm)
	repo.db[adm.ID] = &stored
	return adm, nil
}

func cloneAdmin(adm *admin.Admin) admin.Admin {
	cp := *adm
	cp.PasswordHash = append([]byte(nil), adm.PasswordHash...)
	return cp
}
