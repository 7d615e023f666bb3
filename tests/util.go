package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/studyclub/core/admin"
	"github.com/trezcool/studyclub/core/study"
)

func CreateParticipant(
	t *testing.T,
	repo study.Repository,
	name, weekKey string,
	goalHours *int,
	dailyHours []int,
	createdAt ...time.Time,
) study.Participant {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	p := study.Participant{
		Name:      name,
		WeekKey:   weekKey,
		GoalHours: goalHours,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	p.EnsureDaily()
	if dailyHours != nil {
		copy(p.DailyHours, dailyHours)
	}
	p.StudiedHours = p.TotalHours()

	p, err := repo.UpsertParticipant(context.Background(), p)
	if err != nil {
		t.Fatalf("CreateParticipant(): %v", err)
	}
	return p
}

func CreateAdmin(t *testing.T, repo admin.Repository, nickname, pwd string) admin.Admin {
	tstamp := time.Now().UTC()
	adm := admin.Admin{
		Nickname:  nickname,
		CreatedAt: tstamp,
	}
	if pwd != "" {
		if err := adm.SetPassword(pwd); err != nil {
			t.Fatalf("CreateAdmin(): %v", err)
		}
	}
	adm, err := repo.UpdateOrCreateAdmin(context.Background(), adm)
	if err != nil {
		t.Fatalf("CreateAdmin(): %v", err)
	}
	return adm
}

func IntPtr(i int) *int { return &i }
