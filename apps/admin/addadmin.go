package main

import (
	"context"
	"time"

	"github.com/trezcool/studyclub/core"
	"github.com/trezcool/studyclub/core/admin"
)

// addAdmin updates or creates an admin.Admin
func (cli *commandLine) addAdmin(nickname, pwd string) error {
	var adm admin.Admin
	var err error
	ctx := context.Background()
	nickname = core.CleanString(nickname, true /* lower */)

	if adm, err = cli.admRepo.GetAdminByNickname(ctx, nickname); err != nil {
		if err != admin.ErrNotFound {
			return err
		}
		adm = admin.Admin{
			Nickname:  nickname,
			CreatedAt: time.Now(),
		}
	}
	if err := adm.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.admRepo.UpdateOrCreateAdmin(ctx, adm); err != nil {
		return err
	}
	return nil
}
