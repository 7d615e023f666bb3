package echoapi

import (
	"net/http"
	"testing"

	"github.com/trezcool/studyclub/core/study"
	testutil "github.com/trezcool/studyclub/tests"
)

func TestStudyAPI_currentWeek(t *testing.T) {
	app := setup(t)

	tt := httpTest{
		name:     "current week",
		method:   http.MethodGet,
		path:     "/v1/weeks/current",
		wantCode: http.StatusOK,
		wantData: marchallObj(t, app.studySvc.CurrentWeek()),
	}
	req, rec := newRequest(tt.method, tt.path)
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
}

func TestStudyAPI_registerGoal(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{
			name:     "empty payload",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"name":       "this field is required",
				"goal_hours": "this field is required",
			}),
		},
		{
			name:     "goal not in options",
			body:     []byte(`{"name": "민지", "goal_hours": 7}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"goal_hours": "goal must be one of 5, 10, 15 ... 50 hours",
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/weeks/current/goals", tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("valid goal", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/weeks/current/goals", []byte(`{"name": "민지", "goal_hours": 10}`))
		app.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %d, want %d (body %s)", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var row study.Row
		decodeBody(t, rec, &row)
		if row.Name != "민지" || row.WeekKey != app.studySvc.CurrentWeekKey() {
			t.Errorf("row = %+v", row)
		}
		if row.GoalHours == nil || *row.GoalHours != 10 {
			t.Errorf("GoalHours = %v, want 10", row.GoalHours)
		}
	})
}

func TestStudyAPI_registerGoal_adminGate(t *testing.T) {
	app := setup(t, study.GateAdmin)
	adm := testutil.CreateAdmin(t, app.admRepo, "boss", "s3cretpass!")
	body := []byte(`{"name": "민지", "goal_hours": 10}`)

	t.Run("anonymous is rejected", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: study.ErrAdminOnly.Error()}),
		}
		req, rec := newRequest(http.MethodPost, "/v1/weeks/current/goals", body)
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("admin token passes", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/weeks/current/goals", getToken(t, adm), body)
		app.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Errorf("code = %d, want %d (body %s)", rec.Code, http.StatusCreated, rec.Body.String())
		}
	})
}

func TestStudyAPI_logHours(t *testing.T) {
	app := setup(t)
	testutil.CreateParticipant(t, app.pcptRepo, "수아", app.studySvc.CurrentWeekKey(), testutil.IntPtr(5), nil)

	tests := []httpTest{
		{
			name:     "empty payload",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"name":  "this field is required",
				"hours": "this field is required",
			}),
		},
		{
			name:     "negative hours",
			body:     []byte(`{"name": "수아", "hours": -1}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"hours": "hours must be greater than 0",
			}),
		},
		{
			name:     "unregistered name",
			body:     []byte(`{"name": "유령", "hours": 2}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"name": "no registered participant with this name for this week",
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/weeks/current/logs", tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("hours accumulate", func(t *testing.T) {
		for i, want := range []struct {
			prev    int
			total   int
			already bool
		}{
			{prev: 0, total: 2, already: false},
			{prev: 2, total: 4, already: true},
		} {
			req, rec := newRequest(http.MethodPost, "/v1/weeks/current/logs", []byte(`{"name": "수아", "hours": 2}`))
			app.server.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("log #%d code = %d (body %s)", i, rec.Code, rec.Body.String())
			}
			var res study.LogResult
			decodeBody(t, rec, &res)
			if res.PrevSlotHours != want.prev || res.SlotAlreadySet != want.already {
				t.Errorf("log #%d: PrevSlotHours = %d, SlotAlreadySet = %v; want %d, %v",
					i, res.PrevSlotHours, res.SlotAlreadySet, want.prev, want.already)
			}
			if res.Row.TotalHours != want.total {
				t.Errorf("log #%d: TotalHours = %d, want %d", i, res.Row.TotalHours, want.total)
			}
		}
	})
}

func TestStudyAPI_board(t *testing.T) {
	app := setup(t)
	weekKey := app.studySvc.CurrentWeekKey()
	testutil.CreateParticipant(t, app.pcptRepo, "지훈", weekKey, testutil.IntPtr(5), []int{5, 0, 0, 0, 0, 0, 0})
	testutil.CreateParticipant(t, app.pcptRepo, "하늘", weekKey, testutil.IntPtr(50), []int{1, 0, 0, 0, 0, 0, 0})

	board, err := app.studySvc.WeekBoard(ctxBg(), weekKey)
	if err != nil {
		t.Fatalf("WeekBoard(): %v", err)
	}

	tests := []httpTest{
		{
			name:     "bad week key",
			path:     "/v1/weeks/lol/board",
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, errNotFound),
		},
		{
			name:     "empty week",
			path:     "/v1/weeks/2020-W01/board",
			wantCode: http.StatusOK,
			wantData: marchallObj(t, study.Board{
				WeekKey:      "2020-W01",
				Label:        "12월 6주차",
				Rows:         []study.Row{},
				Achievers:    []string{},
				NonAchievers: []string{},
			}),
		},
		{
			name:     "current week",
			path:     "/v1/weeks/" + weekKey + "/board",
			wantCode: http.StatusOK,
			wantData: marchallObj(t, board),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestStudyAPI_updateRow(t *testing.T) {
	app := setup(t)
	weekKey := app.studySvc.CurrentWeekKey()
	p := testutil.CreateParticipant(t, app.pcptRepo, "예린", weekKey, testutil.IntPtr(10), nil)
	adm := testutil.CreateAdmin(t, app.admRepo, "boss", "s3cretpass!")
	token := getToken(t, adm)
	path := "/v1/weeks/" + weekKey + "/participants/" + p.ID

	tests := []httpTest{
		{
			name:     "no token",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "non-admin token",
			token:    nonAdminToken(t),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name:     "wrong daily length",
			token:    token,
			body:     []byte(`{"daily_hours": [1, 2]}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"daily_hours": "daily_hours must contain 7 items",
			}),
		},
		{
			name:     "unknown id",
			token:    token,
			path:     "/v1/weeks/" + weekKey + "/participants/nope",
			body:     []byte(`{"daily_hours": [0, 0, 0, 0, 0, 0, 0]}`),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, errNotFound),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := path
			if tt.path != "" {
				p = tt.path
			}
			body := tt.body
			if body == nil {
				body = []byte(`{"daily_hours": [1, 2, 3, 0, 0, 0, 0]}`)
			}
			req, rec := newAuthRequest(http.MethodPut, p, tt.token, body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("total recomputed server-side", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, path, token, []byte(`{"goal_hours": 5, "daily_hours": [1, 2, 3, 0, 0, 0, 0]}`))
		app.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d (body %s)", rec.Code, rec.Body.String())
		}
		var row study.Row
		decodeBody(t, rec, &row)
		if row.StudiedHours != 6 || row.TotalHours != 6 {
			t.Errorf("StudiedHours = %d, TotalHours = %d, want 6", row.StudiedHours, row.TotalHours)
		}
		if !row.Achieved {
			t.Error("6/5 hours must be achieved")
		}
	})
}

func TestStudyAPI_deleteAndReset(t *testing.T) {
	app := setup(t)
	weekKey := app.studySvc.CurrentWeekKey()
	p := testutil.CreateParticipant(t, app.pcptRepo, "도윤", weekKey, testutil.IntPtr(5), nil)
	testutil.CreateParticipant(t, app.pcptRepo, "서준", weekKey, testutil.IntPtr(5), nil)
	adm := testutil.CreateAdmin(t, app.admRepo, "boss", "s3cretpass!")
	token := getToken(t, adm)

	t.Run("delete one row", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/weeks/"+weekKey+"/participants/"+p.ID, token)
		app.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %d (body %s)", rec.Code, rec.Body.String())
		}
		ps, _ := app.pcptRepo.QueryParticipants(ctxBg(), weekKey)
		if len(ps) != 1 {
			t.Errorf("len(participants) = %d, want 1", len(ps))
		}
	})

	t.Run("reset week wipes rows and gifts", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/weeks/"+weekKey, token)
		app.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %d (body %s)", rec.Code, rec.Body.String())
		}
		ps, _ := app.pcptRepo.QueryParticipants(ctxBg(), weekKey)
		if len(ps) != 0 {
			t.Errorf("len(participants) = %d, want 0", len(ps))
		}
		recs, _ := app.giftRepo.QueryRecords(ctxBg(), weekKey)
		if len(recs) != 0 {
			t.Errorf("len(gift records) = %d, want 0", len(recs))
		}
	})
}
