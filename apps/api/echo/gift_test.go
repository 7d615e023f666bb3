package echoapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/trezcool/studyclub/core/gift"
	testutil "github.com/trezcool/studyclub/tests"
)

func TestGiftAPI_play(t *testing.T) {
	app := setup(t)
	weekKey := app.studySvc.CurrentWeekKey()

	tests := []httpTest{
		{
			name:     "empty payload",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"from": "this field is required"}),
		},
		{
			name:     "unknown game",
			body:     []byte(`{"from": "하늘", "game": "darts"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"game": "game must be one of [wheel balls]"}),
		},
		{
			name:     "game not ready",
			body:     []byte(`{"from": "하늘"}`),
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: gift.ErrGameNotReady.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/weeks/current/gifts", tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	testutil.CreateParticipant(t, app.pcptRepo, "하늘", weekKey, testutil.IntPtr(50), []int{1, 0, 0, 0, 0, 0, 0})
	testutil.CreateParticipant(t, app.pcptRepo, "지훈", weekKey, testutil.IntPtr(5), []int{8, 0, 0, 0, 0, 0, 0})

	t.Run("achiever cannot send", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"from": "must be one of this week's non-achievers"}),
		}
		req, rec := newRequest(http.MethodPost, "/v1/weeks/current/gifts", []byte(`{"from": "지훈"}`))
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("wheel play", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/weeks/current/gifts", []byte(`{"from": "하늘", "game": "wheel"}`))
		app.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %d (body %s)", rec.Code, rec.Body.String())
		}
		var res gift.Result
		decodeBody(t, rec, &res)
		if res.Winner != "지훈" {
			t.Errorf("Winner = %s, want 지훈", res.Winner)
		}
		if res.Record.From != "하늘" || res.Record.WeekKey != weekKey {
			t.Errorf("Record = %+v", res.Record)
		}
		if res.Spin == nil {
			t.Fatal("wheel play must include a spin plan")
		}
		if got := gift.WheelIndex(res.Spin.Angle, 1); got != res.WinnerIndex {
			t.Errorf("spin rests on sector %d, want %d", got, res.WinnerIndex)
		}
	})
}

func TestGiftAPI_query(t *testing.T) {
	app := setup(t)
	weekKey := app.studySvc.CurrentWeekKey()
	rec1, err := app.giftRepo.CreateRecord(ctxBg(), gift.Record{WeekKey: weekKey, From: "하늘", To: "지훈", CreatedAt: monday})
	if err != nil {
		t.Fatalf("CreateRecord(): %v", err)
	}
	rec2, err := app.giftRepo.CreateRecord(ctxBg(), gift.Record{WeekKey: weekKey, From: "하늘", To: "수아", CreatedAt: monday.Add(time.Hour)})
	if err != nil {
		t.Fatalf("CreateRecord(): %v", err)
	}

	tests := []httpTest{
		{
			name:     "bad week key",
			path:     "/v1/weeks/lol/gifts",
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, errNotFound),
		},
		{
			name:     "empty week",
			path:     "/v1/weeks/2020-W01/gifts",
			wantCode: http.StatusOK,
			wantData: []byte(`[]`),
		},
		{
			name:     "newest first",
			path:     "/v1/weeks/" + weekKey + "/gifts",
			wantCode: http.StatusOK,
			wantData: marchallList(t, rec2, rec1),
		},
		{
			name:     "oldest first",
			path:     "/v1/weeks/" + weekKey + "/gifts?ordering=created_at",
			wantCode: http.StatusOK,
			wantData: marchallList(t, rec1, rec2),
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
