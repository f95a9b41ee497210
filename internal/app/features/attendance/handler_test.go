package attendance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	attendancestore "github.com/dalemusser/teamhub/internal/app/store/attendance"
	"github.com/dalemusser/teamhub/internal/domain/models"
	"github.com/dalemusser/teamhub/internal/testutil"
)

func testHandler() *Handler {
	return NewHandler(nil, zap.NewNop())
}

// fakeRecorder keeps one record per (user, day) in memory and counts
// the insert and update calls, mimicking the unique index.
type fakeRecorder struct {
	records map[string]models.Attendance
	marks   int
	updates int

	// raceOnMark makes GetDay report no record while Mark still hits
	// the index, the way a lost concurrent insert looks.
	raceOnMark bool
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{records: map[string]models.Attendance{}}
}

func dayKey(userID primitive.ObjectID, day time.Time) string {
	return userID.Hex() + "|" + day.Format("2006-01-02")
}

func (f *fakeRecorder) GetDay(ctx context.Context, userID primitive.ObjectID, day time.Time) (*models.Attendance, error) {
	if f.raceOnMark {
		return nil, nil
	}
	if rec, ok := f.records[dayKey(userID, day)]; ok {
		return &rec, nil
	}
	return nil, nil
}

func (f *fakeRecorder) Mark(ctx context.Context, a models.Attendance) (models.Attendance, error) {
	f.marks++
	key := dayKey(a.UserID, a.Date)
	if _, ok := f.records[key]; ok || f.raceOnMark {
		if f.raceOnMark {
			f.records[key] = a
		}
		return models.Attendance{}, attendancestore.ErrDuplicateDay
	}
	a.ID = primitive.NewObjectID()
	f.records[key] = a
	return a, nil
}

func (f *fakeRecorder) Update(ctx context.Context, userID primitive.ObjectID, day time.Time, status, note string) (*models.Attendance, error) {
	f.updates++
	key := dayKey(userID, day)
	rec := f.records[key]
	rec.Status = status
	rec.Note = note
	f.records[key] = rec
	return &rec, nil
}

func (f *fakeRecorder) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return 0, nil
}

func (f *fakeRecorder) ListRange(ctx context.Context, userID *primitive.ObjectID, from, to time.Time) ([]models.Attendance, error) {
	return nil, nil
}

func TestHandleMark_Validation(t *testing.T) {
	h := testHandler()

	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"status":`},
		{"missing date", `{"status":"present"}`},
		{"unknown status", `{"date":"2026-03-01T00:00:00Z","status":"late"}`},
		{"bad user id", `{"date":"2026-03-01T00:00:00Z","status":"present","userId":"nope"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewJSONRequest("POST", "/api/attendance", tt.body)
			req = testutil.WithUser(req, testutil.MemberUser())
			rec := httptest.NewRecorder()
			h.HandleMark(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestHandleMark_MemberCannotMarkOthers(t *testing.T) {
	h := testHandler()

	body := `{"date":"2026-03-01T00:00:00Z","status":"present","userId":"507f1f77bcf86cd799439099"}`
	req := testutil.NewJSONRequest("POST", "/api/attendance", body)
	req = testutil.WithUser(req, testutil.MemberUser())
	rec := httptest.NewRecorder()
	h.HandleMark(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestHandleMark_SameDayTwiceUpdates(t *testing.T) {
	store := newFakeRecorder()
	h := NewHandler(store, zap.NewNop())
	user := testutil.MemberUser()

	req := testutil.NewJSONRequest("POST", "/api/attendance", `{"date":"2026-03-01T00:00:00Z","status":"present"}`)
	req = testutil.WithUser(req, user)
	rec := httptest.NewRecorder()
	h.HandleMark(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first submit: status = %d, want 201", rec.Code)
	}

	req = testutil.NewJSONRequest("POST", "/api/attendance", `{"date":"2026-03-01T00:00:00Z","status":"absent","note":"sick"}`)
	req = testutil.WithUser(req, user)
	rec = httptest.NewRecorder()
	h.HandleMark(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("second submit: status = %d, want 200", rec.Code)
	}

	if len(store.records) != 1 {
		t.Errorf("records = %d, want one per (user, day)", len(store.records))
	}
	if store.updates != 1 {
		t.Errorf("updates = %d, want 1", store.updates)
	}
	uid, _ := primitive.ObjectIDFromHex(user.ID)
	got := store.records[dayKey(uid, models.AttendanceDay(mustParseTime(t, "2026-03-01T00:00:00Z")))]
	if got.Status != "absent" || got.Note != "sick" {
		t.Errorf("record = %+v, want the second submission's status and note", got)
	}
}

func TestHandleMark_LostInsertRaceStillUpdates(t *testing.T) {
	store := newFakeRecorder()
	store.raceOnMark = true
	h := NewHandler(store, zap.NewNop())

	req := testutil.NewJSONRequest("POST", "/api/attendance", `{"date":"2026-03-01T00:00:00Z","status":"present"}`)
	req = testutil.WithUser(req, testutil.MemberUser())
	rec := httptest.NewRecorder()
	h.HandleMark(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 after converging on update", rec.Code)
	}
	if store.updates != 1 {
		t.Errorf("updates = %d, want 1", store.updates)
	}
}

func mustParseTime(t *testing.T, raw string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return ts
}

func TestServeList_MemberCannotQueryOthers(t *testing.T) {
	h := testHandler()

	req := testutil.NewRequest("GET", "/api/attendance?userId=507f1f77bcf86cd799439099")
	req = testutil.WithUser(req, testutil.MemberUser())
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestServeList_BadDates(t *testing.T) {
	h := testHandler()

	for _, target := range []string{"?from=March-1", "?to=2026/03/01"} {
		req := testutil.NewRequest("GET", "/api/attendance"+target)
		req = testutil.WithUser(req, testutil.AdminUser())
		rec := httptest.NewRecorder()
		h.ServeList(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, rec.Code)
		}
	}
}
