package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	meetingCols = []string{"id", "title", "date", "time", "duration", "minutes", "lead_member_id", "created_at", "updated_at"}
	linkCols    = []string{"id", "meeting_id", "target_id", "note", "created_at", "updated_at"}
)

func expectMeeting(mock sqlmock.Sqlmock, id int64) {
	now := time.Now()
	day := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .* FROM meetings WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(meetingCols).
			AddRow(id, "Weekly", day, "09:30:00", 30, nil, 1, now, now))
}

func TestGetMeetingIncludesLinkedIDs(t *testing.T) {
	router, mock := newTestRouter(t)
	now := time.Now()
	day := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	cols := append(append([]string{}, meetingCols...), "participant_ids", "objective_ids", "key_result_ids")
	mock.ExpectQuery(`array_agg.* FROM meetings WHERE id = \$1`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(4, "Weekly", day, "09:30:00", 30, nil, 1, now, now, "{1,2}", "{}", "{7}"))

	rec := do(router, http.MethodGet, "/meetings/4", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Weekly", body["title"])
	assert.Equal(t, "2026-03-04", body["date"])
	assert.Equal(t, []any{float64(1), float64(2)}, body["participant_ids"])
	assert.Equal(t, []any{}, body["objective_ids"])
	assert.Equal(t, []any{float64(7)}, body["key_result_ids"])
}

func TestLinkRoutesOnMissingMeeting(t *testing.T) {
	router, mock := newTestRouter(t)

	mock.ExpectQuery(`SELECT .* FROM meetings WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnError(sql.ErrNoRows)

	rec := do(router, http.MethodGet, "/meetings/5/participants", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Meeting not found", detail(t, rec))
}

func TestAddParticipant(t *testing.T) {
	router, mock := newTestRouter(t)
	now := time.Now()

	expectMeeting(mock, 5)
	mock.ExpectQuery(`INSERT INTO meeting_participants \(meeting_id, member_id\) VALUES \(\$1, \$2\)`).
		WithArgs(int64(5), int64(9)).
		WillReturnRows(sqlmock.NewRows(linkCols).AddRow(1, 5, 9, nil, now, now))

	rec := do(router, http.MethodPost, "/meetings/5/participants", `{"member_id": 9}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(9), body["member_id"])
	assert.NotContains(t, body, "note")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddParticipantTwiceConflicts(t *testing.T) {
	router, mock := newTestRouter(t)

	expectMeeting(mock, 5)
	mock.ExpectQuery(`INSERT INTO meeting_participants`).
		WillReturnError(&pq.Error{Code: "23505"})

	rec := do(router, http.MethodPost, "/meetings/5/participants", `{"member_id": 9}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAddLinkRequiresTargetField(t *testing.T) {
	router, mock := newTestRouter(t)
	expectMeeting(mock, 5)

	// member_id belongs to participants, not objectives
	rec := do(router, http.MethodPost, "/meetings/5/objectives", `{"member_id": 9}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, detail(t, rec), "objective_id")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetKeyResultLinkNotFound(t *testing.T) {
	router, mock := newTestRouter(t)

	expectMeeting(mock, 5)
	mock.ExpectQuery(`FROM meeting_key_results WHERE meeting_id = \$1 AND key_result_id = \$2`).
		WithArgs(int64(5), int64(8)).
		WillReturnError(sql.ErrNoRows)

	rec := do(router, http.MethodGet, "/meetings/5/key-results/8", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Key result association not found", detail(t, rec))
}

func TestUpdateObjectiveLinkChangesNote(t *testing.T) {
	router, mock := newTestRouter(t)
	now := time.Now()

	expectMeeting(mock, 5)
	mock.ExpectQuery(`UPDATE meeting_objectives SET note = \$3`).
		WithArgs(int64(5), int64(7), "on track").
		WillReturnRows(sqlmock.NewRows(linkCols).AddRow(2, 5, 7, "on track", now, now))

	rec := do(router, http.MethodPut, "/meetings/5/objectives/7", `{"note": "on track"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(7), body["objective_id"])
	assert.Equal(t, "on track", body["note"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateParticipantReplacesMember(t *testing.T) {
	router, mock := newTestRouter(t)
	now := time.Now()

	expectMeeting(mock, 5)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM meeting_participants WHERE meeting_id = \$1 AND member_id = \$2`).
		WithArgs(int64(5), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO meeting_participants`).
		WithArgs(int64(5), int64(10)).
		WillReturnRows(sqlmock.NewRows(linkCols).AddRow(3, 5, 10, nil, now, now))
	mock.ExpectCommit()

	rec := do(router, http.MethodPut, "/meetings/5/participants/9", `{"member_id": 10}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(10), body["member_id"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveParticipant(t *testing.T) {
	router, mock := newTestRouter(t)

	expectMeeting(mock, 5)
	mock.ExpectExec(`DELETE FROM meeting_participants WHERE meeting_id = \$1 AND member_id = \$2`).
		WithArgs(int64(5), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := do(router, http.MethodDelete, "/meetings/5/participants/9", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMeetingAssociations(t *testing.T) {
	router, mock := newTestRouter(t)
	now := time.Now()

	expectMeeting(mock, 5)
	mock.ExpectQuery(`FROM meeting_participants WHERE meeting_id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(linkCols).AddRow(1, 5, 9, nil, now, now))
	mock.ExpectQuery(`FROM meeting_objectives WHERE meeting_id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(linkCols))
	mock.ExpectQuery(`FROM meeting_key_results WHERE meeting_id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(linkCols).AddRow(4, 5, 8, "blocked", now, now))

	rec := do(router, http.MethodGet, "/meetings/5/associations", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Participants []map[string]any `json:"participants"`
		Objectives   []map[string]any `json:"objectives"`
		KeyResults   []map[string]any `json:"key_results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Participants, 1)
	assert.Equal(t, float64(9), body.Participants[0]["member_id"])
	assert.Empty(t, body.Objectives)
	require.Len(t, body.KeyResults, 1)
	assert.Equal(t, "blocked", body.KeyResults[0]["note"])
}
