package storage

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/fshub-online/aiph-lambda/internal/models"
)

const meetingColumns = `id, title, date, time, duration, minutes, lead_member_id, created_at, updated_at`

func (s *Storage) GetMeeting(ctx context.Context, id int64) (*models.Meeting, error) {
	var m models.Meeting
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE id = $1`
	if err := s.db.GetContext(ctx, &m, query, id); err != nil {
		return nil, translate(err, "get meeting")
	}
	return &m, nil
}

// meetingIDsSelect adds the linked ids of each meeting as arrays.
const meetingIDsSelect = `SELECT ` + meetingColumns + `,
	COALESCE((SELECT array_agg(p.member_id ORDER BY p.id) FROM meeting_participants p WHERE p.meeting_id = meetings.id), '{}') AS participant_ids,
	COALESCE((SELECT array_agg(o.objective_id ORDER BY o.id) FROM meeting_objectives o WHERE o.meeting_id = meetings.id), '{}') AS objective_ids,
	COALESCE((SELECT array_agg(k.key_result_id ORDER BY k.id) FROM meeting_key_results k WHERE k.meeting_id = meetings.id), '{}') AS key_result_ids
	FROM meetings`

type meetingRow struct {
	models.Meeting
	ParticipantIDs pq.Int64Array `db:"participant_ids"`
	ObjectiveIDs   pq.Int64Array `db:"objective_ids"`
	KeyResultIDs   pq.Int64Array `db:"key_result_ids"`
}

func (r meetingRow) withIDs() models.MeetingWithIDs {
	return models.MeetingWithIDs{
		Meeting:        r.Meeting,
		ParticipantIDs: nonNil(r.ParticipantIDs),
		ObjectiveIDs:   nonNil(r.ObjectiveIDs),
		KeyResultIDs:   nonNil(r.KeyResultIDs),
	}
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

func (s *Storage) GetMeetingWithIDs(ctx context.Context, id int64) (*models.MeetingWithIDs, error) {
	var row meetingRow
	if err := s.db.GetContext(ctx, &row, meetingIDsSelect+` WHERE id = $1`, id); err != nil {
		return nil, translate(err, "get meeting")
	}
	m := row.withIDs()
	return &m, nil
}

func (s *Storage) ListMeetings(ctx context.Context, page Page) ([]models.MeetingWithIDs, error) {
	page = page.normalize()
	var rows []meetingRow
	query := meetingIDsSelect + ` ORDER BY date DESC, time DESC, id OFFSET $1 LIMIT $2`
	if err := s.db.SelectContext(ctx, &rows, query, page.Skip, page.Limit); err != nil {
		return nil, translate(err, "list meetings")
	}
	meetings := make([]models.MeetingWithIDs, 0, len(rows))
	for _, r := range rows {
		meetings = append(meetings, r.withIDs())
	}
	return meetings, nil
}

func (s *Storage) CreateMeeting(ctx context.Context, m *models.Meeting) error {
	query := `
		INSERT INTO meetings (title, date, time, duration, minutes, lead_member_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := s.db.QueryRowxContext(ctx, query,
		m.Title, m.Date, m.Time, m.Duration, m.Minutes, m.LeadMemberID,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	return translate(err, "create meeting")
}

func (s *Storage) UpdateMeeting(ctx context.Context, m *models.Meeting) error {
	query := `
		UPDATE meetings
		SET title = $1, date = $2, time = $3, duration = $4, minutes = $5, lead_member_id = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`
	err := s.db.QueryRowxContext(ctx, query,
		m.Title, m.Date, m.Time, m.Duration, m.Minutes, m.LeadMemberID, m.ID,
	).Scan(&m.UpdatedAt)
	return translate(err, "update meeting")
}

// DeleteMeeting removes the meeting; its association rows go with it through
// ON DELETE CASCADE.
func (s *Storage) DeleteMeeting(ctx context.Context, id int64) error {
	return s.execOne(ctx, "delete meeting", `DELETE FROM meetings WHERE id = $1`, id)
}

// LinkKind selects one of the meeting association tables.
type LinkKind int

const (
	Participants LinkKind = iota
	MeetingObjectives
	MeetingKeyResults
)

type linkTable struct {
	table   string
	column  string
	hasNote bool
}

var linkTables = map[LinkKind]linkTable{
	Participants:      {table: "meeting_participants", column: "member_id"},
	MeetingObjectives: {table: "meeting_objectives", column: "objective_id", hasNote: true},
	MeetingKeyResults: {table: "meeting_key_results", column: "key_result_id", hasNote: true},
}

func (k LinkKind) info() linkTable {
	return linkTables[k]
}

// Field is the JSON/column name of the linked id.
func (k LinkKind) Field() string {
	return k.info().column
}

func (k LinkKind) selectColumns() string {
	lt := k.info()
	note := "NULL::text AS note"
	if lt.hasNote {
		note = "note"
	}
	return `id, meeting_id, ` + lt.column + ` AS target_id, ` + note + `, created_at, updated_at`
}

func (k LinkKind) tag(links []models.MeetingLink) []models.MeetingLink {
	for i := range links {
		links[i].TargetField = k.Field()
	}
	return links
}

func (s *Storage) ListMeetingLinks(ctx context.Context, kind LinkKind, meetingID int64) ([]models.MeetingLink, error) {
	links := make([]models.MeetingLink, 0)
	query := `SELECT ` + kind.selectColumns() + ` FROM ` + kind.info().table + ` WHERE meeting_id = $1 ORDER BY id`
	if err := s.db.SelectContext(ctx, &links, query, meetingID); err != nil {
		return nil, translate(err, "list meeting links")
	}
	return kind.tag(links), nil
}

func (s *Storage) GetMeetingLink(ctx context.Context, kind LinkKind, meetingID, targetID int64) (*models.MeetingLink, error) {
	var link models.MeetingLink
	lt := kind.info()
	query := `SELECT ` + kind.selectColumns() + ` FROM ` + lt.table + ` WHERE meeting_id = $1 AND ` + lt.column + ` = $2`
	if err := s.db.GetContext(ctx, &link, query, meetingID, targetID); err != nil {
		return nil, translate(err, "get meeting link")
	}
	link.TargetField = kind.Field()
	return &link, nil
}

type queryer interface {
	QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row
}

func addLink(ctx context.Context, q queryer, kind LinkKind, meetingID int64, in models.MeetingLinkInput) (*models.MeetingLink, error) {
	lt := kind.info()
	var (
		query string
		args  []any
	)
	if lt.hasNote {
		query = `INSERT INTO ` + lt.table + ` (meeting_id, ` + lt.column + `, note) VALUES ($1, $2, $3)`
		args = []any{meetingID, in.TargetID, in.Note}
	} else {
		query = `INSERT INTO ` + lt.table + ` (meeting_id, ` + lt.column + `) VALUES ($1, $2)`
		args = []any{meetingID, in.TargetID}
	}
	query += ` RETURNING ` + kind.selectColumns()

	var link models.MeetingLink
	if err := q.QueryRowxContext(ctx, query, args...).StructScan(&link); err != nil {
		return nil, translate(err, "add meeting link")
	}
	link.TargetField = kind.Field()
	return &link, nil
}

// AddMeetingLink associates a member, objective or key result with a meeting.
// A duplicate pair yields ErrConflict; an unknown target yields ErrReference.
func (s *Storage) AddMeetingLink(ctx context.Context, kind LinkKind, meetingID int64, in models.MeetingLinkInput) (*models.MeetingLink, error) {
	return addLink(ctx, s.db, kind, meetingID, in)
}

func (s *Storage) RemoveMeetingLink(ctx context.Context, kind LinkKind, meetingID, targetID int64) error {
	lt := kind.info()
	query := `DELETE FROM ` + lt.table + ` WHERE meeting_id = $1 AND ` + lt.column + ` = $2`
	return s.execOne(ctx, "remove meeting link", query, meetingID, targetID)
}

// ReplaceMeetingLink swaps oldTargetID for in.TargetID in one transaction.
func (s *Storage) ReplaceMeetingLink(ctx context.Context, kind LinkKind, meetingID, oldTargetID int64, in models.MeetingLinkInput) (*models.MeetingLink, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin replace meeting link")
	}
	defer tx.Rollback()

	lt := kind.info()
	res, err := tx.ExecContext(ctx,
		`DELETE FROM `+lt.table+` WHERE meeting_id = $1 AND `+lt.column+` = $2`, meetingID, oldTargetID)
	if err != nil {
		return nil, translate(err, "replace meeting link")
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, errors.Wrap(err, "replace meeting link")
	} else if n == 0 {
		return nil, ErrNotFound
	}

	link, err := addLink(ctx, tx, kind, meetingID, in)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit replace meeting link")
	}
	return link, nil
}

// UpdateMeetingLinkNote rewrites the note of an objective or key result link.
func (s *Storage) UpdateMeetingLinkNote(ctx context.Context, kind LinkKind, meetingID, targetID int64, note *string) (*models.MeetingLink, error) {
	lt := kind.info()
	if !lt.hasNote {
		return nil, errors.Errorf("%s has no note column", lt.table)
	}
	query := `UPDATE ` + lt.table + ` SET note = $3, updated_at = NOW()
		WHERE meeting_id = $1 AND ` + lt.column + ` = $2
		RETURNING ` + kind.selectColumns()

	var link models.MeetingLink
	if err := s.db.QueryRowxContext(ctx, query, meetingID, targetID, note).StructScan(&link); err != nil {
		return nil, translate(err, "update meeting link note")
	}
	link.TargetField = kind.Field()
	return &link, nil
}

// HasNote reports whether links of this kind carry a note.
func (k LinkKind) HasNote() bool {
	return k.info().hasNote
}

func (s *Storage) GetMeetingAssociations(ctx context.Context, meetingID int64) (*models.MeetingAssociations, error) {
	participants, err := s.ListMeetingLinks(ctx, Participants, meetingID)
	if err != nil {
		return nil, err
	}
	objectives, err := s.ListMeetingLinks(ctx, MeetingObjectives, meetingID)
	if err != nil {
		return nil, err
	}
	keyResults, err := s.ListMeetingLinks(ctx, MeetingKeyResults, meetingID)
	if err != nil {
		return nil, err
	}
	return &models.MeetingAssociations{
		Participants: participants,
		Objectives:   objectives,
		KeyResults:   keyResults,
	}, nil
}
