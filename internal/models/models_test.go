package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullInt64_Presence(t *testing.T) {
	var in UpdateMemberInput
	require.NoError(t, json.Unmarshal([]byte(`{"position":"CTO"}`), &in))
	assert.False(t, in.SupervisorID.Set)

	require.NoError(t, json.Unmarshal([]byte(`{"supervisor_id":null}`), &in))
	assert.True(t, in.SupervisorID.Set)
	assert.False(t, in.SupervisorID.Valid)
	assert.Nil(t, in.SupervisorID.Ptr())

	in = UpdateMemberInput{}
	require.NoError(t, json.Unmarshal([]byte(`{"supervisor_id":7}`), &in))
	assert.True(t, in.SupervisorID.Set)
	require.NotNil(t, in.SupervisorID.Ptr())
	assert.Equal(t, int64(7), *in.SupervisorID.Ptr())
}

func TestMember_ApplyLeavesAbsentFieldsUntouched(t *testing.T) {
	sup := int64(1)
	email := "jan@example.com"
	m := Member{ID: 2, FirstName: "Jan", LastName: "Novak", Position: "Dev", Email: &email, SupervisorID: &sup}

	var in UpdateMemberInput
	require.NoError(t, json.Unmarshal([]byte(`{"position":"Lead"}`), &in))
	m.Apply(in)

	assert.Equal(t, "Lead", m.Position)
	assert.Equal(t, "Jan", m.FirstName)
	require.NotNil(t, m.Email)
	assert.Equal(t, email, *m.Email)
	require.NotNil(t, m.SupervisorID)
	assert.Equal(t, int64(1), *m.SupervisorID)

	require.NoError(t, json.Unmarshal([]byte(`{"supervisor_id":null}`), &in))
	m.Apply(in)
	assert.Nil(t, m.SupervisorID)
}

func TestUser_ApplyIgnoresPassword(t *testing.T) {
	u := User{UserName: "admin", Email: "a@example.com", PasswordHash: "hash"}
	pw := "new-password"
	name := "root"
	u.Apply(UpdateUserInput{UserName: &name, Password: &pw})

	assert.Equal(t, "root", u.UserName)
	assert.Equal(t, "hash", u.PasswordHash)
}

func TestDate_JSON(t *testing.T) {
	d := NewDate(2025, time.May, 21)
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-05-21"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, d.Equal(back.Time))

	assert.Error(t, json.Unmarshal([]byte(`"21.05.2025"`), &back))
}

func TestClockTime_ScanAndJSON(t *testing.T) {
	var c ClockTime
	require.NoError(t, c.Scan([]byte("09:30:00")))
	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `"09:30:00"`, string(data))

	require.NoError(t, json.Unmarshal([]byte(`"14:15"`), &c))
	assert.Equal(t, 14, c.Hour())
	assert.Equal(t, 15, c.Minute())
}

func TestMeetingLink_JSONUsesTargetField(t *testing.T) {
	note := "discussed"
	data, err := json.Marshal(MeetingLink{ID: 1, MeetingID: 3, TargetID: 9, TargetField: "objective_id", Note: &note})
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, float64(9), out["objective_id"])
	assert.Equal(t, "discussed", out["note"])

	data, err = json.Marshal(MeetingLink{ID: 2, MeetingID: 3, TargetID: 5, TargetField: "member_id"})
	require.NoError(t, err)
	out = map[string]any{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, float64(5), out["member_id"])
	_, hasNote := out["note"]
	assert.False(t, hasNote)
}

func TestCreateDefaults(t *testing.T) {
	o := CreateObjectiveInput{Title: "Ship"}.Objective()
	assert.Equal(t, "medium", o.Priority)
	assert.Equal(t, "not_started", o.Status)

	kr := CreateKeyResultInput{Title: "NPS"}.KeyResult()
	assert.Equal(t, "current", kr.Status)
	assert.Equal(t, "moderate", kr.Complexity)

	msg := CreateMessageInput{Title: "Hi", Message: "there"}.Msg()
	assert.Equal(t, "Medium", msg.Priority)
}
