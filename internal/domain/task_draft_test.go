package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskDrafts(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		content string
		want    []TaskDraft
	}{
		{
			name: "single task",
			content: `---
title: Leaking tap
location: Room 214
---
Bathroom tap drips constantly.`,
			want: []TaskDraft{
				{
					Title:       "Leaking tap",
					Location:    "Room 214",
					Description: "Bathroom tap drips constantly.",
				},
			},
		},
		{
			name: "assignees array deduplicated",
			content: `---
title: Broken AC
location: Room 101
priority: urgent
assigned_to: [u-1, " u-2 ", u-1]
---
No cooling.`,
			want: []TaskDraft{
				{
					Title:       "Broken AC",
					Location:    "Room 101",
					Priority:    "urgent",
					AssignedTo:  []string{"u-1", "u-2"},
					Description: "No cooling.",
				},
			},
		},
		{
			name: "recurring task with schedule",
			content: `---
title: Pool filter check
location: Pool
recurrence: 7_days
start: 2025-03-03
at: "08:30"
week_days: [1, 4]
---
Weekly backwash.`,
			want: []TaskDraft{
				{
					Title:       "Pool filter check",
					Location:    "Pool",
					Recurrence:  "7_days",
					Start:       "2025-03-03",
					At:          "08:30",
					WeekDays:    []int{1, 4},
					Description: "Weekly backwash.",
				},
			},
		},
		{
			name: "multiple tasks keep horizontal rules in body",
			content: `---
title: Lobby lights
location: Lobby
---
Replace bulbs.

---

Check dimmer too.

---
title: Elevator noise
location: Elevator B
---
Squeaks between floors.`,
			want: []TaskDraft{
				{
					Title:       "Lobby lights",
					Location:    "Lobby",
					Description: "Replace bulbs.\n\n---\n\nCheck dimmer too.",
				},
				{
					Title:       "Elevator noise",
					Location:    "Elevator B",
					Description: "Squeaks between floors.",
				},
			},
		},
		{
			name:    "empty content",
			content: "  \n",
			wantErr: ErrEmptyFile,
		},
		{
			name:    "no frontmatter",
			content: "just some text",
			wantErr: ErrNoTasksInFile,
		},
		{
			name: "missing title",
			content: `---
location: Room 1
---
Body`,
			wantErr: ErrEmptyTitle,
		},
		{
			name: "bad execution time",
			content: `---
title: Night check
at: "25:00"
---
Body`,
			wantErr: ErrInvalidExecTime,
		},
		{
			name: "unknown key rejected",
			content: `---
title: Typo
locaton: Room 1
---
Body`,
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTaskDrafts(tt.content)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTaskDrafts_ErrorNamesTaskIndex(t *testing.T) {
	content := `---
title: First
---
ok

---
title: ""
location: Room 2
---
second has no title`

	_, err := ParseTaskDrafts(content)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "task 2")
}

func TestTaskDraft_ExecutionTime(t *testing.T) {
	h, m, err := TaskDraft{At: "07:45"}.ExecutionTime()
	require.NoError(t, err)
	assert.Equal(t, 7, h)
	assert.Equal(t, 45, m)

	h, m, err = TaskDraft{}.ExecutionTime()
	require.NoError(t, err)
	assert.Zero(t, h)
	assert.Zero(t, m)
}

func TestTaskDraft_StartDate(t *testing.T) {
	loc := time.FixedZone("CET", 3600)

	got, err := TaskDraft{Start: "2025-01-31"}.StartDate(loc)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Equal(time.Date(2025, time.January, 31, 0, 0, 0, 0, loc)))

	got, err = TaskDraft{}.StartDate(loc)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = TaskDraft{Start: "31.01.2025"}.StartDate(loc)
	assert.ErrorIs(t, err, ErrValidation)
}
