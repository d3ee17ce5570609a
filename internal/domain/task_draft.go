package domain

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// TaskDraft represents a task to be created from file input.
// Fields are ordered to minimize memory padding.
type TaskDraft struct {
	Title       string   `yaml:"title"`
	Location    string   `yaml:"location"`
	Room        string   `yaml:"room"`
	Priority    string   `yaml:"priority"`
	Recurrence  string   `yaml:"recurrence"`
	Start       string   `yaml:"start"` // YYYY-MM-DD
	At          string   `yaml:"at"`    // HH:MM
	Description string   `yaml:"-"`
	AssignedTo  []string `yaml:"assigned_to"`
	WeekDays    []int    `yaml:"week_days"`
	MonthDays   []int    `yaml:"month_days"`
}

// draftKeys are the frontmatter keys that may open a new block.
var draftKeys = []string{
	"title:", "location:", "room:", "priority:", "recurrence:",
	"start:", "at:", "assigned_to:", "week_days:", "month_days:",
}

// ParseTaskDrafts parses a markdown file containing one or more task definitions.
// Each task is a YAML frontmatter block followed by its description.
//
// Format:
//
//	---
//	title: Leaking tap
//	location: Room 214
//	priority: urgent
//	assigned_to: [u-7]
//	---
//	Bathroom tap drips constantly.
//
//	---
//	title: Pool filter check
//	location: Pool
//	recurrence: 7_days
//	start: 2025-03-03
//	at: "08:00"
//	---
//	Weekly backwash.
func ParseTaskDrafts(content string) ([]TaskDraft, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyFile
	}

	blocks := splitTaskBlocks(content)
	if len(blocks) == 0 {
		return nil, ErrNoTasksInFile
	}

	drafts := make([]TaskDraft, 0, len(blocks))
	for i, block := range blocks {
		draft, err := parseTaskBlock(block)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

// splitTaskBlocks splits content into separate task blocks.
// A "---" line opens a new block only when the next line is a frontmatter key,
// so horizontal rules inside descriptions are kept.
func splitTaskBlocks(content string) []string {
	var blocks []string
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	inBlock := false
	var current []string

	for i, line := range lines {
		if line != "---" {
			if inBlock {
				current = append(current, line)
			}
			continue
		}
		switch {
		case !inBlock:
			inBlock = true
			current = []string{}
		case len(current) == 0:
			current = append(current, line)
		case i+1 < len(lines) && isFrontmatterKey(lines[i+1]):
			blocks = append(blocks, strings.Join(current, "\n"))
			current = []string{}
		default:
			current = append(current, line)
		}
	}

	if len(current) > 0 {
		blocks = append(blocks, strings.Join(current, "\n"))
	}
	return blocks
}

func isFrontmatterKey(line string) bool {
	for _, key := range draftKeys {
		if strings.HasPrefix(line, key) {
			return true
		}
	}
	return false
}

// parseTaskBlock decodes the frontmatter of one block and takes everything
// after the closing "---" as the description.
func parseTaskBlock(block string) (TaskDraft, error) {
	front, body, found := strings.Cut(block, "\n---")
	if !found {
		front, body = block, ""
	}
	body = strings.TrimPrefix(body, "\n")

	var draft TaskDraft
	dec := yaml.NewDecoder(bytes.NewBufferString(front))
	dec.KnownFields(true)
	if err := dec.Decode(&draft); err != nil {
		if errors.Is(err, io.EOF) {
			return TaskDraft{}, ErrEmptyTitle
		}
		return TaskDraft{}, fmt.Errorf("%w: frontmatter: %v", ErrValidation, err)
	}

	draft.Title = strings.TrimSpace(draft.Title)
	if draft.Title == "" {
		return TaskDraft{}, ErrEmptyTitle
	}
	draft.Description = strings.TrimSpace(body)
	draft.AssignedTo = NormalizeRecipients(draft.AssignedTo)

	if _, _, err := draft.ExecutionTime(); err != nil {
		return TaskDraft{}, err
	}
	if _, err := draft.StartDate(time.UTC); err != nil {
		return TaskDraft{}, err
	}
	return draft, nil
}

// ExecutionTime parses the "at" field. An empty field means 00:00.
func (d TaskDraft) ExecutionTime() (hour, minute int, err error) {
	if d.At == "" {
		return 0, 0, nil
	}
	t, err := time.Parse("15:04", d.At)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidExecTime, d.At)
	}
	return t.Hour(), t.Minute(), nil
}

// StartDate parses the "start" field as a calendar date in loc.
func (d TaskDraft) StartDate(loc *time.Location) (*time.Time, error) {
	if d.Start == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, d.Start, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: start date %q", ErrValidation, d.Start)
	}
	return &t, nil
}
