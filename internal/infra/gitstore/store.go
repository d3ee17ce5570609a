// Package gitstore provides a Git plumbing-based implementation of TaskRepository.
package gitstore

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"gopkg.in/yaml.v3"

	"github.com/hotelops/reklamacije/internal/domain"
)

// Store implements domain.TaskRepository using Git plumbing (refs and blobs).
//
// Data structure:
//
//	refs/<namespace>/
//	  initialized → blob marker
//	  tasks/
//	    <id>      → blob (task YAML)
//	  history/
//	    <id>      → blob (history YAML)
//	  children/
//	    <parent-id>/<unix-nanos> → blob (child id)
//
// The children index holds one ref per (template, scheduled_for) and is what
// CreateTask checks to reject duplicate occurrences.
type Store struct {
	repo      *git.Repository
	namespace string // e.g., "reklamacije"
	mu        sync.RWMutex
}

// historyData holds the history rows of a task.
type historyData struct {
	Entries []domain.TaskHistory `yaml:"entries"`
}

// Ensure Store implements the domain interfaces.
var (
	_ domain.TaskRepository   = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)

// Open opens the repository at repoPath, creating a bare repository if none exists.
func Open(repoPath, namespace string) (*Store, error) {
	repo, err := git.PlainOpen(repoPath)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		repo, err = git.PlainInit(repoPath, true)
	}
	if err != nil {
		return nil, fmt.Errorf("open git repository: %w", err)
	}
	return NewWithRepo(repo, namespace), nil
}

// FromConfig opens the store described by cfg.
func FromConfig(cfg domain.StoreConfig, dataDir string) (*Store, error) {
	path := cfg.Repo
	if path == "" {
		path = domain.DefaultGitRepoPath(dataDir)
	}
	return Open(path, cfg.Namespace)
}

// NewWithRepo creates a new Store with an existing repository instance.
func NewWithRepo(repo *git.Repository, namespace string) *Store {
	if namespace == "" {
		namespace = domain.DefaultStoreNamespace
	}
	return &Store{
		repo:      repo,
		namespace: namespace,
	}
}

// refPrefix returns the ref prefix for this namespace.
func (s *Store) refPrefix() string {
	return "refs/" + s.namespace + "/"
}

func (s *Store) taskRef(id string) plumbing.ReferenceName {
	return plumbing.ReferenceName(s.refPrefix() + "tasks/" + id)
}

func (s *Store) historyRef(id string) plumbing.ReferenceName {
	return plumbing.ReferenceName(s.refPrefix() + "history/" + id)
}

// childRef returns the index ref for one occurrence of a template.
// The key is the instant in Unix nanoseconds so zones never matter.
func (s *Store) childRef(parentID string, scheduledFor time.Time) plumbing.ReferenceName {
	return plumbing.ReferenceName(s.refPrefix() + "children/" + parentID + "/" +
		strconv.FormatInt(scheduledFor.UnixNano(), 10))
}

func (s *Store) initializedRef() plumbing.ReferenceName {
	return plumbing.ReferenceName(s.refPrefix() + "initialized")
}

// GetTaskByID retrieves a task.
func (s *Store) GetTaskByID(_ context.Context, id string) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getLocked(id)
}

func (s *Store) getLocked(id string) (*domain.Task, error) {
	ref, err := s.repo.Reference(s.taskRef(id), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task ref: %w", err)
	}
	return s.decodeTask(id, ref.Hash())
}

func (s *Store) decodeTask(id string, hash plumbing.Hash) (*domain.Task, error) {
	data, err := s.readBlob(hash)
	if err != nil {
		return nil, fmt.Errorf("read task: %w", err)
	}

	var task domain.Task
	if err := yaml.Unmarshal(data, &task); err != nil {
		return nil, fmt.Errorf("decode task %s: %w", id, err)
	}
	task.ID = id
	task.Priority = task.Priority.Normalize()
	return &task, nil
}

// all loads every task in the namespace.
func (s *Store) all() ([]*domain.Task, error) {
	var tasks []*domain.Task
	prefix := s.refPrefix() + "tasks/"

	refs, err := s.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list refs: %w", err)
	}

	err = refs.ForEach(func(ref *plumbing.Reference) error {
		id, ok := strings.CutPrefix(string(ref.Name()), prefix)
		if !ok || id == "" {
			return nil
		}
		task, decodeErr := s.decodeTask(id, ref.Hash())
		if decodeErr != nil {
			return decodeErr
		}
		tasks = append(tasks, task)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListTasks returns tasks matching the filter, newest first.
func (s *Store) ListTasks(_ context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks, err := s.all()
	if err != nil {
		return nil, err
	}
	tasks = slices.DeleteFunc(tasks, func(t *domain.Task) bool { return !filter.Matches(t) })
	slices.SortFunc(tasks, func(a, b *domain.Task) int {
		if c := b.Created.Compare(a.Created); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return tasks, nil
}

// GetDueTemplates returns recurring templates with a next occurrence,
// earliest first.
func (s *Store) GetDueTemplates(_ context.Context) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks, err := s.all()
	if err != nil {
		return nil, err
	}
	tasks = slices.DeleteFunc(tasks, func(t *domain.Task) bool { return !domain.IsDueTemplateCandidate(t) })
	slices.SortFunc(tasks, func(a, b *domain.Task) int {
		return a.NextOccurrence.Compare(*b.NextOccurrence)
	})
	return tasks, nil
}

// GetChildTasksByParentID returns the children of a template, earliest occurrence first.
func (s *Store) GetChildTasksByParentID(_ context.Context, parentID string) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks, err := s.all()
	if err != nil {
		return nil, err
	}
	filter := domain.TaskFilter{ParentID: &parentID}
	tasks = slices.DeleteFunc(tasks, func(t *domain.Task) bool { return !filter.Matches(t) })
	slices.SortFunc(tasks, func(a, b *domain.Task) int {
		return compareScheduled(a.ScheduledFor, b.ScheduledFor)
	})
	return tasks, nil
}

func compareScheduled(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}

// GetChildByParentAndDate resolves the children index.
func (s *Store) GetChildByParentAndDate(_ context.Context, parentID string, scheduledFor time.Time) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	childID, err := s.indexedChild(parentID, scheduledFor)
	if err != nil || childID == "" {
		return nil, err
	}
	return s.getLocked(childID)
}

func (s *Store) indexedChild(parentID string, scheduledFor time.Time) (string, error) {
	ref, err := s.repo.Reference(s.childRef(parentID, scheduledFor), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("get child index ref: %w", err)
	}
	data, err := s.readBlob(ref.Hash())
	if err != nil {
		return "", fmt.Errorf("read child index: %w", err)
	}
	return string(data), nil
}

// CreateTask stores a new task. A child whose occurrence is already indexed
// is rejected with ErrDuplicateChild.
func (s *Store) CreateTask(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task.IsChild() && task.ScheduledFor != nil {
		existing, err := s.indexedChild(*task.ParentTaskID, *task.ScheduledFor)
		if err != nil {
			return err
		}
		if existing != "" && existing != task.ID {
			return domain.ErrDuplicateChild
		}
	}
	if err := s.saveLocked(task); err != nil {
		return err
	}
	return s.indexChild(task)
}

// UpdateTask replaces a stored task.
func (s *Store) UpdateTask(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, err := s.getLocked(task.ID)
	if err != nil {
		return err
	}
	if old == nil {
		return domain.ErrTaskNotFound
	}

	if task.IsChild() && task.ScheduledFor != nil {
		existing, err := s.indexedChild(*task.ParentTaskID, *task.ScheduledFor)
		if err != nil {
			return err
		}
		if existing != "" && existing != task.ID {
			return domain.ErrDuplicateChild
		}
	}
	if err := s.saveLocked(task); err != nil {
		return err
	}
	if err := s.unindexChild(old); err != nil {
		return err
	}
	return s.indexChild(task)
}

func (s *Store) saveLocked(task *domain.Task) error {
	data, err := yaml.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}
	hash, err := s.writeBlob(data)
	if err != nil {
		return err
	}
	ref := plumbing.NewHashReference(s.taskRef(task.ID), hash)
	if err := s.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("set task ref: %w", err)
	}
	return nil
}

func (s *Store) indexChild(task *domain.Task) error {
	if !task.IsChild() || task.ScheduledFor == nil {
		return nil
	}
	hash, err := s.writeBlob([]byte(task.ID))
	if err != nil {
		return err
	}
	ref := plumbing.NewHashReference(s.childRef(*task.ParentTaskID, *task.ScheduledFor), hash)
	if err := s.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("set child index ref: %w", err)
	}
	return nil
}

func (s *Store) unindexChild(task *domain.Task) error {
	if !task.IsChild() || task.ScheduledFor == nil {
		return nil
	}
	return s.removeRef(s.childRef(*task.ParentTaskID, *task.ScheduledFor))
}

func (s *Store) removeRef(name plumbing.ReferenceName) error {
	if err := s.repo.Storer.RemoveReference(name); err != nil && !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return fmt.Errorf("remove ref %s: %w", name, err)
	}
	return nil
}

// DeleteTask removes a task, its history and its index entry.
func (s *Store) DeleteTask(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.getLocked(id)
	if err != nil {
		return err
	}
	if task == nil {
		return domain.ErrTaskNotFound
	}

	if err := s.removeRef(s.taskRef(id)); err != nil {
		return err
	}
	if err := s.removeRef(s.historyRef(id)); err != nil {
		return err
	}
	return s.unindexChild(task)
}

// CreateTaskHistory appends a history row.
func (s *Store) CreateTaskHistory(_ context.Context, entry *domain.TaskHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.repo.Reference(s.taskRef(entry.TaskID), true); err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, entry.TaskID)
		}
		return fmt.Errorf("get task ref: %w", err)
	}

	history, err := s.historyLocked(entry.TaskID)
	if err != nil {
		return err
	}
	history = append(history, *entry)

	data, err := yaml.Marshal(historyData{Entries: history})
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	hash, err := s.writeBlob(data)
	if err != nil {
		return err
	}
	ref := plumbing.NewHashReference(s.historyRef(entry.TaskID), hash)
	if err := s.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("set history ref: %w", err)
	}
	return nil
}

// GetTaskHistory returns the history of a task, oldest first.
func (s *Store) GetTaskHistory(_ context.Context, taskID string) ([]domain.TaskHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, err := s.historyLocked(taskID)
	if err != nil {
		return nil, err
	}
	return domain.SortHistory(history), nil
}

func (s *Store) historyLocked(taskID string) ([]domain.TaskHistory, error) {
	ref, err := s.repo.Reference(s.historyRef(taskID), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get history ref: %w", err)
	}

	data, err := s.readBlob(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	var h historyData
	if err := yaml.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return h.Entries, nil
}

func (s *Store) writeBlob(data []byte) (plumbing.Hash, error) {
	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(data)))

	writer, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("create blob writer: %w", err)
	}

	if _, writeErr := writer.Write(data); writeErr != nil {
		_ = writer.Close()
		return plumbing.ZeroHash, fmt.Errorf("write blob: %w", writeErr)
	}
	_ = writer.Close()

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("store blob: %w", err)
	}

	return hash, nil
}

func (s *Store) readBlob(hash plumbing.Hash) ([]byte, error) {
	blob, err := s.repo.BlobObject(hash)
	if err != nil {
		return nil, fmt.Errorf("get blob: %w", err)
	}

	reader, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	defer func() { _ = reader.Close() }()

	return io.ReadAll(reader)
}

// Initialize creates the initialized marker. It is idempotent.
func (s *Store) Initialize(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.repo.Reference(s.initializedRef(), true)
	if err == nil {
		return nil
	}
	if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return fmt.Errorf("check initialized ref: %w", err)
	}

	hash, err := s.writeBlob([]byte("initialized"))
	if err != nil {
		return err
	}
	ref := plumbing.NewHashReference(s.initializedRef(), hash)
	if err := s.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("set initialized ref: %w", err)
	}
	return nil
}

// IsInitialized reports whether the marker ref exists.
func (s *Store) IsInitialized(_ context.Context) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := s.repo.Reference(s.initializedRef(), true)
	return err == nil
}
