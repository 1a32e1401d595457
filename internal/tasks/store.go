package tasks

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"tasklist-cli/internal/model"
	"tasklist-cli/internal/store"
)

const (
	storageKey = "tasks"
	// An unreadable payload is parked here before Load falls back to an empty collection.
	backupKey = "tasks.bak"
)

// Store owns the canonical, most-recent-first task collection and its durable mirror.
//
// Every mutation builds the next collection, persists it, and only then swaps it in,
// all under one lock. A failed write therefore leaves memory and storage in agreement.
type Store struct {
	mu    sync.Mutex
	kv    store.KV
	tasks []model.Task

	categories []string
	now        func() time.Time
	newID      func() string
	log        log.FieldLogger
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithCategories(categories []string) Option {
	return func(s *Store) {
		if len(categories) > 0 {
			s.categories = append([]string(nil), categories...)
		}
	}
}

func WithLogger(l log.FieldLogger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func New(kv store.KV, opts ...Option) *Store {
	s := &Store{
		kv:         kv,
		tasks:      []model.Task{},
		categories: append([]string(nil), model.DefaultCategories...),
		now:        time.Now,
		newID:      store.NewTaskID,
		log:        log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collection with the stored one.
// Missing, unreadable or malformed data loads as an empty collection.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = []model.Task{}

	raw, ok, err := s.kv.Get(ctx, storageKey)
	if err != nil {
		s.log.WithError(err).Warn("failed to read tasks; starting with an empty list")
		return
	}
	if !ok {
		return
	}
	ts, err := DecodeTasks(raw)
	if err != nil {
		s.log.WithError(err).Warn("discarding unreadable task data")
		if berr := s.kv.Set(ctx, backupKey, raw); berr != nil {
			s.log.WithError(berr).Warn("failed to back up unreadable task data")
		}
		return
	}
	s.tasks = ts
	s.log.WithField("count", len(ts)).Debug("tasks loaded")
}

func (s *Store) Create(ctx context.Context, title, category, expiryDate string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in, err := validateInput(title, category, expiryDate, s.categories, s.now())
	if err != nil {
		return model.Task{}, err
	}
	t := model.Task{
		ID:         s.freshID(),
		Title:      in.title,
		Category:   in.category,
		ExpiryDate: in.expiryDate,
		Notified:   false,
		Completed:  false,
	}
	next := make([]model.Task, 0, len(s.tasks)+1)
	next = append(next, t)
	next = append(next, s.tasks...)
	if err := s.commit(ctx, "create", next); err != nil {
		return model.Task{}, err
	}
	s.log.WithField("task", t.ID).Debug("task created")
	return t, nil
}

// Edit overwrites title, category and expiry date. The notified flag is left as is,
// even when the expiry date moves forward.
func (s *Store) Edit(ctx context.Context, id, title, category, expiryDate string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in, err := validateInput(title, category, expiryDate, s.categories, s.now())
	if err != nil {
		return model.Task{}, err
	}
	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, errNotFound(id)
	}
	next := s.cloneTasks()
	next[i].Title = in.title
	next[i].Category = in.category
	next[i].ExpiryDate = in.expiryDate
	if err := s.commit(ctx, "edit", next); err != nil {
		return model.Task{}, err
	}
	return next[i], nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return errNotFound(id)
	}
	next := make([]model.Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)
	return s.commit(ctx, "delete", next)
}

func (s *Store) ToggleCompletion(ctx context.Context, id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, errNotFound(id)
	}
	next := s.cloneTasks()
	next[i].Completed = !next[i].Completed
	if err := s.commit(ctx, "toggle", next); err != nil {
		return model.Task{}, err
	}
	return next[i], nil
}

// MarkNotified flags a task as notified. Already-flagged tasks are not rewritten.
func (s *Store) MarkNotified(ctx context.Context, id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, errNotFound(id)
	}
	if s.tasks[i].Notified {
		return s.tasks[i], nil
	}
	next := s.cloneTasks()
	next[i].Notified = true
	if err := s.commit(ctx, "mark-notified", next); err != nil {
		return model.Task{}, err
	}
	return next[i], nil
}

// Replace swaps in an imported collection. Records are checked structurally only;
// past expiry dates are accepted since imports carry history.
func (s *Store) Replace(ctx context.Context, ts []model.Task) error {
	b, err := EncodeTasks(ts)
	if err != nil {
		return err
	}
	checked, err := DecodeTasks(b)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, "import", checked)
}

// Export returns the collection exactly as it is persisted.
func (s *Store) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return EncodeTasks(s.tasks)
}

// Tasks returns a copy of the full collection, most recent first.
func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cloneTasks()
}

func (s *Store) Get(id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, errNotFound(id)
	}
	return s.tasks[i], nil
}

// NewCriteria is NewCriteria checked against the store's configured categories.
func (s *Store) NewCriteria(search, category, startDate, endDate string) (Criteria, error) {
	return NewCriteria(s.Categories(), search, category, startDate, endDate)
}

// Visible returns the filtered view for c.
func (s *Store) Visible(c Criteria) []model.Task {
	return Filter(s.Tasks(), c)
}

// Due returns unnotified tasks whose expiry date is at or before now, regardless of completion.
func (s *Store) Due(now time.Time) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Task
	for _, t := range s.tasks {
		if !t.Notified && t.IsDue(now) {
			out = append(out, t)
		}
	}
	return out
}

func (s *Store) Categories() []string {
	return append([]string(nil), s.categories...)
}

func (s *Store) commit(ctx context.Context, op string, next []model.Task) error {
	b, err := EncodeTasks(next)
	if err != nil {
		return errStorageWrite(op, err)
	}
	if err := s.kv.Set(ctx, storageKey, b); err != nil {
		s.log.WithError(err).WithField("op", op).Error("failed to persist tasks")
		return errStorageWrite(op, err)
	}
	s.tasks = next
	return nil
}

func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) freshID() string {
	for {
		id := s.newID()
		if id != "" && s.indexOf(id) < 0 {
			return id
		}
	}
}

func (s *Store) cloneTasks() []model.Task {
	return append(make([]model.Task, 0, len(s.tasks)), s.tasks...)
}
