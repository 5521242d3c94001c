// Package store owns the section/item collection, the completion state
// machine, and the running-item selection used by the focus view. Mutations
// are invoked synchronously from UI callbacks; the store is not safe for
// concurrent use and does not need to be.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/VedPanse/Lockin/internal/model"
	"github.com/VedPanse/Lockin/internal/notify"
	"github.com/VedPanse/Lockin/internal/storage"
)

var (
	ErrSectionNotFound = errors.New("store: section not found")
	ErrItemNotFound    = errors.New("store: item not found")
)

// bucketAccent is the accent given to the lazily created Completed bucket.
const bucketAccent = "#9CA3AF"

type Store struct {
	repo      storage.Repository
	reminders notify.Reminders
	clock     Clock
	log       *zap.Logger

	sections map[string]*model.Section
	items    map[string]*model.Item
	bucketID string
}

func New(repo storage.Repository, reminders notify.Reminders, clock Clock, log *zap.Logger) *Store {
	if reminders == nil {
		reminders = notify.Noop{}
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		repo:      repo,
		reminders: reminders,
		clock:     clock,
		log:       log,
		sections:  make(map[string]*model.Section),
		items:     make(map[string]*model.Item),
	}
}

// Load hydrates the store from the repository and re-registers reminders for
// incomplete items whose due time is still ahead.
func Load(ctx context.Context, repo storage.Repository, reminders notify.Reminders, clock Clock, log *zap.Logger) (*Store, error) {
	s := New(repo, reminders, clock, log)

	sections, err := repo.ListSections(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sections: %w", err)
	}
	for _, rec := range sections {
		section := sectionFromRecord(rec)
		s.sections[section.ID] = &section
		if section.Bucket && s.bucketID == "" {
			s.bucketID = section.ID
		}
	}

	items, err := repo.ListItems(ctx, storage.ItemListFilter{})
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	now := s.clock.Now()
	for _, rec := range items {
		item := itemFromRecord(rec)
		s.items[item.ID] = &item
		if !item.Completed && item.DueAt.After(now) {
			s.scheduleReminder(item)
		}
	}
	return s, nil
}

func (s *Store) CreateSection(ctx context.Context, title, accentColor string) (model.Section, error) {
	section := model.Section{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(title),
		AccentColor: accentColor,
		CreatedAt:   s.clock.Now(),
	}
	if err := section.Validate(); err != nil {
		return model.Section{}, err
	}
	if err := s.repo.CreateSection(ctx, sectionToRecord(section)); err != nil {
		return model.Section{}, fmt.Errorf("persist section: %w", err)
	}
	s.sections[section.ID] = &section
	return section, nil
}

// DeleteSection removes the section and every item it contains, canceling
// each item's reminder. Items parked in the Completed bucket that point back
// at the deleted section keep their dangling reference until their next
// toggle.
func (s *Store) DeleteSection(ctx context.Context, id string) error {
	if _, ok := s.sections[id]; !ok {
		return ErrSectionNotFound
	}
	if err := s.repo.DeleteSection(ctx, id); err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	for itemID, item := range s.items {
		if item.SectionID != id {
			continue
		}
		s.reminders.Cancel(itemID)
		delete(s.items, itemID)
	}
	delete(s.sections, id)
	if s.bucketID == id {
		s.bucketID = ""
	}
	return nil
}

type CreateItemInput struct {
	Title   string
	DueAt   time.Time
	StartAt *time.Time
	Notes   string
}

func (s *Store) CreateItem(ctx context.Context, sectionID string, in CreateItemInput) (model.Item, error) {
	if _, ok := s.sections[sectionID]; !ok {
		return model.Item{}, ErrSectionNotFound
	}
	item := model.Item{
		ID:        uuid.NewString(),
		SectionID: sectionID,
		Title:     strings.TrimSpace(in.Title),
		Notes:     in.Notes,
		DueAt:     in.DueAt,
		StartAt:   in.StartAt,
		CreatedAt: s.clock.Now(),
	}
	if err := item.Validate(); err != nil {
		return model.Item{}, err
	}
	if err := s.repo.CreateItem(ctx, itemToRecord(item)); err != nil {
		return model.Item{}, fmt.Errorf("persist item: %w", err)
	}
	s.items[item.ID] = &item
	s.scheduleReminder(item)
	return item, nil
}

type UpdateItemInput struct {
	Title      *string
	Notes      *string
	DueAt      *time.Time
	StartAt    *time.Time
	ClearStart bool
}

// UpdateItem edits an item's fields and replaces its reminder with a
// cancel+schedule pair.
func (s *Store) UpdateItem(ctx context.Context, id string, in UpdateItemInput) (model.Item, error) {
	item, ok := s.items[id]
	if !ok {
		return model.Item{}, ErrItemNotFound
	}
	next := *item
	if in.Title != nil {
		next.Title = strings.TrimSpace(*in.Title)
	}
	if in.Notes != nil {
		next.Notes = *in.Notes
	}
	if in.DueAt != nil {
		next.DueAt = *in.DueAt
	}
	if in.ClearStart {
		next.StartAt = nil
	} else if in.StartAt != nil {
		next.StartAt = in.StartAt
	}
	if err := next.Validate(); err != nil {
		return model.Item{}, err
	}
	if err := s.repo.UpdateItem(ctx, itemToRecord(next)); err != nil {
		return model.Item{}, fmt.Errorf("persist item: %w", err)
	}
	*item = next
	s.reminders.Cancel(id)
	if !next.Completed {
		s.scheduleReminder(next)
	}
	return next, nil
}

func (s *Store) DeleteItem(ctx context.Context, id string) error {
	if _, ok := s.items[id]; !ok {
		return ErrItemNotFound
	}
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	s.reminders.Cancel(id)
	delete(s.items, id)
	return nil
}

// ToggleCompletion flips an item between Active and Completed. Completing an
// item moves it into the (obtain-or-create) bucket, remembering its section
// and canceling its pending reminder; the returned flag tells the caller to
// celebrate. Un-completing moves it back to the remembered section when that
// section still exists, re-registering the reminder if the due time is still
// ahead; otherwise the item stays parked in the bucket, still completed, and
// only the stale back-reference is cleared.
func (s *Store) ToggleCompletion(ctx context.Context, id string) (celebrate bool, err error) {
	item, ok := s.items[id]
	if !ok {
		return false, ErrItemNotFound
	}

	if !item.Completed {
		bucket, err := s.ensureBucket(ctx)
		if err != nil {
			return false, err
		}
		next := *item
		next.PrevSectionID = next.SectionID
		next.SectionID = bucket
		next.Completed = true
		if err := s.repo.UpdateItem(ctx, itemToRecord(next)); err != nil {
			return false, fmt.Errorf("persist item: %w", err)
		}
		*item = next
		s.reminders.Cancel(id)
		return true, nil
	}

	next := *item
	target := next.PrevSectionID
	next.PrevSectionID = ""
	if _, exists := s.sections[target]; exists {
		next.SectionID = target
		next.Completed = false
	}
	if err := s.repo.UpdateItem(ctx, itemToRecord(next)); err != nil {
		return false, fmt.Errorf("persist item: %w", err)
	}
	*item = next
	if !next.Completed && next.DueAt.After(s.clock.Now()) {
		s.scheduleReminder(next)
	}
	return false, nil
}

// ensureBucket returns the Completed bucket's id, creating the bucket on
// first use. The bucket is tracked by an explicit reference, so a user
// section that happens to be titled "Completed" never collides with it.
func (s *Store) ensureBucket(ctx context.Context) (string, error) {
	if s.bucketID != "" {
		if _, ok := s.sections[s.bucketID]; ok {
			return s.bucketID, nil
		}
		s.bucketID = ""
	}
	bucket := model.Section{
		ID:          uuid.NewString(),
		Title:       model.BucketTitle,
		AccentColor: bucketAccent,
		Bucket:      true,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.repo.CreateSection(ctx, sectionToRecord(bucket)); err != nil {
		return "", fmt.Errorf("persist bucket: %w", err)
	}
	s.sections[bucket.ID] = &bucket
	s.bucketID = bucket.ID
	return bucket.ID, nil
}

func (s *Store) Section(id string) (model.Section, bool) {
	section, ok := s.sections[id]
	if !ok {
		return model.Section{}, false
	}
	return *section, true
}

func (s *Store) Item(id string) (model.Item, bool) {
	item, ok := s.items[id]
	if !ok {
		return model.Item{}, false
	}
	return *item, true
}

// BucketID returns the Completed bucket's id, or "" if no item has ever been
// completed.
func (s *Store) BucketID() string {
	return s.bucketID
}

// Sections returns all sections sorted by title case-insensitively, with the
// Completed bucket always last regardless of how its title compares.
func (s *Store) Sections() []model.Section {
	out := make([]model.Section, 0, len(s.sections))
	for _, section := range s.sections {
		out = append(out, *section)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Bucket != out[j].Bucket {
			return !out[i].Bucket
		}
		a, b := strings.ToLower(out[i].Title), strings.ToLower(out[j].Title)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Items returns the section's items sorted by ascending due timestamp, ties
// broken by creation order.
func (s *Store) Items(sectionID string) []model.Item {
	out := make([]model.Item, 0)
	for _, item := range s.itemsInCreationOrder() {
		if item.SectionID == sectionID {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueAt.Before(out[j].DueAt)
	})
	return out
}

// Running computes the currently running items against the clock's today.
func (s *Store) Running() []model.Item {
	return RunningItems(s.itemsInCreationOrder(), s.clock.Now())
}

func (s *Store) itemsInCreationOrder() []model.Item {
	out := make([]model.Item, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, *item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) scheduleReminder(item model.Item) {
	body := "due " + item.DueAt.Local().Format("Mon Jan 2 15:04")
	s.reminders.Schedule(item.ID, item.Title, body, item.DueAt)
}

func sectionToRecord(in model.Section) storage.Section {
	return storage.Section{
		ID:          in.ID,
		Title:       in.Title,
		AccentColor: in.AccentColor,
		Bucket:      in.Bucket,
		CreatedAt:   in.CreatedAt,
	}
}

func sectionFromRecord(in storage.Section) model.Section {
	return model.Section{
		ID:          in.ID,
		Title:       in.Title,
		AccentColor: in.AccentColor,
		Bucket:      in.Bucket,
		CreatedAt:   in.CreatedAt,
	}
}

func itemToRecord(in model.Item) storage.Item {
	return storage.Item{
		ID:            in.ID,
		SectionID:     in.SectionID,
		Title:         in.Title,
		Notes:         in.Notes,
		DueAt:         in.DueAt,
		StartAt:       in.StartAt,
		Completed:     in.Completed,
		PrevSectionID: in.PrevSectionID,
		CreatedAt:     in.CreatedAt,
	}
}

func itemFromRecord(in storage.Item) model.Item {
	return model.Item{
		ID:            in.ID,
		SectionID:     in.SectionID,
		Title:         in.Title,
		Notes:         in.Notes,
		DueAt:         in.DueAt,
		StartAt:       in.StartAt,
		Completed:     in.Completed,
		PrevSectionID: in.PrevSectionID,
		CreatedAt:     in.CreatedAt,
	}
}
