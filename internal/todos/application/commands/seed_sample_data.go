package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	sharedApplication "github.com/felixgeelhaar/ordo/internal/shared/application"
	shared "github.com/felixgeelhaar/ordo/internal/shared/domain"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/ordo/internal/todos/domain"
)

type sampleItem struct {
	title       string
	description string
	effort      int
	categories  []string
	completed   bool
	dueIn       time.Duration
}

var (
	sampleCategories = []string{"Work", "Personal", "Learning"}
	sampleItems      = []sampleItem{
		{title: "Review quarterly report", description: "Analyze Q4 performance metrics and prepare summary", effort: 7, categories: []string{"Work"}, dueIn: 72 * time.Hour},
		{title: "Schedule team meeting", description: "Coordinate with team for next sprint planning", effort: 1, categories: []string{"Work"}, dueIn: -24 * time.Hour},
		{title: "Update project documentation", description: "Document new API endpoints and usage examples", effort: 5, categories: []string{"Work", "Learning"}, completed: true},
		{title: "Grocery shopping", description: "Buy ingredients for weekend meal prep", effort: 4, categories: []string{"Personal"}, completed: true},
		{title: "Learn Go generics", description: "Work through type parameters and constraints", effort: 8, categories: []string{"Learning"}},
		{title: "Update resume", effort: 3, categories: []string{"Work"}},
	}
)

// SeedSampleDataCommand replaces an owner's list with the demo data set.
type SeedSampleDataCommand struct {
	OwnerID uuid.UUID
}

// SeedSampleDataResult counts what was written.
type SeedSampleDataResult struct {
	Categories int
	Items      int
}

// SeedSampleDataHandler handles SeedSampleDataCommand.
type SeedSampleDataHandler struct {
	items      domain.ItemRepository
	categories domain.CategoryRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

func NewSeedSampleDataHandler(items domain.ItemRepository, categories domain.CategoryRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *SeedSampleDataHandler {
	return &SeedSampleDataHandler{items: items, categories: categories, outboxRepo: outboxRepo, uow: uow}
}

func (h *SeedSampleDataHandler) Handle(ctx context.Context, cmd SeedSampleDataCommand) (*SeedSampleDataResult, error) {
	result := &SeedSampleDataResult{}
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.items.LockOwner(txCtx, cmd.OwnerID); err != nil {
			return err
		}
		if err := h.clear(txCtx, cmd.OwnerID); err != nil {
			return err
		}

		var events []shared.DomainEvent
		ids := make(map[string]uuid.UUID, len(sampleCategories))
		for i, name := range sampleCategories {
			category, err := domain.NewCategory(cmd.OwnerID, name, i)
			if err != nil {
				return err
			}
			if err := h.categories.Save(txCtx, category); err != nil {
				return err
			}
			ids[name] = category.ID()
			events = append(events, category.DomainEvents()...)
		}

		now := time.Now().UTC()
		for i, sample := range sampleItems {
			item, err := domain.NewItem(cmd.OwnerID, sample.title)
			if err != nil {
				return err
			}
			item.SetDescription(sample.description)
			item.SetEffort(sample.effort)
			item.MoveTo(i)
			if sample.dueIn != 0 {
				due := now.Add(sample.dueIn)
				item.SetDueAt(&due)
			}
			tags := make([]uuid.UUID, 0, len(sample.categories))
			for _, name := range sample.categories {
				tags = append(tags, ids[name])
			}
			item.SetCategories(tags)
			if sample.completed {
				item.Complete()
			}
			if err := h.items.Save(txCtx, item); err != nil {
				return err
			}
			events = append(events, item.DomainEvents()...)
		}

		result.Categories = len(sampleCategories)
		result.Items = len(sampleItems)
		return saveEvents(txCtx, h.outboxRepo, cmd.OwnerID, events)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (h *SeedSampleDataHandler) clear(ctx context.Context, ownerID uuid.UUID) error {
	items, err := h.items.FindByOwner(ctx, ownerID, domain.ItemFilter{IncludeCompleted: true})
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := h.items.Delete(ctx, item.ID()); err != nil {
			return err
		}
	}

	categories, err := h.categories.FindByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	for _, category := range categories {
		if err := h.categories.Delete(ctx, category.ID()); err != nil {
			return err
		}
	}
	return nil
}
