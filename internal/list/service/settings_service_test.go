package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bitfantasy/plulist/internal/list/entity"
	"go.uber.org/zap"
)

// blockingSettingsStore waits for context cancellation before answering.
type blockingSettingsStore struct {
	settings entity.ListSettings
	blockOn  string // "get" or "update"
}

func (f *blockingSettingsStore) GetOrCreate(ctx context.Context, kind entity.ListKind) (*entity.ListSettings, error) {
	if f.blockOn == "get" {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	cp := f.settings
	return &cp, nil
}

func (f *blockingSettingsStore) Update(ctx context.Context, s *entity.ListSettings) error {
	if f.blockOn == "update" {
		<-ctx.Done()
		return ctx.Err()
	}
	f.settings = *s
	return nil
}

func newTestSettingsService(store settingsStore, timeout time.Duration) *SettingsService {
	return &SettingsService{settings: store, logger: zap.NewNop(), timeout: timeout}
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestSettingsUpdateAppliesPartialChanges(t *testing.T) {
	store := &blockingSettingsStore{settings: entity.ListSettings{
		ID: "s1", ListKind: entity.KindProduce, MarkYellowWeeks: 2, SortMode: entity.SortModeAlphabetical,
	}}
	svc := newTestSettingsService(store, time.Second)

	updated, err := svc.Update(context.Background(), entity.KindProduce, UpdateSettingsRequest{
		SortMode:  strPtr(entity.SortModeByCategory),
		UpdatedBy: "user-1",
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.SortMode != entity.SortModeByCategory {
		t.Fatalf("sort mode not applied: %s", updated.SortMode)
	}
	if updated.MarkYellowWeeks != 2 {
		t.Fatalf("untouched field changed: %d", updated.MarkYellowWeeks)
	}
}

func TestSettingsUpdateTimeoutMapsToSentinel(t *testing.T) {
	store := &blockingSettingsStore{blockOn: "update", settings: entity.ListSettings{
		ID: "s1", ListKind: entity.KindProduce, MarkYellowWeeks: 2, SortMode: entity.SortModeAlphabetical,
	}}
	svc := newTestSettingsService(store, 20*time.Millisecond)

	_, err := svc.Update(context.Background(), entity.KindProduce, UpdateSettingsRequest{
		MarkYellowWeeks: intPtr(3),
	})
	if !errors.Is(err, ErrSettingsTimeout) {
		t.Fatalf("expected ErrSettingsTimeout, got %v", err)
	}
}

func TestSettingsUpdateValidation(t *testing.T) {
	svc := newTestSettingsService(&blockingSettingsStore{}, time.Second)

	_, err := svc.Update(context.Background(), entity.KindProduce, UpdateSettingsRequest{MarkYellowWeeks: intPtr(-1)})
	if !errors.Is(err, ErrInvalidYellowWeeks) {
		t.Fatalf("expected ErrInvalidYellowWeeks, got %v", err)
	}
	_, err = svc.Update(context.Background(), entity.KindProduce, UpdateSettingsRequest{SortMode: strPtr("RANDOM")})
	if !errors.Is(err, ErrInvalidSortMode) {
		t.Fatalf("expected ErrInvalidSortMode, got %v", err)
	}
	_, err = svc.Update(context.Background(), "candy", UpdateSettingsRequest{})
	if !errors.Is(err, ErrUnknownListKind) {
		t.Fatalf("expected ErrUnknownListKind, got %v", err)
	}
}
