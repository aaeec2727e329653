package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bitfantasy/plulist/internal/list/entity"
	"github.com/bitfantasy/plulist/internal/list/repository"
	"go.uber.org/zap"
)

// fakeVersionStore keeps versions in memory and mimics the repository's
// state machine guards.
type fakeVersionStore struct {
	versions    map[string]*entity.Version
	activateErr error
}

func newFakeVersionStore() *fakeVersionStore {
	return &fakeVersionStore{versions: make(map[string]*entity.Version)}
}

func (f *fakeVersionStore) findByStatus(kind entity.ListKind, status string) (*entity.Version, error) {
	for _, v := range f.versions {
		if v.ListKind == kind && v.Status == status {
			return v, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeVersionStore) FindActive(ctx context.Context, kind entity.ListKind) (*entity.Version, error) {
	return f.findByStatus(kind, entity.VersionStatusActive)
}

func (f *fakeVersionStore) FindDraft(ctx context.Context, kind entity.ListKind) (*entity.Version, error) {
	return f.findByStatus(kind, entity.VersionStatusDraft)
}

func (f *fakeVersionStore) Create(ctx context.Context, v *entity.Version) error {
	cp := *v
	f.versions[v.ID] = &cp
	return nil
}

func (f *fakeVersionStore) Freeze(ctx context.Context, id string, now time.Time) error {
	v, ok := f.versions[id]
	if !ok || v.Status != entity.VersionStatusActive {
		return repository.ErrNoActiveVersion
	}
	v.Status = entity.VersionStatusFrozen
	v.FrozenAt = &now
	deleteAfter := now.Add(entity.FrozenRetention)
	v.DeleteAfter = &deleteAfter
	return nil
}

func (f *fakeVersionStore) Activate(ctx context.Context, kind entity.ListKind, id string, now time.Time) error {
	if f.activateErr != nil {
		return f.activateErr
	}
	for _, v := range f.versions {
		if v.ListKind == kind && v.Status == entity.VersionStatusActive && v.ID != id {
			return repository.ErrActiveExists
		}
	}
	v, ok := f.versions[id]
	if !ok || v.Status != entity.VersionStatusDraft {
		return repository.ErrNotDraft
	}
	v.Status = entity.VersionStatusActive
	v.PublishedAt = &now
	return nil
}

func (f *fakeVersionStore) Delete(ctx context.Context, id string) error {
	delete(f.versions, id)
	return nil
}

// fakeItemStore records inserted batches and can fail on a given batch index.
type fakeItemStore struct {
	batches     [][]entity.Item
	failOnBatch int // -1 disables the injected failure
	deleted     []string
}

func newFakeItemStore() *fakeItemStore {
	return &fakeItemStore{failOnBatch: -1}
}

func (f *fakeItemStore) InsertBatch(ctx context.Context, items []entity.Item) error {
	if f.failOnBatch >= 0 && len(f.batches) == f.failOnBatch {
		return errors.New("injected batch failure")
	}
	f.batches = append(f.batches, items)
	return nil
}

func (f *fakeItemStore) DeleteByVersion(ctx context.Context, versionID string) error {
	f.deleted = append(f.deleted, versionID)
	return nil
}

type fakeUserStore struct {
	ids []string
	err error
}

func (f *fakeUserStore) ListIDsExcept(ctx context.Context, excludeID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]string, 0, len(f.ids))
	for _, id := range f.ids {
		if id != excludeID {
			out = append(out, id)
		}
	}
	return out, nil
}

type fakeNotificationStore struct {
	inserted []entity.Notification
	err      error
}

func (f *fakeNotificationStore) InsertBatch(ctx context.Context, notifications []entity.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, notifications...)
	return nil
}

func newTestPublishService(vs *fakeVersionStore, is *fakeItemStore, us *fakeUserStore, ns *fakeNotificationStore) *PublishService {
	return &PublishService{
		versions:      vs,
		items:         is,
		users:         us,
		notifications: ns,
		logger:        zap.NewNop(),
		now:           func() time.Time { return time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC) },
	}
}

func makeItems(n int) []entity.Item {
	items := make([]entity.Item, n)
	for i := range items {
		items[i] = entity.Item{
			PLU:        "10001",
			SystemName: "Banane",
			ItemType:   entity.ItemTypeWeight,
			Status:     entity.ItemStatusUnchanged,
		}
	}
	return items
}

func TestPublishFirstVersion(t *testing.T) {
	vs := newFakeVersionStore()
	is := newFakeItemStore()
	svc := newTestPublishService(vs, is, &fakeUserStore{}, &fakeNotificationStore{})

	res, err := svc.Publish(context.Background(), PublishRequest{
		ListKind:   entity.KindProduce,
		WeekNumber: 35,
		Year:       2026,
		Items:      makeItems(3),
		CreatedBy:  "user-1",
	})
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if res.ItemCount != 3 {
		t.Fatalf("expected 3 items, got %d", res.ItemCount)
	}

	active, err := vs.FindActive(context.Background(), entity.KindProduce)
	if err != nil {
		t.Fatalf("no active version after publish: %v", err)
	}
	if active.ID != res.VersionID {
		t.Fatalf("active version %s does not match published %s", active.ID, res.VersionID)
	}
	if active.PublishedAt == nil {
		t.Fatal("published_at not set on activated version")
	}
}

func TestPublishFreezesPreviousActive(t *testing.T) {
	vs := newFakeVersionStore()
	prev := &entity.Version{ID: "prev", ListKind: entity.KindProduce, Status: entity.VersionStatusActive, WeekNumber: 34, Year: 2026}
	vs.versions[prev.ID] = prev
	is := newFakeItemStore()
	svc := newTestPublishService(vs, is, &fakeUserStore{}, &fakeNotificationStore{})

	res, err := svc.Publish(context.Background(), PublishRequest{
		ListKind:   entity.KindProduce,
		WeekNumber: 35,
		Year:       2026,
		Items:      makeItems(1),
		CreatedBy:  "user-1",
	})
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	frozen := vs.versions["prev"]
	if frozen.Status != entity.VersionStatusFrozen {
		t.Fatalf("previous version status = %s, want frozen", frozen.Status)
	}
	if frozen.DeleteAfter == nil {
		t.Fatal("frozen version has no delete_after")
	}
	wantDeleteAfter := frozen.FrozenAt.Add(entity.FrozenRetention)
	if !frozen.DeleteAfter.Equal(wantDeleteAfter) {
		t.Fatalf("delete_after = %v, want %v", frozen.DeleteAfter, wantDeleteAfter)
	}
	if vs.versions[res.VersionID].Status != entity.VersionStatusActive {
		t.Fatal("new version not active")
	}
}

func TestPublishBatchesOf500(t *testing.T) {
	vs := newFakeVersionStore()
	is := newFakeItemStore()
	svc := newTestPublishService(vs, is, &fakeUserStore{}, &fakeNotificationStore{})

	_, err := svc.Publish(context.Background(), PublishRequest{
		ListKind:   entity.KindProduce,
		WeekNumber: 35,
		Year:       2026,
		Items:      makeItems(1201),
		CreatedBy:  "user-1",
	})
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if len(is.batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(is.batches))
	}
	if len(is.batches[0]) != 500 || len(is.batches[1]) != 500 || len(is.batches[2]) != 201 {
		t.Fatalf("unexpected batch sizes: %d, %d, %d", len(is.batches[0]), len(is.batches[1]), len(is.batches[2]))
	}
	for _, batch := range is.batches {
		for _, item := range batch {
			if item.VersionID == "" || item.ID == "" {
				t.Fatal("item missing version or id assignment")
			}
		}
	}
}

func TestPublishBatchFailureRollsBackDraft(t *testing.T) {
	vs := newFakeVersionStore()
	prev := &entity.Version{ID: "prev", ListKind: entity.KindProduce, Status: entity.VersionStatusActive}
	vs.versions[prev.ID] = prev
	is := newFakeItemStore()
	is.failOnBatch = 1
	svc := newTestPublishService(vs, is, &fakeUserStore{}, &fakeNotificationStore{})

	_, err := svc.Publish(context.Background(), PublishRequest{
		ListKind:   entity.KindProduce,
		WeekNumber: 35,
		Year:       2026,
		Items:      makeItems(800),
		CreatedBy:  "user-1",
	})
	if err == nil {
		t.Fatal("expected publish to fail")
	}

	// 补偿后草稿不复存在，数据库里看不到半成品版本
	if _, err := vs.FindDraft(context.Background(), entity.KindProduce); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("draft survived failed publish: %v", err)
	}
	if len(is.deleted) != 1 {
		t.Fatalf("expected 1 compensating item delete, got %d", len(is.deleted))
	}
	// 上一版本已冻结：回滚不恢复它，下次发布重走序列
	if vs.versions["prev"].Status != entity.VersionStatusFrozen {
		t.Fatalf("previous version status = %s, want frozen", vs.versions["prev"].Status)
	}
}

func TestPublishActivateFailureRollsBackDraft(t *testing.T) {
	vs := newFakeVersionStore()
	vs.activateErr = repository.ErrActiveExists
	is := newFakeItemStore()
	svc := newTestPublishService(vs, is, &fakeUserStore{}, &fakeNotificationStore{})

	_, err := svc.Publish(context.Background(), PublishRequest{
		ListKind:   entity.KindProduce,
		WeekNumber: 35,
		Year:       2026,
		Items:      makeItems(2),
		CreatedBy:  "user-1",
	})
	if !errors.Is(err, repository.ErrActiveExists) {
		t.Fatalf("expected ErrActiveExists, got %v", err)
	}
	if _, err := vs.FindDraft(context.Background(), entity.KindProduce); !errors.Is(err, repository.ErrNotFound) {
		t.Fatal("draft survived failed activation")
	}
}

func TestPublishRejectsLeftoverDraft(t *testing.T) {
	vs := newFakeVersionStore()
	vs.versions["stale"] = &entity.Version{ID: "stale", ListKind: entity.KindProduce, Status: entity.VersionStatusDraft}
	svc := newTestPublishService(vs, newFakeItemStore(), &fakeUserStore{}, &fakeNotificationStore{})

	_, err := svc.Publish(context.Background(), PublishRequest{
		ListKind:   entity.KindProduce,
		WeekNumber: 35,
		Year:       2026,
		Items:      makeItems(1),
		CreatedBy:  "user-1",
	})
	if !errors.Is(err, ErrPublishInFlight) {
		t.Fatalf("expected ErrPublishInFlight, got %v", err)
	}
}

func TestPublishNotificationFanOutExcludesPublisher(t *testing.T) {
	vs := newFakeVersionStore()
	ns := &fakeNotificationStore{}
	svc := newTestPublishService(vs, newFakeItemStore(), &fakeUserStore{ids: []string{"user-1", "user-2", "user-3"}}, ns)

	res, err := svc.Publish(context.Background(), PublishRequest{
		ListKind:   entity.KindBakery,
		WeekNumber: 35,
		Year:       2026,
		Items:      makeItems(1),
		CreatedBy:  "user-1",
	})
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if res.NotificationCount != 2 {
		t.Fatalf("expected 2 notifications, got %d", res.NotificationCount)
	}
	for _, n := range ns.inserted {
		if n.UserID == "user-1" {
			t.Fatal("publisher received own notification")
		}
		if n.VersionID != res.VersionID {
			t.Fatalf("notification points at %s, want %s", n.VersionID, res.VersionID)
		}
	}
}

func TestPublishSucceedsWhenNotificationsFail(t *testing.T) {
	vs := newFakeVersionStore()
	ns := &fakeNotificationStore{err: errors.New("notification store down")}
	svc := newTestPublishService(vs, newFakeItemStore(), &fakeUserStore{ids: []string{"user-2"}}, ns)

	res, err := svc.Publish(context.Background(), PublishRequest{
		ListKind:   entity.KindProduce,
		WeekNumber: 35,
		Year:       2026,
		Items:      makeItems(1),
		CreatedBy:  "user-1",
	})
	if err != nil {
		t.Fatalf("publish must not fail on notification errors: %v", err)
	}
	if res.NotificationCount != 0 {
		t.Fatalf("expected 0 delivered notifications, got %d", res.NotificationCount)
	}
	if vs.versions[res.VersionID].Status != entity.VersionStatusActive {
		t.Fatal("version not active despite successful publish")
	}
}

func TestPublishValidation(t *testing.T) {
	svc := newTestPublishService(newFakeVersionStore(), newFakeItemStore(), &fakeUserStore{}, &fakeNotificationStore{})

	_, err := svc.Publish(context.Background(), PublishRequest{
		ListKind: entity.KindProduce, WeekNumber: 0, Year: 2026, Items: makeItems(1),
	})
	if !errors.Is(err, ErrInvalidWeek) {
		t.Fatalf("expected ErrInvalidWeek, got %v", err)
	}

	_, err = svc.Publish(context.Background(), PublishRequest{
		ListKind: entity.KindProduce, WeekNumber: 35, Year: 2026,
	})
	if !errors.Is(err, ErrNoItems) {
		t.Fatalf("expected ErrNoItems, got %v", err)
	}
}
