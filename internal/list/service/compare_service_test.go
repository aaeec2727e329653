package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bitfantasy/plulist/internal/list/compare"
	"github.com/bitfantasy/plulist/internal/list/entity"
	"github.com/bitfantasy/plulist/internal/list/repository"
	"go.uber.org/zap"
)

type fakeCompareVersionStore struct {
	active *entity.Version
	frozen []entity.Version // newest first, as the repository returns them
}

func (f *fakeCompareVersionStore) FindActive(ctx context.Context, kind entity.ListKind) (*entity.Version, error) {
	if f.active == nil {
		return nil, repository.ErrNotFound
	}
	return f.active, nil
}

func (f *fakeCompareVersionStore) ListFrozen(ctx context.Context, kind entity.ListKind) ([]entity.Version, error) {
	return f.frozen, nil
}

type fakeCompareItemStore struct {
	byVersion map[string][]entity.Item
}

func (f *fakeCompareItemStore) ListByVersion(ctx context.Context, versionID string) ([]entity.Item, error) {
	return f.byVersion[versionID], nil
}

func newTestCompareService(vs *fakeCompareVersionStore, is *fakeCompareItemStore) *CompareService {
	if is == nil {
		is = &fakeCompareItemStore{byVersion: map[string][]entity.Item{}}
	}
	return &CompareService{versions: vs, items: is, logger: zap.NewNop()}
}

func TestCompareFirstUploadWithoutActiveVersion(t *testing.T) {
	svc := newTestCompareService(&fakeCompareVersionStore{}, nil)

	res, err := svc.Compare(context.Background(), CompareRequest{
		ListKind: entity.KindProduce,
		ItemType: entity.ItemTypeWeight,
		Rows: []compare.Row{
			{PLU: "10001", SystemName: "Banane"},
			{PLU: "10002", SystemName: "Apfel"},
		},
	})
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if !res.IsFirstUpload {
		t.Fatal("expected first upload without active version")
	}
	if res.Summary.Unchanged != 2 || res.Summary.New != 0 {
		t.Fatalf("first upload classification wrong: %+v", res.Summary)
	}
}

func TestCompareUsesFrozenSnapshotForRenumbering(t *testing.T) {
	vs := &fakeCompareVersionStore{
		active: &entity.Version{ID: "v-active", ListKind: entity.KindProduce, Status: entity.VersionStatusActive},
		frozen: []entity.Version{{ID: "v-frozen", ListKind: entity.KindProduce, Status: entity.VersionStatusFrozen}},
	}
	is := &fakeCompareItemStore{byVersion: map[string][]entity.Item{
		"v-active": {},
		"v-frozen": {{ID: "i1", PLU: "10001", SystemName: "Banane", ItemType: entity.ItemTypeWeight}},
	}}
	svc := newTestCompareService(vs, is)

	res, err := svc.Compare(context.Background(), CompareRequest{
		ListKind: entity.KindProduce,
		ItemType: entity.ItemTypeWeight,
		Rows:     []compare.Row{{PLU: "20001", SystemName: "Banane"}},
	})
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if res.Summary.PLUChanged != 1 {
		t.Fatalf("expected renumbering detection, got %+v", res.Summary)
	}
	if res.AllItems[0].OldPLU == nil || *res.AllItems[0].OldPLU != "10001" {
		t.Fatalf("old_plu not carried: %+v", res.AllItems[0])
	}
}

func TestCompareSpansAllFrozenSnapshots(t *testing.T) {
	// Banane 缺席一周（最近一次冻结没有它），改号检测要能
	// 命中更早的冻结快照
	vs := &fakeCompareVersionStore{
		active: &entity.Version{ID: "v-active", ListKind: entity.KindProduce, Status: entity.VersionStatusActive},
		frozen: []entity.Version{
			{ID: "v-frozen-2", ListKind: entity.KindProduce, Status: entity.VersionStatusFrozen},
			{ID: "v-frozen-1", ListKind: entity.KindProduce, Status: entity.VersionStatusFrozen},
		},
	}
	is := &fakeCompareItemStore{byVersion: map[string][]entity.Item{
		"v-active":   {},
		"v-frozen-2": {{ID: "i2", PLU: "10005", SystemName: "Kirsche", ItemType: entity.ItemTypeWeight}},
		"v-frozen-1": {{ID: "i1", PLU: "10001", SystemName: "Banane", ItemType: entity.ItemTypeWeight}},
	}}
	svc := newTestCompareService(vs, is)

	res, err := svc.Compare(context.Background(), CompareRequest{
		ListKind: entity.KindProduce,
		ItemType: entity.ItemTypeWeight,
		Rows:     []compare.Row{{PLU: "20001", SystemName: "Banane"}},
	})
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if res.Summary.PLUChanged != 1 {
		t.Fatalf("expected renumbering from older snapshot, got %+v", res.Summary)
	}
	if res.AllItems[0].OldPLU == nil || *res.AllItems[0].OldPLU != "10001" {
		t.Fatalf("old_plu not carried: %+v", res.AllItems[0])
	}
}

func TestCompareDedupesUploadRows(t *testing.T) {
	svc := newTestCompareService(&fakeCompareVersionStore{}, nil)

	res, err := svc.Compare(context.Background(), CompareRequest{
		ListKind: entity.KindBakery,
		ItemType: entity.ItemTypePiece,
		Rows: []compare.Row{
			{PLU: "30001", SystemName: "Brezel"},
			{PLU: "30001", SystemName: "Brezel Kopie"},
		},
	})
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if res.DroppedDuplicates != 1 {
		t.Fatalf("expected 1 dropped duplicate, got %d", res.DroppedDuplicates)
	}
	if len(res.AllItems) != 1 || res.AllItems[0].SystemName != "Brezel" {
		t.Fatal("first occurrence must win on duplicate PLU")
	}
}

func TestCompareTypeSwapRequiresConfirmation(t *testing.T) {
	vs := &fakeCompareVersionStore{
		active: &entity.Version{ID: "v-active", ListKind: entity.KindProduce, Status: entity.VersionStatusActive},
	}
	is := &fakeCompareItemStore{byVersion: map[string][]entity.Item{
		"v-active": {{ID: "i1", PLU: "10001", SystemName: "Banane", ItemType: entity.ItemTypeWeight}},
	}}
	svc := newTestCompareService(vs, is)

	req := CompareRequest{
		ListKind: entity.KindProduce,
		ItemType: entity.ItemTypePiece,
		Rows:     []compare.Row{{PLU: "10001", SystemName: "Banane"}},
	}

	res, err := svc.Compare(context.Background(), req)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if !res.TypeSwapSuggested || len(res.TypeSwaps) != 1 {
		t.Fatalf("expected type swap suggestion, got %+v", res.TypeSwaps)
	}
	// 未确认：保留原类型
	if res.AllItems[0].ItemType != entity.ItemTypeWeight {
		t.Fatalf("unconfirmed swap must keep current type, got %s", res.AllItems[0].ItemType)
	}

	req.ConfirmTypeSwap = true
	res, err = svc.Compare(context.Background(), req)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if res.AllItems[0].ItemType != entity.ItemTypePiece {
		t.Fatalf("confirmed swap must apply uploaded type, got %s", res.AllItems[0].ItemType)
	}
}

func TestCompareRejectsUnknownInputs(t *testing.T) {
	svc := newTestCompareService(&fakeCompareVersionStore{}, nil)

	_, err := svc.Compare(context.Background(), CompareRequest{ListKind: "candy", ItemType: entity.ItemTypePiece})
	if !errors.Is(err, ErrUnknownListKind) {
		t.Fatalf("expected ErrUnknownListKind, got %v", err)
	}
	_, err = svc.Compare(context.Background(), CompareRequest{ListKind: entity.KindProduce, ItemType: "VOLUME"})
	if !errors.Is(err, ErrUnknownItemType) {
		t.Fatalf("expected ErrUnknownItemType, got %v", err)
	}
}
