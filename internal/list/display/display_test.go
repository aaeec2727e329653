package display

import (
	"testing"
	"time"

	"github.com/bitfantasy/plulist/internal/list/entity"
)

var testNow = time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC) // ISO week 35

func strPtr(s string) *string { return &s }

func baseInput() Input {
	y, w := testNow.ISOWeek()
	return Input{
		HiddenPLUs:      map[string]struct{}{},
		SortMode:        entity.SortModeAlphabetical,
		MarkYellowWeeks: 2,
		VersionWeek:     w,
		VersionYear:     y,
		Now:             testNow,
	}
}

func TestMasterPrecedenceOverCustom(t *testing.T) {
	in := baseInput()
	in.Items = []entity.Item{{PLU: "20000", SystemName: "Brezel", Status: entity.ItemStatusUnchanged}}
	in.CustomProducts = []entity.CustomProduct{
		{PLU: "20000", Name: "Brezel Hausgemacht", CreatedAt: testNow},
		{PLU: "20001", Name: "Croissant", CreatedAt: testNow},
	}

	entries, stats := Compose(in)

	count := 0
	for _, e := range entries {
		if e.PLU == "20000" {
			count++
			if e.IsCustom {
				t.Error("custom product must be suppressed by the master item")
			}
			if e.Name != "Brezel" {
				t.Errorf("name = %q, want master name", e.Name)
			}
		}
	}
	if count != 1 {
		t.Fatalf("plu 20000 appears %d times, want exactly 1", count)
	}
	if stats.Custom != 1 {
		t.Errorf("custom count = %d, want 1", stats.Custom)
	}
}

func TestHiddenExclusionCountedOnce(t *testing.T) {
	in := baseInput()
	in.Items = []entity.Item{{PLU: "20000", SystemName: "Brezel", Status: entity.ItemStatusUnchanged}}
	in.CustomProducts = []entity.CustomProduct{{PLU: "20000", Name: "Brezel Custom", CreatedAt: testNow}}
	in.HiddenPLUs = map[string]struct{}{"20000": {}}

	entries, stats := Compose(in)

	for _, e := range entries {
		if e.PLU == "20000" {
			t.Fatal("hidden plu leaked into composed output")
		}
	}
	if stats.Hidden != 1 {
		t.Errorf("hidden count = %d, want 1", stats.Hidden)
	}
	if stats.Total != 0 {
		t.Errorf("total = %d, want 0", stats.Total)
	}
}

// The decay boundary itself: age == markYellowWeeks already demotes.
func TestStatusDecayBoundary(t *testing.T) {
	cases := []struct {
		ageWeeks int
		want     string
	}{
		{0, entity.ItemStatusNew},
		{1, entity.ItemStatusNew},
		{2, entity.ItemStatusUnchanged}, // boundary: (current − version) ≥ markYellowWeeks
		{3, entity.ItemStatusUnchanged},
	}
	for _, c := range cases {
		in := baseInput()
		versionMonday := testNow.AddDate(0, 0, -7*c.ageWeeks)
		in.VersionYear, in.VersionWeek = versionMonday.ISOWeek()
		in.Items = []entity.Item{{PLU: "10001", SystemName: "Banana", Status: entity.ItemStatusNew}}

		entries, _ := Compose(in)
		if len(entries) != 1 {
			t.Fatalf("age %d: %d entries", c.ageWeeks, len(entries))
		}
		if entries[0].Status != c.want {
			t.Errorf("age %d weeks: status = %s, want %s", c.ageWeeks, entries[0].Status, c.want)
		}
	}
}

func TestCustomProductNewWindowFromCreatedAt(t *testing.T) {
	in := baseInput()
	// version is old, but the custom product was created this week
	in.VersionYear, in.VersionWeek = testNow.AddDate(0, 0, -70).ISOWeek()
	in.CustomProducts = []entity.CustomProduct{
		{PLU: "30001", Name: "Neu", CreatedAt: testNow},
		{PLU: "30002", Name: "Alt", CreatedAt: testNow.AddDate(0, 0, -28)},
	}

	entries, stats := Compose(in)

	byPLU := map[string]Entry{}
	for _, e := range entries {
		byPLU[e.PLU] = e
	}
	if byPLU["30001"].Status != entity.ItemStatusNew {
		t.Errorf("fresh custom product status = %s", byPLU["30001"].Status)
	}
	if byPLU["30002"].Status != entity.ItemStatusUnchanged {
		t.Errorf("old custom product status = %s", byPLU["30002"].Status)
	}
	if stats.New != 1 {
		t.Errorf("new count = %d, want 1", stats.New)
	}
}

func TestNamingRulesSkipManualRenames(t *testing.T) {
	in := baseInput()
	in.Rules = []entity.NamingRule{{Keyword: "Bio", Position: entity.RulePositionPrefix, IsActive: true}}
	in.Items = []entity.Item{
		{PLU: "10001", SystemName: "Banane Bio", Status: entity.ItemStatusUnchanged},
		{PLU: "10002", SystemName: "Gurke Bio", DisplayName: strPtr("Meine Gurke Bio"), IsManuallyRenamed: true, Status: entity.ItemStatusUnchanged},
	}

	entries, _ := Compose(in)

	byPLU := map[string]Entry{}
	for _, e := range entries {
		byPLU[e.PLU] = e
	}
	if byPLU["10001"].Name != "Bio Banane" {
		t.Errorf("rule not applied: %q", byPLU["10001"].Name)
	}
	if byPLU["10002"].Name != "Meine Gurke Bio" {
		t.Errorf("manually renamed item must be untouched: %q", byPLU["10002"].Name)
	}
}

func TestSortByCategoryUncategorizedLast(t *testing.T) {
	in := baseInput()
	in.SortMode = entity.SortModeByCategory
	in.Categories = []entity.Category{
		{ID: "c-obst", Name: "Obst", OrderIndex: 1},
		{ID: "c-gemuese", Name: "Gemüse", OrderIndex: 2},
	}
	in.Items = []entity.Item{
		{PLU: "10001", SystemName: "Zucchini", CategoryID: strPtr("c-gemuese"), Status: entity.ItemStatusUnchanged},
		{PLU: "10002", SystemName: "Apfel", CategoryID: strPtr("c-obst"), Status: entity.ItemStatusUnchanged},
		{PLU: "10003", SystemName: "Birne", CategoryID: strPtr("c-obst"), Status: entity.ItemStatusUnchanged},
		{PLU: "10004", SystemName: "Unsortiert", Status: entity.ItemStatusUnchanged},
	}

	entries, _ := Compose(in)

	want := []string{"Apfel", "Birne", "Zucchini", "Unsortiert"}
	for i, name := range want {
		if entries[i].Name != name {
			t.Errorf("position %d: %s, want %s", i, entries[i].Name, name)
		}
	}
	if entries[0].CategoryName != "Obst" {
		t.Errorf("category name not resolved: %q", entries[0].CategoryName)
	}
}

func TestAlphabeticalGermanCollation(t *testing.T) {
	in := baseInput()
	in.Items = []entity.Item{
		{PLU: "10001", SystemName: "Zwiebel", Status: entity.ItemStatusUnchanged},
		{PLU: "10002", SystemName: "Äpfel", Status: entity.ItemStatusUnchanged},
		{PLU: "10003", SystemName: "Banane", Status: entity.ItemStatusUnchanged},
	}

	entries, _ := Compose(in)

	// Ä sorts with A under German collation, not after Z
	want := []string{"Äpfel", "Banane", "Zwiebel"}
	for i, name := range want {
		if entries[i].Name != name {
			t.Errorf("position %d: %s, want %s", i, entries[i].Name, name)
		}
	}
}

func TestComposeIsRepeatable(t *testing.T) {
	in := baseInput()
	in.Rules = []entity.NamingRule{{Keyword: "Bio", Position: entity.RulePositionPrefix, IsActive: true}}
	in.Items = []entity.Item{
		{PLU: "10001", SystemName: "Banane Bio", Status: entity.ItemStatusNew},
		{PLU: "10002", SystemName: "Apfel", Status: entity.ItemStatusPLUChanged, OldPLU: strPtr("10090")},
	}
	in.CustomProducts = []entity.CustomProduct{{PLU: "30001", Name: "Kuchen", CreatedAt: testNow}}

	first, firstStats := Compose(in)
	second, secondStats := Compose(in)

	if len(first) != len(second) || firstStats != secondStats {
		t.Fatal("compose is not stable across runs")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("entry %d differs between runs", i)
		}
	}
	if firstStats.Changed != 1 {
		t.Errorf("changed count = %d, want 1", firstStats.Changed)
	}
}
