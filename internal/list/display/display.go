// Package display 实现显示组合流水线：合并 → 隐藏 → 改名 → 分组 → 排序
// → 统计。纯函数、无副作用，每次渲染或设置变更时直接重算，不落库。
package display

import (
	"sort"
	"time"

	"github.com/bitfantasy/plulist/internal/list/entity"
	"github.com/bitfantasy/plulist/internal/list/naming"
	"github.com/bitfantasy/plulist/internal/list/week"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Entry 组合后的单个显示条目
type Entry struct {
	PLU          string   `json:"plu"`
	Name         string   `json:"name"`
	ItemType     string   `json:"item_type"`
	Status       string   `json:"status"`
	OldPLU       *string  `json:"old_plu,omitempty"`
	CategoryID   *string  `json:"category_id,omitempty"`
	CategoryName string   `json:"category_name,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	IsCustom     bool     `json:"is_custom"`
}

// Stats 组合结果的聚合统计
type Stats struct {
	Total   int `json:"total"`
	Hidden  int `json:"hidden"`
	New     int `json:"new"`
	Changed int `json:"changed"`
	Custom  int `json:"custom"`
}

// Input 一次组合的全部输入，数据已物化
type Input struct {
	Items           []entity.Item
	CustomProducts  []entity.CustomProduct
	HiddenPLUs      map[string]struct{}
	Rules           []entity.NamingRule
	Categories      []entity.Category
	SortMode        string
	MarkYellowWeeks int
	VersionWeek     int
	VersionYear     int
	Now             time.Time
}

// Compose 按固定顺序执行组合流水线：
//  1. 新品高亮到期降级为 UNCHANGED；
//  2. 追加主列表中不存在的自建商品（主列表优先）；
//  3. 剔除隐藏 PLU；
//  4. 对非手动改名条目应用命名规则；
//  5. 解析分类名；
//  6. 排序；
//  7. 统计。
func Compose(in Input) ([]Entry, Stats) {
	curYear, curWeek := week.Current(in.Now)
	versionAge := week.Diff(in.VersionYear, in.VersionWeek, curYear, curWeek)

	entries := make([]Entry, 0, len(in.Items)+len(in.CustomProducts))
	masterPLUs := make(map[string]struct{}, len(in.Items))

	for _, it := range in.Items {
		masterPLUs[it.PLU] = struct{}{}
		status := it.Status
		if status == entity.ItemStatusNew && versionAge >= in.MarkYellowWeeks {
			status = entity.ItemStatusUnchanged
		}
		e := Entry{
			PLU:        it.PLU,
			Name:       it.Name(),
			ItemType:   it.ItemType,
			Status:     status,
			OldPLU:     it.OldPLU,
			CategoryID: it.CategoryID,
			Price:      it.Price,
		}
		if !it.IsManuallyRenamed {
			e.Name = naming.Apply(e.Name, in.Rules)
		}
		entries = append(entries, e)
	}

	// 自建商品：PLU 与主列表冲突时被抑制；新品窗口按其创建时间计算
	for _, cp := range in.CustomProducts {
		if _, taken := masterPLUs[cp.PLU]; taken {
			continue
		}
		status := entity.ItemStatusUnchanged
		if week.Since(cp.CreatedAt, in.Now) < in.MarkYellowWeeks {
			status = entity.ItemStatusNew
		}
		entries = append(entries, Entry{
			PLU:        cp.PLU,
			Name:       naming.Apply(cp.Name, in.Rules),
			ItemType:   cp.ItemType,
			Status:     status,
			CategoryID: cp.CategoryID,
			Price:      cp.Price,
			IsCustom:   true,
		})
	}

	var stats Stats
	visible := entries[:0]
	hiddenSeen := make(map[string]struct{})
	for _, e := range entries {
		if _, hidden := in.HiddenPLUs[e.PLU]; hidden {
			if _, counted := hiddenSeen[e.PLU]; !counted {
				hiddenSeen[e.PLU] = struct{}{}
				stats.Hidden++
			}
			continue
		}
		visible = append(visible, e)
	}
	entries = visible

	categoryName := make(map[string]string, len(in.Categories))
	categoryOrder := make(map[string]int, len(in.Categories))
	for _, c := range in.Categories {
		categoryName[c.ID] = c.Name
		categoryOrder[c.ID] = c.OrderIndex
	}
	for i := range entries {
		if entries[i].CategoryID != nil {
			entries[i].CategoryName = categoryName[*entries[i].CategoryID]
		}
	}

	sortEntries(entries, in.SortMode, categoryOrder)

	stats.Total = len(entries)
	for _, e := range entries {
		switch e.Status {
		case entity.ItemStatusNew:
			stats.New++
		case entity.ItemStatusPLUChanged:
			stats.Changed++
		}
		if e.IsCustom {
			stats.Custom++
		}
	}
	return entries, stats
}

func sortEntries(entries []Entry, mode string, categoryOrder map[string]int) {
	// 德语区商品名用德语排序规则（变元音按字典序而非字节序）。
	// Collator 非并发安全，每次排序各建一个。
	collator := collate.New(language.German, collate.IgnoreCase)
	byName := func(a, b Entry) bool {
		return collator.CompareString(a.Name, b.Name) < 0
	}
	switch mode {
	case entity.SortModeByCategory:
		sort.SliceStable(entries, func(i, j int) bool {
			oi, oj := entryOrder(entries[i], categoryOrder), entryOrder(entries[j], categoryOrder)
			if oi != oj {
				return oi < oj
			}
			return byName(entries[i], entries[j])
		})
	default:
		sort.SliceStable(entries, func(i, j int) bool {
			return byName(entries[i], entries[j])
		})
	}
}

// entryOrder 无分类条目排在所有分类之后
func entryOrder(e Entry, categoryOrder map[string]int) int {
	if e.CategoryID == nil {
		return int(^uint(0) >> 1)
	}
	if o, ok := categoryOrder[*e.CategoryID]; ok {
		return o
	}
	return int(^uint(0) >> 1)
}
