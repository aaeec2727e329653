// Package compare 实现版本比对：把新上传的行与当前/历史快照分类比对，
// 产出状态分类与待人工裁决的冲突。纯同步计算，不访问存储。
package compare

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/bitfantasy/plulist/internal/list/entity"
	"github.com/google/uuid"
)

var (
	// ErrInvalidPLU PLU 必须是 5 位数字编码
	ErrInvalidPLU = errors.New("plu must be a 5-digit numeric code")
	// ErrEmptyName 系统名不能为空
	ErrEmptyName = errors.New("system name must not be empty")
)

var pluPattern = regexp.MustCompile(`^[0-9]{5}$`)

// Row 上传行（由外部解析器产出）
type Row struct {
	PLU        string  `json:"plu"`
	SystemName string  `json:"system_name"`
	Category   *string `json:"category,omitempty"`
}

// Validate 按行校验，校验失败的行计入 skipped，不中断整批
func (r Row) Validate() error {
	if !pluPattern.MatchString(r.PLU) {
		return fmt.Errorf("%w: %q", ErrInvalidPLU, r.PLU)
	}
	if r.SystemName == "" {
		return ErrEmptyName
	}
	return nil
}

// 冲突裁决方式
const (
	// ResolutionRenamed 同一商品改名：保留条目身份与运营侧定制
	ResolutionRenamed = "RENAMED"
	// ResolutionNewProduct 编码被转用于无关新品：按新品处理，不继承
	ResolutionNewProduct = "NEW_PRODUCT"
)

// Conflict 不能无歧义匹配的行。携带两种候选解释，由运营方二选一；
// 未裁决的冲突不会进入发布集合。
type Conflict struct {
	Row        Row         `json:"row"`
	Existing   entity.Item `json:"existing"`
	Resolution string      `json:"resolution,omitempty"`

	// 两种候选解释的预演结果
	IfRenamed    entity.Item `json:"if_renamed"`
	IfNewProduct entity.Item `json:"if_new_product"`
}

// Summary 各状态计数
type Summary struct {
	Unchanged  int `json:"unchanged"`
	New        int `json:"new"`
	PLUChanged int `json:"plu_changed"`
	Removed    int `json:"removed"`
	Conflicts  int `json:"conflicts"`
	Skipped    int `json:"skipped"`
}

// Result 比对结果
type Result struct {
	Summary     Summary       `json:"summary"`
	Conflicts   []Conflict    `json:"conflicts"`
	NewProducts []entity.Item `json:"new_products"`
	Removed     []entity.Item `json:"removed"`
	AllItems    []entity.Item `json:"all_items"`
}

// Input 一次比对的全部输入，数据已物化，比对本身不查库
type Input struct {
	Rows          []Row
	ItemType      string
	ListKind      entity.ListKind
	CurrentItems  []entity.Item
	PreviousItems []entity.Item
	NewVersionID  string
	IsFirstUpload bool
}

// Dedupe 同一文件内按 PLU 去重，保留首次出现的行
func Dedupe(rows []Row) (out []Row, dropped int) {
	seen := make(map[string]struct{}, len(rows))
	out = make([]Row, 0, len(rows))
	for _, r := range rows {
		if _, ok := seen[r.PLU]; ok {
			dropped++
			continue
		}
		seen[r.PLU] = struct{}{}
		out = append(out, r)
	}
	return out, dropped
}

// Compare 逐行分类：
//  1. PLU 与当前条目匹配且系统名相同 → UNCHANGED，继承运营定制；
//  2. PLU 匹配但系统名不同 → 冲突，绝不自动裁决；
//  3. 当前无 PLU 匹配、当前或历史快照中同名不同码 → PLU_CHANGED_RED，
//     当前版本的同名匹配优先于历史快照；
//  4. 均无匹配 → NEW_PRODUCT_YELLOW。
//
// 当前有、上传没有的条目记为 REMOVED（仅报告）；被改号匹配消耗的
// 当前条目不重复报删除。首次上传跳过全部删除/改号比对，所有行按
// 基线 UNCHANGED 处理。
func Compare(in Input) Result {
	res := Result{
		Conflicts:   []Conflict{},
		NewProducts: []entity.Item{},
		Removed:     []entity.Item{},
		AllItems:    []entity.Item{},
	}

	currentByPLU := make(map[string]entity.Item, len(in.CurrentItems))
	currentByName := make(map[string]entity.Item, len(in.CurrentItems))
	for _, it := range in.CurrentItems {
		currentByPLU[it.PLU] = it
		if _, ok := currentByName[it.SystemName]; !ok {
			currentByName[it.SystemName] = it
		}
	}
	// 历史快照按系统名索引（改号检测用）
	previousByName := make(map[string]entity.Item, len(in.PreviousItems))
	for _, it := range in.PreviousItems {
		if _, ok := previousByName[it.SystemName]; !ok {
			previousByName[it.SystemName] = it
		}
	}

	seenPLUs := make(map[string]struct{}, len(in.Rows))
	// 被改号匹配消耗的当前 PLU，不进 REMOVED
	renumbered := make(map[string]struct{})

	for _, row := range in.Rows {
		if err := row.Validate(); err != nil {
			res.Summary.Skipped++
			continue
		}
		seenPLUs[row.PLU] = struct{}{}

		if in.IsFirstUpload {
			res.AllItems = append(res.AllItems, newItem(in, row, entity.ItemStatusUnchanged, nil))
			res.Summary.Unchanged++
			continue
		}

		if cur, ok := currentByPLU[row.PLU]; ok {
			if cur.SystemName == row.SystemName {
				// 同码同名：继承 displayName / 手动改名标记 / 分类 / 价格
				item := newItem(in, row, entity.ItemStatusUnchanged, nil)
				item.DisplayName = cur.DisplayName
				item.IsManuallyRenamed = cur.IsManuallyRenamed
				item.CategoryID = cur.CategoryID
				item.Price = cur.Price
				res.AllItems = append(res.AllItems, item)
				res.Summary.Unchanged++
				continue
			}
			// 同码不同名：可能是改名，也可能是编码被转用，人工裁决
			res.Conflicts = append(res.Conflicts, buildConflict(in, row, cur))
			res.Summary.Conflicts++
			continue
		}

		// 改号：同一商品换了编码，身份延续，定制随之继承。
		// 先找当前版本的同名条目（其 PLU 同时从 REMOVED 中消耗），
		// 再退回历史快照。
		if cur, ok := currentByName[row.SystemName]; ok && cur.PLU != row.PLU {
			renumbered[cur.PLU] = struct{}{}
			res.AllItems = append(res.AllItems, renumberedItem(in, row, cur))
			res.Summary.PLUChanged++
			continue
		}
		if prev, ok := previousByName[row.SystemName]; ok && prev.PLU != row.PLU {
			res.AllItems = append(res.AllItems, renumberedItem(in, row, prev))
			res.Summary.PLUChanged++
			continue
		}

		item := newItem(in, row, entity.ItemStatusNew, nil)
		res.AllItems = append(res.AllItems, item)
		res.NewProducts = append(res.NewProducts, item)
		res.Summary.New++
	}

	if !in.IsFirstUpload {
		for _, cur := range in.CurrentItems {
			if _, ok := seenPLUs[cur.PLU]; ok {
				continue
			}
			if _, ok := renumbered[cur.PLU]; ok {
				continue
			}
			gone := cur
			gone.Status = entity.ItemStatusRemoved
			res.Removed = append(res.Removed, gone)
			res.Summary.Removed++
		}
	}

	return res
}

// ResolveConflicts 把运营裁决转成具体条目。未裁决的冲突被丢弃，
// 系统绝不代为猜测。
func ResolveConflicts(conflicts []Conflict, newVersionID string) []entity.Item {
	items := make([]entity.Item, 0, len(conflicts))
	for _, c := range conflicts {
		switch c.Resolution {
		case ResolutionRenamed:
			item := c.IfRenamed
			item.VersionID = newVersionID
			items = append(items, item)
		case ResolutionNewProduct:
			item := c.IfNewProduct
			item.VersionID = newVersionID
			items = append(items, item)
		}
	}
	return items
}

func buildConflict(in Input, row Row, cur entity.Item) Conflict {
	renamed := newItem(in, row, entity.ItemStatusUnchanged, nil)
	renamed.DisplayName = cur.DisplayName
	renamed.IsManuallyRenamed = cur.IsManuallyRenamed
	renamed.CategoryID = cur.CategoryID
	renamed.Price = cur.Price

	fresh := newItem(in, row, entity.ItemStatusNew, nil)

	return Conflict{
		Row:          row,
		Existing:     cur,
		IfRenamed:    renamed,
		IfNewProduct: fresh,
	}
}

func renumberedItem(in Input, row Row, matched entity.Item) entity.Item {
	oldPLU := matched.PLU
	item := newItem(in, row, entity.ItemStatusPLUChanged, &oldPLU)
	item.DisplayName = matched.DisplayName
	item.IsManuallyRenamed = matched.IsManuallyRenamed
	item.CategoryID = matched.CategoryID
	item.Price = matched.Price
	return item
}

func newItem(in Input, row Row, status string, oldPLU *string) entity.Item {
	return entity.Item{
		ID:         uuid.New().String()[:32],
		ListKind:   in.ListKind,
		VersionID:  in.NewVersionID,
		PLU:        row.PLU,
		SystemName: row.SystemName,
		ItemType:   in.ItemType,
		Status:     status,
		OldPLU:     oldPLU,
	}
}
