package service

import (
	"context"
	"fmt"

	"github.com/bitfantasy/plulist/internal/list/entity"
	"github.com/xuri/excelize/v2"
)

// ExportService 把组合后的显示列表导出为 XLSX 工作簿。
// 导出的是组合结果，隐藏、改名、分组、排序都已生效。
type ExportService struct {
	display *DisplayService
}

// NewExportService 创建导出服务
func NewExportService(display *DisplayService) *ExportService {
	return &ExportService{display: display}
}

var exportHeaders = []string{"PLU", "Name", "Typ", "Status", "Alte PLU", "Kategorie", "Preis"}

// Export 生成当前生效列表的 XLSX 文件，返回工作簿与建议文件名
func (s *ExportService) Export(ctx context.Context, kind entity.ListKind) (*excelize.File, string, error) {
	res, err := s.display.Compose(ctx, kind)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheet := "Liste"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9D9D9"}, Pattern: 1},
	})
	if err != nil {
		return nil, "", fmt.Errorf("create header style: %w", err)
	}
	newStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFF2CC"}, Pattern: 1},
	})
	if err != nil {
		return nil, "", fmt.Errorf("create highlight style: %w", err)
	}
	changedStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F8CBAD"}, Pattern: 1},
	})
	if err != nil {
		return nil, "", fmt.Errorf("create highlight style: %w", err)
	}

	for col, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellStyle(sheet, "A1", "G1", headerStyle)

	for i, e := range res.Entries {
		row := i + 2
		oldPLU := ""
		if e.OldPLU != nil {
			oldPLU = *e.OldPLU
		}
		values := []interface{}{e.PLU, e.Name, e.ItemType, e.Status, oldPLU, e.CategoryName, nil}
		if e.Price != nil {
			values[6] = *e.Price
		}
		for col, v := range values {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		// 新品与改号条目沿用查看端的高亮配色
		switch e.Status {
		case entity.ItemStatusNew:
			f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), newStyle)
		case entity.ItemStatusPLUChanged:
			f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), changedStyle)
		}
	}

	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 40)
	f.SetColWidth(sheet, "C", "G", 14)

	filename := fmt.Sprintf("%s-kw%02d-%d.xlsx", kind, res.Version.WeekNumber, res.Version.Year)
	return f, filename, nil
}
