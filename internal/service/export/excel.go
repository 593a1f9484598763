package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/promoboard/internal/domain/models"
)

const sheetName = "Акции"

// RegistryHeader is the column layout of the registry workbook.
var RegistryHeader = []string{
	"ID",
	"Название",
	"Проект",
	"Статус",
	"Тип",
	"Тип корректировки",
	"Значение",
	"Направление",
	"Начало",
	"Окончание",
	"Помещений",
	"Приоритет",
	"Суммируется",
	"Создана",
}

var columnWidths = []float64{14, 36, 24, 14, 20, 28, 10, 12, 12, 12, 11, 10, 12, 12}

func modeLabel(m models.AdjustmentMode) string {
	if m == models.ModeIncrease {
		return "Повышение"
	}
	return "Понижение"
}

// adjustmentValue renders the value with the unit its adjustment type implies.
func adjustmentValue(p models.Promotion) string {
	if p.AdjustmentType == "" {
		return ""
	}
	v := strconv.FormatFloat(p.AdjustmentValue, 'f', -1, 64)
	switch {
	case p.AdjustmentType.Percent():
		return v + "%"
	case p.AdjustmentType == models.AdjustFixedToCost, p.AdjustmentType == models.AdjustFixedToAreaCost:
		return v + " ₽"
	default:
		return v
	}
}

func yesNo(v bool) string {
	if v {
		return "Да"
	}
	return "Нет"
}

func registryRow(p models.Promotion) []any {
	return []any{
		p.ID,
		p.Name,
		p.Project,
		p.Status.Label(),
		p.Type.Label(),
		p.AdjustmentType.Label(),
		adjustmentValue(p),
		modeLabel(p.AdjustmentMode),
		p.StartDate,
		p.EndDate,
		len(p.UnitIDs),
		p.Priority,
		yesNo(p.Stackable),
		p.CreatedAt,
	}
}

// RenderRegistry writes the promotions to an xlsx workbook in the given order.
func RenderRegistry(promotions []models.Promotion) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#6699CC"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range RegistryHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}

		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheetName, name, name, columnWidths[col]); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, p := range promotions {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		row := registryRow(p)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
