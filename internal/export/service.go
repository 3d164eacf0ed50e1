package export

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/slatecrew/callsheet/internal/entity"
)

// Service renders ingestion models as XLSX bytes.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ScheduleXLSX returns an XLSX workbook for a schedule model: one "Schedule"
// sheet of scene rows grouped by shooting day, plus a "Cast" sheet.
func (s *Service) ScheduleXLSX(model *entity.ScheduleModel) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Schedule"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Day",
		"Date",
		"Scene",
		"INT/EXT",
		"Set/Location",
		"D/N",
		"Pages",
		"Cast",
		"Est. Time",
		"Description",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	row := 2
	sceneRows := 0
	for _, day := range model.Days {
		for _, sc := range day.Scenes {
			write(1, row, day.DayNumber)
			write(2, row, day.Date)
			write(3, row, sc.SceneNumber)
			write(4, row, string(sc.IntExt))
			write(5, row, sc.SetLocation)
			write(6, row, sc.DayNight)
			write(7, row, sc.Pages)
			write(8, row, joinInts(sc.CastNumbers))
			write(9, row, sc.EstimatedTime)
			write(10, row, truncate(sc.Description, 140))
			row++
			sceneRows++
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 6)
	_ = f.SetColWidth(sheet, "B", "B", 12)
	_ = f.SetColWidth(sheet, "C", "D", 9)
	_ = f.SetColWidth(sheet, "E", "E", 32)
	_ = f.SetColWidth(sheet, "F", "G", 8)
	_ = f.SetColWidth(sheet, "H", "H", 18)
	_ = f.SetColWidth(sheet, "I", "I", 10)
	_ = f.SetColWidth(sheet, "J", "J", 48)

	if err := s.writeCastSheet(f, model.CastList); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"days", len(model.Days),
		"rows", sceneRows,
		"cast", len(model.CastList),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (s *Service) writeCastSheet(f *excelize.File, cast []entity.CastMember) error {
	const sheet = "Cast"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	_ = f.SetCellValue(sheet, "A1", "Number")
	_ = f.SetCellValue(sheet, "B1", "Name")
	for i, m := range cast {
		cellA, _ := excelize.CoordinatesToCellName(1, i+2)
		cellB, _ := excelize.CoordinatesToCellName(2, i+2)
		_ = f.SetCellValue(sheet, cellA, m.Number)
		_ = f.SetCellValue(sheet, cellB, m.Name)
	}
	_ = f.SetColWidth(sheet, "B", "B", 28)
	return nil
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
