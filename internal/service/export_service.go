package service

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/xuri/excelize/v2"

	"student-manager/internal/i18n"
	"student-manager/internal/model"
)

const exportSheet = "Students"

// ExportService renders the student list as a spreadsheet.
type ExportService struct {
	logger *slog.Logger
}

func NewExportService(logger *slog.Logger) *ExportService {
	return &ExportService{logger: logger}
}

// WriteXLSX writes one header row labelled in lang followed by one row per
// student, in list order.
func (s *ExportService) WriteXLSX(w io.Writer, students []model.Student, lang model.Language) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("close spreadsheet", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := []interface{}{"ID", i18n.T(lang, i18n.KeyName), i18n.T(lang, i18n.KeyEmail), i18n.T(lang, i18n.KeyAge)}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, student := range students {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		// Ages come from a numeric input; keep them numeric when they parse
		var age interface{} = student.Age
		if n, err := strconv.Atoi(student.Age); err == nil {
			age = n
		}

		row := []interface{}{student.ID, student.Name, student.Email, age}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write spreadsheet: %w", err)
	}
	return nil
}
