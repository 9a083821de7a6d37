package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ikkim/license-backend/internal/app/model"
	"github.com/xuri/excelize/v2"
)

const (
	ApplicationsSheet = "Applications"
	FilesSheet        = "Files"
)

var applicationHeaders = []interface{}{
	"Reference Number", "Status", "Account Type", "Account Name", "Email", "Phone",
	"Applicant", "City", "State", "PIN Code", "Country", "Previous License",
	"Documents", "Created At", "Submitted At",
}

var fileHeaders = []interface{}{
	"Reference Number", "File Name", "Content Type", "Size (bytes)", "Uploaded At",
}

// WriteApplications renders applications and their documents as an XLSX workbook.
// Social security numbers are never exported.
func WriteApplications(w io.Writer, apps []model.Application) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ApplicationsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(FilesSheet); err != nil {
		return fmt.Errorf("failed to create files sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := writeHeader(f, ApplicationsSheet, applicationHeaders, headerStyle); err != nil {
		return err
	}
	if err := writeHeader(f, FilesSheet, fileHeaders, headerStyle); err != nil {
		return err
	}

	fileRow := 2
	for i, app := range apps {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(ApplicationsSheet, cell, &[]interface{}{
			app.ReferenceNumber,
			string(app.Status),
			app.AccountType.String(),
			deref(app.AccountName),
			deref(app.Email),
			deref(app.Phone),
			applicant(&app),
			deref(app.City),
			deref(app.State),
			deref(app.ZipCode),
			deref(app.Country),
			yesNo(app.HasPreviousLicense),
			len(app.Files),
			formatTime(&app.CreatedAt),
			formatTime(app.SubmittedAt),
		}); err != nil {
			return fmt.Errorf("failed to write application row: %w", err)
		}

		for _, file := range app.Files {
			cell, _ := excelize.CoordinatesToCellName(1, fileRow)
			if err := f.SetSheetRow(FilesSheet, cell, &[]interface{}{
				app.ReferenceNumber,
				file.FileName,
				file.ContentType,
				file.FileSize,
				formatTime(&file.UploadedAt),
			}); err != nil {
				return fmt.Errorf("failed to write file row: %w", err)
			}
			fileRow++
		}
	}

	if err := f.SetPanes(ApplicationsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []interface{}, style int) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	return nil
}

// applicant is the person or organisation behind the application.
func applicant(app *model.Application) string {
	switch app.AccountType {
	case model.AccountTypeBusiness:
		return deref(app.BusinessName)
	case model.AccountTypeGovernment:
		parts := []string{deref(app.AgencyName), deref(app.DepartmentName)}
		return strings.TrimSpace(strings.Join(parts, " / "))
	default:
		names := make([]string, 0, 3)
		for _, n := range []*string{app.FirstName, app.MiddleName, app.LastName} {
			if n != nil && *n != "" {
				names = append(names, *n)
			}
		}
		return strings.Join(names, " ")
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
