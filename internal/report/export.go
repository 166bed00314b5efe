package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/interview-coach/internal/candidate"
)

const (
	SummarySheet    = "Summary"
	CandidatesSheet = "Candidates"
)

var candidateHeaders = []string{
	"Name", "Email", "Phone", "Status", "Final Score", "Recommended Level",
	"Avg Confidence", "Total Time (s)", "Skills Assessed", "Created", "Completed",
}

// ExportXLSX writes the dashboard to an Excel workbook and returns the path
// actually written; the .xlsx extension is added when missing.
func ExportXLSX(path string, list []*candidate.Candidate, now time.Time) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return "", err
	}
	if _, err := f.NewSheet(CandidatesSheet); err != nil {
		return "", err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return "", err
	}

	if err := writeSummary(f, header, Compute(list), now); err != nil {
		return "", fmt.Errorf("summary sheet: %w", err)
	}
	if err := writeCandidates(f, header, list); err != nil {
		return "", fmt.Errorf("candidates sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}

func writeSummary(f *excelize.File, header int, stats Stats, now time.Time) error {
	if err := f.SetColWidth(SummarySheet, "A", "A", 25); err != nil {
		return err
	}

	rows := [][]any{
		{"Interview Report", ""},
		{"Generated", now.Format("2006-01-02 15:04:05")},
		{"Total Candidates", stats.Total},
		{"Completed", stats.Completed},
		{"In Progress", stats.InProgress},
		{"Pending Info", stats.Pending},
		{"Average Score", stats.AverageScore},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetCellStyle(SummarySheet, "A1", "B1", header)
}

func writeCandidates(f *excelize.File, header int, list []*candidate.Candidate) error {
	if err := f.SetSheetRow(CandidatesSheet, "A1", &candidateHeaders); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(candidateHeaders), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(CandidatesSheet, "A1", last, header); err != nil {
		return err
	}

	for i, c := range list {
		row := []any{
			c.Name, c.Email, c.Phone, string(c.Status), scoreCell(c.FinalScore),
			c.RecommendedLevel, c.AverageConfidence, c.TotalTime,
			strings.Join(c.SkillsAssessed, ", "), c.CreatedAt.Format(time.RFC3339), completedCell(c.CompletedAt),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(CandidatesSheet, cell, &row); err != nil {
			return err
		}
	}

	return f.SetPanes(CandidatesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func scoreCell(score *int) any {
	if score == nil {
		return ""
	}
	return *score
}

func completedCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
