package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"adept/domain/plan"
)

var exportHeaders = []string{
	"Title", "Status", "Swimlane",
	"DICE Duration", "DICE Integrity", "DICE Commitment", "DICE Effort", "DICE Score", "Risk Band",
	"RICE Reach", "RICE Impact", "RICE Confidence", "RICE Effort", "RICE Score", "Impact/Effort",
	"Created",
}

// PortfolioExporter renders the project portfolio as an XLSX workbook with one
// sheet per horizon.
type PortfolioExporter struct{}

func NewPortfolioExporter() *PortfolioExporter {
	return &PortfolioExporter{}
}

// Export writes the workbook to w. Horizons with no projects still get a sheet
// so the workbook shape is stable.
func (e *PortfolioExporter) Export(w io.Writer, projects []plan.Project) error {
	f := excelize.NewFile()
	defer f.Close()

	byHorizon := make(map[plan.Horizon][]plan.Project)
	for _, p := range projects {
		byHorizon[p.Horizon] = append(byHorizon[p.Horizon], p)
	}

	for i, horizon := range plan.Horizons() {
		sheet := string(horizon)
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}

		for col, h := range exportHeaders {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return err
			}
		}

		for r, p := range byHorizon[horizon] {
			for col, v := range projectRow(p) {
				cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return err
				}
			}
		}
	}

	// Drop excelize's default sheet so only horizon sheets remain
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func projectRow(p plan.Project) []interface{} {
	return []interface{}{
		p.Spec.Title,
		string(p.Status),
		string(p.Swimlane),
		p.Dice.Duration, p.Dice.Integrity, p.Dice.Commitment, p.Dice.Effort, p.Dice.Score, string(p.RiskBand()),
		p.Rice.Reach, p.Rice.Impact, p.Rice.Confidence, p.Rice.Effort, p.Rice.Score, plan.ImpactEffortRatio(p.Rice.Impact, p.Rice.Effort),
		p.CreatedAt.Format("2006-01-02 15:04"),
	}
}
