package service

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"digiassistant-client-V1.0/internal/model"
	"digiassistant-client-V1.0/internal/scoring"
)

// ReportService renders the structured result as the downloadable PDF report.
type ReportService interface {
	BuildReport(user *model.User, result *model.StructuredResult) ([]byte, error)
}

type reportService struct{}

func NewReportService() ReportService {
	return &reportService{}
}

func (s *reportService) BuildReport(user *model.User, result *model.StructuredResult) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 12, tr("Rapport de maturité digitale"))
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 11)
	if user != nil && user.CompanyName != "" {
		pdf.Cell(0, 8, tr(fmt.Sprintf("Entreprise : %s (%s, %s)", user.CompanyName, user.Sector, user.CompanySize)))
		pdf.Ln(10)
	}

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, tr(fmt.Sprintf("Score global : %d / 100 — Palier %d", result.GlobalScore, result.ProfileLevel)))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 7, tr(ScoreMessage(result.GlobalScore)), "", "L", false)
	pdf.Ln(5)

	// Dimension table
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(90, 8, tr("Dimension"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, tr("Score"), "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, tr("Palier atteint"), "1", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	for _, dimension := range scoring.Dimensions() {
		dim, ok := result.DimensionResults[dimension]
		if !ok {
			continue
		}
		pdf.CellFormat(90, 8, tr(dimension), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%.0f %%", dim.ScorePercent), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%d", dim.PalierAtteint), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, tr("Analyse des digital gaps"))
	pdf.Ln(9)
	pdf.SetFont("Arial", "", 11)
	if len(result.DigitalGaps) == 0 {
		pdf.MultiCell(0, 7, tr("Aucun écart significatif : toutes les dimensions sont alignées sur votre palier global."), "", "L", false)
	} else {
		for _, gap := range result.DigitalGaps {
			pdf.MultiCell(0, 7, tr("- "+GapLabel(result, gap)), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}
