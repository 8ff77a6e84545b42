package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"digiassistant-client-V1.0/internal/api"
	"digiassistant-client-V1.0/internal/model"
)

var pdfMagic = []byte("%PDF")

// ResultsService reads the structured report of a finished assessment and
// downloads the PDF rendition.
type ResultsService interface {
	FetchResults(ctx context.Context, conversationID string) (*model.StructuredResult, error)
	DownloadReport(ctx context.Context, conversationID, destDir string) (string, error)
}

type resultsService struct {
	api *api.Client
}

func NewResultsService(apiClient *api.Client) ResultsService {
	return &resultsService{api: apiClient}
}

func (s *resultsService) FetchResults(ctx context.Context, conversationID string) (*model.StructuredResult, error) {
	if conversationID == "" {
		return nil, errors.New("conversation ID is required")
	}
	return s.api.StructuredResults(ctx, conversationID)
}

// DownloadReport fetches the PDF report and writes it to destDir. The payload
// is only accepted when the content type and the %PDF magic bytes both check
// out, so a backend error page never ends up saved as a report.
func (s *resultsService) DownloadReport(ctx context.Context, conversationID, destDir string) (string, error) {
	data, contentType, err := s.api.ResultsPDF(ctx, conversationID)
	if err != nil {
		return "", err
	}

	if contentType != "" && !strings.Contains(contentType, "application/pdf") {
		return "", fmt.Errorf("server returned non-PDF response (%s)", contentType)
	}
	if len(data) == 0 {
		return "", errors.New("PDF file is empty")
	}
	if len(data) < len(pdfMagic) || !bytes.Equal(data[:len(pdfMagic)], pdfMagic) {
		return "", errors.New("downloaded file is not a valid PDF")
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(destDir, fmt.Sprintf("DigiAssistant_Report_%s.pdf", conversationID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// AlignedDimensions lists the dimensions whose reached palier matches the
// overall profile level.
func AlignedDimensions(res *model.StructuredResult) []string {
	var aligned []string
	for name, dim := range res.DimensionResults {
		if dim.PalierAtteint == res.ProfileLevel {
			aligned = append(aligned, name)
		}
	}
	sort.Strings(aligned)
	return aligned
}

// GapLabel phrases a digital gap the way the report does: dimensions more
// than one palier behind need strong reinforcement, the rest a push.
func GapLabel(res *model.StructuredResult, gap model.DigitalGap) string {
	if gap.PalierAtteint < res.ProfileLevel-1 {
		return fmt.Sprintf("%s (Palier %d → à renforcer fortement)", gap.Dimension, gap.PalierAtteint)
	}
	return fmt.Sprintf("%s (Palier %d → à faire progresser)", gap.Dimension, gap.PalierAtteint)
}

// ScoreMessage interprets the global score band.
func ScoreMessage(globalScore int) string {
	switch {
	case globalScore >= 76:
		return "Excellent! High digital maturity."
	case globalScore >= 51:
		return "Good progress developing digital capabilities."
	default:
		return "Room for improvement in key areas."
	}
}
