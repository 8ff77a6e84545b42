package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digiassistant-client-V1.0/internal/model"
)

func TestBuildReport(t *testing.T) {
	svc := NewReportService()

	result := &model.StructuredResult{
		ConversationID: "conv-1",
		GlobalScore:    60,
		ProfileLevel:   3,
		DimensionResults: map[string]model.DimensionResult{
			"Stratégie & Gouvernance": {ScorePercent: 100, PalierAtteint: 4},
			"Données & Analyse":       {ScorePercent: 17, PalierAtteint: 1},
		},
		DigitalGaps: []model.DigitalGap{
			{Dimension: "Données & Analyse", PalierAtteint: 1},
		},
	}
	user := &model.User{CompanyName: "Atelier Dupont", Sector: "artisanat", CompanySize: "10-49"}

	data, err := svc.BuildReport(user, result)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "output must be a PDF document")
}

func TestBuildReportWithoutUser(t *testing.T) {
	svc := NewReportService()
	data, err := svc.BuildReport(nil, &model.StructuredResult{GlobalScore: 80, ProfileLevel: 4})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
