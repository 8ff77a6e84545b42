package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digiassistant-client-V1.0/internal/api"
	"digiassistant-client-V1.0/internal/model"
)

func resultsBackend(t *testing.T, handler http.HandlerFunc) ResultsService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewResultsService(api.NewClient(server.URL, nil, 5*time.Second))
}

func TestDownloadReport(t *testing.T) {
	t.Run("writes validated pdf to disk", func(t *testing.T) {
		payload := []byte("%PDF-1.4 rendered report")
		svc := resultsBackend(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			w.Write(payload)
		})

		dir := t.TempDir()
		path, err := svc.DownloadReport(context.Background(), "conv-1", dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "DigiAssistant_Report_conv-1.pdf"), path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, payload, data)
	})

	t.Run("rejects non-pdf content type", func(t *testing.T) {
		svc := resultsBackend(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html>error page</html>"))
		})

		_, err := svc.DownloadReport(context.Background(), "conv-1", t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "non-PDF")
	})

	t.Run("rejects empty body", func(t *testing.T) {
		svc := resultsBackend(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
		})

		_, err := svc.DownloadReport(context.Background(), "conv-1", t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty")
	})

	t.Run("rejects body without pdf magic", func(t *testing.T) {
		svc := resultsBackend(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			w.Write([]byte("not a pdf at all"))
		})

		_, err := svc.DownloadReport(context.Background(), "conv-1", t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a valid PDF")
	})
}

func TestFetchResults(t *testing.T) {
	svc := resultsBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/results/conv-1/structured", r.URL.Path)
		json.NewEncoder(w).Encode(model.StructuredResult{
			ConversationID: "conv-1",
			GlobalScore:    62,
			ProfileLevel:   3,
		})
	})

	res, err := svc.FetchResults(context.Background(), "conv-1")
	require.NoError(t, err)
	assert.Equal(t, 62, res.GlobalScore)

	_, err = svc.FetchResults(context.Background(), "")
	assert.Error(t, err)
}

func TestAlignedDimensions(t *testing.T) {
	res := &model.StructuredResult{
		ProfileLevel: 3,
		DimensionResults: map[string]model.DimensionResult{
			"Technologie & Outils":    {PalierAtteint: 3},
			"Données & Analyse":       {PalierAtteint: 1},
			"Stratégie & Gouvernance": {PalierAtteint: 3},
			"Compétences & Culture":   {PalierAtteint: 2},
		},
	}
	assert.Equal(t, []string{"Stratégie & Gouvernance", "Technologie & Outils"}, AlignedDimensions(res))
}

func TestGapLabel(t *testing.T) {
	res := &model.StructuredResult{ProfileLevel: 3}

	far := model.DigitalGap{Dimension: "Données & Analyse", PalierAtteint: 1}
	assert.Equal(t, "Données & Analyse (Palier 1 → à renforcer fortement)", GapLabel(res, far))

	near := model.DigitalGap{Dimension: "Compétences & Culture", PalierAtteint: 2}
	assert.Equal(t, "Compétences & Culture (Palier 2 → à faire progresser)", GapLabel(res, near))
}

func TestScoreMessage(t *testing.T) {
	assert.Equal(t, "Excellent! High digital maturity.", ScoreMessage(76))
	assert.Equal(t, "Good progress developing digital capabilities.", ScoreMessage(51))
	assert.Equal(t, "Room for improvement in key areas.", ScoreMessage(50))
}
