package scoring

import (
	"math"
	"strings"

	"digiassistant-client-V1.0/internal/model"
)

// The reference scorer is a transparent heuristic standing in for the
// production AI evaluator: it looks for substance (length) and maturity
// markers in the answer and grades 0..3.

// Single-word markers are matched on whole words only: "no" must not fire on
// "nous" or "innovation".
var negativeWords = []string{
	"non", "aucun", "aucune", "jamais", "rien",
	"no", "none", "never", "nothing",
}

var negativePhrases = []string{
	"pas encore", "nous n'avons pas",
}

var maturityMarkers = []string{
	"automatis", "mesur", "kpi", "indicateur", "tableau de bord", "dashboard",
	"crm", "erp", "cloud", "intégr", "process", "systématique", "régulière",
	"stratégie", "feuille de route", "formation", "données", "data", "analyse",
	"personnalis", "pilot",
}

// ScoreAnswer grades one answer against its criterion.
func ScoreAnswer(criterion Criterion, answer string) model.Evaluation {
	normalized := strings.ToLower(strings.TrimSpace(answer))
	fields := strings.Fields(normalized)
	words := len(fields)

	if words < 3 {
		return model.Evaluation{
			Score:         0,
			Justification: "Réponse trop courte pour évaluer ce critère.",
		}
	}

	if words < 12 && hasNegativeMarker(normalized, fields) {
		return model.Evaluation{
			Score:         1,
			Justification: "Pratique absente ou embryonnaire sur ce critère.",
		}
	}

	hits := 0
	for _, marker := range maturityMarkers {
		if strings.Contains(normalized, marker) {
			hits++
		}
	}

	switch {
	case hits >= 2 && words >= 15:
		return model.Evaluation{
			Score:         3,
			Justification: "Pratique structurée et outillée sur ce critère.",
		}
	case hits >= 1:
		return model.Evaluation{
			Score:         2,
			Justification: "Pratique en place mais encore partielle.",
		}
	default:
		return model.Evaluation{
			Score:         1,
			Justification: "Démarche amorcée, sans outillage identifié.",
		}
	}
}

func hasNegativeMarker(normalized string, fields []string) bool {
	for _, phrase := range negativePhrases {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}
	for _, field := range fields {
		word := strings.Trim(field, ".,;:!?\"()")
		for _, marker := range negativeWords {
			if word == marker {
				return true
			}
		}
	}
	return false
}

// palierFromPercent maps a 0..100 score onto the four maturity tiers.
func palierFromPercent(percent float64) int {
	switch {
	case percent < 25:
		return 1
	case percent < 50:
		return 2
	case percent < 75:
		return 3
	default:
		return 4
	}
}

// ComputeResults aggregates the scored entries of a finished conversation
// into the structured report.
func ComputeResults(conversationID string, entries []model.ConversationEntry) *model.StructuredResult {
	type agg struct {
		total float64
		count int
	}
	perDimension := make(map[string]*agg)

	for _, entry := range entries {
		criterion, ok := CriterionByID(entry.CriterionID)
		if !ok || entry.Score == nil {
			continue
		}
		a := perDimension[criterion.Dimension]
		if a == nil {
			a = &agg{}
			perDimension[criterion.Dimension] = a
		}
		a.total += float64(*entry.Score)
		a.count++
	}

	result := &model.StructuredResult{
		ConversationID:   conversationID,
		DimensionResults: make(map[string]model.DimensionResult),
	}

	var globalTotal float64
	var globalCount int
	for _, dimension := range Dimensions() {
		a := perDimension[dimension]
		percent := 0.0
		if a != nil && a.count > 0 {
			percent = math.Round(a.total / (float64(a.count) * 3) * 100)
		}
		result.DimensionResults[dimension] = model.DimensionResult{
			ScorePercent:  percent,
			PalierAtteint: palierFromPercent(percent),
		}
		globalTotal += percent
		globalCount++
	}

	if globalCount > 0 {
		result.GlobalScore = int(math.Round(globalTotal / float64(globalCount)))
	}
	result.ProfileLevel = palierFromPercent(float64(result.GlobalScore))

	// Gaps are the dimensions lagging behind the overall profile.
	for _, dimension := range Dimensions() {
		dim := result.DimensionResults[dimension]
		if dim.PalierAtteint < result.ProfileLevel {
			result.DigitalGaps = append(result.DigitalGaps, model.DigitalGap{
				Dimension:     dimension,
				PalierAtteint: dim.PalierAtteint,
			})
		}
	}

	return result
}
