package scoring

// Criterion is one question slot of the fixed assessment set.
type Criterion struct {
	ID        string
	Dimension string
	Palier    int
	Question  string
}

// The question set is fixed: two criteria per dimension, asked in order.
var catalog = []Criterion{
	{
		ID:        "strategie_vision",
		Dimension: "Stratégie & Gouvernance",
		Palier:    1,
		Question:  "Votre entreprise dispose-t-elle d'une feuille de route digitale formalisée ? Décrivez comment elle est pilotée.",
	},
	{
		ID:        "strategie_budget",
		Dimension: "Stratégie & Gouvernance",
		Palier:    2,
		Question:  "Comment le budget consacré aux projets numériques est-il décidé et suivi d'une année sur l'autre ?",
	},
	{
		ID:        "techno_outils",
		Dimension: "Technologie & Outils",
		Palier:    1,
		Question:  "Quels outils numériques (CRM, ERP, cloud, collaboration) vos équipes utilisent-elles au quotidien ?",
	},
	{
		ID:        "techno_integration",
		Dimension: "Technologie & Outils",
		Palier:    2,
		Question:  "Vos outils échangent-ils des données entre eux, ou les équipes ressaisissent-elles l'information manuellement ?",
	},
	{
		ID:        "donnees_collecte",
		Dimension: "Données & Analyse",
		Palier:    1,
		Question:  "Quelles données collectez-vous sur vos clients et votre activité, et où sont-elles stockées ?",
	},
	{
		ID:        "donnees_pilotage",
		Dimension: "Données & Analyse",
		Palier:    2,
		Question:  "Vos décisions s'appuient-elles sur des indicateurs mesurés régulièrement ? Donnez un exemple concret.",
	},
	{
		ID:        "competences_formation",
		Dimension: "Compétences & Culture",
		Palier:    1,
		Question:  "Comment vos collaborateurs sont-ils formés aux outils et usages numériques ?",
	},
	{
		ID:        "competences_adoption",
		Dimension: "Compétences & Culture",
		Palier:    2,
		Question:  "Comment accompagnez-vous le changement lorsqu'un nouvel outil ou process est déployé ?",
	},
	{
		ID:        "client_canaux",
		Dimension: "Expérience Client",
		Palier:    1,
		Question:  "Par quels canaux numériques vos clients peuvent-ils vous trouver, vous contacter et acheter ?",
	},
	{
		ID:        "client_personnalisation",
		Dimension: "Expérience Client",
		Palier:    2,
		Question:  "Utilisez-vous les données clients pour personnaliser votre communication ou vos offres ? Comment ?",
	},
}

// Catalog returns the ordered question set.
func Catalog() []Criterion {
	return catalog
}

// CriterionByID looks a criterion up; ok is false for unknown ids.
func CriterionByID(id string) (Criterion, bool) {
	for _, c := range catalog {
		if c.ID == id {
			return c, true
		}
	}
	return Criterion{}, false
}

// Dimensions returns the distinct dimension names in catalog order.
func Dimensions() []string {
	var dims []string
	seen := make(map[string]bool)
	for _, c := range catalog {
		if !seen[c.Dimension] {
			seen[c.Dimension] = true
			dims = append(dims, c.Dimension)
		}
	}
	return dims
}
