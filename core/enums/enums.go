// Package enums provides the enumeration dictionary of the diagnostic method.
// Codes are the published numeric identifiers; labels are the canonical
// strings used by the reference tables and the legacy engine.
package enums

import "sort"

// Enumeration names
const (
	ConstructionPeriod = "periode_construction"
	InsulationPeriod   = "periode_isolation"
	ClimateZone        = "zone_climatique"
	AltitudeClass      = "classe_altitude"
	InertiaClass       = "classe_inertie"
	AdjacencyType      = "type_adjacence"
	FloorType          = "type_plancher_bas"
	UMethod            = "methode_saisie_u"
	U0Method           = "methode_saisie_u0"
)

// Adjacency labels that drive the grouped floor coefficient
const (
	AdjacencyCrawlSpace       = "vide sanitaire"
	AdjacencyEarthContact     = "terre-plein"
	AdjacencyUnheatedBasement = "sous-sol non chauffé"
)

// Dictionary resolves enumeration codes to labels and back
type Dictionary interface {
	// Label returns the canonical label of a code
	Label(enum string, code int) (string, bool)

	// Code returns the code of a canonical label
	Code(enum string, label string) (int, bool)
}

// Static is an in-memory dictionary
type Static map[string]map[int]string

// Label implements Dictionary
func (s Static) Label(enum string, code int) (string, bool) {
	labels, ok := s[enum]
	if !ok {
		return "", false
	}
	label, ok := labels[code]
	return label, ok
}

// Code implements Dictionary. When a label appears under several codes the
// smallest code wins.
func (s Static) Code(enum string, label string) (int, bool) {
	labels, ok := s[enum]
	if !ok {
		return 0, false
	}
	codes := make([]int, 0, len(labels))
	for code := range labels {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		if labels[code] == label {
			return code, true
		}
	}
	return 0, false
}

// Default returns the built-in dictionary
func Default() Static {
	return defaultDictionary
}

var periods = map[int]string{
	1:  "avant 1948",
	2:  "1948-1974",
	3:  "1975-1977",
	4:  "1978-1982",
	5:  "1983-1988",
	6:  "1989-2000",
	7:  "2001-2005",
	8:  "2006-2012",
	9:  "2013-2021",
	10: "après 2021",
}

var defaultDictionary = Static{
	ConstructionPeriod: periods,
	InsulationPeriod:   periods,
	ClimateZone: {
		1: "h1a",
		2: "h1b",
		3: "h1c",
		4: "h2a",
		5: "h2b",
		6: "h2c",
		7: "h2d",
		8: "h3",
	},
	AltitudeClass: {
		1: "inférieur à 400m",
		2: "400-800m",
		3: "supérieur à 800m",
	},
	InertiaClass: {
		1: "très lourde",
		2: "lourde",
		3: "moyenne",
		4: "légère",
	},
	AdjacencyType: {
		1:  "extérieur",
		2:  "paroi enterrée",
		3:  AdjacencyCrawlSpace,
		4:  "bâtiment ou local à usage autre que d'habitation",
		5:  AdjacencyEarthContact,
		6:  AdjacencyUnheatedBasement,
		7:  "locaux non chauffés non accessible",
		8:  "garage",
		9:  "cellier",
		10: "espace tampon solarisé (véranda,loggia fermée)",
		11: "comble fortement ventilé",
		12: "comble faiblement ventilé",
		13: "comble très faiblement ventilé",
	},
	FloorType: {
		1:  "inconnu",
		2:  "plancher avec ou sans remplissage",
		3:  "plancher entre solives bois avec ou sans remplissage",
		4:  "plancher entre solives métalliques avec ou sans remplissage",
		5:  "bardeaux et remplissage",
		6:  "voutains sur solives métalliques",
		7:  "voutains en briques ou moellons",
		8:  "dalle béton",
		9:  "plancher bois sur solives bois",
		10: "plancher bois sur solives métalliques",
		11: "plancher lourd type entrevous terre-cuite, poutrelles béton",
		12: "plancher à entrevous isolant",
		13: "autre type de plancher non répertorié",
	},
	UMethod: {
		1:  "non isolé",
		2:  "isolation inconnue (table forfaitaire)",
		3:  "epaisseur isolation saisie justifiée par mesure ou observation",
		4:  "epaisseur isolation saisie justifiée à partir des documents justificatifs autorisés",
		5:  "resistance isolation saisie justifiée observation de l'isolant installé et mesure de son épaisseur",
		6:  "resistance isolation saisie justifiée à partir des documents justificatifs autorisés",
		7:  "année d'isolation différente de l'année de construction saisie justifiée (table forfaitaire)",
		8:  "année de construction saisie (table forfaitaire)",
		9:  "saisie direct u justifiée (à partir des documents justificatifs autorisés)",
		10: "saisie direct u depuis rset/rsee (etude rt2012/re2020)",
	},
	U0Method: {
		1: "type de paroi inconnu (valeur par défaut)",
		2: "déterminé selon le matériau et épaisseur à partir de la table de valeur forfaitaire",
		3: "saisie direct u0 justifiée à partir des documents justificatifs autorisés",
		4: "saisie direct u0 correspondant à la performance de la paroi avec son isolation antérieure iti (umur_iti) lorsqu'il y a une surisolation ite réalisée",
		5: "u0 non saisi car le u est saisi connu et justifié.",
	},
}
