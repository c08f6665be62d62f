package jurisdiction

import (
	"github.com/google/uuid"
)

// SeedNodes builds the Canadian hierarchy: the federal root, the ten
// provinces and three territories, and the major municipalities. IDs are
// minted fresh; codes are the stable identifiers.
func SeedNodes() []Node {
	federal := Node{
		ID:          uuid.New(),
		Code:        "CA",
		Name:        "Canada",
		Level:       LevelFederal,
		LegalSystem: LegalSystemBijural,
	}

	nodes := []Node{federal}

	type prov struct {
		code, name string
		level      Level
		system     LegalSystem
	}
	provinces := []prov{
		{"AB", "Alberta", LevelProvincial, LegalSystemCommonLaw},
		{"BC", "British Columbia", LevelProvincial, LegalSystemCommonLaw},
		{"MB", "Manitoba", LevelProvincial, LegalSystemCommonLaw},
		{"NB", "New Brunswick", LevelProvincial, LegalSystemCommonLaw},
		{"NL", "Newfoundland and Labrador", LevelProvincial, LegalSystemCommonLaw},
		{"NS", "Nova Scotia", LevelProvincial, LegalSystemCommonLaw},
		{"ON", "Ontario", LevelProvincial, LegalSystemCommonLaw},
		{"PE", "Prince Edward Island", LevelProvincial, LegalSystemCommonLaw},
		{"QC", "Quebec", LevelProvincial, LegalSystemCivilLaw},
		{"SK", "Saskatchewan", LevelProvincial, LegalSystemCommonLaw},
		{"NT", "Northwest Territories", LevelTerritorial, LegalSystemCommonLaw},
		{"NU", "Nunavut", LevelTerritorial, LegalSystemCommonLaw},
		{"YT", "Yukon", LevelTerritorial, LegalSystemCommonLaw},
	}

	byCode := map[string]uuid.UUID{"CA": federal.ID}
	for _, p := range provinces {
		id := uuid.New()
		byCode[p.code] = id
		parentID := federal.ID
		nodes = append(nodes, Node{
			ID:          id,
			Code:        p.code,
			Name:        p.name,
			Level:       p.level,
			LegalSystem: p.system,
			ParentID:    &parentID,
		})
	}

	type muni struct {
		code, name, parent string
	}
	municipalities := []muni{
		{"CGY", "Calgary", "AB"},
		{"EDM", "Edmonton", "AB"},
		{"VAN", "Vancouver", "BC"},
		{"VIC", "Victoria", "BC"},
		{"WPG", "Winnipeg", "MB"},
		{"HFX", "Halifax", "NS"},
		{"OTT", "Ottawa", "ON"},
		{"TOR", "Toronto", "ON"},
		{"MTL", "Montreal", "QC"},
		{"QUE", "Quebec City", "QC"},
		{"SAS", "Saskatoon", "SK"},
		{"WHI", "Whitehorse", "YT"},
	}

	for _, m := range municipalities {
		parentID := byCode[m.parent]
		system := LegalSystemCommonLaw
		if m.parent == "QC" {
			system = LegalSystemCivilLaw
		}
		nodes = append(nodes, Node{
			ID:          uuid.New(),
			Code:        m.code,
			Name:        m.name,
			Level:       LevelMunicipal,
			LegalSystem: system,
			ParentID:    &parentID,
		})
	}

	return nodes
}
