package entities

// UnitSpec is the static definition of a trainable unit type
type UnitSpec struct {
	Name        string
	Attack      int
	Defense     int
	Health      int
	Movement    int
	Cost        Resources
	Description string
}

// UnitTypes is the catalog of trainable unit types
var UnitTypes = map[string]UnitSpec{
	"warrior": {
		Name:        "Warrior",
		Attack:      10,
		Defense:     8,
		Health:      100,
		Movement:    2,
		Cost:        Resources{ResourceFood: 20, ResourceGold: 30, ResourceWood: 10},
		Description: "Basic infantry unit",
	},
	"archer": {
		Name:        "Archer",
		Attack:      15,
		Defense:     5,
		Health:      80,
		Movement:    2,
		Cost:        Resources{ResourceFood: 15, ResourceGold: 25, ResourceWood: 15},
		Description: "Ranged combat unit",
	},
	"cavalry": {
		Name:        "Cavalry",
		Attack:      20,
		Defense:     12,
		Health:      120,
		Movement:    3,
		Cost:        Resources{ResourceFood: 25, ResourceGold: 40, ResourceWood: 5},
		Description: "Fast mounted unit",
	},
	"spearman": {
		Name:        "Spearman",
		Attack:      12,
		Defense:     15,
		Health:      90,
		Movement:    2,
		Cost:        Resources{ResourceFood: 18, ResourceGold: 20, ResourceWood: 12},
		Description: "Anti-cavalry unit",
	},
	"catapult": {
		Name:        "Catapult",
		Attack:      25,
		Defense:     3,
		Health:      60,
		Movement:    1,
		Cost:        Resources{ResourceFood: 10, ResourceGold: 50, ResourceWood: 30, ResourceStone: 20},
		Description: "Siege weapon",
	},
}

// BuildingSpec is the static definition of a city building
type BuildingSpec struct {
	Name       string
	Cost       Resources
	Production Resources
}

// BuildingTypes is the catalog of constructible buildings and the per-round
// production each adds to its city
var BuildingTypes = map[string]BuildingSpec{
	"granary": {
		Name:       "Granary",
		Cost:       Resources{ResourceFood: 30, ResourceWood: 20},
		Production: Resources{ResourceFood: 3},
	},
	"market": {
		Name:       "Market",
		Cost:       Resources{ResourceGold: 50, ResourceWood: 30},
		Production: Resources{ResourceGold: 5},
	},
	"library": {
		Name:       "Library",
		Cost:       Resources{ResourceScience: 20, ResourceStone: 40},
		Production: Resources{ResourceScience: 3},
	},
	"barracks": {
		Name:       "Barracks",
		Cost:       Resources{ResourceGold: 40, ResourceStone: 30},
		Production: Resources{ResourceArmy: 2},
	},
}

// TerrainBonuses is the per-round production bonus a city gains from the
// terrain it sits on
var TerrainBonuses = map[Terrain]Resources{
	TerrainPlains:    {ResourceFood: 2, ResourceGold: 1},
	TerrainForest:    {ResourceWood: 3, ResourceFood: 1},
	TerrainMountains: {ResourceStone: 4, ResourceGold: 2},
	TerrainHills:     {ResourceStone: 2, ResourceGold: 1, ResourceFood: 1},
	TerrainDesert:    {ResourceGold: 1},
}

// BaseCityProduction is what every city produces per round before bonuses
var BaseCityProduction = Resources{
	ResourceFood:    10,
	ResourceGold:    5,
	ResourceWood:    8,
	ResourceStone:   3,
	ResourceScience: 2,
	ResourceCulture: 1,
}

// FoundCityCost is the fixed cost of the found_city action
var FoundCityCost = Resources{
	ResourceFood: 50,
	ResourceGold: 100,
	ResourceWood: 30,
}

// StartingResources is the bundle granted to each player at game start
var StartingResources = Resources{
	ResourceFood:    100,
	ResourceGold:    50,
	ResourceWood:    50,
	ResourceStone:   30,
	ResourceScience: 10,
	ResourceCulture: 10,
	ResourceArmy:    1,
}

// Victory thresholds per game mode
const (
	DominationTileShare = 0.6
	ScienceThreshold    = 1000
	CultureThreshold    = 800
	EconomicThreshold   = 1500
)
