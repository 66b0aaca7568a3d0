package entities

// Terrain is the terrain type of one map tile
type Terrain string

// Terrain kinds drawn by the map generator
const (
	TerrainPlains    Terrain = "plains"
	TerrainForest    Terrain = "forest"
	TerrainMountains Terrain = "mountains"
	TerrainDesert    Terrain = "desert"
	TerrainWater     Terrain = "water"
	TerrainHills     Terrain = "hills"
)

// Tile is one cell of the square map grid and the unit of territory
// ownership. At most one city and one unit occupy a tile; water tiles
// never host a city. Discovered is game-global, not per player.
type Tile struct {
	X          int      `json:"x"`
	Y          int      `json:"y"`
	Terrain    Terrain  `json:"terrain"`
	Resource   Resource `json:"resource,omitempty"`
	City       *City    `json:"city,omitempty"`
	Unit       *Unit    `json:"unit,omitempty"`
	OwnerID    string   `json:"owner_id,omitempty"`
	Discovered bool     `json:"discovered"`
}

// City sits on a tile and generates resources each round. Cities are never
// destroyed; conquest transfers ownership instead.
type City struct {
	Name        string   `json:"name"`
	Level       int      `json:"level"`
	Population  int      `json:"population"`
	Defense     int      `json:"defense"`
	Buildings   []string `json:"buildings"`
	OwnerID     string   `json:"owner_id"`
	FoundedTurn int      `json:"founded_turn"`
}

// HasBuilding reports whether the city contains the given building
func (c *City) HasBuilding(id string) bool {
	for _, b := range c.Buildings {
		if b == id {
			return true
		}
	}
	return false
}

// Unit is an army occupying a tile. A unit whose health reaches zero is
// removed from its tile.
type Unit struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Attack      int    `json:"attack"`
	Defense     int    `json:"defense"`
	Health      int    `json:"health"`
	MaxHealth   int    `json:"max_health"`
	Movement    int    `json:"movement"`
	MaxMovement int    `json:"max_movement"`
	Experience  int    `json:"experience"`
	Level       int    `json:"level"`
	OwnerID     string `json:"owner_id"`
}

// CombatResult is the outcome of one attacker-vs-defender resolution.
// Defeat is a normal result, not an error.
type CombatResult struct {
	Winner         string  `json:"winner"` // "attacker" or "defender"
	AttackerPower  float64 `json:"attacker_power"`
	DefenderPower  float64 `json:"defender_power"`
	AttackerDamage int     `json:"attacker_damage"`
	DefenderDamage int     `json:"defender_damage"`
}

// Combat winner values
const (
	CombatWinnerAttacker = "attacker"
	CombatWinnerDefender = "defender"
)
