package entities

// Resource identifies one of the fixed resource kinds a player can hold
type Resource string

// The fixed resource set. Every balance and cost is keyed by these.
const (
	ResourceFood    Resource = "food"
	ResourceGold    Resource = "gold"
	ResourceWood    Resource = "wood"
	ResourceStone   Resource = "stone"
	ResourceScience Resource = "science"
	ResourceCulture Resource = "culture"
	ResourceArmy    Resource = "army"
)

// AllResources lists every resource kind in a stable order
var AllResources = []Resource{
	ResourceFood,
	ResourceGold,
	ResourceWood,
	ResourceStone,
	ResourceScience,
	ResourceCulture,
	ResourceArmy,
}

// Resources maps a resource kind to a balance or delta. Committed player
// balances are never negative; the ledger enforces that.
type Resources map[Resource]int

// Clone returns an independent copy
func (r Resources) Clone() Resources {
	out := make(Resources, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// PlayerStats tracks lifetime counters for a player
type PlayerStats struct {
	GamesPlayed          int `json:"games_played"`
	GamesWon             int `json:"games_won"`
	TotalTurns           int `json:"total_turns"`
	CitiesFounded        int `json:"cities_founded"`
	TerritoriesConquered int `json:"territories_conquered"`
}

// Player is a participant in a game
type Player struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	CivilizationName string      `json:"civilization_name"`
	Avatar           string      `json:"avatar,omitempty"`
	Online           bool        `json:"online"`
	Resources        Resources   `json:"resources"`
	Stats            PlayerStats `json:"stats"`
}

// GetID implements core.Entity
func (p *Player) GetID() string {
	return p.ID
}

// GetType implements core.Entity
func (p *Player) GetType() string {
	return "player"
}
