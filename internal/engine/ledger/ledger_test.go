package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/stratforge/empire-api/internal/engine/ledger"
	"github.com/stratforge/empire-api/internal/entities"
	"github.com/stratforge/empire-api/internal/errors"
)

type LedgerTestSuite struct {
	suite.Suite
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

func (s *LedgerTestSuite) TestCanAfford() {
	balance := entities.Resources{
		entities.ResourceFood: 50,
		entities.ResourceGold: 100,
	}

	s.True(ledger.CanAfford(balance, entities.Resources{
		entities.ResourceFood: 50,
		entities.ResourceGold: 100,
	}))
	s.False(ledger.CanAfford(balance, entities.Resources{
		entities.ResourceFood: 51,
	}))
	// Missing key counts as zero.
	s.False(ledger.CanAfford(balance, entities.Resources{
		entities.ResourceWood: 1,
	}))
	s.True(ledger.CanAfford(balance, nil))
}

func (s *LedgerTestSuite) TestDeduct() {
	balance := entities.Resources{
		entities.ResourceFood: 100,
		entities.ResourceGold: 50,
	}

	err := ledger.Deduct(balance, entities.Resources{
		entities.ResourceFood: 40,
		entities.ResourceGold: 50,
	})
	s.Require().NoError(err)
	s.Equal(60, balance[entities.ResourceFood])
	s.Equal(0, balance[entities.ResourceGold])
}

func (s *LedgerTestSuite) TestDeductInsufficientLeavesBalanceUntouched() {
	balance := entities.Resources{
		entities.ResourceFood: 40,
		entities.ResourceGold: 100,
	}

	err := ledger.Deduct(balance, entities.FoundCityCost)
	s.Require().Error(err)
	s.True(errors.IsResourceExhausted(err))
	s.Contains(err.Error(), "food")
	s.Contains(err.Error(), "wood")

	s.Equal(40, balance[entities.ResourceFood])
	s.Equal(100, balance[entities.ResourceGold])
}

func (s *LedgerTestSuite) TestCreditClampsAtZero() {
	balance := entities.Resources{entities.ResourceGold: 10}

	ledger.Credit(balance, entities.Resources{
		entities.ResourceGold: -25,
		entities.ResourceFood: 5,
	})

	s.Equal(0, balance[entities.ResourceGold])
	s.Equal(5, balance[entities.ResourceFood])
}

func (s *LedgerTestSuite) TestCityProduction() {
	tile := &entities.Tile{
		Terrain: entities.TerrainForest,
		City: &entities.City{
			Population: 1000,
			Buildings:  []string{"palace", "granary", "market"},
		},
	}

	production := ledger.CityProduction(tile)

	// Base 10 food + granary 3 + forest 1 + pop bonus 10.
	s.Equal(24, production[entities.ResourceFood])
	// Base 5 gold + market 5 + pop bonus 5.
	s.Equal(15, production[entities.ResourceGold])
	// Base 8 wood + forest 3.
	s.Equal(11, production[entities.ResourceWood])
	s.Equal(2, production[entities.ResourceScience])
	s.Equal(1, production[entities.ResourceCulture])
}

func (s *LedgerTestSuite) TestPlayerProduction() {
	game := &entities.Game{MapSize: 3}
	game.Map = make([][]*entities.Tile, 3)
	for x := range game.Map {
		game.Map[x] = make([]*entities.Tile, 3)
		for y := range game.Map[x] {
			game.Map[x][y] = &entities.Tile{X: x, Y: y, Terrain: entities.TerrainPlains}
		}
	}
	game.Map[0][0].City = &entities.City{OwnerID: "p1", Population: 500}
	game.Map[2][2].City = &entities.City{OwnerID: "p1", Population: 500}
	game.Map[1][1].City = &entities.City{OwnerID: "p2", Population: 1000}

	production := ledger.PlayerProduction(game, "p1")

	// Per city: base 10 food + plains 2 + pop bonus 5 = 17.
	s.Equal(34, production[entities.ResourceFood])
	// Per city: base 5 gold + plains 1 + pop bonus 2 = 8.
	s.Equal(16, production[entities.ResourceGold])

	s.Empty(ledger.PlayerProduction(game, "p3"))
}
