package parameter

import "time"

// Placement
const (
	// ItemClearance is the Chebyshev radius around entrance/exit kept free of items
	ItemClearance = 1

	// MaxBaseItemCount caps the index-driven part of the item count
	MaxBaseItemCount = 5

	// ItemCountJitter is the exclusive upper bound of the random extra items (0..1)
	ItemCountJitter = 2
)

// Rarity weights, ordered Coin, Hourglass, Boots, Gem, Compass
var BaseItemWeights = [5]int{100, 100, 50, 25, 10}

// Per-index weight deltas, same order as BaseItemWeights
var ItemWeightSlopes = [5]int{0, 15, 5, -5, -2}

// ItemWeightFloor is the minimum weight for categories whose weight decays with depth
const ItemWeightFloor = 5

// Item effects
const (
	CoinScore = 10

	HourglassMinBonus = 5 * time.Second
	HourglassMaxBonus = 15 * time.Second

	BootsDashDuration = 5 * time.Second

	GemMinScore = 50
	GemMaxScore = 100

	CompassRevealDuration = 8 * time.Second
)
