package collectible

import (
	"math/rand"

	"github.com/lixenwraith/maze-chain/parameter"
)

// Weights holds one rarity weight per ItemType
type Weights [TypeCount]int

// BaseWeights returns the segment-0 weights {100,100,50,25,10}
func BaseWeights() Weights {
	return Weights(parameter.BaseItemWeights)
}

// WeightsFor returns the weights adjusted for segment depth
// Hourglass grows fastest, Boots grows mildly, Gem and Compass decay to the floor
func WeightsFor(index int) Weights {
	if index < 0 {
		index = 0
	}
	w := BaseWeights()
	for i, slope := range parameter.ItemWeightSlopes {
		w[i] += slope * index
		if slope < 0 && w[i] < parameter.ItemWeightFloor {
			w[i] = parameter.ItemWeightFloor
		}
	}
	return w
}

// Total returns the sum of all positive weights
func (w Weights) Total() int {
	total := 0
	for _, v := range w {
		if v > 0 {
			total += v
		}
	}
	return total
}

// Draw picks a category with probability proportional to its weight:
// uniform integer in [0, total), first category whose cumulative weight exceeds it
// All-zero weights fall back to ItemCoin
func (w Weights) Draw(rng *rand.Rand) ItemType {
	total := w.Total()
	if total <= 0 {
		return ItemCoin
	}

	r := rng.Intn(total)
	cumulative := 0
	for i, v := range w {
		if v <= 0 {
			continue
		}
		cumulative += v
		if cumulative > r {
			return ItemType(i)
		}
	}
	return ItemType(TypeCount - 1)
}

// Probability returns the expected share of category t
func (w Weights) Probability(t ItemType) float64 {
	total := w.Total()
	if total == 0 || t < 0 || int(t) >= TypeCount || w[t] <= 0 {
		return 0
	}
	return float64(w[t]) / float64(total)
}
