package collectible

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/lixenwraith/maze-chain/parameter"
)

// ItemType identifies a collectible category; order matches parameter.BaseItemWeights
type ItemType int

const (
	ItemCoin      ItemType = iota // Fixed score
	ItemHourglass                 // Randomized bonus seconds
	ItemBoots                     // Fixed dash seconds
	ItemGem                       // Randomized score
	ItemCompass                   // Fixed path-reveal seconds
	itemTypeCount
)

// TypeCount is the number of collectible categories
const TypeCount = int(itemTypeCount)

var itemNames = [TypeCount]string{"coin", "hourglass", "boots", "gem", "compass"}

func (t ItemType) String() string {
	if t < 0 || t >= itemTypeCount {
		return "unknown"
	}
	return itemNames[t]
}

// ParseItemType resolves a name produced by String
func ParseItemType(name string) (ItemType, bool) {
	for i, n := range itemNames {
		if n == name {
			return ItemType(i), true
		}
	}
	return 0, false
}

// Glyph is the single-rune marker hosts draw for the item
func (t ItemType) Glyph() rune {
	switch t {
	case ItemCoin:
		return '$'
	case ItemHourglass:
		return '%'
	case ItemBoots:
		return '>'
	case ItemGem:
		return '*'
	case ItemCompass:
		return '+'
	}
	return '?'
}

// Effect is the numeric range of an item's effect; Min == Max means fixed
// Time-based effects are expressed in seconds
type Effect struct {
	Min, Max float64
}

// Fixed reports whether the effect never varies
func (e Effect) Fixed() bool {
	return e.Min == e.Max
}

// Roll resolves a concrete value in [Min, Max]
func (e Effect) Roll(rng *rand.Rand) float64 {
	if e.Fixed() {
		return e.Min
	}
	return e.Min + rng.Float64()*(e.Max-e.Min)
}

var effects = [TypeCount]Effect{
	ItemCoin:      {parameter.CoinScore, parameter.CoinScore},
	ItemHourglass: {seconds(parameter.HourglassMinBonus), seconds(parameter.HourglassMaxBonus)},
	ItemBoots:     {seconds(parameter.BootsDashDuration), seconds(parameter.BootsDashDuration)},
	ItemGem:       {parameter.GemMinScore, parameter.GemMaxScore},
	ItemCompass:   {seconds(parameter.CompassRevealDuration), seconds(parameter.CompassRevealDuration)},
}

func seconds(d time.Duration) float64 {
	return d.Seconds()
}

// Effect returns the effect range of the category
func (t ItemType) Effect() Effect {
	if t < 0 || t >= itemTypeCount {
		return Effect{}
	}
	return effects[t]
}

// BaseWeight returns the rarity weight at segment 0
func (t ItemType) BaseWeight() int {
	if t < 0 || t >= itemTypeCount {
		return 0
	}
	return parameter.BaseItemWeights[t]
}

// Item is a placed collectible with its resolved effect value
type Item struct {
	Type  ItemType `json:"type"`
	Value float64  `json:"value"`
}

// MarshalText encodes the category by name for the feed and config files
func (t ItemType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a category name
func (t *ItemType) UnmarshalText(text []byte) error {
	v, ok := ParseItemType(string(text))
	if !ok {
		return fmt.Errorf("unknown item type %q", text)
	}
	*t = v
	return nil
}
