package engine

// RandSource yields uniform floats in [0, 1). *math/rand/v2.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

type LootEntry struct {
	Label  string
	Bonus  int
	Weight int
}

// LootTable is the chest a quest claim rolls on.
var LootTable = []LootEntry{
	{Label: "Empty chest", Bonus: 0, Weight: 25},
	{Label: "Small gem", Bonus: 10, Weight: 35},
	{Label: "Shiny shard", Bonus: 20, Weight: 25},
	{Label: "Rare stone", Bonus: 40, Weight: 12},
	{Label: "Epic orb", Bonus: 80, Weight: 3},
}

// RollLoot draws one entry from LootTable.
func RollLoot(rng RandSource) LootEntry {
	return rollFrom(LootTable, rng)
}

// rollFrom draws r uniformly from [0, total) and returns the first entry whose
// cumulative weight reaches r. The first entry is the fallback.
func rollFrom(table []LootEntry, rng RandSource) LootEntry {
	if len(table) == 0 {
		return LootEntry{}
	}
	total := 0
	for _, e := range table {
		if e.Weight > 0 {
			total += e.Weight
		}
	}
	if total <= 0 {
		return table[0]
	}

	r := rng.Float64() * float64(total)
	running := 0
	for _, e := range table {
		if e.Weight <= 0 {
			continue
		}
		running += e.Weight
		if float64(running) >= r {
			return e
		}
	}
	return table[0]
}
