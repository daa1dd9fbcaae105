package sim

// DefaultPopulationSize is the number of cells simulated per architecture
// unless overridden. Populations in the tens of thousands keep the tail
// statistics stable without noticeable runtime cost.
const DefaultPopulationSize = 50000

// Built-in architecture table. Mean endurance drops roughly an order of
// magnitude per extra bit stored per cell, the physical trade-off between
// density and wear tolerance.
func init() {
	builtins := []ArchConfig{
		{
			Name:           "SLC (Single-Level Cell)",
			MeanEndurance:  100000,
			StdDev:         10000,
			PopulationSize: DefaultPopulationSize,
		},
		{
			Name:           "MLC (Multi-Level Cell)",
			MeanEndurance:  10000,
			StdDev:         1000,
			PopulationSize: DefaultPopulationSize,
		},
		{
			Name:           "TLC (Triple-Level Cell)",
			MeanEndurance:  3000,
			StdDev:         300,
			PopulationSize: DefaultPopulationSize,
		},
	}

	for _, cfg := range builtins {
		if err := Register(cfg); err != nil {
			panic(err)
		}
	}
}
