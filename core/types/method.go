package types

// UMethod is the declared "how was U obtained" code (methode_saisie_u)
type UMethod int

const (
	MethodUninsulated           UMethod = 1
	MethodUnknownInsulation     UMethod = 2
	MethodThicknessMeasured     UMethod = 3
	MethodThicknessDocumented   UMethod = 4
	MethodResistanceObserved    UMethod = 5
	MethodResistanceDocumented  UMethod = 6
	MethodInsulationYearTable   UMethod = 7
	MethodConstructionYearTable UMethod = 8
	MethodDirectJustified       UMethod = 9
	MethodDirectStudy           UMethod = 10
)

// Strategy is the closed set of U computations
type Strategy int

const (
	StrategyUninsulated Strategy = iota + 1
	StrategyThickness
	StrategyResistance
	StrategyInsulationTable
	StrategyConstructionPeriodTable
	StrategyDirect
)

// String returns the strategy name
func (s Strategy) String() string {
	switch s {
	case StrategyUninsulated:
		return "uninsulated"
	case StrategyThickness:
		return "insulation_thickness"
	case StrategyResistance:
		return "insulation_resistance"
	case StrategyInsulationTable:
		return "insulation_table"
	case StrategyConstructionPeriodTable:
		return "construction_period_table"
	case StrategyDirect:
		return "direct"
	default:
		return "unknown"
	}
}

// Strategy maps a method code to its strategy. The second result is false
// for codes outside the published set.
func (m UMethod) Strategy() (Strategy, bool) {
	switch m {
	case MethodUninsulated:
		return StrategyUninsulated, true
	case MethodThicknessMeasured, MethodThicknessDocumented:
		return StrategyThickness, true
	case MethodResistanceObserved, MethodResistanceDocumented:
		return StrategyResistance, true
	case MethodUnknownInsulation, MethodInsulationYearTable:
		return StrategyInsulationTable, true
	case MethodConstructionYearTable:
		return StrategyConstructionPeriodTable, true
	case MethodDirectJustified, MethodDirectStudy:
		return StrategyDirect, true
	default:
		return 0, false
	}
}

// U0Method is the declared "how was U0 obtained" code (methode_saisie_u0)
type U0Method int

const (
	U0DefaultByType      U0Method = 1
	U0MaterialTable      U0Method = 2
	U0DirectJustified    U0Method = 3
	U0DirectPriorITI     U0Method = 4
	U0NotEnteredUIsKnown U0Method = 5
)

// U0Strategy is the closed set of U0 computations
type U0Strategy int

const (
	U0StrategyTable U0Strategy = iota + 1
	U0StrategyDirect
	U0StrategyKeep
)

// Strategy maps a U0 method code to its strategy
func (m U0Method) Strategy() (U0Strategy, bool) {
	switch m {
	case U0DefaultByType, U0MaterialTable:
		return U0StrategyTable, true
	case U0DirectJustified, U0DirectPriorITI:
		return U0StrategyDirect, true
	case U0NotEnteredUIsKnown:
		return U0StrategyKeep, true
	default:
		return 0, false
	}
}
