package lifecycle

type Pillar string

const (
	PillarPhysical  Pillar = "physical"
	PillarNutrition Pillar = "nutrition"
	PillarMental    Pillar = "mental"
	PillarSocial    Pillar = "social"
	PillarSpiritual Pillar = "spiritual"
)

type CalculatorCategory string

const (
	CalculatorPhysical    CalculatorCategory = "physical"
	CalculatorNutritional CalculatorCategory = "nutritional"
	CalculatorMental      CalculatorCategory = "mental"
	CalculatorSocial      CalculatorCategory = "social"
	CalculatorSpiritual   CalculatorCategory = "spiritual"
)

// calculatorPillars is the only place calculator categories meet goal pillars.
var calculatorPillars = map[CalculatorCategory]Pillar{
	CalculatorPhysical:    PillarPhysical,
	CalculatorNutritional: PillarNutrition,
	CalculatorMental:      PillarMental,
	CalculatorSocial:      PillarSocial,
	CalculatorSpiritual:   PillarSpiritual,
}

func PillarForCalculatorCategory(c CalculatorCategory) (Pillar, error) {
	p, ok := calculatorPillars[c]
	if !ok {
		return "", invalid("category", "unknown calculator category "+string(c))
	}
	return p, nil
}
