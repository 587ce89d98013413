package domain

// Ideology is one of the five fixed player archetypes. Each reacts
// differently to decision-card options through aligned/opposed lists.
type Ideology string

const (
	IdeologyProgressive  Ideology = "progressive"
	IdeologyConservative Ideology = "conservative"
	IdeologyLibertarian  Ideology = "libertarian"
	IdeologySocialist    Ideology = "socialist"
	IdeologyCentrist     Ideology = "centrist"
)

// AllIdeologies lists every selectable ideology in display order.
func AllIdeologies() []Ideology {
	return []Ideology{
		IdeologyProgressive,
		IdeologyConservative,
		IdeologyLibertarian,
		IdeologySocialist,
		IdeologyCentrist,
	}
}

// IsValid reports whether the value names a known ideology.
func (i Ideology) IsValid() bool {
	switch i {
	case IdeologyProgressive, IdeologyConservative, IdeologyLibertarian,
		IdeologySocialist, IdeologyCentrist:
		return true
	}
	return false
}
