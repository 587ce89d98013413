package domain

// Zone is a track-position category used to select decision-card content.
type Zone string

const (
	ZoneEarlyTerm    Zone = "early_term"
	ZoneMidTerm      Zone = "mid_term"
	ZoneCrisisZone   Zone = "crisis_zone"
	ZoneFinalStretch Zone = "final_stretch"
)

// ZoneForPosition maps an active player's track position to a zone.
func ZoneForPosition(position, trackLength int) Zone {
	if trackLength <= 0 {
		return ZoneEarlyTerm
	}
	switch {
	case position*3 < trackLength:
		return ZoneEarlyTerm
	case position*2 < trackLength:
		return ZoneMidTerm
	case position*6 < trackLength*5:
		return ZoneCrisisZone
	}
	return ZoneFinalStretch
}

// AlignmentEffect grants movement to one ideology. In an option's
// Aligned list the movement is taken as-is; in the Opposed list the
// stored magnitude is applied negated.
type AlignmentEffect struct {
	Ideology Ideology `json:"ideology"`
	Movement int      `json:"movement"`
}

// CardOption is one policy choice on a decision card. Effect applies to
// the nation only when the vote passes.
type CardOption struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Aligned []AlignmentEffect `json:"aligned"`
	Opposed []AlignmentEffect `json:"opposed"`
	Effect  NationDelta       `json:"effect"`
}

// DecisionCard is immutable content drawn by zone. The engine treats the
// deck as an opaque lookup keyed by card and option id.
type DecisionCard struct {
	ID             string       `json:"id"`
	Zone           Zone         `json:"zone"`
	Category       string       `json:"category"`
	Title          string       `json:"title"`
	Options        []CardOption `json:"options"`
	HistoricalNote string       `json:"historical_note"`
}

// Option returns the card option with the given id, or nil.
func (c *DecisionCard) Option(optionID string) *CardOption {
	if c == nil {
		return nil
	}
	for i := range c.Options {
		if c.Options[i].ID == optionID {
			return &c.Options[i]
		}
	}
	return nil
}

// NewDeck returns the full static deck.
func NewDeck() []DecisionCard {
	return append([]DecisionCard(nil), deck...)
}

// CardsForZone returns the deck subset for a zone, falling back to the
// whole deck if the zone has no content.
func CardsForZone(zone Zone) []DecisionCard {
	var out []DecisionCard
	for _, c := range deck {
		if c.Zone == zone {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return NewDeck()
	}
	return out
}

var deck = []DecisionCard{
	{
		ID:       "card_minimum_wage",
		Zone:     ZoneEarlyTerm,
		Category: "economy",
		Title:    "Minimum Wage Act",
		Options: []CardOption{
			{
				ID:   "opt_raise_wage",
				Name: "Raise the federal minimum wage",
				Aligned: []AlignmentEffect{
					{Ideology: IdeologySocialist, Movement: 2},
					{Ideology: IdeologyProgressive, Movement: 1},
				},
				Opposed: []AlignmentEffect{
					{Ideology: IdeologyLibertarian, Movement: 2},
					{Ideology: IdeologyConservative, Movement: 1},
				},
				Effect: NationDelta{Stability: 5, Budget: -8},
			},
			{
				ID:   "opt_regional_wage",
				Name: "Delegate wage floors to the regions",
				Aligned: []AlignmentEffect{
					{Ideology: IdeologyCentrist, Movement: 2},
					{Ideology: IdeologyConservative, Movement: 1},
				},
				Opposed: []AlignmentEffect{
					{Ideology: IdeologySocialist, Movement: 2},
				},
				Effect: NationDelta{Stability: -2, Budget: 3},
			},
		},
		HistoricalNote: "The first national wage floor, 1938, covered about a fifth of the workforce.",
	},
	{
		ID:       "card_press_charter",
		Zone:     ZoneEarlyTerm,
		Category: "civil_liberties",
		Title:    "Press Charter Review",
		Options: []CardOption{
			{
				ID:   "opt_shield_law",
				Name: "Pass a journalist shield law",
				Aligned: []AlignmentEffect{
					{Ideology: IdeologyProgressive, Movement: 2},
					{Ideology: IdeologyLibertarian, Movement: 1},
				},
				Opposed: []AlignmentEffect{
					{Ideology: IdeologyConservative, Movement: 1},
				},
				Effect: NationDelta{Stability: 3, Budget: 0},
			},
			{
				ID:   "opt_licensing",
				Name: "Introduce broadcast licensing review",
				Aligned: []AlignmentEffect{
					{Ideology: IdeologyConservative, Movement: 2},
				},
				Opposed: []AlignmentEffect{
					{Ideology: IdeologyLibertarian, Movement: 2},
					{Ideology: IdeologyProgressive, Movement: 1},
				},
				Effect: NationDelta{Stability: -4, Budget: 2},
			},
		},
		HistoricalNote: "Shield laws spread state by state; no federal statute ever passed.",
	},
	{
		ID:       "card_rail_nationalization",
		Zone:     ZoneMidTerm,
		Category: "infrastructure",
		Title:    "Rail Nationalization Bill",
		Options: []CardOption{
			{
				ID:   "opt_nationalize",
				Name: "Nationalize freight rail",
				Aligned: []AlignmentEffect{
					{Ideology: IdeologySocialist, Movement: 3},
				},
				Opposed: []AlignmentEffect{
					{Ideology: IdeologyLibertarian, Movement: 3},
					{Ideology: IdeologyConservative, Movement: 2},
				},
				Effect: NationDelta{Stability: 4, Budget: -12},
			},
			{
				ID:   "opt_subsidize",
				Name: "Subsidize private operators",
				Aligned: []AlignmentEffect{
					{Ideology: IdeologyConservative, Movement: 2},
					{Ideology: IdeologyCentrist, Movement: 1},
				},
				Opposed: []AlignmentEffect{
					{Ideology: IdeologySocialist, Movement: 2},
				},
				Effect: NationDelta{Stability: 0, Budget: -5},
			},
			{
				ID:   "opt_defer_rail",
				Name: "Defer to a blue-ribbon commission",
				Aligned: []AlignmentEffect{
					{Ideology: IdeologyCentrist, Movement: 2},
				},
				Opposed: []AlignmentEffect{
					{Ideology: IdeologyProgressive, Movement: 1},
					{Ideology: IdeologySocialist, Movement: 1},
				},
				Effect: NationDelta{Stability: -3, Budget: 0},
			},
		},
		HistoricalNote: "Wartime rail nationalization, 1917, was reversed within three years.",
	},
	{
		ID:       "card_tax_reform",
		Zone:     ZoneMidTerm,
		Category: "economy",
		Title:    "Comprehensive Tax Reform",
		Options: []CardOption{
			{
				ID:   "opt_flat_tax",
				Name: "Adopt a flat income tax",
				Aligned: []AlignmentEffect{
					{Ideology: IdeologyLibertarian, Movement: 3},
					{Ideology: IdeologyConservative, Movement: 1},
				},
				Opposed: []AlignmentEffect{
					{Ideology: IdeologySocialist, Movement: 3},
					{Ideology: IdeologyProgressive, Movement: 2},
				},
				Effect: NationDelta{Stability: -5, Budget: 8},
			},
			{
				ID:   "opt_wealth_tax",
				Name: "Levy a net-wealth tax",
				Aligned: []AlignmentEffect{
					{Ideology: IdeologySocialist, Movement: 3},
					{Ideology: IdeologyProgressive, Movement: 2},
				},
				Opposed: []AlignmentEffect{
					{Ideology: IdeologyLibertarian, Movement: 3},
					{Ideology: IdeologyConservative, Movement: 2},
				},
				Effect: NationDelta{Stability: 2, Budget: 10},
			},
		},
		HistoricalNote: "A dozen countries tried net-wealth taxes in 1990; four kept them.",
	},
	{
		ID:       "card_emergency_powers",
		Zone:     ZoneCrisisZone,
		Category: "security",
		Title:    "Emergency Powers Act",
		Options: []CardOption{
			{
				ID:   "opt_expand_powers",
				Name: "Grant the executive emergency powers",
				Aligned: []AlignmentEffect{
					{Ideology: IdeologyConservative, Movement: 3},
				},
				Opposed: []AlignmentEffect{
					{Ideology: IdeologyLibertarian, Movement: 3},
					{Ideology: IdeologyProgressive, Movement: 2},
				},
				Effect: NationDelta{Stability: 8, Budget: -4},
			},
			{
				ID:   "opt_sunset_clause",
				Name: "Time-boxed powers with a sunset clause",
				Aligned: []AlignmentEffect{
					{Ideology: IdeologyCentrist, Movement: 2},
					{Ideology: IdeologyProgressive, Movement: 1},
				},
				Opposed: []AlignmentEffect{
					{Ideology: IdeologyConservative, Movement: 1},
				},
				Effect: NationDelta{Stability: 4, Budget: -2},
			},
		},
		HistoricalNote: "Weimar Article 48 made emergency decrees routine within a decade.",
	},
	{
		ID:       "card_austerity",
		Zone:     ZoneCrisisZone,
		Category: "economy",
		Title:    "Austerity Package",
		Options: []CardOption{
			{
				ID:   "opt_cut_spending",
				Name: "Across-the-board spending cuts",
				Aligned: []AlignmentEffect{
					{Ideology: IdeologyLibertarian, Movement: 2},
					{Ideology: IdeologyConservative, Movement: 2},
				},
				Opposed: []AlignmentEffect{
					{Ideology: IdeologySocialist, Movement: 3},
					{Ideology: IdeologyProgressive, Movement: 1},
				},
				Effect: NationDelta{Stability: -8, Budget: 12},
			},
			{
				ID:   "opt_stimulus",
				Name: "Counter-cyclical stimulus",
				Aligned: []AlignmentEffect{
					{Ideology: IdeologyProgressive, Movement: 2},
					{Ideology: IdeologySocialist, Movement: 2},
				},
				Opposed: []AlignmentEffect{
					{Ideology: IdeologyLibertarian, Movement: 2},
				},
				Effect: NationDelta{Stability: 6, Budget: -10},
			},
		},
		HistoricalNote: "The 1937 pivot to balance the budget re-triggered the recession it meant to prevent.",
	},
	{
		ID:       "card_legacy_referendum",
		Zone:     ZoneFinalStretch,
		Category: "constitutional",
		Title:    "Legacy Referendum",
		Options: []CardOption{
			{
				ID:   "opt_constitutional_convention",
				Name: "Convene a constitutional convention",
				Aligned: []AlignmentEffect{
					{Ideology: IdeologyProgressive, Movement: 2},
					{Ideology: IdeologyLibertarian, Movement: 1},
				},
				Opposed: []AlignmentEffect{
					{Ideology: IdeologyConservative, Movement: 3},
					{Ideology: IdeologyCentrist, Movement: 1},
				},
				Effect: NationDelta{Stability: -6, Budget: -4},
			},
			{
				ID:   "opt_status_quo",
				Name: "Reaffirm the existing settlement",
				Aligned: []AlignmentEffect{
					{Ideology: IdeologyConservative, Movement: 2},
					{Ideology: IdeologyCentrist, Movement: 2},
				},
				Opposed: []AlignmentEffect{
					{Ideology: IdeologyProgressive, Movement: 1},
				},
				Effect: NationDelta{Stability: 5, Budget: 0},
			},
		},
		HistoricalNote: "No second federal convention was ever convened; every amendment went through Congress.",
	},
}
