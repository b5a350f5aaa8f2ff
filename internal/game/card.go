package game

import "fmt"

// --- Card definitions (static, from the catalog) ---

// GodCard is the immutable definition of a god.
type GodCard struct {
	ID        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	Element   Element `json:"element" yaml:"element"`
	Weakness  Element `json:"weakness" yaml:"weakness"`
	MaxHealth int     `json:"maxHealth" yaml:"max_health"`
	Flavor    string  `json:"flavor,omitempty" yaml:"flavor"`
	Art       string  `json:"art,omitempty" yaml:"art"`
}

func (g *GodCard) String() string {
	return g.Name
}

// SpellEffect is one step of a spell's resolution.
type SpellEffect struct {
	Kind     EffectKind     `json:"kind" yaml:"kind"`
	Value    int            `json:"value,omitempty" yaml:"value"`
	Target   TargetSelector `json:"target,omitempty" yaml:"target"`
	Status   StatusKind     `json:"status,omitempty" yaml:"status"`
	Duration int            `json:"duration,omitempty" yaml:"duration"`
	// Element overrides the card element for damage, or names the element of a
	// temporary weakness.
	Element  Element `json:"element,omitempty" yaml:"element"`
	CustomID string  `json:"customId,omitempty" yaml:"custom_id"`
	// RequireStatus restricts the effect to targets currently carrying that status.
	RequireStatus StatusKind `json:"requireStatus,omitempty" yaml:"require_status"`
}

func (e SpellEffect) String() string {
	switch e.Kind {
	case EffectStatus, EffectRemoveStatus:
		return fmt.Sprintf("%s %s %d → %s", e.Kind, e.Status, e.Value, e.Target)
	case EffectCustom:
		return fmt.Sprintf("custom %s → %s", e.CustomID, e.Target)
	default:
		return fmt.Sprintf("%s %d → %s", e.Kind, e.Value, e.Target)
	}
}

// SpellCard is a spell definition; copies placed in a match carry per-match flags.
type SpellCard struct {
	ID          string        `json:"id" yaml:"id"`
	GodID       string        `json:"godId" yaml:"god"`
	Name        string        `json:"name" yaml:"name"`
	Element     Element       `json:"element" yaml:"element"`
	Type        SpellType     `json:"type" yaml:"type"`
	Cost        int           `json:"cost" yaml:"cost"`
	EnergyGain  int           `json:"energyGain" yaml:"energy_gain"`
	Effects     []SpellEffect `json:"effects" yaml:"effects"`
	Description string        `json:"description,omitempty" yaml:"description"`

	// Per-match instance state
	InstanceID      int    `json:"instanceId,omitempty" yaml:"-"`
	HiddenFromOwner bool   `json:"hiddenFromOwner,omitempty" yaml:"-"`
	RevealedTo      string `json:"revealedTo,omitempty" yaml:"-"`
}

func (c *SpellCard) String() string {
	if c == nil {
		return "(none)"
	}
	return c.Name
}

// DisplayString returns a human-readable description for menus and logs.
func (c *SpellCard) DisplayString() string {
	if c == nil {
		return "(none)"
	}
	return fmt.Sprintf("%s [%s/%s cost %d, +%d]", c.Name, c.Element, c.Type, c.Cost, c.EnergyGain)
}

// GrantsShield reports whether any effect of the card grants shield.
func (c *SpellCard) GrantsShield() bool {
	for _, eff := range c.Effects {
		if eff.Kind == EffectShield || (eff.Kind == EffectStatus && eff.Status == StatusShield) {
			return true
		}
	}
	return false
}

// instance returns a fresh per-match copy of the definition.
func (c *SpellCard) instance(id int) *SpellCard {
	cp := *c
	cp.InstanceID = id
	cp.HiddenFromOwner = false
	cp.RevealedTo = ""
	return &cp
}

// clone copies the card. Effects are shared since definitions are never mutated.
func (c *SpellCard) clone() *SpellCard {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
