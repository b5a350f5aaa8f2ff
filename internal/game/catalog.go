package game

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// CatalogFile represents the top-level YAML structure of a card catalog.
type CatalogFile struct {
	Gods   []*GodCard   `yaml:"gods"`
	Spells []*SpellCard `yaml:"spells"`
	Teams  []TeamEntry  `yaml:"teams"`
}

// TeamEntry is a named preset of four gods.
type TeamEntry struct {
	Name string   `yaml:"name" json:"name"`
	Gods []string `yaml:"gods" json:"gods"`
}

// Catalog holds the immutable god and spell definitions a match is built from.
type Catalog struct {
	gods     map[string]*GodCard
	godOrder []string
	spells   map[string][]*SpellCard
	teams    []TeamEntry
}

// NewCatalog indexes and validates the given definitions.
func NewCatalog(gods []*GodCard, spells []*SpellCard, teams []TeamEntry) (*Catalog, error) {
	c := &Catalog{
		gods:   make(map[string]*GodCard),
		spells: make(map[string][]*SpellCard),
		teams:  teams,
	}
	for _, g := range gods {
		if g.ID == "" {
			return nil, errors.New("god without id")
		}
		if _, dup := c.gods[g.ID]; dup {
			return nil, fmt.Errorf("duplicate god %q", g.ID)
		}
		if !g.Element.Valid() {
			return nil, fmt.Errorf("god %q: unknown element %q", g.ID, g.Element)
		}
		if g.Weakness == "" {
			g.Weakness = WeaknessOf(g.Element)
		}
		if !g.Weakness.Valid() {
			return nil, fmt.Errorf("god %q: unknown weakness %q", g.ID, g.Weakness)
		}
		if g.MaxHealth <= 0 {
			return nil, fmt.Errorf("god %q: max health must be positive", g.ID)
		}
		c.gods[g.ID] = g
		c.godOrder = append(c.godOrder, g.ID)
	}

	seen := make(map[string]bool)
	for _, s := range spells {
		if err := c.validateSpell(s); err != nil {
			return nil, err
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("duplicate spell %q", s.ID)
		}
		seen[s.ID] = true
		c.spells[s.GodID] = append(c.spells[s.GodID], s)
	}

	for _, t := range teams {
		if _, err := c.Team(t.Gods); err != nil {
			return nil, fmt.Errorf("team %q: %w", t.Name, err)
		}
	}
	return c, nil
}

func (c *Catalog) validateSpell(s *SpellCard) error {
	if s.ID == "" {
		return errors.New("spell without id")
	}
	god, ok := c.gods[s.GodID]
	if !ok {
		return fmt.Errorf("spell %q: unknown god %q", s.ID, s.GodID)
	}
	if s.Element == "" {
		s.Element = god.Element
	}
	if !s.Element.Valid() {
		return fmt.Errorf("spell %q: unknown element %q", s.ID, s.Element)
	}
	if !s.Type.Valid() {
		return fmt.Errorf("spell %q: unknown type %q", s.ID, s.Type)
	}
	if s.Cost < 0 || s.EnergyGain < 0 {
		return fmt.Errorf("spell %q: negative cost or gain", s.ID)
	}
	if len(s.Effects) == 0 {
		return fmt.Errorf("spell %q: no effects", s.ID)
	}
	for i, eff := range s.Effects {
		if err := validateEffect(eff); err != nil {
			return fmt.Errorf("spell %q effect %d: %w", s.ID, i, err)
		}
	}
	if s.Effects[0].Target == TargetSame {
		return fmt.Errorf("spell %q: first effect cannot target %q", s.ID, TargetSame)
	}
	return nil
}

func validateEffect(eff SpellEffect) error {
	if _, ok := effectHandlers[eff.Kind]; !ok {
		return fmt.Errorf("unknown effect kind %q", eff.Kind)
	}
	if !eff.Target.Valid() {
		return fmt.Errorf("unknown target %q", eff.Target)
	}
	switch eff.Kind {
	case EffectStatus, EffectRemoveStatus:
		if !eff.Status.Valid() {
			return fmt.Errorf("unknown status %q", eff.Status)
		}
		if eff.Status == StatusTemporaryWeakness && eff.Kind == EffectStatus && !eff.Element.Valid() {
			return errors.New("temporary weakness needs an element")
		}
	case EffectCustom:
		if eff.CustomID == "" {
			return errors.New("custom effect without id")
		}
	}
	if eff.RequireStatus != "" && !eff.RequireStatus.Valid() {
		return fmt.Errorf("unknown required status %q", eff.RequireStatus)
	}
	return nil
}

// God returns the god definition with the given id.
func (c *Catalog) God(id string) (*GodCard, bool) {
	g, ok := c.gods[id]
	return g, ok
}

// Gods returns all gods in catalog order.
func (c *Catalog) Gods() []*GodCard {
	out := make([]*GodCard, 0, len(c.godOrder))
	for _, id := range c.godOrder {
		out = append(out, c.gods[id])
	}
	return out
}

// SpellsFor returns the spell definitions tied to a god.
func (c *Catalog) SpellsFor(godID string) []*SpellCard {
	return c.spells[godID]
}

// Spells returns every spell, grouped by god in catalog order.
func (c *Catalog) Spells() []*SpellCard {
	var out []*SpellCard
	for _, id := range c.godOrder {
		out = append(out, c.spells[id]...)
	}
	return out
}

// Teams returns the preset teams.
func (c *Catalog) Teams() []TeamEntry {
	return c.teams
}

// Team validates a selection of god ids and returns their definitions.
func (c *Catalog) Team(ids []string) ([]*GodCard, error) {
	if len(ids) != GodsPerPlayer {
		return nil, fmt.Errorf("%w: need %d gods, got %d", ErrInvalidTeam, GodsPerPlayer, len(ids))
	}
	seen := make(map[string]bool)
	out := make([]*GodCard, 0, len(ids))
	for _, id := range ids {
		g, ok := c.gods[id]
		if !ok {
			return nil, fmt.Errorf("%w: unknown god %q", ErrInvalidTeam, id)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate god %q", ErrInvalidTeam, id)
		}
		seen[id] = true
		out = append(out, g)
	}
	return out, nil
}

// GodIDs returns the sorted ids of all gods.
func (c *Catalog) GodIDs() []string {
	ids := append([]string(nil), c.godOrder...)
	sort.Strings(ids)
	return ids
}

// ParseCatalog parses YAML catalog data.
func ParseCatalog(data []byte) (*Catalog, error) {
	var cf CatalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}
	return NewCatalog(cf.Gods, cf.Spells, cf.Teams)
}

// LoadCatalog reads a YAML catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
