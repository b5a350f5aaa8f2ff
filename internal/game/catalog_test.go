package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	require.Len(t, c.Gods(), 8)
	for _, g := range c.Gods() {
		assert.Equal(t, WeaknessOf(g.Element), g.Weakness, g.ID)
		spells := c.SpellsFor(g.ID)
		assert.Len(t, spells, 5, g.ID)
		for _, s := range spells {
			assert.Equal(t, g.Element, s.Element, s.ID)
		}
	}
	for _, team := range c.Teams() {
		_, err := c.Team(team.Gods)
		assert.NoError(t, err, team.Name)
	}
}

const sampleCatalog = `
gods:
  - id: ember
    name: Ember
    element: fire
    max_health: 12
  - id: gale
    name: Gale
    element: air
    weakness: darkness
    max_health: 10
  - id: stone
    name: Stone
    element: earth
    max_health: 15
  - id: bolt
    name: Bolt
    element: lightning
    max_health: 9
spells:
  - id: ember_flare
    god: ember
    name: Flare
    type: competence
    cost: 1
    effects:
      - kind: damage
        value: 2
        target: enemy_god
      - kind: status
        status: poison
        value: 1
        target: same
  - id: gale_mist
    god: gale
    name: Mist
    type: utility
    effects:
      - kind: status
        status: temporary_weakness
        element: light
        duration: 2
        target: enemy_god
teams:
  - name: Starter
    gods: [ember, gale, stone, bolt]
`

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog([]byte(sampleCatalog))
	require.NoError(t, err)

	ember, ok := c.God("ember")
	require.True(t, ok)
	assert.Equal(t, ElementWater, ember.Weakness, "weakness defaults from the element")
	gale, _ := c.God("gale")
	assert.Equal(t, ElementDarkness, gale.Weakness)

	flare := c.SpellsFor("ember")
	require.Len(t, flare, 1)
	assert.Equal(t, ElementFire, flare[0].Element)
	require.Len(t, flare[0].Effects, 2)
	assert.Equal(t, TargetSame, flare[0].Effects[1].Target)
	assert.Equal(t, ElementLight, c.SpellsFor("gale")[0].Effects[0].Element)
	assert.Len(t, c.Teams(), 1)
}

func TestParseCatalogErrors(t *testing.T) {
	cases := map[string]string{
		"unknown god": `
gods: [{id: a, name: A, element: fire, max_health: 5}]
spells: [{id: s, god: nobody, name: S, type: utility, effects: [{kind: heal, value: 1}]}]`,
		"bad element": `
gods: [{id: a, name: A, element: metal, max_health: 5}]`,
		"no effects": `
gods: [{id: a, name: A, element: fire, max_health: 5}]
spells: [{id: s, god: a, name: S, type: utility}]`,
		"unknown kind": `
gods: [{id: a, name: A, element: fire, max_health: 5}]
spells: [{id: s, god: a, name: S, type: utility, effects: [{kind: teleport}]}]`,
		"leading same": `
gods: [{id: a, name: A, element: fire, max_health: 5}]
spells: [{id: s, god: a, name: S, type: utility, effects: [{kind: heal, value: 1, target: same}]}]`,
		"short team": `
gods: [{id: a, name: A, element: fire, max_health: 5}]
teams: [{name: T, gods: [a]}]`,
		"not yaml": `gods: [`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))
	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Len(t, c.Gods(), 4)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestTeamValidation(t *testing.T) {
	c := DefaultCatalog()
	_, err := c.Team([]string{"ignis", "zephyra", "terran"})
	assert.ErrorIs(t, err, ErrInvalidTeam)
	_, err = c.Team([]string{"ignis", "zephyra", "terran", "loki"})
	assert.ErrorIs(t, err, ErrInvalidTeam)
	gods, err := c.Team(primal)
	require.NoError(t, err)
	assert.Equal(t, "ignis", gods[0].ID)
}
