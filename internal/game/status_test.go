package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGod(t *testing.T, id string) *GodState {
	t.Helper()
	card, ok := DefaultCatalog().God(id)
	require.True(t, ok)
	return &GodState{Card: card, CurrentHealth: card.MaxHealth}
}

func TestStackableStatusesAccumulate(t *testing.T) {
	g := newGod(t, "terran")
	require.True(t, g.ApplyStatus(StatusPoison, 2, 0))
	require.True(t, g.ApplyStatus(StatusPoison, 3, 0))
	assert.Equal(t, 5, g.Stacks(StatusPoison))
	assert.Len(t, g.Statuses, 1)

	g.ApplyStatus(StatusShield, 1, 2)
	g.ApplyStatus(StatusShield, 1, 1)
	assert.Equal(t, 2, g.Stacks(StatusShield))
	assert.Equal(t, 2, g.Status(StatusShield).Duration, "longer duration is kept")
}

func TestFlagStatusesRefresh(t *testing.T) {
	g := newGod(t, "terran")
	g.ApplyStatus(StatusStun, 3, 1)
	g.ApplyStatus(StatusStun, 1, 2)
	s := g.Status(StatusStun)
	require.NotNil(t, s)
	assert.Equal(t, 1, s.Stacks)
	assert.Equal(t, 2, s.Duration)
}

func TestWeaknessImmunityBlocksTemporaryWeakness(t *testing.T) {
	g := newGod(t, "terran")
	require.True(t, g.ApplyTemporaryWeakness(ElementFire, 2))
	assert.Equal(t, ElementFire, g.EffectiveWeakness())

	require.True(t, g.ApplyStatus(StatusWeaknessImmunity, 1, 2))
	assert.Equal(t, ElementAir, g.EffectiveWeakness(), "immunity clears an active override")

	assert.False(t, g.ApplyTemporaryWeakness(ElementWater, 2))
	assert.Equal(t, ElementAir, g.EffectiveWeakness())
	assert.Equal(t, ElementAir, g.Card.Weakness, "base weakness is never mutated")
}

func TestRemoveStatusReturnsRemovedStacks(t *testing.T) {
	g := newGod(t, "voltar")
	g.ApplyStatus(StatusLightningMark, 3, 0)
	assert.Equal(t, 2, g.RemoveStatus(StatusLightningMark, 2))
	assert.Equal(t, 1, g.Stacks(StatusLightningMark))
	assert.Equal(t, 1, g.RemoveStatus(StatusLightningMark, 0))
	assert.Nil(t, g.Status(StatusLightningMark), "zero instances are pruned")
	assert.Equal(t, 0, g.RemoveStatus(StatusLightningMark, 0))
}

func TestPoisonTickIgnoresShield(t *testing.T) {
	g := newGod(t, "terran")
	g.ApplyStatus(StatusPoison, 3, 0)
	g.ApplyStatus(StatusShield, 5, 0)

	assert.Equal(t, 3, g.TickEndOfTurn())
	assert.Equal(t, 21, g.CurrentHealth)
	assert.Equal(t, 5, g.Stacks(StatusShield))

	clean := newGod(t, "terran")
	clean.ApplyStatus(StatusShield, 5, 0)
	assert.Equal(t, 0, clean.TickEndOfTurn())
	assert.Equal(t, 24, clean.CurrentHealth)
}

func TestTickExpiresTimedStatuses(t *testing.T) {
	g := newGod(t, "terran")
	g.ApplyStatus(StatusStun, 1, 1)
	g.ApplyTemporaryWeakness(ElementFire, 2)
	g.ApplyStatus(StatusPoison, 1, 0)

	g.TickEndOfTurn()
	assert.False(t, g.HasStatus(StatusStun))
	assert.Equal(t, ElementFire, g.EffectiveWeakness())

	g.TickEndOfTurn()
	assert.False(t, g.HasStatus(StatusTemporaryWeakness))
	assert.Equal(t, ElementAir, g.EffectiveWeakness())
	assert.True(t, g.HasStatus(StatusPoison), "permanent poison stays")
	for _, s := range g.Statuses {
		assert.Positive(t, s.Stacks)
		assert.GreaterOrEqual(t, s.Duration, 0)
	}
}

func TestShieldAbsorbsBeforeHealth(t *testing.T) {
	g := newGod(t, "terran")
	g.ApplyStatus(StatusShield, 4, 0)
	absorbed, dealt := g.TakeDamage(6)
	assert.Equal(t, 4, absorbed)
	assert.Equal(t, 2, dealt)
	assert.Equal(t, 22, g.CurrentHealth)
	assert.False(t, g.HasStatus(StatusShield))
}

func TestDeadGodIgnoresStatusChanges(t *testing.T) {
	g := newGod(t, "terran")
	g.IsDead = true
	assert.False(t, g.ApplyStatus(StatusPoison, 2, 0))
	assert.Equal(t, 0, g.TickEndOfTurn())
	absorbed, dealt := g.TakeDamage(3)
	assert.Zero(t, absorbed+dealt)
	assert.Empty(t, g.Statuses)
}
