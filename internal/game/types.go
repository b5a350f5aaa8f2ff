package game

// --- Enums ---
//
// Every enum travels inside sync snapshots, so each one is a string type whose
// values are the wire names.

// Element is one of the seven elemental affinities of gods and spells.
type Element string

const (
	ElementFire      Element = "fire"
	ElementAir       Element = "air"
	ElementEarth     Element = "earth"
	ElementLightning Element = "lightning"
	ElementWater     Element = "water"
	ElementLight     Element = "light"
	ElementDarkness  Element = "darkness"
)

// Elements lists every element in display order.
var Elements = []Element{
	ElementFire,
	ElementAir,
	ElementEarth,
	ElementLightning,
	ElementWater,
	ElementLight,
	ElementDarkness,
}

// Valid reports whether e is one of the seven elements.
func (e Element) Valid() bool {
	_, ok := weaknessTable[e]
	return ok
}

func (e Element) String() string {
	return string(e)
}

// SpellType is the broad family of a spell card.
type SpellType string

const (
	SpellGenerator  SpellType = "generator"
	SpellCompetence SpellType = "competence"
	SpellUtility    SpellType = "utility"
)

func (t SpellType) Valid() bool {
	switch t {
	case SpellGenerator, SpellCompetence, SpellUtility:
		return true
	}
	return false
}

// EffectKind tags the variant of a SpellEffect.
type EffectKind string

const (
	EffectDamage       EffectKind = "damage"
	EffectHeal         EffectKind = "heal"
	EffectShield       EffectKind = "shield"
	EffectEnergy       EffectKind = "energy"
	EffectDraw         EffectKind = "draw"
	EffectDiscard      EffectKind = "discard"
	EffectMill         EffectKind = "mill"
	EffectStatus       EffectKind = "status"
	EffectRemoveStatus EffectKind = "remove_status"
	EffectCustom       EffectKind = "custom"
)

// EffectKinds is the closed set of effect variants.
var EffectKinds = []EffectKind{
	EffectDamage,
	EffectHeal,
	EffectShield,
	EffectEnergy,
	EffectDraw,
	EffectDiscard,
	EffectMill,
	EffectStatus,
	EffectRemoveStatus,
	EffectCustom,
}

// TargetSelector names who an effect lands on.
type TargetSelector string

const (
	TargetNone        TargetSelector = ""
	TargetEnemyGod    TargetSelector = "enemy_god"
	TargetAllEnemies  TargetSelector = "all_enemies"
	TargetAllyGod     TargetSelector = "ally_god"
	TargetAllAllies   TargetSelector = "all_allies"
	TargetSelf        TargetSelector = "self"
	TargetAnyGod      TargetSelector = "any_god"
	TargetAllGods     TargetSelector = "all_gods"
	TargetDeadAllyGod TargetSelector = "dead_ally_god"
	TargetEnemyHand   TargetSelector = "enemy_hand"
	TargetSame        TargetSelector = "same"
)

func (s TargetSelector) Valid() bool {
	switch s {
	case TargetNone, TargetEnemyGod, TargetAllEnemies, TargetAllyGod, TargetAllAllies,
		TargetSelf, TargetAnyGod, TargetAllGods, TargetDeadAllyGod, TargetEnemyHand, TargetSame:
		return true
	}
	return false
}

// NeedsChoice reports whether the selector is a single target picked by the player.
func (s TargetSelector) NeedsChoice() bool {
	switch s {
	case TargetEnemyGod, TargetAllyGod, TargetAnyGod, TargetDeadAllyGod:
		return true
	}
	return false
}

// TargetsEnemy reports whether the selector points at the opponent's side.
func (s TargetSelector) TargetsEnemy() bool {
	switch s {
	case TargetEnemyGod, TargetAllEnemies, TargetEnemyHand:
		return true
	}
	return false
}

// StatusKind names a status mark carried by a god.
type StatusKind string

const (
	StatusPoison            StatusKind = "poison"
	StatusShield            StatusKind = "shield"
	StatusLightningMark     StatusKind = "lightning_mark"
	StatusStun              StatusKind = "stun"
	StatusProvocation       StatusKind = "provocation"
	StatusTemporaryWeakness StatusKind = "temporary_weakness"
	StatusWeaknessImmunity  StatusKind = "weakness_immunity"
)

// Stackable reports whether repeated applications accumulate stacks.
func (k StatusKind) Stackable() bool {
	switch k {
	case StatusPoison, StatusShield, StatusLightningMark:
		return true
	}
	return false
}

func (k StatusKind) Valid() bool {
	switch k {
	case StatusPoison, StatusShield, StatusLightningMark, StatusStun, StatusProvocation,
		StatusTemporaryWeakness, StatusWeaknessImmunity:
		return true
	}
	return false
}

// GameStatus is the lifecycle state of a match.
type GameStatus string

const (
	StatusWaiting  GameStatus = "waiting"
	StatusPlaying  GameStatus = "playing"
	StatusFinished GameStatus = "finished"
)

// Phase is the step of the current turn.
type Phase string

const (
	PhaseDraw Phase = "draw"
	PhaseMain Phase = "main"
	PhaseEnd  Phase = "end"
)

func (p Phase) String() string {
	return string(p)
}
