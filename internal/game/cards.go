package game

import "sync"

// Built-in pantheon. A YAML catalog (see LoadCatalog) can replace it entirely.

func defaultGods() []*GodCard {
	return []*GodCard{
		{ID: "ignis", Name: "Ignis", Element: ElementFire, MaxHealth: 20, Flavor: "The forge that never cools."},
		{ID: "zephyra", Name: "Zephyra", Element: ElementAir, MaxHealth: 18, Flavor: "Every storm starts as a whisper."},
		{ID: "terran", Name: "Terran", Element: ElementEarth, MaxHealth: 24, Flavor: "Mountains do not hurry."},
		{ID: "voltar", Name: "Voltar", Element: ElementLightning, MaxHealth: 18, Flavor: "He strikes twice, always."},
		{ID: "nerida", Name: "Nerida", Element: ElementWater, MaxHealth: 20, Flavor: "The tide returns what it takes."},
		{ID: "solara", Name: "Solara", Element: ElementLight, MaxHealth: 20, Flavor: "Dawn owes no one an apology."},
		{ID: "nyx", Name: "Nyx", Element: ElementDarkness, MaxHealth: 18, Flavor: "She was here before the stars."},
		{ID: "morrigan", Name: "Morrigan", Element: ElementDarkness, MaxHealth: 16, Flavor: "Death is a door she keeps ajar."},
	}
}

func hit(v int, t TargetSelector) SpellEffect {
	return SpellEffect{Kind: EffectDamage, Value: v, Target: t}
}
func mend(v int, t TargetSelector) SpellEffect {
	return SpellEffect{Kind: EffectHeal, Value: v, Target: t}
}
func ward(v int, t TargetSelector) SpellEffect {
	return SpellEffect{Kind: EffectShield, Value: v, Target: t}
}

func mark(kind StatusKind, v, dur int, t TargetSelector) SpellEffect {
	return SpellEffect{Kind: EffectStatus, Status: kind, Value: v, Duration: dur, Target: t}
}

func custom(id string, v int, t TargetSelector) SpellEffect {
	return SpellEffect{Kind: EffectCustom, CustomID: id, Value: v, Target: t}
}

func spell(id, god, name string, typ SpellType, cost, gain int, desc string, effects ...SpellEffect) *SpellCard {
	return &SpellCard{ID: id, GodID: god, Name: name, Type: typ, Cost: cost, EnergyGain: gain, Description: desc, Effects: effects}
}

func defaultSpells() []*SpellCard {
	return []*SpellCard{
		// Ignis
		spell("ignis_ember", "ignis", "Ember", SpellGenerator, 0, 1, "Deal 1 damage.", hit(1, TargetEnemyGod)),
		spell("ignis_fireball", "ignis", "Fireball", SpellCompetence, 2, 0, "Deal 3 damage.", hit(3, TargetEnemyGod)),
		spell("ignis_inferno", "ignis", "Inferno", SpellCompetence, 4, 0, "Deal 2 damage to every enemy.", hit(2, TargetAllEnemies)),
		spell("ignis_scorch", "ignis", "Scorch", SpellCompetence, 2, 0, "Deal 2 damage and apply 2 poison.",
			hit(2, TargetEnemyGod), mark(StatusPoison, 2, 0, TargetSame)),
		spell("ignis_kindle", "ignis", "Kindle", SpellUtility, 1, 0, "Gain 2 energy.",
			SpellEffect{Kind: EffectEnergy, Value: 2, Target: TargetSelf}),

		// Zephyra
		spell("zephyra_gust", "zephyra", "Gust", SpellGenerator, 0, 1, "Deal 1 damage.", hit(1, TargetEnemyGod)),
		spell("zephyra_tailwind", "zephyra", "Tailwind", SpellUtility, 0, 0, "Draw 2 cards.",
			SpellEffect{Kind: EffectDraw, Value: 2, Target: TargetSelf}),
		spell("zephyra_cyclone", "zephyra", "Cyclone", SpellCompetence, 3, 0, "Deal 2 damage to every enemy.", hit(2, TargetAllEnemies)),
		spell("zephyra_veil", "zephyra", "Veil of Wind", SpellUtility, 1, 0, "Give an ally 3 shield.", ward(3, TargetAllyGod)),
		spell("zephyra_expose", "zephyra", "Expose", SpellUtility, 1, 0, "An enemy becomes weak to air for 2 turns.",
			SpellEffect{Kind: EffectStatus, Status: StatusTemporaryWeakness, Element: ElementAir, Value: 1, Duration: 2, Target: TargetEnemyGod}),

		// Terran
		spell("terran_pebble", "terran", "Pebble Skin", SpellGenerator, 0, 1, "Gain 1 shield.", ward(1, TargetSelf)),
		spell("terran_quake", "terran", "Quake", SpellCompetence, 3, 0, "Deal 2 damage to every enemy.", hit(2, TargetAllEnemies)),
		spell("terran_bulwark", "terran", "Bulwark", SpellCompetence, 2, 0, "Gain 4 shield and provoke enemies for a turn.",
			ward(4, TargetSelf), mark(StatusProvocation, 1, 1, TargetSelf)),
		spell("terran_roots", "terran", "Deep Roots", SpellUtility, 1, 0, "Heal an ally for 3.", mend(3, TargetAllyGod)),
		spell("terran_landslide", "terran", "Landslide", SpellCompetence, 2, 0, "Mill 2 enemy cards, 1 damage per card milled.",
			custom("mill_damage", 2, TargetEnemyGod)),

		// Voltar
		spell("voltar_spark", "voltar", "Spark", SpellGenerator, 0, 1, "Deal 1 damage and apply a lightning mark.",
			hit(1, TargetEnemyGod), mark(StatusLightningMark, 1, 0, TargetSame)),
		spell("voltar_charge", "voltar", "Static Charge", SpellCompetence, 2, 0, "Apply 2 lightning marks to every enemy.",
			mark(StatusLightningMark, 2, 0, TargetAllEnemies)),
		spell("voltar_thunderclap", "voltar", "Thunderclap", SpellCompetence, 2, 0, "Remove an enemy's marks, then deal 2 damage plus 2 per mark.",
			SpellEffect{Kind: EffectRemoveStatus, Status: StatusLightningMark, Target: TargetEnemyGod}, hit(2, TargetSame)),
		spell("voltar_overload", "voltar", "Overload", SpellCompetence, 3, 0, "Detonate every lightning mark on enemies.",
			custom("detonate_marks", 2, TargetAllEnemies)),
		spell("voltar_paralyze", "voltar", "Paralyze", SpellUtility, 1, 0, "Stun an enemy for a turn.",
			mark(StatusStun, 1, 1, TargetEnemyGod)),

		// Nerida
		spell("nerida_ripple", "nerida", "Ripple", SpellGenerator, 0, 1, "Heal an ally for 1.", mend(1, TargetAllyGod)),
		spell("nerida_tide", "nerida", "Crashing Tide", SpellCompetence, 2, 0, "Deal 3 damage.", hit(3, TargetEnemyGod)),
		spell("nerida_cleanse", "nerida", "Cleanse", SpellUtility, 1, 0, "Remove poison and stun from an ally.",
			SpellEffect{Kind: EffectRemoveStatus, Status: StatusPoison, Target: TargetAllyGod},
			SpellEffect{Kind: EffectRemoveStatus, Status: StatusStun, Target: TargetSame}),
		spell("nerida_wellspring", "nerida", "Wellspring", SpellUtility, 2, 0, "Heal an ally for 3 and give it 2 shield. Health may exceed max while shielded.",
			mend(3, TargetAllyGod), ward(2, TargetSame)),
		spell("nerida_undertow", "nerida", "Undertow", SpellUtility, 1, 0, "The enemy discards a random card.",
			SpellEffect{Kind: EffectDiscard, Value: 1, Target: TargetEnemyHand}),

		// Solara
		spell("solara_ray", "solara", "Sunray", SpellGenerator, 0, 1, "Deal 1 damage.", hit(1, TargetEnemyGod)),
		spell("solara_blessing", "solara", "Blessing", SpellUtility, 2, 0, "Heal every ally for 2.", mend(2, TargetAllAllies)),
		spell("solara_aegis", "solara", "Aegis", SpellUtility, 2, 0, "An ally becomes immune to weakness changes and gains 2 shield.",
			mark(StatusWeaknessImmunity, 1, 2, TargetAllyGod), ward(2, TargetSame)),
		spell("solara_judgment", "solara", "Judgment", SpellCompetence, 3, 0, "Deal 4 damage.", hit(4, TargetEnemyGod)),
		spell("solara_insight", "solara", "Insight", SpellUtility, 1, 0, "Reveal the enemy hand and draw a card.",
			custom("reveal_hand", 0, TargetEnemyHand), SpellEffect{Kind: EffectDraw, Value: 1, Target: TargetSelf}),

		// Nyx
		spell("nyx_shade", "nyx", "Shade", SpellGenerator, 0, 1, "Apply 1 poison.", mark(StatusPoison, 1, 0, TargetEnemyGod)),
		spell("nyx_venom", "nyx", "Venom", SpellCompetence, 2, 0, "Apply 3 poison.", mark(StatusPoison, 3, 0, TargetEnemyGod)),
		spell("nyx_nightmare", "nyx", "Nightmare", SpellUtility, 2, 0, "The enemy draws 2 cards face down.",
			custom("blind_draw", 2, TargetEnemyHand)),
		spell("nyx_eclipse", "nyx", "Eclipse", SpellUtility, 1, 0, "An enemy becomes weak to darkness for 2 turns.",
			SpellEffect{Kind: EffectStatus, Status: StatusTemporaryWeakness, Element: ElementDarkness, Value: 1, Duration: 2, Target: TargetEnemyGod}),
		spell("nyx_drain", "nyx", "Soul Drain", SpellCompetence, 3, 0, "Deal 3 damage and heal Nyx by the damage dealt.",
			custom("lifesteal", 3, TargetEnemyGod)),

		// Morrigan
		spell("morrigan_whisper", "morrigan", "Grave Whisper", SpellGenerator, 0, 1, "The enemy mills a card.",
			SpellEffect{Kind: EffectMill, Value: 1, Target: TargetEnemyHand}),
		spell("morrigan_raise", "morrigan", "Raise Dead", SpellCompetence, 3, 0, "A fallen ally rises as a 5 health zombie.",
			custom("revive_zombie", ZombieHealth, TargetDeadAllyGod)),
		spell("morrigan_curse", "morrigan", "Withering Curse", SpellCompetence, 2, 0, "Deal 2 damage and apply 1 poison.",
			hit(2, TargetEnemyGod), mark(StatusPoison, 1, 0, TargetSame)),
		spell("morrigan_harvest", "morrigan", "Harvest", SpellCompetence, 2, 0, "Deal 1 damage, 2 more if the target is poisoned.",
			hit(1, TargetEnemyGod), SpellEffect{Kind: EffectDamage, Value: 2, Target: TargetSame, RequireStatus: StatusPoison}),
		spell("morrigan_drain", "morrigan", "Sap Will", SpellUtility, 1, 0, "The enemy loses 1 energy.",
			SpellEffect{Kind: EffectEnergy, Value: -1, Target: TargetEnemyHand}),
	}
}

func defaultTeams() []TeamEntry {
	return []TeamEntry{
		{Name: "Primal", Gods: []string{"ignis", "zephyra", "terran", "voltar"}},
		{Name: "Twilight", Gods: []string{"nerida", "solara", "nyx", "morrigan"}},
	}
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// DefaultCatalog returns the built-in pantheon.
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		c, err := NewCatalog(defaultGods(), defaultSpells(), defaultTeams())
		if err != nil {
			panic("default catalog: " + err.Error())
		}
		defaultCatalog = c
	})
	return defaultCatalog
}
