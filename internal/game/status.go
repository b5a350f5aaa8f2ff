package game

// --- Status ledger ---
//
// All status arithmetic for a god lives here. Stackable kinds accumulate Stacks;
// flag kinds keep Stacks at 1 and carry a Duration.

// Status returns the instance of the given kind, or nil.
func (g *GodState) Status(kind StatusKind) *StatusEffectInstance {
	for i := range g.Statuses {
		if g.Statuses[i].Kind == kind {
			return &g.Statuses[i]
		}
	}
	return nil
}

// Stacks returns the stack count of kind (0 if absent).
func (g *GodState) Stacks(kind StatusKind) int {
	if s := g.Status(kind); s != nil {
		return s.Stacks
	}
	return 0
}

// HasStatus reports whether the god carries kind.
func (g *GodState) HasStatus(kind StatusKind) bool {
	return g.Stacks(kind) > 0
}

// ApplyStatus adds or refreshes a status. It returns false when nothing changed.
func (g *GodState) ApplyStatus(kind StatusKind, amount, duration int) bool {
	if g.IsDead || duration < 0 {
		return false
	}
	if kind == StatusTemporaryWeakness && g.HasStatus(StatusWeaknessImmunity) {
		return false
	}
	if kind.Stackable() {
		if amount <= 0 {
			return false
		}
		if s := g.Status(kind); s != nil {
			s.Stacks += amount
			if duration == 0 || (s.Duration != 0 && duration > s.Duration) {
				s.Duration = duration
			}
			return true
		}
		g.Statuses = append(g.Statuses, StatusEffectInstance{Kind: kind, Stacks: amount, Duration: duration})
		return true
	}

	if s := g.Status(kind); s != nil {
		s.Duration = duration
		return true
	}
	g.Statuses = append(g.Statuses, StatusEffectInstance{Kind: kind, Stacks: 1, Duration: duration})
	if kind == StatusWeaknessImmunity {
		g.clearTemporaryWeakness()
	}
	return true
}

// ApplyTemporaryWeakness overrides the god's weakness with el for duration turns.
func (g *GodState) ApplyTemporaryWeakness(el Element, duration int) bool {
	if !el.Valid() || !g.ApplyStatus(StatusTemporaryWeakness, 1, duration) {
		return false
	}
	g.TemporaryWeakness = el
	return true
}

// RemoveStatus removes up to amount stacks of kind; amount <= 0 clears it.
// Returns the number of stacks removed.
func (g *GodState) RemoveStatus(kind StatusKind, amount int) int {
	if g.IsDead {
		return 0
	}
	s := g.Status(kind)
	if s == nil {
		return 0
	}
	removed := s.Stacks
	if amount > 0 && amount < s.Stacks {
		removed = amount
	}
	s.Stacks -= removed
	if kind == StatusTemporaryWeakness && s.Stacks == 0 {
		g.TemporaryWeakness = ""
	}
	g.prune()
	return removed
}

// TickEndOfTurn applies poison as true damage, counts down durations and prunes
// expired marks. Returns the poison damage dealt.
func (g *GodState) TickEndOfTurn() int {
	if g.IsDead {
		return 0
	}
	poison := g.Stacks(StatusPoison)
	if poison > 0 {
		g.CurrentHealth -= poison
	}
	for i := range g.Statuses {
		s := &g.Statuses[i]
		if s.Duration > 0 {
			s.Duration--
			if s.Duration == 0 {
				s.Stacks = 0
			}
		}
	}
	if !g.HasStatus(StatusTemporaryWeakness) {
		g.TemporaryWeakness = ""
	}
	g.prune()
	g.clampOverheal()
	return poison
}

// TakeDamage applies already-multiplied damage. Shield absorbs point for point first.
func (g *GodState) TakeDamage(amount int) (absorbed, dealt int) {
	if g.IsDead || amount <= 0 {
		return 0, 0
	}
	if s := g.Status(StatusShield); s != nil {
		absorbed = min(s.Stacks, amount)
		s.Stacks -= absorbed
		g.prune()
	}
	dealt = amount - absorbed
	g.CurrentHealth -= dealt
	g.clampOverheal()
	return absorbed, dealt
}

// LoseHealth removes health ignoring shield and weakness.
func (g *GodState) LoseHealth(amount int) {
	if g.IsDead || amount <= 0 {
		return
	}
	g.CurrentHealth -= amount
}

// Heal restores health. Above max health is only kept while overheal is allowed.
func (g *GodState) Heal(amount int, overheal bool) (oldHP, newHP int) {
	oldHP = g.CurrentHealth
	if g.IsDead || amount <= 0 {
		return oldHP, oldHP
	}
	g.CurrentHealth += amount
	if !overheal && g.CurrentHealth > g.maxHealth() {
		g.CurrentHealth = max(oldHP, g.maxHealth())
	}
	return oldHP, g.CurrentHealth
}

func (g *GodState) maxHealth() int {
	if g.IsZombie {
		return ZombieHealth
	}
	return g.Card.MaxHealth
}

// clampOverheal drops health above max once no shield is left to carry it.
func (g *GodState) clampOverheal() {
	if !g.HasStatus(StatusShield) && g.CurrentHealth > g.maxHealth() {
		g.CurrentHealth = g.maxHealth()
	}
}

func (g *GodState) clearTemporaryWeakness() {
	g.TemporaryWeakness = ""
	if s := g.Status(StatusTemporaryWeakness); s != nil {
		s.Stacks = 0
		g.prune()
	}
}

func (g *GodState) prune() {
	kept := g.Statuses[:0]
	for _, s := range g.Statuses {
		if s.Stacks > 0 {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		g.Statuses = nil
		return
	}
	g.Statuses = kept
}
