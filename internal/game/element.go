package game

// weaknessTable maps each element to the element it is weak against.
// Strength runs fire→air→earth→lightning→water→fire, plus light↔darkness.
var weaknessTable = map[Element]Element{
	ElementAir:       ElementFire,
	ElementEarth:     ElementAir,
	ElementLightning: ElementEarth,
	ElementWater:     ElementLightning,
	ElementFire:      ElementWater,
	ElementLight:     ElementDarkness,
	ElementDarkness:  ElementLight,
}

// WeaknessOf returns the element that e is weak against.
func WeaknessOf(e Element) Element {
	return weaknessTable[e]
}

// DamageMultiplier returns 2 when the attacking element matches the defender's weakness.
func DamageMultiplier(attack, weakness Element) int {
	if attack != "" && attack == weakness {
		return 2
	}
	return 1
}
