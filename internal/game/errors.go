package game

import (
	"errors"
	"fmt"
)

// Rules violations. They are returned before any state is touched.
var (
	ErrNotStarted         = errors.New("match has not started")
	ErrGameOver           = errors.New("match is over")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrWrongPhase         = errors.New("action not allowed in this phase")
	ErrUnknownPlayer      = errors.New("unknown player")
	ErrCardNotInHand      = errors.New("card not in hand")
	ErrAlreadyPlayed      = errors.New("already played a card this turn")
	ErrAlreadyDiscarded   = errors.New("already discarded for energy this turn")
	ErrInsufficientEnergy = errors.New("not enough energy")
	ErrGodStunned         = errors.New("god is stunned")
	ErrGodDead            = errors.New("god is dead")
	ErrInvalidTarget      = errors.New("invalid target")
	ErrMustTargetProvoker = fmt.Errorf("%w: an enemy god is provoking", ErrInvalidTarget)
	ErrInvalidTeam        = errors.New("invalid team")
)
