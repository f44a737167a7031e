package game

import "errors"

// Every rejection is recoverable: state is validated before it is
// mutated, so a returned error leaves the room untouched. The one
// documented exception is ErrIllegalPlacement, which carries a
// bad-card penalty even though the placement itself is refused.
var (
	ErrNotYourTurn      = errors.New("not your turn")
	ErrInvalidPhase     = errors.New("invalid phase for action")
	ErrHandEmpty        = errors.New("hand is empty")
	ErrHandNotEmpty     = errors.New("you already have a card in hand")
	ErrDeckEmpty        = errors.New("deck is empty")
	ErrMustDraw         = errors.New("must draw a card first")
	ErrCardNotInHand    = errors.New("card not in hand")
	ErrCardLocked       = errors.New("card is locked for this turn")
	ErrIllegalPlacement = errors.New("illegal placement")
	ErrCannotBeat       = errors.New("card cannot beat the pile")
	ErrPileEmpty        = errors.New("battle pile is empty")
	ErrRoomFull         = errors.New("room is full")
	ErrRoomLocked       = errors.New("room is locked")
	ErrRoomNotFound     = errors.New("room not found")
	ErrUnknownPlayer    = errors.New("unknown player")
)
