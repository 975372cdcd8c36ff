package sim

import (
	"ashgrove/internal/kinematics"
	"ashgrove/internal/mathutil"
)

// Input is one tick of player intent, as produced by the input collaborator.
type Input struct {
	MoveX, MoveY float64
	Sprint       bool
	Aim          float64 // radians

	Attack   bool
	Dodge    bool
	Ultimate bool
	UseSlot  int // 1-based consumable slot, 0 = none
}

// SanitizeInput clamps the movement vector to unit length, wraps the aim
// into [-π, π] and zeroes anything non-finite.
func SanitizeInput(in Input, slots int) Input {
	in.MoveX, in.MoveY = kinematics.ClampDirection(in.MoveX, in.MoveY)
	in.Aim = mathutil.WrapAngle(mathutil.Sanitize(in.Aim))
	if in.UseSlot < 0 || in.UseSlot > slots {
		in.UseSlot = 0
	}
	return in
}
