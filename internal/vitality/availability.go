package vitality

import (
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/dice"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/game"
)

// Action-gate messages, escalating with how far gone the combatant is.
const (
	MsgDead       = "You have died."
	MsgTooInjured = "You are too injured to move."
	MsgStruggled  = "You struggle against your wounds and fail."
)

// Available is the actionable remainder of a pool: current minus any
// pending damage (pending healing does not count against it), floored at
// zero. This derived value, not the raw current, gates actions and regen.
func Available(current, pending int) int {
	if pending < 0 {
		pending = 0
	}
	v := current - pending
	if v < 0 {
		return 0
	}
	return v
}

// Critical-band targets for the gated skill check.
const (
	gateTargetAvail2 = 10
	gateTargetAvail3 = 8
)

// GateResult reports whether an action may proceed, and whether a gated
// skill check was attempted (attempts are forwarded to progression even
// when they fail).
type GateResult struct {
	game.ActionResult
	CheckAttempted bool
	CheckTarget    int
	CheckRoll      int
}

// GateAction applies the availability rule to the combatant's vitality
// pool: at 0 the combatant is dead, at 1 too injured to act, in the
// critical band (2-3) a physicality check against a fixed target must
// succeed, and above that the action is unrestricted.
func GateAction(c game.Combatant, roller *dice.Roller) GateResult {
	pools := c.Pools()
	avail := Available(pools.Vitality, pools.PendingVitality)

	switch {
	case avail <= 0:
		return GateResult{ActionResult: game.Failure(MsgDead)}
	case avail == 1:
		return GateResult{ActionResult: game.Failure(MsgTooInjured)}
	case avail <= 3:
		target := gateTargetAvail3
		if avail == 2 {
			target = gateTargetAvail2
		}
		roll := c.SkillLevel(game.SkillPhysicality) + roller.RollExplodingSymmetric()
		res := GateResult{CheckAttempted: true, CheckTarget: target, CheckRoll: roll}
		if roll >= target {
			res.ActionResult = game.OK("fighting through the pain")
		} else {
			res.ActionResult = game.Failure(MsgStruggled)
		}
		return res
	default:
		return GateResult{ActionResult: game.OK("")}
	}
}
