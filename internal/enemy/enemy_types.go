package enemy

// State is the AI state of one enemy.
type State int

const (
	StatePatrol State = iota
	StateChase
	StateWindup
	StateStunned
	StateReturning
)

func (s State) String() string {
	switch s {
	case StatePatrol:
		return "patrol"
	case StateChase:
		return "chase"
	case StateWindup:
		return "windup"
	case StateStunned:
		return "stunned"
	case StateReturning:
		return "returning"
	}
	return "unknown"
}

// SpecialKind is a special attack selectable by an archetype.
type SpecialKind int

const (
	SpecialLunge SpecialKind = iota + 1
	SpecialVolley
	SpecialSlam
	SpecialPounce // boss only
	SpecialBuff   // boss only
	SpecialSummon // boss only
)

var specialNames = map[string]SpecialKind{
	"lunge":  SpecialLunge,
	"volley": SpecialVolley,
	"slam":   SpecialSlam,
	"pounce": SpecialPounce,
	"buff":   SpecialBuff,
	"summon": SpecialSummon,
}

func (k SpecialKind) String() string {
	for name, kind := range specialNames {
		if kind == k {
			return name
		}
	}
	return "none"
}

// BossOnly reports kinds restricted to boss archetypes.
func (k SpecialKind) BossOnly() bool {
	return k == SpecialPounce || k == SpecialBuff || k == SpecialSummon
}

// targetsPlayer reports whether the windup captures the player's position
// rather than the enemy's own.
func (k SpecialKind) targetsPlayer() bool {
	return k != SpecialBuff && k != SpecialSummon
}

// IntentKind is an action an enemy asks the combat resolver to carry out.
type IntentKind int

const (
	IntentMelee    IntentKind = iota // basic contact attack on the current target
	IntentStrike                     // lunge or pounce landing at X,Y
	IntentArea                       // slam centred on X,Y
	IntentShot                       // single projectile from X,Y along Angle
	IntentVolley                     // Count projectiles fanned over Spread
	IntentSummon                     // spawn Minion at Points
	IntentBuff                       // self buff already applied, for feedback
	IntentTeleport                   // relocation already applied, for feedback
	IntentEnrage                     // boss crossed its enrage threshold
)

// Point is a world position.
type Point struct {
	X, Y float64
}

// Intent is produced by Think and consumed by the combat resolver. Enemies
// never mutate the player directly.
type Intent struct {
	Kind      IntentKind
	Source    uint64
	Special   SpecialKind
	X, Y      float64
	Angle     float64
	Radius    float64
	Damage    int
	Knockback float64
	Count     int
	Spread    float64
	Speed     float64
	Minion    string
	Points    []Point
}
