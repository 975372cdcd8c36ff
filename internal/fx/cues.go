package fx

// Cue names understood by the audio collaborator.
const (
	CueHit      = "hit"
	CueCrit     = "crit"
	CueKill     = "kill"
	CueHurt     = "hurt"
	CueDodge    = "dodge"
	CueLevelUp  = "levelup"
	CueDeath    = "death"
	CueShoot    = "shoot"
	CueSwing    = "swing"
	CueSlam     = "slam"
	CueLunge    = "lunge"
	CuePounce   = "pounce"
	CueSummon   = "summon"
	CueRoar     = "roar"
	CueEnrage   = "enrage"
	CueTeleport = "teleport"
	CueBreak    = "break"
	CuePickup   = "pickup"
	CueDeclined = "declined"
	CueDrink    = "drink"
	CueUltimate = "ultimate"
)

// CueQueue collects fire-and-forget audio requests during a tick.
type CueQueue struct {
	names []string
}

func (q *CueQueue) Push(name string) {
	q.names = append(q.names, name)
}

// Drain appends queued cues to dst and empties the queue.
func (q *CueQueue) Drain(dst []string) []string {
	dst = append(dst, q.names...)
	q.names = q.names[:0]
	return dst
}

func (q *CueQueue) Len() int {
	return len(q.names)
}
