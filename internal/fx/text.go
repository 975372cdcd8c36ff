package fx

// Tag is the emphasis class of a floating combat text.
type Tag int

const (
	TagDamage Tag = iota
	TagCrit
	TagHeal
	TagHurt // damage taken by the player
	TagStatus
	TagInfo
	TagLoot
)

func (t Tag) String() string {
	switch t {
	case TagDamage:
		return "damage"
	case TagCrit:
		return "crit"
	case TagHeal:
		return "heal"
	case TagHurt:
		return "hurt"
	case TagStatus:
		return "status"
	case TagInfo:
		return "info"
	case TagLoot:
		return "loot"
	}
	return "unknown"
}

// Text is one floating combat text entry.
type Text struct {
	X, Y    float64
	Value   string
	Tag     Tag
	Life    float64 // remaining ticks
	MaxLife float64
}

// Handle addresses a pool entry. A handle goes stale once its entry expires
// and the slot is reused.
type Handle struct {
	index int32
	gen   uint32
}

type slot struct {
	text Text
	gen  uint32
	live bool
}

// TextPool is a fixed-capacity arena of floating texts. When full, the entry
// closest to expiry is recycled.
type TextPool struct {
	slots    []slot
	free     []int32
	lifetime float64
	rise     float64 // world units per tick
}

func NewTextPool(capacity int, lifetime float64) *TextPool {
	if capacity < 1 {
		capacity = 1
	}
	if lifetime <= 0 {
		lifetime = 45
	}
	p := &TextPool{
		slots:    make([]slot, capacity),
		free:     make([]int32, 0, capacity),
		lifetime: lifetime,
		rise:     0.6,
	}
	for i := capacity - 1; i >= 0; i-- {
		p.free = append(p.free, int32(i))
	}
	return p
}

// Spawn places a text and returns its handle.
func (p *TextPool) Spawn(x, y float64, value string, tag Tag) Handle {
	var idx int32
	if n := len(p.free); n > 0 {
		idx = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		idx = p.oldest()
		p.slots[idx].gen++
	}
	s := &p.slots[idx]
	s.live = true
	s.text = Text{X: x, Y: y, Value: value, Tag: tag, Life: p.lifetime, MaxLife: p.lifetime}
	return Handle{index: idx, gen: s.gen}
}

func (p *TextPool) oldest() int32 {
	best := int32(0)
	for i := range p.slots {
		if p.slots[i].text.Life < p.slots[best].text.Life {
			best = int32(i)
		}
	}
	return best
}

// Get resolves a handle.
func (p *TextPool) Get(h Handle) (Text, bool) {
	if h.index < 0 || int(h.index) >= len(p.slots) {
		return Text{}, false
	}
	s := &p.slots[h.index]
	if !s.live || s.gen != h.gen {
		return Text{}, false
	}
	return s.text, true
}

// Advance ages every text, floating it upwards and recycling expired slots.
func (p *TextPool) Advance(dt float64) {
	for i := range p.slots {
		s := &p.slots[i]
		if !s.live {
			continue
		}
		s.text.Life -= dt
		s.text.Y -= p.rise * dt
		if s.text.Life <= 0 {
			s.live = false
			s.gen++
			p.free = append(p.free, int32(i))
		}
	}
}

// Active appends every live text to dst.
func (p *TextPool) Active(dst []Text) []Text {
	for i := range p.slots {
		if p.slots[i].live {
			dst = append(dst, p.slots[i].text)
		}
	}
	return dst
}

// Len is the number of live texts.
func (p *TextPool) Len() int {
	return len(p.slots) - len(p.free)
}

// Reset drops every text.
func (p *TextPool) Reset() {
	p.free = p.free[:0]
	for i := len(p.slots) - 1; i >= 0; i-- {
		if p.slots[i].live {
			p.slots[i].live = false
			p.slots[i].gen++
		}
		p.free = append(p.free, int32(i))
	}
}
