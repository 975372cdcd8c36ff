package fx

import "testing"

func TestTextPoolExpiresAndRecycles(t *testing.T) {
	p := NewTextPool(2, 10)
	h := p.Spawn(0, 0, "12", TagDamage)
	if _, ok := p.Get(h); !ok {
		t.Fatalf("expected live text")
	}
	for i := 0; i < 10; i++ {
		p.Advance(1)
	}
	if _, ok := p.Get(h); ok {
		t.Errorf("expected handle to go stale after expiry")
	}
	if p.Len() != 0 {
		t.Errorf("expected empty pool, got %d", p.Len())
	}
}

func TestTextPoolFullRecyclesOldest(t *testing.T) {
	p := NewTextPool(2, 10)
	first := p.Spawn(0, 0, "a", TagInfo)
	p.Advance(3)
	second := p.Spawn(0, 0, "b", TagInfo)
	third := p.Spawn(0, 0, "c", TagInfo)

	if _, ok := p.Get(first); ok {
		t.Errorf("expected oldest entry to be recycled")
	}
	if txt, ok := p.Get(second); !ok || txt.Value != "b" {
		t.Errorf("expected second entry intact")
	}
	if txt, ok := p.Get(third); !ok || txt.Value != "c" {
		t.Errorf("expected third entry live")
	}
	if p.Len() != 2 {
		t.Errorf("pool must never grow beyond capacity, got %d", p.Len())
	}
}

func TestTextFloatsUp(t *testing.T) {
	p := NewTextPool(4, 10)
	h := p.Spawn(5, 100, "x", TagHeal)
	p.Advance(2)
	txt, _ := p.Get(h)
	if txt.Y >= 100 || txt.Life != 8 {
		t.Errorf("unexpected text state %+v", txt)
	}
	if got := p.Active(nil); len(got) != 1 {
		t.Errorf("expected one active text, got %d", len(got))
	}
	p.Reset()
	if p.Len() != 0 {
		t.Errorf("expected reset to clear the pool")
	}
}

func TestCueQueueDrain(t *testing.T) {
	var q CueQueue
	q.Push(CueHit)
	q.Push(CueKill)
	got := q.Drain(nil)
	if len(got) != 2 || got[0] != CueHit || got[1] != CueKill {
		t.Errorf("unexpected cues %v", got)
	}
	if q.Len() != 0 {
		t.Errorf("expected queue emptied")
	}
}
