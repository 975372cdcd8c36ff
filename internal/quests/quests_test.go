package quests

import (
	"strings"
	"testing"

	"ashgrove/internal/enemy"
	"ashgrove/internal/loot"
	"ashgrove/internal/sim"
	"ashgrove/internal/status"
)

var (
	_ sim.ProgressHook = (*Tracker)(nil)
	_ sim.MarkerStore  = (*Tracker)(nil)
)

var testIDs = map[string]int{"wolf": 1, "spiderling": 5}

func resolveTest(key string) (int, bool) {
	id, ok := testIDs[key]
	return id, ok
}

func testConfig() *QuestConfig {
	return &QuestConfig{
		Quests: map[string]*QuestDefinition{
			"wolf_hunt": {
				Name:            "Wolf Hunt",
				Type:            QuestTypeKill,
				TargetArchetype: "wolf",
				TargetCount:     3,
				IsStartingQuest: true,
				Rewards:         QuestRewards{Gold: 25, Experience: 40},
			},
			"bleeder": {
				Name:            "Bleeder",
				Type:            QuestTypeAfflict,
				TargetStatus:    "bleed",
				TargetCount:     2,
				IsStartingQuest: true,
			},
			"scavenger": {
				Name:            "Scavenger",
				Type:            QuestTypeLoot,
				TargetCount:     10,
				IsStartingQuest: true,
			},
			"spider_cull": {
				Name:            "Spider Cull",
				Type:            QuestTypeKill,
				TargetArchetype: "spiderling",
				TargetCount:     1,
				IsStartingQuest: false,
			},
		},
	}
}

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	tr, err := NewTracker(testConfig(), resolveTest)
	if err != nil {
		t.Fatalf("NewTracker failed: %v", err)
	}
	return tr
}

func TestTracker_StartingQuests(t *testing.T) {
	tr := newTestTracker(t)

	qs := tr.Quests()
	if len(qs) != 3 {
		t.Fatalf("Expected 3 starting quests, got %d", len(qs))
	}
	if _, ok := tr.GetQuest("spider_cull"); ok {
		t.Error("Non-starting quest should not be active")
	}
	for _, q := range qs {
		if q.Status != QuestStatusActive {
			t.Errorf("Quest %s should be active, got %s", q.ID, q.Status)
		}
	}
}

func TestTracker_KillProgressAndClaim(t *testing.T) {
	tr := newTestTracker(t)

	tr.OnKill(5) // not a wolf
	tr.OnKill(1)
	tr.OnKill(1)
	q, _ := tr.GetQuest("wolf_hunt")
	if q.CurrentCount != 2 || q.Status != QuestStatusActive {
		t.Fatalf("Expected 2/3 active, got %d %s", q.CurrentCount, q.Status)
	}
	if _, err := tr.ClaimRewards("wolf_hunt"); err == nil {
		t.Error("Claiming an unfinished quest should fail")
	}

	tr.OnKill(1)
	tr.OnKill(1)
	q, _ = tr.GetQuest("wolf_hunt")
	if q.CurrentCount != 3 || q.Status != QuestStatusCompleted {
		t.Fatalf("Expected completed at 3/3, got %d %s", q.CurrentCount, q.Status)
	}
	if q.GetStatusString() != "Complete! (Claim Reward)" {
		t.Errorf("Unexpected status string %q", q.GetStatusString())
	}
	if got := tr.Claimable(); len(got) != 1 || got[0] != "wolf_hunt" {
		t.Errorf("Expected wolf_hunt claimable, got %v", got)
	}

	rewards, err := tr.ClaimRewards("wolf_hunt")
	if err != nil {
		t.Fatalf("ClaimRewards failed: %v", err)
	}
	if rewards.Gold != 25 || rewards.Experience != 40 {
		t.Errorf("Unexpected rewards %+v", rewards)
	}
	if _, err := tr.ClaimRewards("wolf_hunt"); err == nil {
		t.Error("Rewards should only be claimable once")
	}
}

func TestTracker_StatusAndLoot(t *testing.T) {
	tr := newTestTracker(t)

	tr.OnStatus(status.Bleed, true) // player afflictions do not count
	tr.OnStatus(status.Burn, false)
	tr.OnStatus(status.Bleed, false)
	q, _ := tr.GetQuest("bleeder")
	if q.CurrentCount != 1 {
		t.Errorf("Expected 1 bleed counted, got %d", q.CurrentCount)
	}

	tr.OnLoot(1, loot.Drop{Gold: 4})
	tr.OnLoot(0, loot.Drop{Items: map[string]int{"potion": 1}})
	tr.OnLoot(0, loot.Drop{Gold: 9})
	q, _ = tr.GetQuest("scavenger")
	if q.Status != QuestStatusCompleted || q.CurrentCount != 10 {
		t.Errorf("Expected scavenger capped and completed, got %d %s", q.CurrentCount, q.Status)
	}
	if !strings.Contains(q.GetProgressString(), "10/10") {
		t.Errorf("Unexpected progress string %q", q.GetProgressString())
	}
}

func TestTracker_ActivateQuest(t *testing.T) {
	tr := newTestTracker(t)

	if err := tr.ActivateQuest("spider_cull"); err != nil {
		t.Fatalf("ActivateQuest failed: %v", err)
	}
	if err := tr.ActivateQuest("spider_cull"); err == nil {
		t.Error("Activating twice should fail")
	}
	if err := tr.ActivateQuest("nope"); err == nil {
		t.Error("Unknown quest should fail")
	}
	tr.OnKill(5)
	q, _ := tr.GetQuest("spider_cull")
	if q.Status != QuestStatusCompleted {
		t.Errorf("Expected spider_cull completed, got %s", q.Status)
	}
}

func TestTracker_MarkersRoundTrip(t *testing.T) {
	tr := newTestTracker(t)
	tr.OnKill(1)
	tr.OnKill(1)
	tr.OnKill(1)
	if _, err := tr.ClaimRewards("wolf_hunt"); err != nil {
		t.Fatalf("ClaimRewards failed: %v", err)
	}
	tr.OnStatus(status.Bleed, false)

	markers := tr.Markers()
	markers["retired_quest"] = 4

	restored := newTestTracker(t)
	restored.RestoreMarkers(markers)

	q, ok := restored.GetQuest("wolf_hunt")
	if !ok || q.Status != QuestStatusCompleted || !q.RewardsClaimed {
		t.Errorf("wolf_hunt should restore completed and claimed, got %+v", q)
	}
	q, _ = restored.GetQuest("bleeder")
	if q.CurrentCount != 1 || q.Status != QuestStatusActive {
		t.Errorf("bleeder should restore at 1, got %d %s", q.CurrentCount, q.Status)
	}
	if _, ok := restored.GetQuest("retired_quest"); ok {
		t.Error("Unknown marker ids should be ignored")
	}
	if len(restored.Claimable()) != 0 {
		t.Errorf("Nothing should be claimable, got %v", restored.Claimable())
	}
}

func TestNewTracker_RejectsBadDefinitions(t *testing.T) {
	config := &QuestConfig{
		Quests: map[string]*QuestDefinition{
			"a": {Type: QuestTypeKill, TargetArchetype: "dragon", TargetCount: 1},
			"b": {Type: QuestTypeAfflict, TargetStatus: "sneeze", TargetCount: 1},
			"c": {Type: "escort", TargetCount: 1},
			"d": {Type: QuestTypeLoot},
		},
	}
	_, err := NewTracker(config, resolveTest)
	if err == nil {
		t.Fatal("Expected configuration errors")
	}
	for _, want := range []string{"dragon", "sneeze", "escort", "target_count"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Error should mention %q: %v", want, err)
		}
	}
}

func TestShippedQuestsMatchArchetypes(t *testing.T) {
	config, err := LoadQuestConfig("../../assets/quests.yaml")
	if err != nil {
		t.Fatalf("LoadQuestConfig failed: %v", err)
	}
	table := enemy.MustLoadArchetypes("../../assets/archetypes.yaml")
	tr, err := NewTracker(config, TableResolver(table))
	if err != nil {
		t.Fatalf("Shipped quests should validate: %v", err)
	}
	if len(tr.Quests()) == 0 {
		t.Error("Expected starting quests in the shipped config")
	}
}
