package quests

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"ashgrove/internal/enemy"
	"ashgrove/internal/loot"
	"ashgrove/internal/status"

	"gopkg.in/yaml.v3"
)

// QuestType represents the type of quest objective
type QuestType string

const (
	QuestTypeKill    QuestType = "kill"    // kill archetypes
	QuestTypeAfflict QuestType = "afflict" // land a status effect on enemies
	QuestTypeLoot    QuestType = "loot"    // collect gold from drops
)

// QuestStatus represents the current status of a quest
type QuestStatus string

const (
	QuestStatusActive    QuestStatus = "active"
	QuestStatusCompleted QuestStatus = "completed"
)

// QuestRewards defines the rewards for completing a quest
type QuestRewards struct {
	Gold       int `yaml:"gold"`
	Experience int `yaml:"experience"`
}

// QuestDefinition is the YAML configuration for a quest
type QuestDefinition struct {
	Name            string       `yaml:"name"`
	Description     string       `yaml:"description"`
	Type            QuestType    `yaml:"type"`
	TargetArchetype string       `yaml:"target_archetype"` // kill quests
	TargetStatus    string       `yaml:"target_status"`    // afflict quests
	TargetCount     int          `yaml:"target_count"`
	IsStartingQuest bool         `yaml:"is_starting_quest"`
	Rewards         QuestRewards `yaml:"rewards"`

	archetypeID int
	statusKind  status.Kind
}

// Quest represents an active quest with progress tracking
type Quest struct {
	ID             string
	Definition     *QuestDefinition
	Status         QuestStatus
	CurrentCount   int
	RewardsClaimed bool
}

// QuestConfig holds all quest definitions loaded from YAML
type QuestConfig struct {
	Quests map[string]*QuestDefinition `yaml:"quests"`
}

// LoadQuestConfig loads quest definitions from YAML file
func LoadQuestConfig(filepath string) (*QuestConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read quest config: %w", err)
	}

	var config QuestConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse quest config: %w", err)
	}

	return &config, nil
}

// ArchetypeResolver maps archetype keys to their integer ids.
type ArchetypeResolver func(key string) (int, bool)

// TableResolver resolves keys through an archetype table.
func TableResolver(table *enemy.Table) ArchetypeResolver {
	return func(key string) (int, bool) {
		a, err := table.ByKey(key)
		if err != nil {
			return 0, false
		}
		return a.ID, true
	}
}

// Tracker counts progress from simulation events. It implements the
// simulation's progress hook and marker store.
type Tracker struct {
	config *QuestConfig
	quests map[string]*Quest
	mu     sync.RWMutex
}

// NewTracker validates the definitions against the archetype table and
// activates every starting quest.
func NewTracker(config *QuestConfig, resolve ArchetypeResolver) (*Tracker, error) {
	var problems []string
	for id, def := range config.Quests {
		if def.TargetCount <= 0 {
			problems = append(problems, fmt.Sprintf("quest %q needs a positive target_count", id))
		}
		switch def.Type {
		case QuestTypeKill:
			archID, ok := resolve(def.TargetArchetype)
			if !ok {
				problems = append(problems, fmt.Sprintf("quest %q targets unknown archetype %q", id, def.TargetArchetype))
			}
			def.archetypeID = archID
		case QuestTypeAfflict:
			kind, err := status.ParseKind(def.TargetStatus)
			if err != nil {
				problems = append(problems, fmt.Sprintf("quest %q: %v", id, err))
			}
			def.statusKind = kind
		case QuestTypeLoot:
		default:
			problems = append(problems, fmt.Sprintf("quest %q has unknown type %q", id, def.Type))
		}
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return nil, fmt.Errorf("quest configuration errors:\n%s", strings.Join(problems, "\n"))
	}

	t := &Tracker{config: config}
	t.Reset()
	return t, nil
}

// Reset clears all quest progress and re-initializes starting quests.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.quests = make(map[string]*Quest)
	for id, def := range t.config.Quests {
		if def.IsStartingQuest {
			t.quests[id] = &Quest{ID: id, Definition: def, Status: QuestStatusActive}
		}
	}
}

// ActivateQuest activates a quest by ID
func (t *Tracker) ActivateQuest(questID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	def, exists := t.config.Quests[questID]
	if !exists {
		return fmt.Errorf("quest not found: %s", questID)
	}
	if _, active := t.quests[questID]; active {
		return fmt.Errorf("quest already active: %s", questID)
	}
	t.quests[questID] = &Quest{ID: questID, Definition: def, Status: QuestStatusActive}
	return nil
}

func (t *Tracker) advance(match func(*QuestDefinition) bool, amount int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, q := range t.quests {
		if q.Status != QuestStatusActive || !match(q.Definition) {
			continue
		}
		q.CurrentCount += amount
		if q.CurrentCount >= q.Definition.TargetCount {
			q.CurrentCount = q.Definition.TargetCount
			q.Status = QuestStatusCompleted
		}
	}
}

// OnKill counts a kill toward matching kill quests.
func (t *Tracker) OnKill(archetypeID int) {
	t.advance(func(d *QuestDefinition) bool {
		return d.Type == QuestTypeKill && d.archetypeID == archetypeID
	}, 1)
}

// OnStatus counts statuses applied to enemies toward afflict quests.
func (t *Tracker) OnStatus(kind status.Kind, onPlayer bool) {
	if onPlayer {
		return
	}
	t.advance(func(d *QuestDefinition) bool {
		return d.Type == QuestTypeAfflict && d.statusKind == kind
	}, 1)
}

// OnLoot counts dropped gold toward loot quests.
func (t *Tracker) OnLoot(archetypeID int, drop loot.Drop) {
	if drop.Gold <= 0 {
		return
	}
	t.advance(func(d *QuestDefinition) bool {
		return d.Type == QuestTypeLoot
	}, drop.Gold)
}

// ClaimRewards marks a quest's rewards as claimed and returns the rewards
func (t *Tracker) ClaimRewards(questID string) (*QuestRewards, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	q, exists := t.quests[questID]
	if !exists {
		return nil, fmt.Errorf("quest not found: %s", questID)
	}
	if q.Status != QuestStatusCompleted {
		return nil, fmt.Errorf("quest not completed: %s", questID)
	}
	if q.RewardsClaimed {
		return nil, fmt.Errorf("rewards already claimed: %s", questID)
	}
	q.RewardsClaimed = true
	return &q.Definition.Rewards, nil
}

// Claimable returns the ids of completed quests with unclaimed rewards, sorted.
func (t *Tracker) Claimable() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var ids []string
	for id, q := range t.quests {
		if q.Status == QuestStatusCompleted && !q.RewardsClaimed {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Quests returns a copy of every tracked quest ordered by id.
func (t *Tracker) Quests() []Quest {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Quest, 0, len(t.quests))
	for _, q := range t.quests {
		out = append(out, *q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetQuest returns a specific quest by ID
func (t *Tracker) GetQuest(questID string) (Quest, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	q, ok := t.quests[questID]
	if !ok {
		return Quest{}, false
	}
	return *q, true
}

const claimedSuffix = ":claimed"

// Markers exports progress as flat counters for the save file.
func (t *Tracker) Markers() map[string]int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	m := make(map[string]int, len(t.quests))
	for id, q := range t.quests {
		m[id] = q.CurrentCount
		if q.RewardsClaimed {
			m[id+claimedSuffix] = 1
		}
	}
	return m
}

// RestoreMarkers replaces progress with saved counters. Unknown quest ids
// are ignored.
func (t *Tracker) RestoreMarkers(m map[string]int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.quests = make(map[string]*Quest)
	for id, count := range m {
		if strings.HasSuffix(id, claimedSuffix) {
			continue
		}
		def, ok := t.config.Quests[id]
		if !ok {
			continue
		}
		q := &Quest{ID: id, Definition: def, Status: QuestStatusActive, CurrentCount: count}
		if count >= def.TargetCount {
			q.CurrentCount = def.TargetCount
			q.Status = QuestStatusCompleted
			q.RewardsClaimed = m[id+claimedSuffix] > 0
		}
		t.quests[id] = q
	}
}

// GetProgressString returns a formatted progress string
func (q *Quest) GetProgressString() string {
	switch q.Definition.Type {
	case QuestTypeKill:
		return fmt.Sprintf("%d/%d %s slain", q.CurrentCount, q.Definition.TargetCount, q.Definition.TargetArchetype)
	case QuestTypeAfflict:
		return fmt.Sprintf("%d/%d %s applied", q.CurrentCount, q.Definition.TargetCount, q.Definition.TargetStatus)
	case QuestTypeLoot:
		return fmt.Sprintf("%d/%d gold found", q.CurrentCount, q.Definition.TargetCount)
	}
	return ""
}

// GetStatusString returns a human-readable status
func (q *Quest) GetStatusString() string {
	switch q.Status {
	case QuestStatusActive:
		return "In Progress"
	case QuestStatusCompleted:
		if q.RewardsClaimed {
			return "Completed"
		}
		return "Complete! (Claim Reward)"
	default:
		return "Unknown"
	}
}
