package engine

import (
	"context"
	"strings"
	"time"

	"questboard/internal/storage"
)

// ClaimOutcome describes a claim that changed state.
type ClaimOutcome struct {
	Key    string
	Record storage.ClaimRecord
	Award  int // base + loot bonus, added to the bonus pool
	Loot   LootEntry
}

// ApplyClaim is the pure claim step. If the claim key is already present it
// returns st unchanged and a nil outcome without rolling. Otherwise it rolls
// loot once, records the claim and grows the bonus pool by base + bonus.
func ApplyClaim(st State, questID string, baseReward int, scopeKey string, rng RandSource, now time.Time) (State, *ClaimOutcome) {
	key := ClaimKey(questID, scopeKey)
	if _, ok := st.Settings.Claimed[key]; ok {
		return st, nil
	}

	loot := RollLoot(rng)
	award := baseReward + loot.Bonus
	rec := storage.ClaimRecord{
		BaseRewardXP: baseReward,
		BonusXP:      loot.Bonus,
		Label:        loot.Label,
		ClaimedAt:    now,
	}

	next := st.Clone()
	if next.Settings.Claimed == nil {
		next.Settings.Claimed = map[string]storage.ClaimRecord{}
	}
	next.Settings.Claimed[key] = rec
	next.Settings.BonusXP += award

	return next, &ClaimOutcome{Key: key, Record: rec, Award: award, Loot: loot}
}

// CanClaim returns an error unless the quest is currently unlocked and unclaimed.
// An already claimed quest returns nil: claiming it again is a no-op.
func CanClaim(st State, stats Stats, questID string) (*QuestDef, string, error) {
	def := GetQuestDef(questID)
	if def == nil {
		return nil, "", ValidationError{Field: "quest", Reason: "unknown quest " + questID}
	}
	scope := def.ScopeKey(stats)
	if _, claimed := st.Settings.Claimed[ClaimKey(def.ID, scope)]; claimed {
		return def, scope, nil
	}
	if !def.Unlock(stats) {
		return nil, "", QuestLockedError{QuestID: def.ID}
	}
	return def, scope, nil
}

type ClaimResult struct {
	QuestID     string
	Key         string
	Claimed     bool // false when the key was already claimed
	BaseXP      int
	Loot        LootEntry
	Award       int
	LevelBefore int
	LevelAfter  int
	LevelUp     bool
}

// ClaimQuest claims the current instance of a catalog quest. The quest must be
// unlocked; an instance that was already claimed is a silent no-op.
func (s *Service) ClaimQuest(ctx context.Context, questID string) (*ClaimResult, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	st := s.current()
	def, scope, err := CanClaim(st, Aggregate(st, s.cal, s.now()), questID)
	if err != nil {
		return nil, err
	}
	return s.claimLocked(ctx, def.ID, def.RewardBase, scope)
}

// ClaimReward claims questID for an explicit scope key ("" for lifetime
// quests) without checking unlock state. The bonus pool only grows, so a
// negative reward is rejected.
func (s *Service) ClaimReward(ctx context.Context, questID string, baseReward int, scopeKey string) (*ClaimResult, error) {
	if strings.TrimSpace(questID) == "" {
		return nil, ValidationError{Field: "quest", Reason: "quest id is required"}
	}
	if baseReward < 0 {
		return nil, ValidationError{Field: "reward", Reason: "reward must not be negative"}
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.claimLocked(ctx, questID, baseReward, scopeKey)
}

func (s *Service) claimLocked(ctx context.Context, questID string, baseReward int, scopeKey string) (*ClaimResult, error) {
	now := s.now()
	before := s.current()
	levelBefore := ComputeLevel(TotalXP(before)).Level
	res := &ClaimResult{
		QuestID:     questID,
		Key:         ClaimKey(questID, scopeKey),
		BaseXP:      baseReward,
		LevelBefore: levelBefore,
		LevelAfter:  levelBefore,
	}

	var outcome *ClaimOutcome
	var after State
	err := s.attempt(ctx, "claim reward", func(st State) (State, error) {
		after, outcome = ApplyClaim(st, questID, baseReward, scopeKey, s.rng, now)
		return after, nil
	}, func(ctx context.Context) error {
		if outcome == nil {
			return nil
		}
		return s.gw.ClaimSettings(ctx, s.ownerID, outcome.Key, outcome.Record, outcome.Award)
	})
	if err != nil {
		if isAlreadyClaimed(err) {
			// Another session got there first.
			s.refreshSettings(ctx)
			s.logger.Info("claim lost race", "key", res.Key)
			return res, nil
		}
		return nil, err
	}
	if outcome == nil {
		return res, nil
	}

	res.Claimed = true
	res.Loot = outcome.Loot
	res.Award = outcome.Award
	res.LevelAfter = ComputeLevel(TotalXP(after)).Level
	res.LevelUp = res.LevelAfter > res.LevelBefore
	s.logger.Info("quest claimed", "key", outcome.Key, "loot", outcome.Loot.Label, "award", outcome.Award)
	if res.LevelUp {
		s.logger.Info("level up", "from", res.LevelBefore, "to", res.LevelAfter, "title", TitleForLevel(res.LevelAfter))
	}
	return res, nil
}
