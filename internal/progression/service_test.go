package progression

import (
	"database/sql"
	"testing"
	"time"

	"github.com/teachquest/backend/internal/models"
)

// fakeStore is an in-memory ProgressStore for exercising the ruleset without a
// database. Mutations mirror the SQL store's semantics: AwardXP increments and
// re-derives level fields in one step, InsertBadgeIfAbsent is idempotent.
type fakeStore struct {
	progress map[int64]*models.UserProgress
	badges   map[int64]models.BadgeDefinition
	earned   map[int64]map[int64]bool
	activity []models.ActivityLogEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		progress: map[int64]*models.UserProgress{},
		badges:   map[int64]models.BadgeDefinition{},
		earned:   map[int64]map[int64]bool{},
	}
}

func (f *fakeStore) GetOrCreateProgress(userID int64) (*models.UserProgress, error) {
	if p, ok := f.progress[userID]; ok {
		cp := *p
		return &cp, nil
	}
	p := &models.UserProgress{UserID: userID, CurrentLevel: 1, LevelName: Levels[0].Name}
	f.progress[userID] = p
	cp := *p
	return &cp, nil
}

func (f *fakeStore) AwardXP(userID int64, amount int, activityType, description string, metadata map[string]interface{}) (int64, error) {
	if _, err := f.GetOrCreateProgress(userID); err != nil {
		return 0, err
	}
	p := f.progress[userID]
	p.TotalXP += int64(amount)
	p.CurrentXP += int64(amount)
	info := ResolveLevel(p.TotalXP)
	p.CurrentLevel = info.Current.Level
	p.LevelName = info.Current.Name
	f.activity = append(f.activity, models.ActivityLogEntry{
		UserID: userID, Type: activityType, Description: description, XPEarned: amount,
	})
	return p.TotalXP, nil
}

func (f *fakeStore) SetStreak(userID int64, streak int, lastActivity time.Time) error {
	if _, err := f.GetOrCreateProgress(userID); err != nil {
		return err
	}
	p := f.progress[userID]
	p.Streak = streak
	p.LastActivityDate = &lastActivity
	return nil
}

func (f *fakeStore) UnearnedBadges(userID int64) ([]models.BadgeDefinition, error) {
	out := []models.BadgeDefinition{}
	for id, b := range f.badges {
		if !f.earned[userID][id] {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) GetBadge(badgeID int64) (*models.BadgeDefinition, error) {
	b, ok := f.badges[badgeID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &b, nil
}

func (f *fakeStore) InsertBadgeIfAbsent(userID, badgeID int64) (bool, error) {
	if f.earned[userID] == nil {
		f.earned[userID] = map[int64]bool{}
	}
	if f.earned[userID][badgeID] {
		return false, nil
	}
	f.earned[userID][badgeID] = true
	return true, nil
}

func (f *fakeStore) UserBadges(userID int64) ([]models.UserBadge, error) {
	out := []models.UserBadge{}
	for id := range f.earned[userID] {
		b := f.badges[id]
		out = append(out, models.UserBadge{UserID: userID, BadgeID: id, Badge: &b})
	}
	return out, nil
}

func (f *fakeStore) LogActivity(userID int64, activityType, description string, xp int, metadata map[string]interface{}) error {
	f.activity = append(f.activity, models.ActivityLogEntry{
		UserID: userID, Type: activityType, Description: description, XPEarned: xp,
	})
	return nil
}

func (f *fakeStore) RecentActivity(userID int64, limit int) ([]models.ActivityLogEntry, error) {
	out := []models.ActivityLogEntry{}
	for i := len(f.activity) - 1; i >= 0 && len(out) < limit; i-- {
		if f.activity[i].UserID == userID {
			out = append(out, f.activity[i])
		}
	}
	return out, nil
}

func (f *fakeStore) Leaderboard(limit int) ([]models.LeaderboardEntry, error) {
	return []models.LeaderboardEntry{}, nil
}

func newTestService(store *fakeStore) *Service {
	return &Service{store: store, now: time.Now}
}

// ── XP awards ───────────────────────────────────────────

func TestAwardXPAdditive(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	if _, err := svc.AwardXP(1, 30, ActivityManualAward, "first", nil); err != nil {
		t.Fatalf("first award: %v", err)
	}
	result, err := svc.AwardXP(1, 45, ActivityManualAward, "second", nil)
	if err != nil {
		t.Fatalf("second award: %v", err)
	}
	if result.NewTotalXP != 75 {
		t.Errorf("total after 30+45 = %d, want 75", result.NewTotalXP)
	}
}

func TestAwardXPRejectsNonPositive(t *testing.T) {
	svc := newTestService(newFakeStore())

	for _, amount := range []int{0, -10} {
		if _, err := svc.AwardXP(1, amount, ActivityManualAward, "bad", nil); err != ErrInvalidAmount {
			t.Errorf("AwardXP(%d) error = %v, want ErrInvalidAmount", amount, err)
		}
	}
}

func TestAwardXPLevelUp(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	result, err := svc.AwardXP(1, 90, ActivityManualAward, "warmup", nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.LeveledUp {
		t.Error("90 XP should not level up from level 1")
	}

	result, err = svc.AwardXP(1, 20, ActivityManualAward, "crossing", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !result.LeveledUp {
		t.Error("crossing 100 XP should level up")
	}
	if result.OldLevel != 1 || result.NewLevel != 2 {
		t.Errorf("level transition %d→%d, want 1→2", result.OldLevel, result.NewLevel)
	}
	if result.LevelName != "Bug Hunter" {
		t.Errorf("level name = %q, want Bug Hunter", result.LevelName)
	}
}

func TestAwardXPNeverRegressesLevel(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	lastLevel := 0
	for i := 0; i < 50; i++ {
		result, err := svc.AwardXP(1, 40, ActivityManualAward, "grind", nil)
		if err != nil {
			t.Fatal(err)
		}
		if result.NewLevel < lastLevel {
			t.Fatalf("level regressed from %d to %d", lastLevel, result.NewLevel)
		}
		lastLevel = result.NewLevel
	}
}

// ── Streaks ─────────────────────────────────────────────

func TestStreakFirstActivity(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	result, err := svc.UpdateStreak(1)
	if err != nil {
		t.Fatal(err)
	}
	if result.CurrentStreak != 1 || !result.StreakUpdated || result.StreakBroken {
		t.Errorf("first activity: got %+v, want streak 1 updated", result)
	}
}

func TestStreakSameDayIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	if _, err := svc.UpdateStreak(1); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		result, err := svc.UpdateStreak(1)
		if err != nil {
			t.Fatal(err)
		}
		if result.CurrentStreak != 1 || result.StreakUpdated || result.StreakBroken {
			t.Errorf("same-day call %d: got %+v, want unchanged streak 1", i, result)
		}
	}
}

func TestStreakConsecutiveDays(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	day := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for want := 1; want <= 5; want++ {
		svc.now = func() time.Time { return day }
		result, err := svc.UpdateStreak(1)
		if err != nil {
			t.Fatal(err)
		}
		if result.CurrentStreak != want {
			t.Fatalf("day %d: streak = %d, want %d", want, result.CurrentStreak, want)
		}
		if !result.StreakUpdated {
			t.Fatalf("day %d: expected StreakUpdated", want)
		}
		day = day.Add(24 * time.Hour)
	}
}

func TestStreakBreaksAfterGap(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	day := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day }
	for i := 0; i < 4; i++ {
		if _, err := svc.UpdateStreak(1); err != nil {
			t.Fatal(err)
		}
		day = day.Add(24 * time.Hour)
		svc.now = func() time.Time { return day }
	}

	// Three idle days
	day = day.Add(72 * time.Hour)
	svc.now = func() time.Time { return day }

	result, err := svc.UpdateStreak(1)
	if err != nil {
		t.Fatal(err)
	}
	if result.CurrentStreak != 1 {
		t.Errorf("streak after gap = %d, want reset to 1", result.CurrentStreak)
	}
	if !result.StreakBroken || result.StreakUpdated {
		t.Errorf("got %+v, want StreakBroken only", result)
	}
}

// ── Badges ──────────────────────────────────────────────

func TestEvaluateBadgesAwardsOnce(t *testing.T) {
	store := newFakeStore()
	store.badges[1] = models.BadgeDefinition{
		ID: 1, Name: "First Steps",
		Requirement: models.Requirement{Type: models.RequirementXP, Value: 50},
	}
	svc := newTestService(store)

	if _, err := svc.AwardXP(1, 60, ActivityManualAward, "over the bar", nil); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.EvaluateBadges(1); err != nil {
			t.Fatal(err)
		}
	}

	badges, _ := store.UserBadges(1)
	if len(badges) != 1 {
		t.Fatalf("earned %d badges, want exactly 1", len(badges))
	}
}

func TestBadgeRewardCascade(t *testing.T) {
	store := newFakeStore()
	store.badges[1] = models.BadgeDefinition{
		ID: 1, Name: "Rising Educator", XPReward: 20,
		Requirement: models.Requirement{Type: models.RequirementXP, Value: 100},
	}
	svc := newTestService(store)

	if _, err := svc.AwardXP(1, 90, ActivityManualAward, "warmup", nil); err != nil {
		t.Fatal(err)
	}

	// Crossing 100 triggers the badge, whose reward lands on top.
	if _, err := svc.AwardXP(1, 15, ActivityManualAward, "crossing", nil); err != nil {
		t.Fatal(err)
	}

	p, _ := store.GetOrCreateProgress(1)
	if p.TotalXP != 125 {
		t.Errorf("total = %d, want 125 (90+15 plus 20 reward)", p.TotalXP)
	}
	badges, _ := store.UserBadges(1)
	if len(badges) != 1 {
		t.Fatalf("earned %d badges, want 1", len(badges))
	}

	// A later scan finds nothing new to pay.
	if _, err := svc.EvaluateBadges(1); err != nil {
		t.Fatal(err)
	}
	p, _ = store.GetOrCreateProgress(1)
	if p.TotalXP != 125 {
		t.Errorf("total after re-scan = %d, want still 125", p.TotalXP)
	}
}

func TestEvaluateBadgesSkipsActionType(t *testing.T) {
	store := newFakeStore()
	store.badges[1] = models.BadgeDefinition{
		ID: 1, Name: "Community Star",
		Requirement: models.Requirement{Type: models.RequirementAction},
	}
	svc := newTestService(store)

	if _, err := svc.AwardXP(1, 500, ActivityManualAward, "lots", nil); err != nil {
		t.Fatal(err)
	}

	badges, _ := store.UserBadges(1)
	if len(badges) != 0 {
		t.Errorf("action badge auto-awarded; scan must never touch action requirements")
	}
}

func TestAwardBadgeDirect(t *testing.T) {
	store := newFakeStore()
	store.badges[7] = models.BadgeDefinition{
		ID: 7, Name: "Community Star", XPReward: 30,
		Requirement: models.Requirement{Type: models.RequirementAction},
	}
	svc := newTestService(store)

	result, err := svc.AwardBadge(1, 7)
	if err != nil {
		t.Fatal(err)
	}
	if result.AlreadyEarned {
		t.Error("fresh award flagged AlreadyEarned")
	}
	if result.XPAwarded != 30 {
		t.Errorf("XPAwarded = %d, want 30", result.XPAwarded)
	}

	p, _ := store.GetOrCreateProgress(1)
	if p.TotalXP != 30 {
		t.Errorf("total = %d, want 30 from badge reward", p.TotalXP)
	}

	again, err := svc.AwardBadge(1, 7)
	if err != nil {
		t.Fatal(err)
	}
	if !again.AlreadyEarned {
		t.Error("repeat award not flagged AlreadyEarned")
	}
	if again.XPAwarded != 0 {
		t.Errorf("repeat award XPAwarded = %d, want 0", again.XPAwarded)
	}
	p, _ = store.GetOrCreateProgress(1)
	if p.TotalXP != 30 {
		t.Errorf("total after repeat = %d, want unchanged 30", p.TotalXP)
	}
}

func TestAwardBadgeUnknown(t *testing.T) {
	svc := newTestService(newFakeStore())
	if _, err := svc.AwardBadge(1, 999); err == nil {
		t.Fatal("expected error for unknown badge")
	}
}

func TestStreakBadgeAwardedOnStreakMove(t *testing.T) {
	store := newFakeStore()
	store.badges[1] = models.BadgeDefinition{
		ID: 1, Name: "Consistent",
		Requirement: models.Requirement{Type: models.RequirementStreak, Value: 3},
	}
	svc := newTestService(store)

	day := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		svc.now = func() time.Time { return day }
		if _, err := svc.UpdateStreak(1); err != nil {
			t.Fatal(err)
		}
		day = day.Add(24 * time.Hour)
	}

	badges, _ := store.UserBadges(1)
	if len(badges) != 1 {
		t.Fatalf("streak badge not awarded after 3-day streak (got %d badges)", len(badges))
	}
}
