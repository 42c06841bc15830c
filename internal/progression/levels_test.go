package progression

import "testing"

func TestLevelTableOrdering(t *testing.T) {
	if Levels[0].MinXP != 0 {
		t.Fatalf("first level must start at 0 XP, got %d", Levels[0].MinXP)
	}
	for i := 1; i < len(Levels); i++ {
		if Levels[i].MinXP <= Levels[i-1].MinXP {
			t.Errorf("level %d threshold %d not above level %d threshold %d",
				Levels[i].Level, Levels[i].MinXP, Levels[i-1].Level, Levels[i-1].MinXP)
		}
		if Levels[i].Level != Levels[i-1].Level+1 {
			t.Errorf("level numbers not consecutive at index %d", i)
		}
	}
}

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		name      string
		totalXP   int64
		wantLevel int
		wantName  string
	}{
		{"zero xp", 0, 1, "Code Cadet"},
		{"just below level 2", 99, 1, "Code Cadet"},
		{"exactly level 2", 100, 2, "Bug Hunter"},
		{"mid level 2", 224, 2, "Bug Hunter"},
		{"exactly level 3", 225, 3, "Digital Creator"},
		{"negative clamps to zero", -50, 1, "Code Cadet"},
		{"far past top level", 1_000_000, 8, "Tech Visionary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ResolveLevel(tt.totalXP)
			if info.Current.Level != tt.wantLevel {
				t.Errorf("ResolveLevel(%d).Current.Level = %d, want %d", tt.totalXP, info.Current.Level, tt.wantLevel)
			}
			if info.Current.Name != tt.wantName {
				t.Errorf("ResolveLevel(%d).Current.Name = %q, want %q", tt.totalXP, info.Current.Name, tt.wantName)
			}
		})
	}
}

func TestResolveLevelMonotonic(t *testing.T) {
	prev := 0
	for xp := int64(0); xp <= 2500; xp += 5 {
		level := ResolveLevel(xp).Current.Level
		if level < prev {
			t.Fatalf("level regressed from %d to %d at %d XP", prev, level, xp)
		}
		prev = level
	}
}

func TestResolveLevelNext(t *testing.T) {
	info := ResolveLevel(150)
	if info.Next == nil {
		t.Fatal("expected a next level at 150 XP")
	}
	if info.Next.Level != 3 {
		t.Errorf("next level = %d, want 3", info.Next.Level)
	}
	// 150 is 50 into the 100..225 band of 125: 40%.
	if info.ProgressToNextPercent != 40 {
		t.Errorf("progress percent = %d, want 40", info.ProgressToNextPercent)
	}

	top := ResolveLevel(Levels[len(Levels)-1].MinXP)
	if top.Next != nil {
		t.Error("terminal level should have no next level")
	}
	if top.ProgressToNextPercent != 0 {
		t.Errorf("terminal progress percent = %d, want 0", top.ProgressToNextPercent)
	}
}
