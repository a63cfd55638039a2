package streak

import "testing"

func TestMilestoneFor(t *testing.T) {
	tests := []struct {
		streak   int
		want     bool
		wantName string
	}{
		{streak: 0, want: false},
		{streak: 1, want: false},
		{streak: 6, want: false},
		{streak: 7, want: true, wantName: "One Week"},
		{streak: 8, want: false},
		{streak: 14, want: true, wantName: "Two Weeks"},
		{streak: 30, want: true, wantName: "One Month"},
		{streak: 66, want: true, wantName: "Habit Formed"},
		{streak: 100, want: true, wantName: "Century"},
		{streak: 180, want: true, wantName: "Half Year"},
		{streak: 365, want: true, wantName: "One Year"},
		{streak: 366, want: false},
		{streak: 730, want: true, wantName: "Two Years"},
		{streak: 1095, want: true, wantName: "Three Years"},
		{streak: 1460, want: true, wantName: "Year After Year"},
	}

	for _, tt := range tests {
		got := MilestoneFor(tt.streak)
		if (got != nil) != tt.want {
			t.Errorf("MilestoneFor(%d) = %v, want milestone=%v", tt.streak, got, tt.want)
			continue
		}
		if got != nil && got.Name != tt.wantName {
			t.Errorf("MilestoneFor(%d).Name = %q, want %q", tt.streak, got.Name, tt.wantName)
		}
	}
}

func TestNextMilestone(t *testing.T) {
	tests := []struct {
		streak int
		want   int
	}{
		{streak: 0, want: 7},
		{streak: 6, want: 7},
		{streak: 7, want: 14},
		{streak: 20, want: 30},
		{streak: 364, want: 365},
		{streak: 365, want: 730},
		{streak: 400, want: 730},
		{streak: 730, want: 1095},
	}

	for _, tt := range tests {
		if got := NextMilestone(tt.streak); got.Days != tt.want {
			t.Errorf("NextMilestone(%d) = %d, want %d", tt.streak, got.Days, tt.want)
		}
	}
}

func TestPrevMilestone(t *testing.T) {
	tests := []struct {
		streak int
		want   int
	}{
		{streak: 0, want: 0},
		{streak: 6, want: 0},
		{streak: 7, want: 7},
		{streak: 13, want: 7},
		{streak: 365, want: 365},
		{streak: 400, want: 365},
		{streak: 731, want: 730},
	}

	for _, tt := range tests {
		if got := PrevMilestone(tt.streak); got != tt.want {
			t.Errorf("PrevMilestone(%d) = %d, want %d", tt.streak, got, tt.want)
		}
	}
}

func TestLadderIsStrictlyIncreasing(t *testing.T) {
	for i := 1; i < len(ladder); i++ {
		if ladder[i].Days <= ladder[i-1].Days {
			t.Fatalf("ladder not strictly increasing at index %d: %d then %d",
				i, ladder[i-1].Days, ladder[i].Days)
		}
	}
}
