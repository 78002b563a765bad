package game

import "testing"

func TestTimeBonus(t *testing.T) {
	cases := []struct {
		name     string
		left     int
		duration int
		want     float64
	}{
		{"full time left", 20, 20, 1},
		{"three quarters left", 15, 20, 0.75},
		{"no time left", 0, 20, 0},
		{"negative clamps to zero", -5, 20, 0},
		{"over duration clamps to one", 30, 20, 1},
		{"zero duration", 10, 0, 0},
		{"negative duration", 10, -1, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TimeBonus(tc.left, tc.duration); got != tc.want {
				t.Fatalf("TimeBonus(%d, %d) = %v, want %v", tc.left, tc.duration, got, tc.want)
			}
		})
	}
}

func TestPointsEarned(t *testing.T) {
	if got := PointsEarned(true, 15, 20); got != 1.75 {
		t.Fatalf("correct answer with 15s of 20s left = %v, want 1.75", got)
	}
	if got := PointsEarned(true, 20, 20); got != 2 {
		t.Fatalf("instant correct answer = %v, want 2", got)
	}
	if got := PointsEarned(true, 0, 20); got != 1 {
		t.Fatalf("last-moment correct answer = %v, want 1", got)
	}
	if got := PointsEarned(false, 20, 20); got != 0 {
		t.Fatalf("wrong answer = %v, want 0", got)
	}
}
