package validation

import "testing"

func TestValidateQualityRating(t *testing.T) {
	tests := []struct {
		name    string
		rating  int
		wantErr bool
	}{
		{name: "zero means unset", rating: 0, wantErr: false},
		{name: "minimum", rating: 1, wantErr: false},
		{name: "maximum", rating: 5, wantErr: false},
		{name: "too high", rating: 6, wantErr: true},
		{name: "negative", rating: -1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateQualityRating(tt.rating); (err != nil) != tt.wantErr {
				t.Errorf("ValidateQualityRating(%d) error = %v, wantErr %v", tt.rating, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDurationMinutes(t *testing.T) {
	tests := []struct {
		name    string
		minutes int
		wantErr bool
	}{
		{name: "zero", minutes: 0, wantErr: false},
		{name: "typical", minutes: 45, wantErr: false},
		{name: "full day", minutes: 1440, wantErr: false},
		{name: "over a day", minutes: 1441, wantErr: true},
		{name: "negative", minutes: -5, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateDurationMinutes(tt.minutes); (err != nil) != tt.wantErr {
				t.Errorf("ValidateDurationMinutes(%d) error = %v, wantErr %v", tt.minutes, err, tt.wantErr)
			}
		})
	}
}

func TestValidateHabitName(t *testing.T) {
	tests := []struct {
		name    string
		habit   string
		wantErr bool
	}{
		{name: "normal", habit: "meditate", wantErr: false},
		{name: "empty", habit: "", wantErr: true},
		{name: "whitespace only", habit: "   ", wantErr: true},
		{name: "too long", habit: string(make([]byte, 101)), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateHabitName(tt.habit); (err != nil) != tt.wantErr {
				t.Errorf("ValidateHabitName(%q) error = %v, wantErr %v", tt.habit, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDate(t *testing.T) {
	if err := ValidateDate("2026-04-10"); err != nil {
		t.Errorf("valid date rejected: %v", err)
	}
	if err := ValidateDate("04/10/2026"); err == nil {
		t.Error("invalid date accepted")
	}
}

func TestValidateTimezone(t *testing.T) {
	for _, tz := range []string{"", "Local", "UTC", "America/New_York"} {
		if err := ValidateTimezone(tz); err != nil {
			t.Errorf("valid timezone %q rejected: %v", tz, err)
		}
	}
	if err := ValidateTimezone("Nowhere/Land"); err == nil {
		t.Error("invalid timezone accepted")
	}
}
