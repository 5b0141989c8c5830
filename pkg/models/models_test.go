package models

import "testing"

func TestSanitizeProfile(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  RiskProfile
	}{
		{
			name:  "valid full profile",
			input: `{"privacy": 50, "autoRenewals": 60, "arbitration": 10}`,
			want:  RiskProfile{Privacy: 50, AutoRenewals: 60, Arbitration: 10},
		},
		{
			name:  "clamped and defaulted",
			input: `{"privacy": 150, "autoRenewals": -5, "arbitration": "abc"}`,
			want:  RiskProfile{Privacy: 100, AutoRenewals: 0, Arbitration: 20},
		},
		{
			name:  "partial profile",
			input: `{"privacy": 10}`,
			want:  RiskProfile{Privacy: 10, AutoRenewals: 30, Arbitration: 20},
		},
		{
			name:  "empty object",
			input: `{}`,
			want:  DefaultProfile(),
		},
		{
			name:  "not an object",
			input: `"nonsense"`,
			want:  DefaultProfile(),
		},
		{
			name:  "empty input",
			input: ``,
			want:  DefaultProfile(),
		},
		{
			name:  "fractional values round",
			input: `{"privacy": 49.5, "autoRenewals": 20.4}`,
			want:  RiskProfile{Privacy: 50, AutoRenewals: 20, Arbitration: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeProfile([]byte(tt.input))
			if got != tt.want {
				t.Errorf("SanitizeProfile() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDefaultProfile(t *testing.T) {
	d := DefaultProfile()
	if d.Privacy != 70 || d.AutoRenewals != 30 || d.Arbitration != 20 {
		t.Errorf("DefaultProfile() = %+v, want {70 30 20}", d)
	}
}

func TestValidTag(t *testing.T) {
	valid := []ClauseTag{
		TagPrivacyData, TagAutoRenewal, TagArbitration, TagUnilateralChanges,
		TagTermination, TagLiability, TagPayment, TagJurisdiction, TagOther,
	}
	for _, tag := range valid {
		if !ValidTag(tag) {
			t.Errorf("ValidTag(%s) = false, want true", tag)
		}
	}
	for _, tag := range []ClauseTag{"", "mystery", "PRIVACY_DATA"} {
		if ValidTag(tag) {
			t.Errorf("ValidTag(%s) = true, want false", tag)
		}
	}
}

func TestGenerateAnalysisID(t *testing.T) {
	a := GenerateAnalysisID("user1", "https://example.com/terms")
	b := GenerateAnalysisID("user1", "https://example.com/terms")
	c := GenerateAnalysisID("user2", "https://example.com/terms")

	if a != b {
		t.Error("ID should be deterministic")
	}
	if a == c {
		t.Error("different identities should produce different IDs")
	}
	if len(a) != 16 {
		t.Errorf("ID length = %d, want 16", len(a))
	}
}
