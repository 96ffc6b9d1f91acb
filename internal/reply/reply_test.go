package reply

import "testing"

func TestRupiah(t *testing.T) {
	tests := []struct {
		amount int
		want   string
	}{
		{0, "Rp0"},
		{100, "Rp100"},
		{1000, "Rp1.000"},
		{30000, "Rp30.000"},
		{50000, "Rp50.000"},
		{150000, "Rp150.000"},
		{1000000, "Rp1.000.000"},
	}

	for _, tt := range tests {
		if got := Rupiah(tt.amount); got != tt.want {
			t.Fatalf("Rupiah(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestMentionTag(t *testing.T) {
	if got := MentionTag("628123456789@s.whatsapp.net"); got != "@628123456789" {
		t.Fatalf("MentionTag = %q", got)
	}
	if got := MentionTag("628123456789:12@s.whatsapp.net"); got != "@628123456789" {
		t.Fatalf("MentionTag with device part = %q", got)
	}
}
