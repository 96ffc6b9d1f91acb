package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+6281234567890", "+6281234567890"},
		{"6281234567890", "+6281234567890"},
		{"081234567890", "+6281234567890"},
		{"", ""},
		{"not a number", "not a number"},
	}

	for _, tt := range tests {
		if got := NormalizeE164(tt.in); got != tt.want {
			t.Fatalf("NormalizeE164(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBareNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"6281234567890@s.whatsapp.net", "6281234567890"},
		{"6281234567890:12@s.whatsapp.net", "6281234567890"},
		{"123456-7890@g.us", "123456-7890"},
		{"6281234567890", "6281234567890"},
	}

	for _, tt := range tests {
		if got := BareNumber(tt.in); got != tt.want {
			t.Fatalf("BareNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSameNumber(t *testing.T) {
	admin := "+6281234567890"

	if !SameNumber("6281234567890@s.whatsapp.net", admin) {
		t.Fatal("JID of the admin number must match")
	}
	if !SameNumber("6281234567890:3@s.whatsapp.net", admin) {
		t.Fatal("device-suffixed JID of the admin number must match")
	}
	if SameNumber("6289876543210@s.whatsapp.net", admin) {
		t.Fatal("different number must not match")
	}

	// A number merely containing the admin number as a substring is a
	// different number and must be rejected.
	if SameNumber("116281234567890@s.whatsapp.net", admin) {
		t.Fatal("substring containment must not be treated as a match")
	}

	if SameNumber("", admin) {
		t.Fatal("empty identifier must not match")
	}
}

func TestUserJID(t *testing.T) {
	if got := UserJID("+6281234567890"); got != "6281234567890@s.whatsapp.net" {
		t.Fatalf("UserJID = %q", got)
	}
	if got := UserJID("081234567890"); got != "6281234567890@s.whatsapp.net" {
		t.Fatalf("UserJID from national format = %q", got)
	}
}

func TestIsGroupJID(t *testing.T) {
	if !IsGroupJID("123456-7890@g.us") {
		t.Fatal("group JID not recognized")
	}
	if IsGroupJID("6281234567890@s.whatsapp.net") {
		t.Fatal("user JID misclassified as group")
	}
}
