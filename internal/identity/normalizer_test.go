package identity

import (
	"testing"

	"github.com/fits-community/fits-tracker/internal/playfab"
)

func TestResolve_PlatformPrecedence(t *testing.T) {
	tests := []struct {
		name         string
		entry        playfab.Entry
		wantPlatform *string
		wantUserID   *string
	}{
		{
			name: "explicit GOG platform tag wins",
			entry: entryWithAccounts(
				playfab.LinkedAccount{Platform: "Steam", PlatformUserID: "765611"},
				playfab.LinkedAccount{Platform: "gog", PlatformUserID: "12345"},
			),
			wantPlatform: strp("GOG"),
			wantUserID:   strp("12345"),
		},
		{
			name: "GOG marker in user id beats first-account fallback",
			entry: entryWithAccounts(
				playfab.LinkedAccount{Platform: "Custom", PlatformUserID: "[GOG]12345"},
				playfab.LinkedAccount{Platform: "PSN", PlatformUserID: "99"},
			),
			wantPlatform: strp("GOG"),
			wantUserID:   strp("12345"),
		},
		{
			name: "marker is case-insensitive and whitespace trimmed",
			entry: entryWithAccounts(
				playfab.LinkedAccount{Platform: "Custom", PlatformUserID: " [gog] 98765 "},
			),
			wantPlatform: strp("GOG"),
			wantUserID:   strp("98765"),
		},
		{
			// Lowercasing Ⱥ grows it from 2 bytes to 3; offsets must not be
			// computed against a lowered copy.
			name: "marker after runes that grow under case mapping",
			entry: entryWithAccounts(
				playfab.LinkedAccount{Platform: "Custom", PlatformUserID: "ȺȺȺ[GOG]42"},
			),
			wantPlatform: strp("GOG"),
			wantUserID:   strp("ȺȺȺ42"),
		},
		{
			// Kelvin sign shrinks from 3 bytes to 1 when lowered; NFKC folds
			// it to a plain K afterwards.
			name: "marker after runes that shrink under case mapping",
			entry: entryWithAccounts(
				playfab.LinkedAccount{Platform: "Custom", PlatformUserID: "K[gog]7"},
			),
			wantPlatform: strp("GOG"),
			wantUserID:   strp("K7"),
		},
		{
			name: "mixed-case marker between two markers",
			entry: entryWithAccounts(
				playfab.LinkedAccount{Platform: "Custom", PlatformUserID: "[GoG]12[gOg]3"},
			),
			wantPlatform: strp("GOG"),
			wantUserID:   strp("123"),
		},
		{
			name: "first account verbatim when no GOG signal",
			entry: entryWithAccounts(
				playfab.LinkedAccount{Platform: "Steam", PlatformUserID: "765611"},
				playfab.LinkedAccount{Platform: "PSN", PlatformUserID: "99"},
			),
			wantPlatform: strp("Steam"),
			wantUserID:   strp("765611"),
		},
		{
			name: "GOG tag with empty user id keeps platform, nil id",
			entry: entryWithAccounts(
				playfab.LinkedAccount{Platform: "GOG", PlatformUserID: ""},
			),
			wantPlatform: strp("GOG"),
			wantUserID:   nil,
		},
		{
			name:         "no linked accounts at all",
			entry:        playfab.Entry{PlayFabID: "ABC", DisplayName: "someone"},
			wantPlatform: nil,
			wantUserID:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.entry)
			assertPtrEqual(t, "platform", got.Platform, tt.wantPlatform)
			assertPtrEqual(t, "platform_user_id", got.PlatformUserID, tt.wantUserID)
		})
	}
}

func TestResolve_DisplayName(t *testing.T) {
	entry := playfab.Entry{
		PlayFabID: "ABC",
		Profile:   &playfab.PlayerProfile{DisplayName: "ProfileName"},
	}
	if got := Resolve(entry); got.DisplayName == nil || *got.DisplayName != "ProfileName" {
		t.Errorf("expected profile display name fallback, got %v", got.DisplayName)
	}

	entry.DisplayName = "EntryName"
	if got := Resolve(entry); got.DisplayName == nil || *got.DisplayName != "EntryName" {
		t.Errorf("expected entry display name to win, got %v", got.DisplayName)
	}

	if got := Resolve(playfab.Entry{PlayFabID: "ABC"}); got.DisplayName != nil {
		t.Errorf("expected nil display name, got %q", *got.DisplayName)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *string
	}{
		{"control characters stripped and trimmed", "  Bad\x07Name\x00 ", strp("BadName")},
		{"plain name untouched", "Fighter", strp("Fighter")},
		{"whitespace only collapses to nil", "   \t ", nil},
		{"empty collapses to nil", "", nil},
		{"DEL stripped", "a\x7fb", strp("ab")},
		{"NFKC compatibility form", "ﬁght", strp("fight")}, // fi ligature
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			assertPtrEqual(t, "sanitized", got, tt.want)
		})
	}
}

func entryWithAccounts(accounts ...playfab.LinkedAccount) playfab.Entry {
	return playfab.Entry{
		PlayFabID:   "ABC123",
		DisplayName: "someone",
		Profile:     &playfab.PlayerProfile{LinkedAccount: accounts},
	}
}

func assertPtrEqual(t *testing.T, field string, got, want *string) {
	t.Helper()
	switch {
	case want == nil && got != nil:
		t.Errorf("%s: expected nil, got %q", field, *got)
	case want != nil && got == nil:
		t.Errorf("%s: expected %q, got nil", field, *want)
	case want != nil && got != nil && *want != *got:
		t.Errorf("%s: expected %q, got %q", field, *want, *got)
	}
}

func strp(s string) *string {
	return &s
}
