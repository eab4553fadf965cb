// Package identity resolves raw upstream player records into canonical
// identities. Upstream platform linkage is inconsistent: GOG players may be
// tagged with a real platform field, a "[GOG]" marker inside another
// platform's user id, or nothing at all.
package identity

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/fits-community/fits-tracker/internal/models"
	"github.com/fits-community/fits-tracker/internal/playfab"
)

const gogMarker = "[gog]"

// Identity is the canonical (platform, platform_user_id, display_name) tuple
// for a player. Any field may be nil; absence of data is not a failure.
type Identity struct {
	DisplayName    *string
	Platform       *string
	PlatformUserID *string
}

// Resolve produces a canonical identity for one leaderboard entry.
// Precedence, first match wins:
//  1. a linked account whose platform tag equals "GOG" (case-insensitive)
//  2. a linked account whose user id carries a "[GOG]" marker
//  3. the first linked account, verbatim (marker stripped if present)
//  4. no platform at all
func Resolve(entry playfab.Entry) Identity {
	id := Identity{DisplayName: resolveDisplayName(entry)}

	var accounts []playfab.LinkedAccount
	if entry.Profile != nil {
		accounts = entry.Profile.LinkedAccount
	}

	for _, acc := range accounts {
		if strings.EqualFold(acc.Platform, models.PlatformGOG) {
			id.Platform = strPtr(models.PlatformGOG)
			id.PlatformUserID = Sanitize(acc.PlatformUserID)
			return id
		}
	}

	for _, acc := range accounts {
		if hasGOGMarker(acc.PlatformUserID) {
			id.Platform = strPtr(models.PlatformGOG)
			id.PlatformUserID = Sanitize(stripGOGMarker(acc.PlatformUserID))
			return id
		}
	}

	if len(accounts) > 0 {
		first := accounts[0]
		id.Platform = Sanitize(first.Platform)
		id.PlatformUserID = Sanitize(first.PlatformUserID)
		return id
	}

	return id
}

// resolveDisplayName prefers the entry-level display name, falls back to the
// profile-level one, else nil.
func resolveDisplayName(entry playfab.Entry) *string {
	if name := Sanitize(entry.DisplayName); name != nil {
		return name
	}
	if entry.Profile != nil {
		return Sanitize(entry.Profile.DisplayName)
	}
	return nil
}

// markerAt reports whether an ASCII case-insensitive "[GOG]" marker starts at
// byte offset i. Matching works on s itself: case mapping can change byte
// lengths, so offsets found in a lowered copy do not transfer back.
func markerAt(s string, i int) bool {
	return i+len(gogMarker) <= len(s) && strings.EqualFold(s[i:i+len(gogMarker)], gogMarker)
}

func hasGOGMarker(s string) bool {
	for i := 0; i+len(gogMarker) <= len(s); i++ {
		if markerAt(s, i) {
			return true
		}
	}
	return false
}

// stripGOGMarker removes every "[GOG]" marker regardless of case and trims
// the surrounding whitespace the marker usually drags along.
func stripGOGMarker(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		if markerAt(s, i) {
			i += len(gogMarker)
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		b.WriteString(s[i : i+size])
		i += size
	}
	return strings.TrimSpace(b.String())
}

// Sanitize normalizes raw upstream text: trim surrounding whitespace, strip
// C0 control characters and DEL, apply NFKC, collapse an empty result to nil.
func Sanitize(s string) *string {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	s = norm.NFKC.String(s)
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func strPtr(s string) *string {
	return &s
}
