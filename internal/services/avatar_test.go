package services

import (
	"image/color"
	"strings"
	"testing"

	types "github.com/wanderly/wanderly-backend/internal/domain"
)

func TestNormalizeHex(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase normalized", "#a1b2c3", "#A1B2C3"},
		{"missing hash added", "A1B2C3", "#A1B2C3"},
		{"surrounding space trimmed", "  #A1B2C3 ", "#A1B2C3"},
		{"empty rejected", "", ""},
		{"short form rejected", "#FFF", ""},
		{"non-hex rejected", "#GGGGGG", ""},
		{"too long rejected", "#A1B2C3D4", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizeHex(tc.in); got != tc.want {
				t.Fatalf("normalizeHex(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func newTestAvatarService() *avatarService {
	colorByHex := make(map[string]color.NRGBA, len(defaultAvatarColors))
	for _, c := range defaultAvatarColors {
		colorByHex[strings.ToUpper(nrgbaToHex(c))] = c
	}
	return &avatarService{bgColors: defaultAvatarColors, colorByHex: colorByHex}
}

func TestEnsureUserAvatarColorKeepsChosenHex(t *testing.T) {
	as := newTestAvatarService()

	user := &types.User{AvatarColor: "#0d1e2f"}
	as.ensureUserAvatarColor(user)
	if user.AvatarColor != "#0D1E2F" {
		t.Fatalf("chosen color replaced: got %q", user.AvatarColor)
	}

	user = &types.User{AvatarColor: "not-a-color"}
	as.ensureUserAvatarColor(user)
	if normalizeHex(user.AvatarColor) == "" {
		t.Fatalf("malformed input must be replaced with a valid color, got %q", user.AvatarColor)
	}
}

func TestPickColorHonorsArbitraryHex(t *testing.T) {
	as := newTestAvatarService()

	got := as.pickColor("#0D1E2F")
	want := color.NRGBA{R: 0x0D, G: 0x1E, B: 0x2F, A: 0xFF}
	if got != want {
		t.Fatalf("pickColor(#0D1E2F) = %+v, want %+v", got, want)
	}

	palette := as.pickColor(nrgbaToHex(defaultAvatarColors[0]))
	if palette != defaultAvatarColors[0] {
		t.Fatalf("palette hex must map to the palette color, got %+v", palette)
	}
}
