package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErr "github.com/sitepilot/engine/pkg/errors"
)

func acme() Branding {
	return Branding{
		CompanyName:  "Acme",
		PrimaryColor: "#ff0000",
		Services: []Service{
			{Name: "Design", Description: "Logos and more", Price: 99},
			{Name: "Hosting", Price: 12.5},
		},
		Images: []Image{
			{URL: "https://cdn.acme.test/hero.png", Alt: "hero"},
			{URL: "https://cdn.acme.test/team.png"},
		},
	}
}

func TestComposeRejectsBlankInstruction(t *testing.T) {
	c := NewComposer()
	for _, in := range []string{"", "   ", "\n\t"} {
		_, err := c.Compose(in, acme(), "")
		require.Error(t, err)
		assert.True(t, appErr.IsCode(err, appErr.CodeInvalid))
	}
}

func TestComposeGuidedTemplate(t *testing.T) {
	out, err := NewComposer().Compose("Build a landing page", acme(), "")
	require.NoError(t, err)

	assert.Contains(t, out, "═══ BRAND IDENTITY ═══")
	assert.Contains(t, out, "Company Name        : Acme")
	assert.Contains(t, out, "  Primary Color       : #ff0000")
	assert.Contains(t, out, "  Secondary Color     : #6d28d9")
	assert.Contains(t, out, "  Heading Font        : Outfit")
	assert.Contains(t, out, "Logo URL            : (none)")
	assert.Contains(t, out, "Favicon URL         : (none)")
	assert.Contains(t, out, "  1. Design — Logos and more | Price: $99")
	assert.Contains(t, out, "  2. Hosting — No description | Price: $12.5")
	assert.Contains(t, out, `  Image 1: https://cdn.acme.test/hero.png  (alt: "hero")`)
	assert.Contains(t, out, `  Image 2: https://cdn.acme.test/team.png  (alt: "image")`)
	assert.NotContains(t, out, "PREVIOUS VERSION")
	assert.True(t, strings.HasSuffix(out, "═══ USER REQUEST ═══\nBuild a landing page"))
}

func TestComposeStrictTemplate(t *testing.T) {
	instruction := "DESIGN SYSTEM: glassmorphism cards, neon accents"
	out, err := NewComposer().Compose(instruction, Branding{}, "")
	require.NoError(t, err)

	assert.Contains(t, out, "═══ BRAND ASSETS ═══")
	assert.Contains(t, out, "═══ CRITICAL RULES (always apply) ═══")
	assert.NotContains(t, out, "Primary Color")
	assert.Contains(t, out, "Company Name        : My Company")
	assert.Contains(t, out, "  (No services defined yet)")
	assert.Contains(t, out, "  (No images uploaded yet)")
	assert.True(t, strings.HasSuffix(out, "═══ USER'S DESIGN & CONTENT REQUEST ═══\n"+instruction))
}

func TestHasDesignSystem(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Build a landing page", false},
		{"design system: minimal", true},
		{"make it look professional", true},
		{"Neo-Brutalism please", true},
		{"Glassmorphism hero", true},
		{"COMPONENT SPECIFICATIONS follow", true},
		{"design system without colon", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HasDesignSystem(tt.in), tt.in)
	}
}

func TestComposeEmbedsPreviousHTMLVerbatim(t *testing.T) {
	prev := "<html>\n  <body>A</body>\n</html>"
	for _, instruction := range []string{"Change header color", "PROFESSIONAL redesign"} {
		out, err := NewComposer().Compose(instruction, acme(), prev)
		require.NoError(t, err)
		assert.Contains(t, out, "═══ PREVIOUS VERSION (for styling reference) ═══")
		assert.Contains(t, out, "```html\n"+prev+"\n```\n(Full previous version provided above)")
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	c := NewComposer()
	a, err := c.Compose("Build", acme(), "<html/>")
	require.NoError(t, err)
	b, err := c.Compose("Build", acme(), "<html/>")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestComposeCustomPredicate(t *testing.T) {
	c := &Composer{IsStructured: func(s string) bool { return strings.HasPrefix(s, "!") }}

	out, err := c.Compose("!exact layout", acme(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "═══ BRAND ASSETS ═══")

	out, err = c.Compose("PROFESSIONAL look", acme(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "═══ BRAND IDENTITY ═══")
}
