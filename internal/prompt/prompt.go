// Package prompt turns a user instruction and tenant branding into the text
// sent to the generative model.
package prompt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sitepilot/engine/internal/models"
	appErr "github.com/sitepilot/engine/pkg/errors"
)

// Branding is the view of a tenant's identity the composer reads.
type Branding struct {
	CompanyName        string
	CompanyDescription string
	Logo               string
	Favicon            string
	PrimaryColor       string
	SecondaryColor     string
	AccentColor        string
	BackgroundColor    string
	TextColor          string
	FontHeading        string
	FontBody           string
	Services           []Service
	Images             []Image
}

type Service struct {
	Name        string
	Description string
	Price       float64
}

type Image struct {
	URL string
	Alt string
}

// FromModel builds the composer view of a stored branding record.
func FromModel(b *models.Branding) Branding {
	out := Branding{
		CompanyName:        b.CompanyName,
		CompanyDescription: b.CompanyDescription,
		Logo:               b.Logo,
		Favicon:            b.Favicon,
		PrimaryColor:       b.PrimaryColor,
		SecondaryColor:     b.SecondaryColor,
		AccentColor:        b.AccentColor,
		BackgroundColor:    b.BackgroundColor,
		TextColor:          b.TextColor,
		FontHeading:        b.FontHeading,
		FontBody:           b.FontBody,
	}
	for _, s := range b.Services {
		out.Services = append(out.Services, Service{Name: s.Name, Description: s.Description, Price: s.Price})
	}
	for _, img := range b.Images {
		out.Images = append(out.Images, Image{URL: img.URL, Alt: img.Alt})
	}
	return out
}

var designSystemMarkers = regexp.MustCompile(`(?i)DESIGN SYSTEM:|PROFESSIONAL|GLASSMORPHISM|NEO-BRUTALISM|COMPONENT SPECIFICATIONS`)

// HasDesignSystem reports whether the instruction already carries a full design
// system, in which case it is authoritative for styling.
func HasDesignSystem(instruction string) bool {
	return designSystemMarkers.MatchString(instruction)
}

// Composer builds generation prompts. IsStructured selects the strict template;
// nil means HasDesignSystem.
type Composer struct {
	IsStructured func(instruction string) bool
}

func NewComposer() *Composer {
	return &Composer{IsStructured: HasDesignSystem}
}

// Compose renders the prompt. It is pure: equal inputs give equal output.
func (c *Composer) Compose(instruction string, b Branding, previousHTML string) (string, error) {
	if strings.TrimSpace(instruction) == "" {
		return "", appErr.Invalid("prompt is required")
	}

	structured := HasDesignSystem
	if c != nil && c.IsStructured != nil {
		structured = c.IsStructured
	}

	data := templateData{
		Instruction:        instruction,
		CompanyName:        or(b.CompanyName, models.DefaultCompanyName),
		CompanyDescription: b.CompanyDescription,
		Logo:               or(b.Logo, "(none)"),
		Favicon:            or(b.Favicon, "(none)"),
		PrimaryColor:       or(b.PrimaryColor, models.DefaultPrimaryColor),
		SecondaryColor:     or(b.SecondaryColor, models.DefaultSecondaryColor),
		AccentColor:        or(b.AccentColor, models.DefaultAccentColor),
		BackgroundColor:    or(b.BackgroundColor, models.DefaultBackground),
		TextColor:          or(b.TextColor, models.DefaultTextColor),
		FontHeading:        or(b.FontHeading, models.DefaultFontHeading),
		FontBody:           or(b.FontBody, models.DefaultFontBody),
		Services:           servicesBlock(b.Services),
		Images:             imagesBlock(b.Images),
		Previous:           previousBlock(previousHTML),
	}

	tmpl := guidedTemplate
	if structured(instruction) {
		tmpl = strictTemplate
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", appErr.Wrap(err, appErr.CodeInternal, "render prompt failed")
	}
	return sb.String(), nil
}

type templateData struct {
	Instruction        string
	CompanyName        string
	CompanyDescription string
	Logo               string
	Favicon            string
	PrimaryColor       string
	SecondaryColor     string
	AccentColor        string
	BackgroundColor    string
	TextColor          string
	FontHeading        string
	FontBody           string
	Services           string
	Images             string
	Previous           string
}

func servicesBlock(services []Service) string {
	if len(services) == 0 {
		return "  (No services defined yet)"
	}
	lines := make([]string, 0, len(services))
	for i, s := range services {
		lines = append(lines, fmt.Sprintf("  %d. %s — %s | Price: $%s",
			i+1, s.Name, or(s.Description, "No description"), strconv.FormatFloat(s.Price, 'f', -1, 64)))
	}
	return strings.Join(lines, "\n")
}

func imagesBlock(images []Image) string {
	if len(images) == 0 {
		return "  (No images uploaded yet)"
	}
	lines := make([]string, 0, len(images))
	for i, img := range images {
		lines = append(lines, fmt.Sprintf("  Image %d: %s  (alt: \"%s\")", i+1, img.URL, or(img.Alt, "image")))
	}
	return strings.Join(lines, "\n")
}

func previousBlock(html string) string {
	if html == "" {
		return ""
	}
	return "\n═══ PREVIOUS VERSION (for styling reference) ═══\n" +
		"Use this as a reference to maintain design consistency, color scheme, typography, and layout patterns:\n" +
		"```html\n" + html + "\n```\n" +
		"(Full previous version provided above)\n\n"
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
