package profile

import (
	"strings"

	"github.com/openavatar/openavatar/internal/account"
	"github.com/openavatar/openavatar/internal/tui/theme"
)

// CardOptions controls what Card shows.
type CardOptions struct {
	// Shared marks a profile that belongs to someone else.
	Shared bool
	// ShareLink is shown on your own profile.
	ShareLink string
	// ShowPrompts lists suggestions for empty sections on your own profile.
	ShowPrompts bool
	Width       int
}

// Card renders p as a stack of sections.
func Card(p *account.Profile, o CardOptions) string {
	s := theme.Current().S()
	width := max(o.Width, 20)

	header := s.Title.Render(p.DisplayName())
	if o.Shared {
		header += "  " + s.Badge.Render("Shared to You")
	}
	sections := []string{header}
	if sub := p.Subtitle(); sub != "" {
		sections[0] += "\n" + s.Subtitle.Render(sub)
	}
	if p.Pronunciation != "" {
		sections[0] += "\n" + s.Muted.Render("Pronounced "+p.Pronunciation)
	}

	if p.Bio != "" {
		sections = append(sections, section("About", renderMarkdown(p.Bio, width)))
	}

	var contact []string
	for _, e := range p.Emails {
		contact = append(contact, s.Label.Render("Email  ")+s.Text.Render(e))
	}
	for _, n := range p.PhoneNumbers {
		contact = append(contact, s.Label.Render("Phone  ")+s.Text.Render(n))
	}
	if len(contact) > 0 {
		sections = append(sections, section("Contact", strings.Join(contact, "\n")))
	}

	if len(p.SocialAccounts) > 0 {
		var social []string
		for _, link := range p.SocialAccounts {
			if name, known := account.SocialPlatform(link); known {
				social = append(social, s.Label.Render(name)+"  "+s.Link.Render(link))
			} else {
				social = append(social, s.Link.Render(link))
			}
		}
		sections = append(sections, section("Social", strings.Join(social, "\n")))
	}

	if len(p.Interests) > 0 {
		sections = append(sections, section("Interests", wrap(strings.Join(p.Interests, ", "), width)))
	}
	if len(p.Hobbies) > 0 {
		sections = append(sections, section("Hobbies", wrap(strings.Join(p.Hobbies, ", "), width)))
	}

	if p.AvatarURL != "" {
		sections = append(sections, section("Avatar", s.Link.Render(p.AvatarURL)))
	}

	if !o.Shared {
		if prompts := p.Prompts(); o.ShowPrompts && len(prompts) > 0 {
			lines := make([]string, len(prompts))
			for i, prompt := range prompts {
				lines[i] = s.Muted.Render("+ " + prompt)
			}
			sections = append(sections, section("Complete your profile", strings.Join(lines, "\n")))
		}
		if o.ShareLink != "" {
			sections = append(sections, section("Share", s.Link.Render(o.ShareLink)))
		}
	}

	return strings.Join(sections, "\n\n")
}

func section(title, body string) string {
	return theme.Current().S().Heading.Render(title) + "\n" + body
}

func wrap(text string, width int) string {
	return theme.Current().S().Text.Width(width).Render(text)
}

// cardWidth is the content width for a terminal of the given width.
func cardWidth(termWidth int) int {
	return min(termWidth-4, maxMarkdownWidth)
}
