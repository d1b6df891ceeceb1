package extract

import (
	"context"
	"strings"

	"github.com/fwojciec/linkbot"
)

var (
	aboutSection = linkbot.Strategies(
		linkbot.ByXPath("//section[.//*[@id='about']]//div[contains(@class,'inline-show-more-text')]").Named("about text"),
		linkbot.ByCSS("section:has(#about) div.display-flex.ph5"),
		linkbot.ByXPath("//section[.//*[@id='about']]").Named("about section"),
	)

	experienceItems = linkbot.Strategies(
		linkbot.ByXPath("//section[.//*[@id='experience']]//li[contains(@class,'artdeco-list__item')]").Named("experience items"),
		linkbot.ByCSS("section:has(#experience) ul > li"),
	)
)

// Details extracts the top card and experience list of a profile page. The
// About field is left empty; see AboutHTML.
func (e *Extractor) Details(ctx context.Context, scope linkbot.Scope, profileURL string) *linkbot.ProfileDetails {
	v := e.Extract(ctx, scope, DetailsSchema())
	d := &linkbot.ProfileDetails{
		ProfileURL: linkbot.CanonicalProfileURL(profileURL),
		Name:       CleanName(v[FieldName]),
		Headline:   v[FieldHeadline],
		Location:   v[FieldLocation],
	}

	items, err := e.Resolver.All(ctx, scope, experienceItems)
	if err != nil {
		return d
	}
	for _, it := range items {
		text, err := it.Text(ctx)
		if err != nil {
			continue
		}
		if line := Summarize(text); line != "" {
			d.Experience = append(d.Experience, line)
		}
	}
	return d
}

// AboutHTML returns the markup of the About section, or "" when the
// profile has none.
func (e *Extractor) AboutHTML(ctx context.Context, scope linkbot.Scope) string {
	el, err := e.Resolver.First(ctx, scope, aboutSection)
	if err != nil {
		return ""
	}
	html, err := el.HTML(ctx)
	if err != nil {
		e.Logger.Debug("about section unreadable", "err", err)
		return ""
	}
	return html
}

// Summarize joins the distinct non-empty lines of text with " · ".
func Summarize(text string) string {
	var parts []string
	seen := make(map[string]bool)
	for line := range strings.Lines(text) {
		line = strings.TrimSpace(line)
		if line == "" || seen[line] {
			continue
		}
		seen[line] = true
		parts = append(parts, line)
	}
	return strings.Join(parts, " · ")
}
