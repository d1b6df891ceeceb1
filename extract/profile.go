package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/fwojciec/linkbot"
)

// Profile record field names.
const (
	FieldName           = "name"
	FieldTitle          = "title"
	FieldLocation       = "location"
	FieldCurrentCompany = "current_company"
	FieldProfileURL     = "profile_url"
)

// Discovered holds CSS selectors derived from the live page at run time.
// Empty selectors are ignored.
type Discovered struct {
	Item     string
	Title    string
	Location string
	Summary  string
}

// TitleKeywords mark a line of text as a job title.
var TitleKeywords = []string{"Engineer", "Developer", "Security", "Analyst", "Manager"}

var (
	profileLinks = linkbot.Strategies(
		linkbot.ByXPath(".//a[contains(@href,'/in/')]").Named("profile link"),
		linkbot.ByCSS("a[href*='/in/']"),
	)

	titleClasses = linkbot.Strategies(
		linkbot.ByCSS("div.t-14.t-black.t-normal").Named("title classes"),
		linkbot.ByXPath(".//div[contains(@class,'t-14') and contains(@class,'t-black') and contains(@class,'t-normal')]"),
	)

	leafDivs = linkbot.Strategies(
		linkbot.ByXPath(".//div[not(.//div)]").Named("leaf divs"),
	)

	locationFallback = linkbot.Strategies(
		linkbot.ByCSS(".entity-result__secondary-subtitle").Named("secondary subtitle"),
	)

	normalDivs = linkbot.Strategies(
		linkbot.ByXPath(".//div[contains(@class,'t-normal')]").Named("normal divs"),
	)

	summaries = linkbot.Strategies(
		linkbot.ByXPath(".//p[contains(@class,'entity-result__summary') or contains(@class,'t-12')]").Named("summary"),
		linkbot.ByCSS("p[class*='summary']"),
	)

	companyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:Obecnie|Currently|Current):.*?\s+(?:w|at)\s+([^•\n]+)`),
		regexp.MustCompile(`(?:Obecnie|Current):.*?([A-Z][a-zA-Z0-9\s]+)$`),
	}

	profileLabels = []*regexp.Regexp{
		regexp.MustCompile(`Wyświetl profil użytkownika\s+(.+)`),
		regexp.MustCompile(`View\s+(.+?)['’]s\s+profile`),
	}

	degreeMarkers = []*regexp.Regexp{
		regexp.MustCompile(`\s*•\s+\d+\.\s+.*$`),
		regexp.MustCompile(`\s*•\s*\d+(?:st|nd|rd|th)\+?.*$`),
	}
)

// CleanName strips accessibility labels and connection degree markers from
// a profile link text. A label following the visible name is cut off; a
// label alone yields the name it carries.
func CleanName(s string) string {
	line := Clean(s)
	for _, re := range profileLabels {
		loc := re.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		if before := strings.TrimSpace(line[:loc[0]]); before != "" {
			line = before
		} else {
			line = line[loc[2]:loc[3]]
		}
	}
	for _, re := range degreeMarkers {
		line = re.ReplaceAllString(line, "")
	}
	return strings.TrimSpace(line)
}

func css(selector string) linkbot.StrategyList {
	if selector == "" {
		return nil
	}
	return linkbot.Strategies(linkbot.ByCSS(selector).Named("discovered " + selector))
}

// ProfileSchema returns the schema for one people-search result. Discovered
// selectors take priority over the static ones.
func ProfileSchema(d Discovered) Schema {
	titleProbes := []Probe{{Strategies: titleClasses}}
	if d.Title != "" {
		titleProbes = append(titleProbes, Probe{Strategies: css(d.Title)})
	}
	titleProbes = append(titleProbes, Probe{
		Strategies: leafDivs,
		Keywords:   TitleKeywords,
		Reject:     []string{"Kontakt", "Zobacz", "Contact", "View"},
	})

	var locationProbes []Probe
	if d.Location != "" {
		locationProbes = append(locationProbes, Probe{Strategies: css(d.Location)})
	}
	locationProbes = append(locationProbes,
		Probe{Strategies: locationFallback},
		Probe{Strategies: normalDivs, Skip: 1},
	)

	companyStrategies := summaries
	if d.Summary != "" {
		companyStrategies = summaries.Prepend(linkbot.ByCSS(d.Summary).Named("discovered " + d.Summary))
	}

	return Schema{
		{
			Name:   FieldName,
			Probes: []Probe{{Strategies: profileLinks, Transform: CleanName}},
		},
		{
			Name: FieldProfileURL,
			Probes: []Probe{{
				Strategies: profileLinks,
				Attribute:  "href",
				Transform:  linkbot.CanonicalProfileURL,
				Keywords:   []string{"/in/"},
				Raw:        true,
			}},
		},
		{
			Name:         FieldTitle,
			Probes:       titleProbes,
			DistinctFrom: []string{FieldName},
		},
		{
			Name:         FieldLocation,
			Probes:       locationProbes,
			DistinctFrom: []string{FieldName, FieldTitle},
		},
		{
			Name:   FieldCurrentCompany,
			Probes: []Probe{{Strategies: companyStrategies, Patterns: companyPatterns}},
		},
	}
}

// Profile extracts a search result into a record. The record may be invalid;
// callers check Valid before keeping it.
func (e *Extractor) Profile(ctx context.Context, item linkbot.Element, schema Schema) *linkbot.ProfileRecord {
	v := e.Extract(ctx, item, schema)
	return &linkbot.ProfileRecord{
		Name:           v[FieldName],
		Title:          v[FieldTitle],
		Location:       v[FieldLocation],
		CurrentCompany: v[FieldCurrentCompany],
		ProfileURL:     v[FieldProfileURL],
	}
}

// Profile page field names.
const (
	FieldHeadline = "headline"
)

// DetailsSchema returns the schema for the top card of a profile page.
func DetailsSchema() Schema {
	return Schema{
		{
			Name: FieldName,
			Probes: []Probe{{Strategies: linkbot.Strategies(
				linkbot.ByCSS("h1.text-heading-xlarge"),
				linkbot.ByCSS("h1"),
			)}},
		},
		{
			Name: FieldHeadline,
			Probes: []Probe{{Strategies: linkbot.Strategies(
				linkbot.ByCSS("div.text-body-medium.break-words"),
				linkbot.ByCSS(".pv-text-details__left-panel .text-body-medium"),
				linkbot.ByXPath("//h1/following::div[contains(@class,'text-body-medium')][1]"),
			)}},
			DistinctFrom: []string{FieldName},
		},
		{
			Name: FieldLocation,
			Probes: []Probe{{Strategies: linkbot.Strategies(
				linkbot.ByCSS("span.text-body-small.inline.t-black--light.break-words"),
				linkbot.ByCSS(".pv-text-details__left-panel span.text-body-small"),
			)}},
			DistinctFrom: []string{FieldName, FieldHeadline},
		},
	}
}
