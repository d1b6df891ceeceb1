package extract_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/fwojciec/linkbot"
	"github.com/fwojciec/linkbot/extract"
	"github.com/fwojciec/linkbot/goquery"
	"github.com/fwojciec/linkbot/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExtractor() *extract.Extractor {
	return extract.NewExtractor(resolve.New(nil), nil)
}

// firstItem parses src and returns the first <li>.
func firstItem(t *testing.T, src string) linkbot.Element {
	t.Helper()
	doc, err := goquery.NewDocument(src)
	require.NoError(t, err)
	items, err := doc.Query(context.Background(), linkbot.ByCSS("li"))
	require.NoError(t, err)
	require.NotEmpty(t, items)
	return items[0]
}

const resultItem = `<html><body><ul class="list-style-none"><li class="reusable-search__result-container">
	<a class="app-aware-link" href="https://www.linkedin.com/in/jan-kowalski?miniProfileUrn=urn%3Ali%3A1"><img alt=""></a>
	<a class="app-aware-link" href="https://www.linkedin.com/in/jan-kowalski?miniProfileUrn=urn%3Ali%3A1">
		<span aria-hidden="true">Jan Kowalski</span>
		<span class="visually-hidden">Wyświetl profil użytkownika Jan Kowalski</span>
	</a>
	<div class="entity-result__primary-subtitle t-14 t-black t-normal">Senior Security Engineer</div>
	<div class="entity-result__secondary-subtitle t-14 t-normal">Warszawa, Mazowieckie</div>
	<p class="entity-result__summary t-12 t-black--light">Obecnie: Security Engineer w Acme Corp • pełny etat</p>
</li></ul></body></html>`

func TestExtractor_Profile(t *testing.T) {
	t.Parallel()

	t.Run("extracts all fields from a result", func(t *testing.T) {
		t.Parallel()

		item := firstItem(t, resultItem)

		rec := newExtractor().Profile(context.Background(), item, extract.ProfileSchema(extract.Discovered{}))

		assert.Equal(t, "Jan Kowalski", rec.Name)
		assert.Equal(t, "https://www.linkedin.com/in/jan-kowalski", rec.ProfileURL)
		assert.Equal(t, "Senior Security Engineer", rec.Title)
		assert.Equal(t, "Warszawa, Mazowieckie", rec.Location)
		assert.Equal(t, "Acme Corp", rec.CurrentCompany)
		assert.True(t, rec.Valid())
	})

	t.Run("title equal to name is cleared", func(t *testing.T) {
		t.Parallel()

		// Given a result whose only title-like text is the name itself
		item := firstItem(t, `<html><body><ul><li>
			<a href="/in/jan">Jan Kowalski</a>
			<div class="t-14 t-black t-normal">Jan Kowalski</div>
		</li></ul></body></html>`)

		// When extracting
		rec := newExtractor().Profile(context.Background(), item, extract.ProfileSchema(extract.Discovered{}))

		// Then title is empty rather than a copy of the name
		assert.Equal(t, "Jan Kowalski", rec.Name)
		assert.Empty(t, rec.Title)
	})

	t.Run("keyword probe finds title when class probe misses", func(t *testing.T) {
		t.Parallel()

		item := firstItem(t, `<html><body><ul><li>
			<a href="/in/anna">Anna Nowak</a>
			<div><div>Zobacz Security profil</div><div>Data Analyst at Foo</div></div>
		</li></ul></body></html>`)

		rec := newExtractor().Profile(context.Background(), item, extract.ProfileSchema(extract.Discovered{}))

		assert.Equal(t, "Data Analyst at Foo", rec.Title)
	})

	t.Run("discovered selectors take priority", func(t *testing.T) {
		t.Parallel()

		item := firstItem(t, `<html><body><ul><li>
			<a href="/in/anna">Anna Nowak</a>
			<div class="t-14 t-black t-normal">Engineer</div>
			<div class="xyz-title">Staff Engineer</div>
			<div class="xyz-loc">Kraków</div>
		</li></ul></body></html>`)
		schema := extract.ProfileSchema(extract.Discovered{Location: "div.xyz-loc"})

		rec := newExtractor().Profile(context.Background(), item, schema)

		assert.Equal(t, "Kraków", rec.Location)
	})

	t.Run("item without name or link is invalid", func(t *testing.T) {
		t.Parallel()

		item := firstItem(t, `<html><body><ul><li><div class="t-14 t-black t-normal">Premium</div></li></ul></body></html>`)

		rec := newExtractor().Profile(context.Background(), item, extract.ProfileSchema(extract.Discovered{}))

		assert.False(t, rec.Valid())
		assert.Equal(t, "Premium", rec.Title)
	})

	t.Run("english current company", func(t *testing.T) {
		t.Parallel()

		item := firstItem(t, `<html><body><ul><li>
			<a href="/in/bob">Bob Smith</a>
			<p class="entity-result__summary">Current: Platform Architect at Globex Inc</p>
		</li></ul></body></html>`)

		rec := newExtractor().Profile(context.Background(), item, extract.ProfileSchema(extract.Discovered{}))

		assert.Equal(t, "Globex Inc", rec.CurrentCompany)
	})
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("missing field is empty", func(t *testing.T) {
		t.Parallel()

		item := firstItem(t, `<html><body><ul><li><span>x</span></li></ul></body></html>`)
		schema := extract.Schema{{Name: "missing", Probes: []extract.Probe{
			{Strategies: linkbot.Strategies(linkbot.ByCSS("table"), linkbot.ByXPath(".//form"))},
		}}}

		got := newExtractor().Extract(context.Background(), item, schema)

		assert.Equal(t, map[string]string{"missing": ""}, got)
	})

	t.Run("pattern without match skips candidate", func(t *testing.T) {
		t.Parallel()

		item := firstItem(t, `<html><body><ul><li><p>no company</p><p>ID: 42</p></li></ul></body></html>`)
		schema := extract.Schema{{Name: "id", Probes: []extract.Probe{{
			Strategies: linkbot.Strategies(linkbot.ByCSS("p")),
			Patterns:   []*regexp.Regexp{regexp.MustCompile(`ID: (\d+)`)},
		}}}}

		got := newExtractor().Extract(context.Background(), item, schema)

		assert.Equal(t, "42", got["id"])
	})

	t.Run("skip ignores leading candidates", func(t *testing.T) {
		t.Parallel()

		item := firstItem(t, `<html><body><ul><li><p>one</p><p>two</p></li></ul></body></html>`)
		schema := extract.Schema{{Name: "second", Probes: []extract.Probe{{
			Strategies: linkbot.Strategies(linkbot.ByCSS("p")),
			Skip:       1,
		}}}}

		got := newExtractor().Extract(context.Background(), item, schema)

		assert.Equal(t, "two", got["second"])
	})
}

func TestClean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"first line only", "Engineer\nat Acme", "Engineer"},
		{"strips markup", "<b>Engineer</b> ", "Engineer"},
		{"trims", "  Warsaw  ", "Warsaw"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extract.Clean(tt.in))
		})
	}
}

func TestCleanName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Wyświetl profil użytkownika Jan Kowalski", "Jan Kowalski"},
		{"Jan Kowalski • 2. stopień", "Jan Kowalski"},
		{"Jan Kowalski • 2nd", "Jan Kowalski"},
		{"Jan Kowalski\nView Jan Kowalski’s profile", "Jan Kowalski"},
		{"Jan Kowalski Wyświetl profil użytkownika Jan Kowalski", "Jan Kowalski"},
		{"View Anna Nowak’s profile", "Anna Nowak"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extract.CleanName(tt.in))
		})
	}
}
