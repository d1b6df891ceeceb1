package search

import "github.com/fwojciec/linkbot"

// Selectors holds every strategy list the collector uses.
type Selectors struct {
	SearchInput   linkbot.StrategyList
	PeopleLink    linkbot.StrategyList
	ResultList    linkbot.StrategyList
	Items         linkbot.StrategyList
	DiscoveryItem linkbot.StrategyList
	ProfileLink   linkbot.StrategyList
	ResultCount   linkbot.StrategyList
	PageState     linkbot.StrategyList
	PageButtons   linkbot.StrategyList
	Pagination    linkbot.StrategyList
	Next          linkbot.StrategyList

	// Discovery probes, relative to the first result item.
	TitleProbe    linkbot.StrategyList
	LocationProbe linkbot.StrategyList
	SummaryProbe  linkbot.StrategyList
}

// DefaultSelectors returns the strategies for the people search view.
func DefaultSelectors() Selectors {
	return Selectors{
		SearchInput: linkbot.Strategies(
			linkbot.ByCSS("input.search-global-typeahead__input").Named("typeahead"),
			linkbot.ByCSS("input[placeholder*='Szukaj']"),
			linkbot.ByCSS("input[placeholder*='Search']"),
			linkbot.ByCSS("input[role='combobox']"),
			linkbot.ByXPath("//input[contains(@class,'search-global-typeahead__input')]"),
			linkbot.ByXPath("//input[@aria-label='Szukaj' or @aria-label='Search']"),
		),
		PeopleLink: linkbot.Strategies(
			linkbot.ByXPath("//a[contains(text(),'Zobacz wszystkie wyniki osób')]").Named("all people pl"),
			linkbot.ByXPath("//a[contains(text(),'See all people results')]").Named("all people en"),
			linkbot.ByXPath("//a[contains(@href,'/search/results/people')]"),
			linkbot.ByXPath("//button[normalize-space(.)='Osoby' or normalize-space(.)='People']"),
		),
		ResultList: linkbot.Strategies(
			linkbot.ByCSS("ul[class*='list-style-none']").Named("result list"),
			linkbot.ByCSS("div.search-results-container ul"),
			linkbot.ByXPath("//ul[contains(@class,'reusable-search__entity-result-list')]"),
		),
		Items: linkbot.Strategies(
			linkbot.ByXPath("//li[.//a[contains(@href,'/in/')]]").Named("items with profile link"),
			linkbot.ByXPath("//li[contains(.,'Security') or contains(.,'Engineer') or contains(.,'Architect')]").Named("items by keyword"),
			linkbot.ByCSS("ul[class*='list-style-none'] > li").Named("list items"),
			linkbot.ByXPath("//div[.//a[contains(@href,'/in/')]]").Named("blocks with profile link"),
		),
		DiscoveryItem: linkbot.Strategies(
			linkbot.ByXPath("//li[.//a[contains(@href,'/in/')]]"),
		),
		ProfileLink: linkbot.Strategies(
			linkbot.ByXPath(".//a[contains(@href,'/in/')]"),
		),
		ResultCount: linkbot.Strategies(
			linkbot.ByXPath("//*[contains(text(),'wyników') or contains(text(),'wyniki')]").Named("count pl"),
			linkbot.ByXPath("//*[contains(text(),'results')]").Named("count en"),
			linkbot.ByCSS("div.search-results-container h2"),
		),
		PageState: linkbot.Strategies(
			linkbot.ByCSS("div.artdeco-pagination__page-state").Named("page state"),
			linkbot.ByXPath("//*[contains(@class,'page-state')]"),
		),
		PageButtons: linkbot.Strategies(
			linkbot.ByCSS("li[data-test-pagination-page-btn]").Named("page buttons"),
			linkbot.ByCSS("button[data-test-pagination-page-btn]"),
			linkbot.ByXPath("//li[contains(@class,'artdeco-pagination__indicator')]//button"),
		),
		Pagination: linkbot.Strategies(
			linkbot.ByCSS(".artdeco-pagination").Named("pagination"),
			linkbot.ByCSS("div.artdeco-pagination"),
			linkbot.ByXPath("//div[contains(@class,'artdeco-pagination')]"),
			linkbot.ByXPath("//nav[contains(@aria-label,'Pagination') or contains(@aria-label,'Paginacja')]"),
		),
		Next: linkbot.Strategies(
			linkbot.ByXPath("//button[contains(@class,'artdeco-pagination__button--next')]").Named("next class"),
			linkbot.ByXPath("//button[@aria-label='Next' or @aria-label='Dalej']").Named("next label"),
			linkbot.ByXPath("//button[.//li-icon[@type='chevron-right']]"),
			linkbot.ByCSS("button.artdeco-pagination__button--next"),
			linkbot.ByXPath("//button[.//span[text()='Dalej' or text()='Next']]"),
			linkbot.ByXPath("//div[contains(@class,'artdeco-pagination')]//button[last()]"),
		),
		TitleProbe: linkbot.Strategies(
			linkbot.ByXPath(".//div[contains(@class,'t-black')]"),
		),
		LocationProbe: linkbot.Strategies(
			linkbot.ByXPath(".//div[contains(@class,'t-normal')]"),
		),
		SummaryProbe: linkbot.Strategies(
			linkbot.ByXPath(".//p[contains(@class,'t-12') or contains(@class,'entity-result__summary')]"),
		),
	}
}
