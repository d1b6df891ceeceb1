package comments

import "github.com/fwojciec/linkbot"

// Selectors holds every strategy list the engine uses. Lists that embed a
// comment identifier use a single %s verb.
type Selectors struct {
	Container     linkbot.StrategyList
	Comments      linkbot.StrategyList
	Author        linkbot.StrategyList
	ByID          linkbot.StrategyList
	Options       linkbot.StrategyList
	Delete        linkbot.StrategyList
	Confirm       linkbot.StrategyList
	LoadMore      linkbot.StrategyList
	ExpandReplies linkbot.StrategyList
}

// DefaultSelectors returns the strategies for the comment activity view.
// Labels cover the Polish and English interfaces.
func DefaultSelectors() Selectors {
	return Selectors{
		Container: linkbot.Strategies(
			linkbot.ByCSS("div.scaffold-finite-scroll__content").Named("finite scroll"),
			linkbot.ByCSS("div[class*='comments-container']"),
			linkbot.ByCSS("div[data-test-id='comments-container']"),
			linkbot.ByXPath("//div[contains(@class,'scaffold-finite-scroll__content')]"),
			linkbot.ByXPath("//div[contains(@class,'comments-container')]"),
		),
		Comments: linkbot.Strategies(
			linkbot.ByCSS("article.comments-comment-entity").Named("comment entity"),
			linkbot.ByCSS("article[data-id]"),
			linkbot.ByCSS("article[class*='comment']"),
			linkbot.ByXPath(".//article[contains(@class,'comments-comment')]"),
			linkbot.ByXPath(".//article[@data-id]"),
		),
		Author: linkbot.Strategies(
			linkbot.ByCSS(".comments-comment-meta__actor").Named("meta actor"),
			linkbot.ByCSS("div[class*='comment-meta__actor']"),
			linkbot.ByCSS("div[class*='actor']"),
			linkbot.ByXPath(".//div[contains(@class,'actor')]"),
			linkbot.ByXPath(".//a[contains(@class,'actor')]"),
		),
		ByID: linkbot.Strategies(
			linkbot.ByCSS("article.comments-comment-entity[data-id='%s']").Named("entity by id"),
			linkbot.ByCSS("article[data-id='%s']"),
			linkbot.ByXPath("//article[@data-id='%s']"),
			linkbot.ByXPath("//article[contains(@class,'comment')][contains(@data-id,'%[1]s')]"),
			linkbot.ByXPath("//article[contains(@class,'comment')][@id='%[1]s']"),
		),
		Options: linkbot.Strategies(
			linkbot.ByCSS(".artdeco-dropdown__trigger").Named("dropdown trigger"),
			linkbot.ByCSS("button.artdeco-dropdown__trigger"),
			linkbot.ByCSS("button[class*='dropdown__trigger']"),
			linkbot.ByXPath(".//button[contains(@class,'dropdown__trigger')]"),
			linkbot.ByXPath(".//button[contains(@class,'overflow') or contains(@class,'options')]"),
			linkbot.ByXPath(".//button[contains(@aria-label,'More actions') or contains(@aria-label,'Więcej działań')]"),
		),
		Delete: linkbot.Strategies(
			linkbot.ByXPath("//span[text()='Usuń']").Named("delete pl"),
			linkbot.ByXPath("//span[text()='Delete']").Named("delete en"),
			linkbot.ByXPath("//span[contains(text(),'Usuń')]"),
			linkbot.ByXPath("//button[contains(text(),'Usuń') or contains(text(),'Delete')]"),
			linkbot.ByXPath("//div[contains(@class,'dropdown__item')]//span[contains(text(),'Usuń') or contains(text(),'Delete')]"),
		),
		Confirm: linkbot.Strategies(
			linkbot.ByXPath("//button//span[text()='Usuń']").Named("confirm pl"),
			linkbot.ByXPath("//button//span[text()='Delete']").Named("confirm en"),
			linkbot.ByXPath("//button[contains(text(),'Usuń') or contains(text(),'Delete')]"),
			linkbot.ByXPath("//button[contains(@class,'confirm-delete')]"),
			linkbot.ByXPath("//div[contains(@class,'confirmation')]//button[contains(text(),'Usuń')]"),
		),
		LoadMore: linkbot.Strategies(
			linkbot.ByCSS(".scaffold-finite-scroll__load-button").Named("load button"),
			linkbot.ByCSS("button.scaffold-finite-scroll__load-button"),
			linkbot.ByXPath("//button[contains(text(),'Pokaż więcej') or contains(text(),'Show more') or contains(text(),'Load more')]"),
			linkbot.ByXPath("//button[.//span[contains(text(),'Pokaż więcej') or contains(text(),'Show more results')]]"),
		),
		ExpandReplies: linkbot.Strategies(
			linkbot.ByXPath("//button[contains(@class,'show-previous-replies') or contains(@class,'load-more-replies')]").Named("reply buttons"),
			linkbot.ByXPath("//button[contains(.,'Wyświetl więcej odpowiedzi') or contains(.,'Load more replies') or contains(.,'See more replies')]"),
			linkbot.ByXPath("//button[contains(.,'Wyświetl poprzednie odpowiedzi') or contains(.,'previous replies')]"),
		),
	}
}
