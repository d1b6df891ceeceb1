package linkbot

import (
	"fmt"
	"strings"
)

// QueryLanguage identifies how a Strategy selector is interpreted.
type QueryLanguage string

// Supported query languages.
const (
	CSS   QueryLanguage = "css"
	XPath QueryLanguage = "xpath"
)

// Strategy is one way of locating elements: a selector in a query language.
// Name is used in logs only.
type Strategy struct {
	Name     string
	Lang     QueryLanguage
	Selector string
}

// ByCSS returns a CSS strategy.
func ByCSS(selector string) Strategy {
	return Strategy{Lang: CSS, Selector: selector}
}

// ByXPath returns an XPath strategy.
func ByXPath(selector string) Strategy {
	return Strategy{Lang: XPath, Selector: selector}
}

// Named returns a copy of s with a display name.
func (s Strategy) Named(name string) Strategy {
	s.Name = name
	return s
}

// String returns the display name, or "lang:selector" when unnamed.
func (s Strategy) String() string {
	if s.Name != "" {
		return s.Name
	}
	return string(s.Lang) + ":" + s.Selector
}

// StrategyList is an ordered list of strategies. Earlier entries win: the
// first strategy that yields at least one element is used and the rest are
// not evaluated.
type StrategyList []Strategy

// Strategies builds a StrategyList.
func Strategies(ss ...Strategy) StrategyList {
	return StrategyList(ss)
}

// Prepend returns a new list with ss placed ahead of l. Strategies with an
// empty selector are dropped, so an unsuccessful discovery leaves l as is.
func (l StrategyList) Prepend(ss ...Strategy) StrategyList {
	out := make(StrategyList, 0, len(ss)+len(l))
	for _, s := range ss {
		if strings.TrimSpace(s.Selector) != "" {
			out = append(out, s)
		}
	}
	return append(out, l...)
}

// Format returns a new list with args substituted into every selector via
// fmt.Sprintf. It is used for identifier-scoped lookups.
func (l StrategyList) Format(args ...any) StrategyList {
	out := make(StrategyList, len(l))
	for i, s := range l {
		s.Selector = fmt.Sprintf(s.Selector, args...)
		out[i] = s
	}
	return out
}
