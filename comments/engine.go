// Package comments deletes every comment written by one author from the
// account's comment activity view.
//
// Deletion is a four-click flow (locate, open menu, request delete, confirm)
// that fails often on a live page. Failed comments stay pending and are
// retried on the next pass, after the page has been reloaded.
package comments

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"github.com/fwojciec/linkbot"
	"github.com/fwojciec/linkbot/resolve"
)

// Defaults for Engine settings left zero.
const (
	DefaultMaxPasses     = 3
	DefaultMaxExpansions = 200
	DefaultWaitTimeout   = 5 * time.Second
)

// scrollReset scrolls far enough up to reach the top of any feed.
const scrollReset = 1 << 20

// step is a stage of deleting one comment.
type step int

const (
	stepLocate step = iota
	stepOpenMenu
	stepRequestDelete
	stepConfirm
	stepDone
)

func (s step) String() string {
	switch s {
	case stepLocate:
		return "locate"
	case stepOpenMenu:
		return "open-menu"
	case stepRequestDelete:
		return "request-delete"
	case stepConfirm:
		return "confirm-delete"
	case stepDone:
		return "done"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Engine discovers and deletes comments on a single page.
type Engine struct {
	Page      linkbot.Page
	Resolver  *resolve.Resolver
	Pacer     linkbot.Pacer
	Selectors Selectors
	Logger    *slog.Logger

	// Author is matched as a substring of each comment's author text.
	Author      string
	CommentsURL string

	MaxPasses     int
	MaxExpansions int

	// WaitTimeout bounds the wait for the comments container, the delete
	// option and the confirmation dialog.
	WaitTimeout time.Duration
}

// NewEngine returns an Engine for cfg with default selectors and limits.
func NewEngine(page linkbot.Page, r *resolve.Resolver, pacer linkbot.Pacer, cfg linkbot.Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		Page:          page,
		Resolver:      r,
		Pacer:         pacer,
		Selectors:     DefaultSelectors(),
		Logger:        logger,
		Author:        cfg.TargetAuthor,
		CommentsURL:   cfg.CommentsURL(),
		MaxPasses:     DefaultMaxPasses,
		MaxExpansions: DefaultMaxExpansions,
		WaitTimeout:   DefaultWaitTimeout,
	}
}

// Run opens the comment activity view, discovers the author's comments and
// deletes them. Comments that survive every pass are listed in the report's
// Failed field; that is not an error.
func (e *Engine) Run(ctx context.Context) (*linkbot.DeletionReport, error) {
	if e.CommentsURL == "" {
		return nil, linkbot.Errorf(linkbot.EINVALID, "comments URL required")
	}
	if strings.TrimSpace(e.Author) == "" {
		return nil, linkbot.Errorf(linkbot.EINVALID, "comment author required")
	}

	e.Logger.Info("opening comments", "url", e.CommentsURL)
	if err := e.Page.Navigate(ctx, e.CommentsURL); err != nil {
		return nil, fmt.Errorf("opening comments: %w", err)
	}
	if err := e.Pacer.Pause(ctx, linkbot.DelayPageLoad); err != nil {
		return nil, err
	}

	ids, err := e.Discover(ctx)
	if err != nil {
		return nil, err
	}
	return e.Delete(ctx, ids)
}

// Discover expands the view until nothing more loads and returns the
// identifiers of comments whose author text contains Author, in page order.
func (e *Engine) Discover(ctx context.Context) ([]linkbot.CommentID, error) {
	if err := e.LoadAll(ctx); err != nil {
		return nil, err
	}

	var scope linkbot.Scope = e.Page
	container, err := e.Resolver.First(ctx, e.Page, e.Selectors.Container, resolve.WithTimeout(e.waitTimeout()))
	if err := ctxErr(ctx, err); err != nil {
		return nil, err
	}
	if err != nil {
		e.Logger.Warn("comments container not found, searching whole page")
	} else {
		scope = container
	}

	articles, err := e.Resolver.All(ctx, scope, e.Selectors.Comments)
	if err != nil {
		return nil, err
	}

	var ids []linkbot.CommentID
	seen := make(map[linkbot.CommentID]bool)
	for _, art := range articles {
		author, err := e.Resolver.First(ctx, art, e.Selectors.Author)
		if err != nil {
			continue
		}
		text, err := author.Text(ctx)
		if err != nil || !strings.Contains(text, e.Author) {
			continue
		}
		id := commentID(ctx, art)
		if id == "" {
			e.Logger.Debug("matching comment has no identifier")
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	e.Logger.Info("comments discovered", "author", e.Author, "scanned", len(articles), "matched", len(ids))
	return ids, nil
}

var classIDRe = regexp.MustCompile(`id-([a-zA-Z0-9_-]+)`)

// commentID reads the identifier of a comment container.
func commentID(ctx context.Context, art linkbot.Element) linkbot.CommentID {
	for _, attr := range []string{"data-id", "id", "article-id", "comment-id"} {
		if v, ok, err := art.Attribute(ctx, attr); err == nil && ok && v != "" {
			return linkbot.CommentID(v)
		}
	}
	if class, ok, err := art.Attribute(ctx, "class"); err == nil && ok {
		if m := classIDRe.FindStringSubmatch(class); m != nil {
			return linkbot.CommentID(m[1])
		}
	}
	return ""
}

// LoadAll clicks "show more replies" and "load more" controls until none is
// left or MaxExpansions rounds have run.
func (e *Engine) LoadAll(ctx context.Context) error {
	for round := 0; round < e.maxExpansions(); round++ {
		expanded, err := e.expandReplies(ctx)
		if err != nil {
			return err
		}

		btn, err := e.Resolver.First(ctx, e.Page, e.Selectors.LoadMore)
		if err := ctxErr(ctx, err); err != nil {
			return err
		}
		if err != nil {
			if expanded == 0 {
				e.Logger.Debug("all comments loaded", "rounds", round)
				return nil
			}
			continue
		}

		if err := e.click(ctx, btn); err != nil {
			if err := ctx.Err(); err != nil {
				return err
			}
			e.Logger.Warn("load more failed", "err", err)
			return nil
		}
		if err := e.Pacer.Pause(ctx, linkbot.DelayPageLoad); err != nil {
			return err
		}
		if err := e.Page.ScrollBy(ctx, 100+rand.IntN(400)); err != nil {
			e.Logger.Debug("scroll failed", "err", err)
		}
	}
	e.Logger.Warn("expansion limit reached", "rounds", e.maxExpansions())
	return nil
}

// expandReplies clicks every visible reply expansion control and returns how
// many clicks succeeded.
func (e *Engine) expandReplies(ctx context.Context) (int, error) {
	buttons, err := e.Resolver.All(ctx, e.Page, e.Selectors.ExpandReplies)
	if err != nil {
		return 0, err
	}
	var n int
	for _, b := range buttons {
		if err := e.click(ctx, b); err != nil {
			if err := ctx.Err(); err != nil {
				return n, err
			}
			e.Logger.Debug("expand replies failed", "err", err)
			continue
		}
		n++
	}
	return n, nil
}

// Delete runs up to MaxPasses deletion passes over ids.
func (e *Engine) Delete(ctx context.Context, ids []linkbot.CommentID) (*linkbot.DeletionReport, error) {
	pending := newPendingSet(ids)
	report := &linkbot.DeletionReport{Discovered: pending.Len()}

	for pass := 1; pass <= e.maxPasses(); pass++ {
		if pending.Len() == 0 {
			break
		}
		report.Passes = pass
		e.Logger.Info("deletion pass", "pass", pass, "pending", pending.Len())

		var deleted int
		for _, id := range pending.IDs() {
			at, err := e.deleteOne(ctx, id)
			if err := ctx.Err(); err != nil {
				report.Failed = pending.IDs()
				return report, err
			}
			if err != nil {
				e.Logger.Warn("delete failed", "id", id, "step", at.String(), "err", err)
				continue
			}
			pending.Remove(id)
			report.Deleted = append(report.Deleted, id)
			deleted++
			e.Logger.Info("comment deleted", "id", id)
		}
		e.Logger.Info("pass finished", "pass", pass, "deleted", deleted, "pending", pending.Len())

		if pending.Len() == 0 || pass == e.maxPasses() {
			break
		}
		if err := e.recoverPage(ctx, deleted > 0); err != nil {
			report.Failed = pending.IDs()
			return report, err
		}
	}

	if pending.Len() == 0 {
		e.Logger.Info("no more comments to delete", "deleted", len(report.Deleted))
		return report, nil
	}
	report.Failed = pending.IDs()
	e.Logger.Warn("comments left after final pass", "count", len(report.Failed), "ids", report.Failed)
	return report, nil
}

// deleteOne walks one comment through the deletion steps and returns the
// step it stopped at.
func (e *Engine) deleteOne(ctx context.Context, id linkbot.CommentID) (step, error) {
	if err := e.Page.ScrollBy(ctx, -scrollReset); err != nil {
		return stepLocate, err
	}
	art, err := e.Resolver.First(ctx, e.Page, e.Selectors.ByID.Format(string(id)))
	if err != nil {
		return stepLocate, err
	}
	if err := art.ScrollIntoView(ctx); err != nil {
		return stepLocate, err
	}
	if err := e.Pacer.Pause(ctx, linkbot.DelayClick); err != nil {
		return stepLocate, err
	}

	menu, err := e.Resolver.First(ctx, art, e.Selectors.Options)
	if err != nil {
		return stepOpenMenu, err
	}
	if err := e.click(ctx, menu); err != nil {
		return stepOpenMenu, err
	}

	del, err := e.Resolver.First(ctx, e.Page, e.Selectors.Delete, resolve.WithTimeout(e.waitTimeout()))
	if err != nil {
		return stepRequestDelete, err
	}
	if err := e.click(ctx, del); err != nil {
		return stepRequestDelete, err
	}

	confirm, err := e.Resolver.First(ctx, e.Page, e.Selectors.Confirm, resolve.WithTimeout(e.waitTimeout()))
	if err != nil {
		return stepConfirm, err
	}
	if err := confirm.Click(ctx); err != nil {
		return stepConfirm, err
	}
	if err := e.Pacer.Pause(ctx, linkbot.DelayAction); err != nil {
		return stepConfirm, err
	}
	return stepDone, nil
}

// recoverPage reloads between passes. After a pass that deleted something
// the view is reopened and expanded again, since the remaining comments
// may have moved.
func (e *Engine) recoverPage(ctx context.Context, progressed bool) error {
	if err := e.Page.Reload(ctx); err != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.Logger.Warn("reload failed", "err", err)
	}
	if err := e.Pacer.Pause(ctx, linkbot.DelayRecovery); err != nil {
		return err
	}
	if !progressed {
		return nil
	}

	if err := e.Page.Navigate(ctx, e.CommentsURL); err != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.Logger.Warn("reopening comments failed", "err", err)
		return nil
	}
	if err := e.Pacer.Pause(ctx, linkbot.DelayPageLoad); err != nil {
		return err
	}
	return e.LoadAll(ctx)
}

// click scrolls el into view, clicks it and pauses.
func (e *Engine) click(ctx context.Context, el linkbot.Element) error {
	if err := el.ScrollIntoView(ctx); err != nil {
		return err
	}
	if err := el.Click(ctx); err != nil {
		return err
	}
	return e.Pacer.Pause(ctx, linkbot.DelayClick)
}

func (e *Engine) maxPasses() int {
	if e.MaxPasses <= 0 {
		return DefaultMaxPasses
	}
	return e.MaxPasses
}

func (e *Engine) maxExpansions() int {
	if e.MaxExpansions <= 0 {
		return DefaultMaxExpansions
	}
	return e.MaxExpansions
}

func (e *Engine) waitTimeout() time.Duration {
	if e.WaitTimeout <= 0 {
		return DefaultWaitTimeout
	}
	return e.WaitTimeout
}

// ctxErr returns err only when it is the context's error.
func ctxErr(ctx context.Context, err error) error {
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

// pendingSet is the set of comments still to delete. It keeps discovery
// order and only ever shrinks.
type pendingSet struct {
	order []linkbot.CommentID
	live  map[linkbot.CommentID]bool
}

func newPendingSet(ids []linkbot.CommentID) *pendingSet {
	s := &pendingSet{live: make(map[linkbot.CommentID]bool, len(ids))}
	for _, id := range ids {
		if !s.live[id] {
			s.live[id] = true
			s.order = append(s.order, id)
		}
	}
	return s
}

func (s *pendingSet) Len() int {
	return len(s.live)
}

// IDs returns a snapshot of the pending identifiers.
func (s *pendingSet) IDs() []linkbot.CommentID {
	out := make([]linkbot.CommentID, 0, len(s.live))
	for _, id := range s.order {
		if s.live[id] {
			out = append(out, id)
		}
	}
	return out
}

func (s *pendingSet) Remove(id linkbot.CommentID) {
	delete(s.live, id)
}
