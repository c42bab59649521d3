package deduplicator

import (
	"fmt"
	"strings"
	"time"

	"github.com/zemki/molonews-backend/collector"
	"github.com/zemki/molonews-backend/model"
)

// FieldChange is one pending field update on a stored article. From and To
// are human readable, used for change logging only.
type FieldChange struct {
	Field string
	From  string
	To    string

	apply func(*model.Article)
}

// ChangeSet is the full diff between a stored article and a freshly parsed
// entry. Computing it has no side effects; Apply mutates the article in
// memory and the caller decides whether to persist.
type ChangeSet struct {
	changes []FieldChange
}

func (c *ChangeSet) Empty() bool {
	return len(c.changes) == 0
}

func (c *ChangeSet) Fields() []FieldChange {
	return c.changes
}

// Describe renders the diff for the import log, one "field: old -> new"
// clause per changed field.
func (c *ChangeSet) Describe() string {
	clauses := make([]string, 0, len(c.changes))
	for _, change := range c.changes {
		clauses = append(clauses, fmt.Sprintf("%s: %q -> %q", change.Field, change.From, change.To))
	}
	return strings.Join(clauses, ", ")
}

func (c *ChangeSet) Apply(article *model.Article) {
	for _, change := range c.changes {
		change.apply(article)
	}
}

func (c *ChangeSet) addString(field string, from string, to string, apply func(*model.Article)) {
	if from == to {
		return
	}
	c.changes = append(c.changes, FieldChange{Field: field, From: from, To: to, apply: apply})
}

func (c *ChangeSet) addTime(field string, from time.Time, to time.Time, apply func(*model.Article)) {
	if from.Equal(to) {
		return
	}
	c.changes = append(c.changes, FieldChange{
		Field: field,
		From:  from.Format(time.RFC3339),
		To:    to.Format(time.RFC3339),
		apply: apply,
	})
}

// ComputeChanges diffs a stored article against a parsed entry. imageUrl is
// the entry's resolved image, already run through the image resolver. The
// article's date follows the source's state date when one is reported and
// the modification date otherwise.
func ComputeChanges(article *model.Article, entry *collector.ParsedEntry, imageUrl string) *ChangeSet {
	changes := &ChangeSet{}

	title := entry.Title
	changes.addString("title", article.Title, title, func(a *model.Article) { a.Title = title })

	link := entry.Link
	changes.addString("link", article.Link, link, func(a *model.Article) { a.Link = link })

	abstract := entry.Summary
	changes.addString("abstract", article.Abstract, abstract, func(a *model.Article) { a.Abstract = abstract })

	date := entry.Moddate
	if entry.Statedate != nil {
		date = entry.Statedate
	}
	if date != nil {
		newDate := *date
		changes.addTime("date", article.Date, newDate, func(a *model.Article) { a.Date = newDate })
	}
	if entry.Moddate != nil {
		newModdate := *entry.Moddate
		changes.addTime("moddate", article.Moddate, newModdate, func(a *model.Article) { a.Moddate = newModdate })
	}

	changes.addString("image_url", article.ImageUrl, imageUrl, func(a *model.Article) { a.ImageUrl = imageUrl })

	imageSource := entry.ImageSource
	changes.addString("image_source", article.ImageSource, imageSource, func(a *model.Article) { a.ImageSource = imageSource })

	return changes
}
