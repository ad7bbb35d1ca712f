package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/poliux/poliux/internal/service"
	"github.com/poliux/poliux/pkg/models"
)

// Retention for stored articles. Ranking only looks back 7 days; keeping a
// few extra weeks leaves room for backfills and vote history.
const retention = 30 * 24 * time.Hour

// Collector polls configured RSS feeds and stores their articles. It runs on
// a cron schedule from main.
type Collector struct {
	svc    *service.Service
	parser *gofeed.Parser
	feeds  []string
}

func NewCollector(svc *service.Service, feeds []string) *Collector {
	return &Collector{svc: svc, parser: gofeed.NewParser(), feeds: feeds}
}

// CollectOnce polls every configured feed. A broken feed is logged and
// skipped; the rest still ingest.
func (c *Collector) CollectOnce(ctx context.Context) {
	for _, feedURL := range c.feeds {
		feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			slog.Warn("feed fetch failed", "feed", feedURL, "error", err)
			continue
		}

		articles := make([]*models.Article, 0, len(feed.Items))
		for _, item := range feed.Items {
			articles = append(articles, itemToArticle(feed, item))
		}
		if err := c.svc.IngestArticles(ctx, articles); err != nil {
			slog.Error("feed ingest failed", "feed", feedURL, "error", err)
			continue
		}
		slog.Info("feed collected", "feed", feedURL, "articles", len(articles))
	}
}

// Prune deletes articles past the retention window.
func (c *Collector) Prune(ctx context.Context) {
	n, err := c.svc.PruneArticles(ctx, time.Now().UTC().Add(-retention))
	if err != nil {
		slog.Error("article prune failed", "error", err)
		return
	}
	slog.Info("articles pruned", "deleted", n)
}

func itemToArticle(feed *gofeed.Feed, item *gofeed.Item) *models.Article {
	a := &models.Article{
		Title:        item.Title,
		Description:  item.Description,
		Link:         item.Link,
		Publication:  feed.Title,
		SourceDomain: service.DomainOf(item.Link),
	}
	if item.PublishedParsed != nil {
		a.PublishedAt = item.PublishedParsed.UTC()
	} else if item.UpdatedParsed != nil {
		a.PublishedAt = item.UpdatedParsed.UTC()
	}
	if item.Author != nil {
		a.Author = item.Author.Name
	}
	if item.Image != nil {
		a.ImageURL = item.Image.URL
	}
	return a
}
