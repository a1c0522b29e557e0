package service

import (
	"context"

	"github.com/mediblog/mediblog-backend/internal/domain"
	"github.com/mediblog/mediblog-backend/internal/repository"
	pkges "github.com/mediblog/mediblog-backend/pkg/elasticsearch"
	pkglogger "github.com/mediblog/mediblog-backend/pkg/logger"
)

// SearchService searches published posts and keeps the index current.
// Indexing failures are logged and swallowed: search lag must never block
// a publish.
type SearchService interface {
	SearchPosts(ctx context.Context, keyword string, page, limit int) ([]*domain.Post, int64, error)
	IndexPost(ctx context.Context, post *domain.Post)
	RemovePost(ctx context.Context, id string)
}

type searchService struct {
	es    *pkges.Client
	index string
	repo  repository.PostRepository
}

// NewSearchService creates a SearchService. es may be nil; the service then
// serves searches straight from the database.
func NewSearchService(es *pkges.Client, index string, repo repository.PostRepository) SearchService {
	return &searchService{es: es, index: index, repo: repo}
}

func (s *searchService) SearchPosts(ctx context.Context, keyword string, page, limit int) ([]*domain.Post, int64, error) {
	page, limit = clampPagination(page, limit)
	if s.es == nil {
		return s.repo.SearchPublished(ctx, keyword, page, limit)
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  keyword,
				"fields": []string{"title^3", "excerpt^2", "content"},
			},
		},
	}

	resp, err := s.es.Search(ctx, s.index, query, (page-1)*limit, limit)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("elasticsearch query failed, falling back to SQL search")
		return s.repo.SearchPublished(ctx, keyword, page, limit)
	}

	// Hits carry only the indexed fields; hydrate full posts from the store
	// in relevance order. Posts deleted since indexing are skipped.
	posts := make([]*domain.Post, 0, len(resp.Results))
	for _, hit := range resp.Results {
		post, err := s.repo.FindByID(ctx, hit.ID)
		if err != nil {
			continue
		}
		if post.Status == domain.StatusPublished {
			posts = append(posts, post)
		}
	}
	return posts, resp.Total, nil
}

type postDocument struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Excerpt     string `json:"excerpt"`
	Content     string `json:"content"`
	PublishedAt string `json:"published_at,omitempty"`
}

func (s *searchService) IndexPost(ctx context.Context, post *domain.Post) {
	if s.es == nil {
		return
	}
	doc := postDocument{
		Title:   post.Title,
		Slug:    post.Slug,
		Excerpt: post.Excerpt,
		Content: post.Content,
	}
	if post.PublishedAt != nil {
		doc.PublishedAt = post.PublishedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	if err := s.es.IndexDocument(ctx, s.index, post.ID, doc); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("post_id", post.ID).Msg("post indexing failed")
	}
}

func (s *searchService) RemovePost(ctx context.Context, id string) {
	if s.es == nil {
		return
	}
	if err := s.es.DeleteDocument(ctx, s.index, id); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("post_id", id).Msg("post de-indexing failed")
	}
}
