package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"seeker/internal/entity"
)

func newLifecycle() (*ArticleLifecycle, *fakeRepo) {
	repo := newFakeRepo()
	return NewArticleLifecycle(repo), repo
}

func createArticle(t *testing.T, lifecycle *ArticleLifecycle, title string, published bool) *entity.DbArticle {
	t.Helper()
	article, err := lifecycle.Create(context.Background(), entity.ArticleCreateRequest{
		Title:     title,
		Content:   "some content",
		Published: published,
	})
	if err != nil {
		t.Fatalf("unexpected error creating article: %v", err)
	}
	return article
}

func TestCreateDerivesSlugFromTitle(t *testing.T) {
	lifecycle, _ := newLifecycle()

	article := createArticle(t, lifecycle, "Hello World", true)
	if !strings.HasPrefix(article.Slug, "hello-world-") {
		t.Fatalf("expected slug prefixed hello-world-, got %q", article.Slug)
	}
	if article.Slug == "hello-world-" {
		t.Fatal("expected a uniqueness token after the prefix")
	}
}

func TestCreateValidation(t *testing.T) {
	lifecycle, _ := newLifecycle()

	tests := []struct {
		name  string
		input entity.ArticleCreateRequest
		field string
	}{
		{
			name:  "empty title",
			input: entity.ArticleCreateRequest{Title: "   ", Content: "body"},
			field: "title",
		},
		{
			name:  "empty content",
			input: entity.ArticleCreateRequest{Title: "Title", Content: ""},
			field: "content",
		},
		{
			name:  "punctuation-only title",
			input: entity.ArticleCreateRequest{Title: "?!?!", Content: "body"},
			field: "title",
		},
		{
			name:  "unknown category",
			input: entity.ArticleCreateRequest{Title: "Title", Content: "body", Category: "gossip"},
			field: "category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lifecycle.Create(context.Background(), tt.input)
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if validation.Field != tt.field {
				t.Fatalf("expected field %q, got %q", tt.field, validation.Field)
			}
		})
	}
}

func TestCreateIdenticalTitlesDistinctSlugs(t *testing.T) {
	lifecycle, _ := newLifecycle()

	first := createArticle(t, lifecycle, "Hello World", true)
	second := createArticle(t, lifecycle, "Hello World", true)

	if first.Slug == second.Slug {
		t.Fatalf("expected distinct slugs, both got %q", first.Slug)
	}
}

func TestUpdateDoesNotRegenerateSlug(t *testing.T) {
	lifecycle, _ := newLifecycle()
	article := createArticle(t, lifecycle, "Original Title", true)
	originalSlug := article.Slug

	newTitle := "Completely Different Title"
	updated, err := lifecycle.Update(context.Background(), article.ID, entity.ArticleUpdateRequest{Title: &newTitle})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != newTitle {
		t.Fatalf("expected new title, got %q", updated.Title)
	}
	if updated.Slug != originalSlug {
		t.Fatalf("expected slug to stay %q, got %q", originalSlug, updated.Slug)
	}
}

func TestUpdatePublishTransitions(t *testing.T) {
	lifecycle, _ := newLifecycle()
	article := createArticle(t, lifecycle, "Draft Story", false)

	publish := true
	updated, err := lifecycle.Update(context.Background(), article.ID, entity.ArticleUpdateRequest{Published: &publish})
	if err != nil {
		t.Fatalf("unexpected error publishing: %v", err)
	}
	if !updated.Published {
		t.Fatal("expected article to be published")
	}

	unpublish := false
	updated, err = lifecycle.Update(context.Background(), article.ID, entity.ArticleUpdateRequest{Published: &unpublish})
	if err != nil {
		t.Fatalf("unexpected error unpublishing: %v", err)
	}
	if updated.Published {
		t.Fatal("expected article back in draft")
	}
}

func TestUpdateUnknownArticle(t *testing.T) {
	lifecycle, _ := newLifecycle()

	title := "x"
	_, err := lifecycle.Update(context.Background(), 99, entity.ArticleUpdateRequest{Title: &title})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	lifecycle, _ := newLifecycle()
	article := createArticle(t, lifecycle, "Short Lived", true)

	if err := lifecycle.Delete(context.Background(), article.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := lifecycle.Delete(context.Background(), article.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestGetPublishedBySlugHidesDrafts(t *testing.T) {
	lifecycle, _ := newLifecycle()
	draft := createArticle(t, lifecycle, "Hidden Draft", false)

	_, draftErr := lifecycle.GetPublishedBySlug(context.Background(), draft.Slug)
	_, missingErr := lifecycle.GetPublishedBySlug(context.Background(), "no-such-slug")

	// A hidden draft and a missing slug must be indistinguishable.
	if !errors.Is(draftErr, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for draft, got %v", draftErr)
	}
	if !errors.Is(missingErr, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing slug, got %v", missingErr)
	}
	if draftErr.Error() != missingErr.Error() {
		t.Fatalf("draft and missing errors differ: %q vs %q", draftErr, missingErr)
	}
}

func TestGetPublishedBySlugReturnsPublished(t *testing.T) {
	lifecycle, _ := newLifecycle()
	published := createArticle(t, lifecycle, "Public Story", true)

	article, err := lifecycle.GetPublishedBySlug(context.Background(), published.Slug)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if article.ID != published.ID {
		t.Fatalf("expected article %d, got %d", published.ID, article.ID)
	}
}

func TestListPublishedFiltersDrafts(t *testing.T) {
	lifecycle, _ := newLifecycle()
	createArticle(t, lifecycle, "First Published", true)
	createArticle(t, lifecycle, "A Draft", false)
	createArticle(t, lifecycle, "Second Published", true)

	published, err := lifecycle.ListPublished(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(published) != 2 {
		t.Fatalf("expected 2 published articles, got %d", len(published))
	}
	// Newest first.
	if published[0].Title != "Second Published" || published[1].Title != "First Published" {
		t.Fatalf("unexpected order: %q, %q", published[0].Title, published[1].Title)
	}

	all, err := lifecycle.ListAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 articles in the admin list, got %d", len(all))
	}
}
