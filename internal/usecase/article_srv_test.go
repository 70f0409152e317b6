package usecase

import (
	"context"
	"testing"
	"time"

	"dcms/internal/data/entity"
	"dcms/internal/dto/request"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"
)

func newArticleFixture(t *testing.T) (*articleService, *fakeArticleRepo, *clock) {
	t.Helper()

	repo := newFakeArticleRepo()
	c := newClock()
	srv := NewArticleService(repo, zaptest.NewLogger(t)).(*articleService)
	srv.now = c.Now
	return srv, repo, c
}

func boolPtr(b bool) *bool     { return &b }
func strPtr(s string) *string { return &s }

func TestArticleService_CreateAndGet(t *testing.T) {
	srv, repo, _ := newArticleFixture(t)
	ctx := context.Background()
	author := uuid.New()
	repo.emails[author] = "admin@x.com"

	created, err := srv.Create(ctx, &request.CreateArticleRequest{Title: "Hello", Content: "World"}, author)
	if err != nil {
		t.Fatalf("Create error = %v", err)
	}
	if created.IsPublished {
		t.Error("article published by default")
	}
	if created.AuthorID != author.String() || created.AuthorEmail != "admin@x.com" {
		t.Errorf("author = %s/%s", created.AuthorID, created.AuthorEmail)
	}

	got, err := srv.GetOne(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetOne error = %v", err)
	}
	if got.Title != "Hello" {
		t.Errorf("title = %q", got.Title)
	}
}

func TestArticleService_CreateValidation(t *testing.T) {
	srv, _, _ := newArticleFixture(t)

	_, err := srv.Create(context.Background(), &request.CreateArticleRequest{Content: "no title"}, uuid.New())
	assertKind(t, err, KindBadRequest)
}

func TestArticleService_List(t *testing.T) {
	srv, _, c := newArticleFixture(t)
	ctx := context.Background()
	author := uuid.New()

	for _, a := range []struct {
		title     string
		published bool
	}{
		{"first", true},
		{"second", false},
		{"third", true},
	} {
		if _, err := srv.Create(ctx, &request.CreateArticleRequest{
			Title:       a.title,
			Content:     "body",
			IsPublished: boolPtr(a.published),
		}, author); err != nil {
			t.Fatalf("Create(%s) error = %v", a.title, err)
		}
		c.Advance(time.Minute)
	}

	tests := []struct {
		name   string
		role   entity.UserRole
		filter string
		want   []string
	}{
		{"admin all", entity.RoleAdmin, "all", []string{"third", "second", "first"}},
		{"admin default", entity.RoleAdmin, "", []string{"third", "second", "first"}},
		{"admin published", entity.RoleAdmin, "published", []string{"third", "first"}},
		{"admin draft", entity.RoleAdmin, "draft", []string{"second"}},
		{"user all", entity.RoleUser, "all", []string{"third", "first"}},
		{"user draft ignored", entity.RoleUser, "draft", []string{"third", "first"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := srv.List(ctx, tt.role, tt.filter)
			if err != nil {
				t.Fatalf("List error = %v", err)
			}
			if len(list) != len(tt.want) {
				t.Fatalf("got %d articles, want %d", len(list), len(tt.want))
			}
			for i, title := range tt.want {
				if list[i].Title != title {
					t.Errorf("list[%d] = %q, want %q", i, list[i].Title, title)
				}
			}
		})
	}

	_, err := srv.List(ctx, entity.RoleAdmin, "archived")
	assertKind(t, err, KindBadRequest)
}

func TestArticleService_UpdatePartial(t *testing.T) {
	srv, _, c := newArticleFixture(t)
	ctx := context.Background()

	created, err := srv.Create(ctx, &request.CreateArticleRequest{Title: "Draft", Content: "v1"}, uuid.New())
	if err != nil {
		t.Fatalf("Create error = %v", err)
	}
	c.Advance(time.Hour)

	updated, err := srv.Update(ctx, created.ID, &request.UpdateArticleRequest{IsPublished: boolPtr(true)})
	if err != nil {
		t.Fatalf("Update error = %v", err)
	}
	if !updated.IsPublished || updated.Title != "Draft" || updated.Content != "v1" {
		t.Errorf("updated = %+v", updated)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Error("updatedAt not bumped")
	}

	updated, err = srv.Update(ctx, created.ID, &request.UpdateArticleRequest{Title: strPtr("Final")})
	if err != nil {
		t.Fatalf("Update error = %v", err)
	}
	if updated.Title != "Final" || !updated.IsPublished {
		t.Errorf("updated = %+v", updated)
	}

	_, err = srv.Update(ctx, uuid.NewString(), &request.UpdateArticleRequest{Title: strPtr("x")})
	assertKind(t, err, KindNotFound)
}

func TestArticleService_UpdateDeletedConcurrently(t *testing.T) {
	srv, repo, _ := newArticleFixture(t)
	ctx := context.Background()

	created, err := srv.Create(ctx, &request.CreateArticleRequest{Title: "Racy", Content: "v1"}, uuid.New())
	if err != nil {
		t.Fatalf("Create error = %v", err)
	}
	repo.removeOnFind = true

	_, err = srv.Update(ctx, created.ID, &request.UpdateArticleRequest{Title: strPtr("v2")})
	assertKind(t, err, KindNotFound)
}

func TestArticleService_Remove(t *testing.T) {
	srv, _, _ := newArticleFixture(t)
	ctx := context.Background()

	created, err := srv.Create(ctx, &request.CreateArticleRequest{Title: "Gone", Content: "soon"}, uuid.New())
	if err != nil {
		t.Fatalf("Create error = %v", err)
	}

	if err := srv.Remove(ctx, created.ID); err != nil {
		t.Fatalf("Remove error = %v", err)
	}
	assertKind(t, srv.Remove(ctx, created.ID), KindNotFound)

	_, err = srv.GetOne(ctx, created.ID)
	assertKind(t, err, KindNotFound)
}

func TestArticleService_InvalidID(t *testing.T) {
	srv, _, _ := newArticleFixture(t)

	_, err := srv.GetOne(context.Background(), "not-a-uuid")
	assertKind(t, err, KindBadRequest)
	assertKind(t, srv.Remove(context.Background(), "not-a-uuid"), KindBadRequest)
}
