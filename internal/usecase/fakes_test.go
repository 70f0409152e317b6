package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"dcms/internal/data/entity"
	"dcms/internal/data/repository"
	"dcms/pkg/jwt"

	"github.com/google/uuid"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*entity.User
	findErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	cp := *user
	r.byID[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateRefreshTokenHash(_ context.Context, id uuid.UUID, hash *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return errors.New("user not found")
	}
	u.RefreshTokenHash = hash
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return errors.New("user not found")
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

type fakeArticleRepo struct {
	mu       sync.Mutex
	articles map[uuid.UUID]*entity.Article
	emails   map[uuid.UUID]string

	// removeOnFind drops the row right after FindByID returns it, as a
	// concurrent delete would.
	removeOnFind bool
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{
		articles: make(map[uuid.UUID]*entity.Article),
		emails:   make(map[uuid.UUID]string),
	}
}

func (r *fakeArticleRepo) Create(_ context.Context, article *entity.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *article
	r.articles[article.ID] = &cp
	return nil
}

func (r *fakeArticleRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.articles[id]
	if !ok {
		return nil, nil
	}
	out := r.project(a)
	if r.removeOnFind {
		delete(r.articles, id)
	}
	return out, nil
}

func (r *fakeArticleRepo) FindAll(_ context.Context, published *bool) ([]*entity.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Article
	for _, a := range r.articles {
		if published != nil && a.IsPublished != *published {
			continue
		}
		out = append(out, r.project(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeArticleRepo) Update(_ context.Context, article *entity.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.articles[article.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *article
	r.articles[article.ID] = &cp
	return nil
}

func (r *fakeArticleRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.articles[id]; !ok {
		return false, nil
	}
	delete(r.articles, id)
	return true, nil
}

func (r *fakeArticleRepo) project(a *entity.Article) *entity.Article {
	cp := *a
	if email, ok := r.emails[a.AuthorID]; ok {
		cp.AuthorEmail = &email
	}
	return &cp
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	// failFor makes Send fail for the subjects listed.
	failFor map[string]error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failFor[subject]; ok {
		return err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *fakeMailer) last() (sentMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}, false
	}
	return m.sent[len(m.sent)-1], true
}

func newTestIssuer() *jwt.Issuer {
	return jwt.NewIssuer("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour, "dcms-test")
}

// clock is a manually advanced time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
