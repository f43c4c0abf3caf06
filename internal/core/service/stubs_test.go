package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/StaeyKay/blog-api/internal/core/auth"
	"github.com/StaeyKay/blog-api/internal/core/domain"
	"github.com/StaeyKay/blog-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	users   map[string]*domain.User
	seq     int
	findErr error // if set, lookups return this error
	updates int   // UpdatePassword calls
	pwErr   error // if set, UpdatePassword returns this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsernameOrEmail(_ context.Context, username, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	clone := cloneUser(user)
	clone.ID = fmt.Sprintf("u%d", r.seq)
	r.users[clone.ID] = clone
	return cloneUser(clone), nil
}

func (r *stubUserRepo) UpdateByID(_ context.Context, id string, update domain.UserUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Role != nil {
		u.Role = *update.Role
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pwErr != nil {
		return r.pwErr
	}
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	r.updates++
	return nil
}

// seed stores a user with a hashed password and returns its id.
func (r *stubUserRepo) seed(name, username, email, password, role string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	u, err := r.Create(context.Background(), &domain.User{
		Name: name, Username: username, Email: email, PasswordHash: string(hash), Role: role,
	})
	if err != nil {
		panic(err)
	}
	return u.ID
}

type stubResetRepo struct {
	mu     sync.Mutex
	tokens map[string]*domain.ResetToken
	seq    int
}

func newStubResetRepo() *stubResetRepo {
	return &stubResetRepo{tokens: make(map[string]*domain.ResetToken)}
}

func (r *stubResetRepo) Create(_ context.Context, userID string, expiresAt time.Time) (*domain.ResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	t := &domain.ResetToken{
		ID:        fmt.Sprintf("tok-%d", r.seq),
		UserID:    userID,
		CreatedAt: expiresAt.Add(-time.Hour),
		ExpiresAt: expiresAt,
	}
	r.tokens[t.ID] = t
	clone := *t
	return &clone, nil
}

func (r *stubResetRepo) FindByID(_ context.Context, id string) (*domain.ResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[id]
	if !ok {
		return nil, domain.ErrResetTokenNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubResetRepo) MarkExpired(_ context.Context, id string, now time.Time) (*domain.ResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[id]
	if !ok || !t.Usable(now) {
		return nil, domain.ErrResetTokenExpired
	}
	before := *t
	t.Expired = true
	return &before, nil
}

type stubArticleRepo struct {
	articles map[string]*domain.Article
	seq      int
	listErr  error
}

func newStubArticleRepo() *stubArticleRepo {
	return &stubArticleRepo{articles: make(map[string]*domain.Article)}
}

func (r *stubArticleRepo) Create(_ context.Context, a *domain.Article) (*domain.Article, error) {
	r.seq++
	clone := *a
	clone.ID = fmt.Sprintf("a%d", r.seq)
	r.articles[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubArticleRepo) ListByUser(_ context.Context, userID string) ([]*domain.Article, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.Article
	for _, a := range r.articles {
		if a.UserID == userID {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubArticleRepo) Update(_ context.Context, userID string, a *domain.Article) (*domain.Article, error) {
	cur, ok := r.articles[a.ID]
	if !ok || cur.UserID != userID {
		return nil, domain.ErrArticleNotFound
	}
	clone := *a
	r.articles[a.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubArticleRepo) Delete(_ context.Context, userID, id string) error {
	cur, ok := r.articles[id]
	if !ok || cur.UserID != userID {
		return domain.ErrArticleNotFound
	}
	delete(r.articles, id)
	return nil
}

// ---------------------------------------------------------------------------
// Mail and throttle stubs
// ---------------------------------------------------------------------------

type stubMailer struct {
	mu   sync.Mutex
	sent []ports.Message
	err  error
}

func (m *stubMailer) Send(_ context.Context, msg ports.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

var errMailDown = fmt.Errorf("smtp down: %w", domain.ErrMail)

type stubThrottle struct {
	seen map[string]bool
	err  error
}

func (t *stubThrottle) Allow(_ context.Context, key string) (bool, error) {
	if t.err != nil {
		return false, t.err
	}
	if t.seen == nil {
		t.seen = make(map[string]bool)
	}
	if t.seen[key] {
		return false, nil
	}
	t.seen[key] = true
	return true, nil
}

// recordingTx counts transactions and runs fn directly.
type recordingTx struct {
	mu    sync.Mutex
	calls int
}

func (t *recordingTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()
	return fn(ctx)
}

var errStoreDown = errors.Join(domain.ErrStoreUnavailable, errors.New("connection refused"))

func testHasher() *auth.Hasher { return auth.NewHasher(bcrypt.MinCost) }
