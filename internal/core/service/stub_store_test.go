package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/warbler/warbler/internal/core/domain"
	"github.com/warbler/warbler/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory store enforcing the same constraints as the real backends.
// ---------------------------------------------------------------------------

type stubStore struct {
	users    map[int64]*domain.User
	messages map[int64]*domain.Message
	follows  map[[2]int64]time.Time
	nextID   int64

	findErr error // forced error for user lookups
	txCalls int
}

func newStubStore() *stubStore {
	return &stubStore{
		users:    make(map[int64]*domain.User),
		messages: make(map[int64]*domain.Message),
		follows:  make(map[[2]int64]time.Time),
	}
}

func (s *stubStore) Users() ports.UserRepository       { return stubUsers{s} }
func (s *stubStore) Messages() ports.MessageRepository { return stubMessages{s} }
func (s *stubStore) Follows() ports.FollowRepository   { return stubFollows{s} }
func (s *stubStore) Ping(context.Context) error        { return nil }

func (s *stubStore) Transaction(ctx context.Context, fn func(ctx context.Context, tx ports.Store) error) error {
	s.txCalls++
	return fn(ctx, s)
}

func (s *stubStore) id() int64 {
	s.nextID++
	return s.nextID
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.Messages, c.Following, c.Followers = nil, nil, nil
	return &c
}

type stubUsers struct{ s *stubStore }

func (r stubUsers) check(u *domain.User) error {
	switch {
	case u.Username == "":
		return &domain.IntegrityError{Kind: domain.ViolationNotNull, Entity: "user", Field: "username"}
	case u.Email == "":
		return &domain.IntegrityError{Kind: domain.ViolationNotNull, Entity: "user", Field: "email"}
	case u.Password == "":
		return &domain.IntegrityError{Kind: domain.ViolationNotNull, Entity: "user", Field: "password"}
	}
	for _, other := range r.s.users {
		if other.ID == u.ID {
			continue
		}
		if other.Username == u.Username {
			return &domain.IntegrityError{Kind: domain.ViolationUnique, Entity: "user", Field: "username"}
		}
		if other.Email == u.Email {
			return &domain.IntegrityError{Kind: domain.ViolationUnique, Entity: "user", Field: "email"}
		}
	}
	return nil
}

func (r stubUsers) Create(_ context.Context, u *domain.User) error {
	if err := r.check(u); err != nil {
		return err
	}
	u.ID = r.s.id()
	r.s.users[u.ID] = cloneUser(u)
	return nil
}

func (r stubUsers) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if r.s.findErr != nil {
		return nil, r.s.findErr
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r stubUsers) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.s.findErr != nil {
		return nil, r.s.findErr
	}
	for _, u := range r.s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r stubUsers) Search(_ context.Context, query string, limit int) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.s.sortedUsers() {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(query)) && len(out) < limit {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r stubUsers) Update(_ context.Context, u *domain.User) error {
	if _, ok := r.s.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	if err := r.check(u); err != nil {
		return err
	}
	r.s.users[u.ID] = cloneUser(u)
	return nil
}

func (r stubUsers) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.users, id)
	for mid, m := range r.s.messages {
		if m.UserID == id {
			delete(r.s.messages, mid)
		}
	}
	for k := range r.s.follows {
		if k[0] == id || k[1] == id {
			delete(r.s.follows, k)
		}
	}
	return nil
}

func (s *stubStore) sortedUsers() []*domain.User {
	out := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type stubMessages struct{ s *stubStore }

func (r stubMessages) Create(_ context.Context, m *domain.Message) error {
	if m.Text == "" {
		return &domain.IntegrityError{Kind: domain.ViolationNotNull, Entity: "message", Field: "text"}
	}
	if utf8.RuneCountInString(m.Text) > domain.MaxMessageLength {
		return &domain.IntegrityError{Kind: domain.ViolationCheck, Entity: "message", Field: "text"}
	}
	if _, ok := r.s.users[m.UserID]; !ok {
		return &domain.IntegrityError{Kind: domain.ViolationForeignKey, Entity: "message", Field: "user_id"}
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	m.ID = r.s.id()
	c := *m
	r.s.messages[m.ID] = &c
	return nil
}

func (r stubMessages) FindByID(_ context.Context, id int64) (*domain.Message, error) {
	m, ok := r.s.messages[id]
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	c := *m
	return &c, nil
}

func (r stubMessages) sorted() []*domain.Message {
	out := make([]*domain.Message, 0, len(r.s.messages))
	for _, m := range r.s.messages {
		c := *m
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r stubMessages) ListByUser(_ context.Context, userID int64) ([]*domain.Message, error) {
	var out []*domain.Message
	for _, m := range r.sorted() {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r stubMessages) Timeline(_ context.Context, userIDs []int64, limit int) ([]*domain.Message, error) {
	wanted := make(map[int64]bool, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = true
	}
	all := r.sorted()
	var out []*domain.Message
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		if wanted[all[i].UserID] {
			out = append(out, all[i])
		}
	}
	return out, nil
}

func (r stubMessages) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.messages[id]; !ok {
		return domain.ErrMessageNotFound
	}
	delete(r.s.messages, id)
	return nil
}

type stubFollows struct{ s *stubStore }

func (r stubFollows) Create(_ context.Context, followerID, followedID int64) error {
	_, a := r.s.users[followerID]
	_, b := r.s.users[followedID]
	if !a || !b {
		return &domain.IntegrityError{Kind: domain.ViolationForeignKey, Entity: "follow"}
	}
	key := [2]int64{followerID, followedID}
	if _, exists := r.s.follows[key]; exists {
		return &domain.IntegrityError{Kind: domain.ViolationUnique, Entity: "follow", Field: "follower_id,followed_id"}
	}
	r.s.follows[key] = time.Now()
	return nil
}

func (r stubFollows) Delete(_ context.Context, followerID, followedID int64) error {
	key := [2]int64{followerID, followedID}
	if _, ok := r.s.follows[key]; !ok {
		return domain.ErrNotFollowing
	}
	delete(r.s.follows, key)
	return nil
}

func (r stubFollows) Exists(_ context.Context, followerID, followedID int64) (bool, error) {
	_, ok := r.s.follows[[2]int64{followerID, followedID}]
	return ok, nil
}

func (r stubFollows) Following(_ context.Context, userID int64) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.s.sortedUsers() {
		if _, ok := r.s.follows[[2]int64{userID, u.ID}]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r stubFollows) Followers(_ context.Context, userID int64) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.s.sortedUsers() {
		if _, ok := r.s.follows[[2]int64{u.ID, userID}]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Hasher and denylist stubs
// ---------------------------------------------------------------------------

// plainHasher prefixes the password so tests can tell hashed from plain.
type plainHasher struct{ err error }

func (h plainHasher) Hash(password string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + password, nil
}

func (h plainHasher) Verify(password, hash string) bool {
	return hash != "" && hash == "hashed:"+password
}

type stubDenylist struct {
	revoked map[string]time.Duration
	err     error
}

func (d *stubDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if d.err != nil {
		return d.err
	}
	if d.revoked == nil {
		d.revoked = make(map[string]time.Duration)
	}
	d.revoked[tokenID] = ttl
	return nil
}

func (d *stubDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := d.revoked[tokenID]
	return ok, d.err
}

var errBoom = errors.New("boom")
