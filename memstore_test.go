package main

import (
	"sync"

	"be04/models"

	"github.com/google/uuid"
)

// In-memory store twins used by the service and handler tests so they run
// without a database.

type memUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*models.User)}
}

func (s *memUserStore) FindByEmail(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memUserStore) FindByID(id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (s *memUserStore) FindByRefreshToken(token string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.RefreshToken != nil && *u.RefreshToken == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memUserStore) Create(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *memUserStore) Save(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

type memCrudStore[T any] struct {
	mu    sync.Mutex
	items []*T
	ops   int // store accesses, for asserting the auth gate short-circuits
	id    func(*T) string
	setID func(*T, string)
	match func(*T, map[string]any) bool
}

func (s *memCrudStore[T]) accesses() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ops
}

func (s *memCrudStore[T]) List(filter map[string]any) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops++
	out := make([]T, 0, len(s.items))
	// newest first, mirroring the created_at desc ordering of the SQL store
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.match(s.items[i], filter) {
			out = append(out, *s.items[i])
		}
	}
	return out, nil
}

func (s *memCrudStore[T]) Get(id string) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops++
	for _, it := range s.items {
		if s.id(it) == id {
			cp := *it
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memCrudStore[T]) Create(v *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops++
	if s.id(v) == "" {
		s.setID(v, uuid.NewString())
	}
	cp := *v
	s.items = append(s.items, &cp)
	return nil
}

func (s *memCrudStore[T]) Update(v *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops++
	for i, it := range s.items {
		if s.id(it) == s.id(v) {
			cp := *v
			s.items[i] = &cp
			return nil
		}
	}
	return ErrNotFound
}

func (s *memCrudStore[T]) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops++
	for i, it := range s.items {
		if s.id(it) == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func newMemPostStore() *memCrudStore[models.Post] {
	return &memCrudStore[models.Post]{
		id:    func(p *models.Post) string { return p.ID },
		setID: func(p *models.Post, id string) { p.ID = id },
		match: func(p *models.Post, f map[string]any) bool {
			if v, ok := f["sender"]; ok && p.Sender != v.(string) {
				return false
			}
			return true
		},
	}
}

func newMemCommentStore() *memCrudStore[models.Comment] {
	return &memCrudStore[models.Comment]{
		id:    func(c *models.Comment) string { return c.ID },
		setID: func(c *models.Comment, id string) { c.ID = id },
		match: func(c *models.Comment, f map[string]any) bool {
			if v, ok := f["sender"]; ok && c.Sender != v.(string) {
				return false
			}
			if v, ok := f["post_id"]; ok && c.PostID != v.(string) {
				return false
			}
			return true
		},
	}
}
