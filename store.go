package main

import (
	"errors"

	"be04/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned by stores when no record matches.
var ErrNotFound = errors.New("record not found")

// UserStore is the credential store surface the auth service depends on.
type UserStore interface {
	FindByEmail(email string) (*models.User, error)
	FindByID(id string) (*models.User, error)
	FindByRefreshToken(token string) (*models.User, error)
	Create(u *models.User) error
	Save(u *models.User) error
}

// CrudStore is the generic persistence surface for owned resources. Filter
// keys are column names matched by equality.
type CrudStore[T any] interface {
	List(filter map[string]any) ([]T, error)
	Get(id string) (*T, error)
	Create(v *T) error
	Update(v *T) error
	Delete(id string) error
}

type gormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) UserStore {
	return &gormUserStore{db: db}
}

func (s *gormUserStore) FindByEmail(email string) (*models.User, error) {
	var u models.User
	if err := s.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *gormUserStore) FindByID(id string) (*models.User, error) {
	var u models.User
	if err := s.db.First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *gormUserStore) FindByRefreshToken(token string) (*models.User, error) {
	var u models.User
	if err := s.db.Where("refresh_token = ?", token).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *gormUserStore) Create(u *models.User) error {
	return s.db.Create(u).Error
}

func (s *gormUserStore) Save(u *models.User) error {
	return s.db.Save(u).Error
}

type gormCrudStore[T any] struct {
	db *gorm.DB
}

func NewGormCrudStore[T any](db *gorm.DB) CrudStore[T] {
	return &gormCrudStore[T]{db: db}
}

func (s *gormCrudStore[T]) List(filter map[string]any) ([]T, error) {
	q := s.db.Order("created_at desc")
	if len(filter) > 0 {
		q = q.Where(filter)
	}
	out := make([]T, 0)
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *gormCrudStore[T]) Get(id string) (*T, error) {
	var v T
	if err := s.db.First(&v, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (s *gormCrudStore[T]) Create(v *T) error {
	return s.db.Create(v).Error
}

func (s *gormCrudStore[T]) Update(v *T) error {
	return s.db.Save(v).Error
}

func (s *gormCrudStore[T]) Delete(id string) error {
	var v T
	res := s.db.Where("id = ?", id).Delete(&v)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
