// Package store persists rooms, roles, users and reservations with gorm.
package store

import (
	"context"
	"fmt"
	"math"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store wraps a gorm handle. A Store obtained from Transaction is bound to
// that transaction.
type Store struct {
	db *gorm.DB
}

// New returns a Store on db.
func New(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return &Store{db: db}, nil
}

// DB returns the underlying gorm handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn with a Store bound to a single database transaction.
// The transaction is rolled back when fn returns an error.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Pageable selects a page of a listing. Page is 0-based.
type Pageable struct {
	Page int
	Size int
	Sort string // json field name, see the Sortable maps
	Desc bool
}

// Page is one page of a listing.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

func find[T any](ctx context.Context, db *gorm.DB, id uint64, preloads ...string) (*T, error) {
	var v T

	q := db.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}

	if err := q.First(&v, id).Error; err != nil {
		return nil, translate(err)
	}

	return &v, nil
}

// save inserts v when its primary key is zero and updates it otherwise.
// Associations are never written, only their foreign keys.
func save[T any](ctx context.Context, db *gorm.DB, v *T) error {
	return translate(db.WithContext(ctx).Omit(clause.Associations).Save(v).Error)
}

func deleteByID[T any](ctx context.Context, db *gorm.DB, id uint64) error {
	res := db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return translate(res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func deleteAll[T any](ctx context.Context, db *gorm.DB) error {
	return translate(db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(new(T)).Error)
}

// paginate counts the rows matching q and loads the requested page.
// Preloads only apply to the page query.
func paginate[T any](
	ctx context.Context, q *gorm.DB, p Pageable, sortable map[string]string, preloads ...string,
) (Page[T], error) {
	var (
		total int64
		items []T
	)

	order, err := orderBy(p, sortable)
	if err != nil {
		return Page[T]{}, err
	}

	base := q.WithContext(ctx).Model(new(T)).Session(&gorm.Session{})

	if err = base.Count(&total).Error; err != nil {
		return Page[T]{}, translate(err)
	}

	fq := base
	for _, pl := range preloads {
		fq = fq.Preload(pl)
	}

	err = fq.Order(order).
		Limit(p.Size).
		Offset(p.Page * p.Size).
		Find(&items).Error
	if err != nil {
		return Page[T]{}, translate(err)
	}

	if items == nil {
		items = []T{}
	}

	return Page[T]{
		Content:       items,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: total,
		TotalPages:    totalPages(total, p.Size),
	}, nil
}

func orderBy(p Pageable, sortable map[string]string) (clause.OrderBy, error) {
	id := clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: p.Desc}

	if p.Sort == "" || p.Sort == "id" {
		return clause.OrderBy{Columns: []clause.OrderByColumn{id}}, nil
	}

	column, ok := sortable[p.Sort]
	if !ok {
		return clause.OrderBy{}, fmt.Errorf("%w: %q", ErrUnknownSortField, p.Sort)
	}

	// id keeps pages stable for equal sort keys
	return clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Name: column}, Desc: p.Desc},
		{Column: clause.Column{Name: "id"}},
	}}, nil
}

func totalPages(total int64, size int) int {
	if size <= 0 {
		return 0
	}

	return int(math.Ceil(float64(total) / float64(size)))
}
