package mystore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

type InMemoryStore[T any] struct {
	sync.Mutex
	Items map[string]T
}

// The transaction marker is keyed per store: a transaction on one store must
// not bypass the locking of other stores touched in the same call tree.
type inMemTransactionKey struct {
	store any
}

func newInMemoryStore[T any](c context.Context) (*InMemoryStore[T], func(), error) {
	return &InMemoryStore[T]{
		Items: make(map[string]T),
	}, func() {}, nil
}

func (s *InMemoryStore[T]) RunInTransaction(c context.Context, f func(c context.Context) error) error {
	// Start transaction
	s.Lock()

	ctx := context.WithValue(c, inMemTransactionKey{store: s}, true)

	// Within this block everything is transactional
	err := f(ctx)
	if err != nil {
		// Rollback
		s.Unlock()

		return err
	}

	// Commit
	s.Unlock()

	return nil
}

func (s *InMemoryStore[T]) Put(c context.Context, uid string, value T) error {
	nonTransactional := c.Value(inMemTransactionKey{store: s}) == nil

	if nonTransactional {
		s.Lock()
	}

	s.Items[uid] = value

	if nonTransactional {
		s.Unlock()
	}

	return nil
}

func (s *InMemoryStore[T]) Get(c context.Context, uid string) (T, bool, error) {
	nonTransactional := c.Value(inMemTransactionKey{store: s}) == nil

	if nonTransactional {
		s.Lock()
	}
	result, exists := s.Items[uid]

	if nonTransactional {
		s.Unlock()
	}

	return result, exists, nil
}

func (s *InMemoryStore[T]) Delete(c context.Context, uid string) error {
	nonTransactional := c.Value(inMemTransactionKey{store: s}) == nil

	if nonTransactional {
		s.Lock()
	}

	delete(s.Items, uid)

	if nonTransactional {
		s.Unlock()
	}

	return nil
}

func (s *InMemoryStore[T]) List(c context.Context) ([]T, error) {
	nonTransactional := c.Value(inMemTransactionKey{store: s}) == nil

	if nonTransactional {
		s.Lock()
	}

	result := make([]T, 0, len(s.Items))
	for _, v := range s.Items {
		result = append(result, v)
	}

	if nonTransactional {
		s.Unlock()
	}

	return result, nil
}

func (s *InMemoryStore[T]) Query(c context.Context, filters []Filter, orderByField string) ([]T, error) {
	all, err := s.List(c)
	if err != nil {
		return nil, err
	}

	result := make([]T, 0, len(all))
	for _, item := range all {
		matches := true
		for _, f := range filters {
			match, err := matchesFilter(item, f)
			if err != nil {
				return nil, err
			}
			if !match {
				matches = false
				break
			}
		}
		if matches {
			result = append(result, item)
		}
	}

	if orderByField != "" {
		descending := strings.HasPrefix(orderByField, "-")
		fieldName := strings.TrimPrefix(orderByField, "-")
		sort.SliceStable(result, func(i, j int) bool {
			less := lessOnField(result[i], result[j], fieldName)
			if descending {
				return !less
			}
			return less
		})
	}

	return result, nil
}

// Only equality is supported: that is the only comparison the business logic uses.
func matchesFilter[T any](item T, f Filter) (bool, error) {
	if f.Compare != "=" {
		return false, fmt.Errorf("unsupported comparison %s on field %s", f.Compare, f.Field)
	}

	value := reflect.ValueOf(item).FieldByName(f.Field)
	if !value.IsValid() {
		return false, fmt.Errorf("unknown field %s", f.Field)
	}

	return reflect.DeepEqual(value.Interface(), f.Value), nil
}

func lessOnField[T any](a, b T, fieldName string) bool {
	av := reflect.ValueOf(a).FieldByName(fieldName)
	bv := reflect.ValueOf(b).FieldByName(fieldName)
	if !av.IsValid() || !bv.IsValid() {
		return false
	}

	switch av.Kind() {
	case reflect.String:
		return av.String() < bv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return av.Int() < bv.Int()
	case reflect.Bool:
		return !av.Bool() && bv.Bool()
	default:
		return fmt.Sprintf("%v", av.Interface()) < fmt.Sprintf("%v", bv.Interface())
	}
}
