package redis

import (
	"context"
	"fmt"
	"sync"
)

type mockList struct {
	lock  sync.Mutex
	lists map[string][]string
	// fail makes the next n calls return an error.
	fail int
}

func newMockList() *mockList {
	return &mockList{
		lists: make(map[string][]string),
	}
}

func (m *mockList) failing() error {
	if m.fail > 0 {
		m.fail--
		return fmt.Errorf("connection reset")
	}
	return nil
}

func (m *mockList) RPush(ctx context.Context, key string, values ...any) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if err := m.failing(); err != nil {
		return err
	}
	for _, v := range values {
		m.lists[key] = append(m.lists[key], fmt.Sprint(v))
	}
	return nil
}

func (m *mockList) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if err := m.failing(); err != nil {
		return nil, err
	}
	l := m.lists[key]
	n := int64(len(l))
	if start >= n {
		return nil, nil
	}
	if stop >= n {
		stop = n - 1
	}
	return append([]string(nil), l[start:stop+1]...), nil
}
