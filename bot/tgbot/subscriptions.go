package tgbot

import (
	"sync"

	botmodel "github.com/goserg/clubsite/bot/model"

	mapset "github.com/deckarep/golang-set/v2"
)

type subscriptions struct {
	mu sync.Mutex
	m  map[botmodel.EventType]mapset.Set[int64]
}

func newSubs() *subscriptions {
	return &subscriptions{
		m: make(map[botmodel.EventType]mapset.Set[int64]),
	}
}

func (s *subscriptions) Add(t botmodel.EventType, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m[t] == nil {
		s.m[t] = mapset.NewSet[int64]()
	}
	s.m[t].Add(userID)
}

func (s *subscriptions) Remove(t botmodel.EventType, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m[t] == nil {
		return
	}
	s.m[t].Remove(userID)
}

func (s *subscriptions) GetUserIDs(t botmodel.EventType) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m[t] == nil {
		return nil
	}
	return s.m[t].ToSlice()
}
