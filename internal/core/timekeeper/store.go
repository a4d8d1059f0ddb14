package timekeeper

import "timerdeck/internal/core/model"

// store is the canonical timer collection and completion history.
// Every method expects the owning TimeKeeper's data lock to be held.
type store struct {
	timers  map[string]*model.Timer
	order   []string
	history []model.CompletedTimerRecord
}

func newStore() *store {
	return &store{
		timers: make(map[string]*model.Timer),
	}
}

func (s *store) insert(timer model.Timer) {
	s.timers[timer.ID] = &timer
	s.order = append(s.order, timer.ID)
}

func (s *store) lookup(id string) (*model.Timer, bool) {
	timer, ok := s.timers[id]
	return timer, ok
}

func (s *store) remove(id string) bool {
	if _, ok := s.timers[id]; !ok {
		return false
	}
	delete(s.timers, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// list returns copies in insertion order, filtered by match when non-nil.
func (s *store) list(match func(model.Timer) bool) []model.Timer {
	result := make([]model.Timer, 0, len(s.order))
	for _, id := range s.order {
		timer := *s.timers[id]
		if match == nil || match(timer) {
			result = append(result, timer)
		}
	}
	return result
}

func (s *store) idsInCategory(category string) []string {
	var ids []string
	for _, id := range s.order {
		if s.timers[id].Category == category {
			ids = append(ids, id)
		}
	}
	return ids
}

// categories returns distinct categories in first-seen order.
func (s *store) categories() []string {
	seen := make(map[string]bool)
	var result []string
	for _, id := range s.order {
		category := s.timers[id].Category
		if !seen[category] {
			seen[category] = true
			result = append(result, category)
		}
	}
	return result
}

func (s *store) appendHistory(record model.CompletedTimerRecord) {
	s.history = append(s.history, record)
}

func (s *store) historySnapshot() []model.CompletedTimerRecord {
	return append([]model.CompletedTimerRecord(nil), s.history...)
}

func (s *store) timersSnapshot() []model.Timer {
	return s.list(nil)
}
