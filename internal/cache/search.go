package cache

import (
	"strings"

	"fitwise/fitness-client/internal/domain"
)

// Collection names one of the cached collections for Search.
type Collection[T any] struct {
	name     string
	snapshot func(*Store) []T
}

func (c Collection[T]) String() string { return c.name }

var (
	UserCollection = Collection[domain.User]{name: "users", snapshot: func(s *Store) []domain.User {
		out := make([]domain.User, len(s.users.Items))
		for i, u := range s.users.Items {
			out[i] = u.Public()
		}
		return out
	}}
	PlanCollection = Collection[domain.Plan]{name: "plans", snapshot: func(s *Store) []domain.Plan {
		out := make([]domain.Plan, len(s.plans.Items))
		for i, p := range s.plans.Items {
			out[i] = clonePlan(p)
		}
		return out
	}}
)

// Search returns a copy of the records of c matching match, in stored order.
// A nil match selects everything. The cache itself is never modified.
func Search[T any](s *Store, c Collection[T], match func(T) bool) []T {
	s.mu.Lock()
	items := c.snapshot(s)
	s.mu.Unlock()

	if match == nil {
		return items
	}
	return Filter(items, match)
}

// SearchUsers matches query case-insensitively against name or email.
func (s *Store) SearchUsers(query string) []domain.User {
	return Search(s, UserCollection, UserMatches(query))
}

// SearchPlans matches query case-insensitively against name or goal.
func (s *Store) SearchPlans(query string) []domain.Plan {
	return Search(s, PlanCollection, PlanMatches(query))
}

// UserMatches is the DB manager's user filter: a case-insensitive substring of name or email.
func UserMatches(query string) func(domain.User) bool {
	q := strings.ToLower(query)
	return func(u domain.User) bool {
		return contains(u.Name, q) || contains(u.Email, q)
	}
}

// PlanMatches is the DB manager's plan filter: a case-insensitive substring of name or goal.
func PlanMatches(query string) func(domain.Plan) bool {
	q := strings.ToLower(query)
	return func(p domain.Plan) bool {
		return contains(p.Name, q) || contains(p.Goal, q)
	}
}

// Filter returns the items matching match, in order.
func Filter[T any](items []T, match func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if match(item) {
			out = append(out, item)
		}
	}
	return out
}

func contains(field, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(field), lowerQuery)
}

// Stats summarizes the cache for the DB manager charts.
type Stats struct {
	Users          int            `json:"users"`
	Plans          int            `json:"plans"`
	PlansPerGoal   map[string]int `json:"plans_per_goal"`
	UsersPerGender map[string]int `json:"users_per_gender"`
}

const unspecified = "unspecified"

// Stats counts plans per goal and users per gender.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summarize(s.users.Items, s.plans.Items)
}

// Summarize computes Stats over any pair of user and plan lists.
func Summarize(users []domain.User, plans []domain.Plan) Stats {
	st := Stats{
		Users:          len(users),
		Plans:          len(plans),
		PlansPerGoal:   make(map[string]int),
		UsersPerGender: make(map[string]int),
	}
	for _, p := range plans {
		st.PlansPerGoal[bucket(p.Goal)]++
	}
	for _, u := range users {
		st.UsersPerGender[bucket(u.Gender)]++
	}
	return st
}

func bucket(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return unspecified
	}
	return v
}
