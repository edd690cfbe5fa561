// internal/domain/training_plan.go
package domain

import (
	"encoding/json"
	"time"
)

// Common goal values. Goal is free text; these are the ones the forms offer.
const (
	GoalWeightLoss     = "weight loss"
	GoalMuscleGain     = "muscle gain"
	GoalGeneralFitness = "general fitness"
)

// Plan is a fitness plan record. Body is whatever the creating authority stored.
type Plan struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id,omitempty"` // Optional, no foreign key
	Name      string          `json:"name"`
	Goal      string          `json:"goal"`
	CreatedAt time.Time       `json:"created_at"`
	Body      json.RawMessage `json:"body,omitempty"`
}

// NewPlan carries the fields needed to create a Plan in the local cache.
type NewPlan struct {
	UserID int64           `json:"user_id,omitempty"`
	Name   string          `json:"name" validate:"required"`
	Goal   string          `json:"goal" validate:"required"`
	Body   json.RawMessage `json:"body,omitempty"`
}

// CreatePlanRequest saves a named plan for a user on the remote service.
type CreatePlanRequest struct {
	UserID   int64  `json:"user_id" validate:"required"`
	PlanType string `json:"plan_type" validate:"required"` // e.g. veg / nonveg
	PlanName string `json:"plan_name" validate:"required"`
}

// UpdateProfileRequest updates body metrics and records a new goal.
type UpdateProfileRequest struct {
	UserID   int64   `json:"user_id" validate:"required"`
	HeightCM float64 `json:"height_cm" validate:"required,gt=0"`
	WeightKG float64 `json:"weight_kg" validate:"required,gt=0"`
	Goal     string  `json:"goal" validate:"required"`
}

// PlanRequest is the input of the remote plan generator.
type PlanRequest struct {
	Name             string   `json:"name" validate:"required"`
	Age              int      `json:"age" validate:"required,gte=13"`
	Sex              string   `json:"sex"`
	Weight           float64  `json:"weight" validate:"required,gt=0"`
	Height           float64  `json:"height" validate:"required,gt=0"`
	Goal             string   `json:"goal"`
	ActivityLevel    string   `json:"activity_level"`
	Experience       string   `json:"experience"`
	DietPref         string   `json:"diet_pref"`
	DaysPerWeek      int      `json:"days_per_week" validate:"gte=1,lte=7"`
	PreferredTime    string   `json:"preferred_time"`
	HealthConditions []string `json:"health_conditions"`
}

// GeneratedPlan is the opaque plan produced by the remote generator.
// The well-known sections are decoded for convenience; Raw keeps everything.
type GeneratedPlan struct {
	WeeklyWorkouts           json.RawMessage `json:"weekly_workouts,omitempty"`
	WeeklyMeals              json.RawMessage `json:"weekly_meals,omitempty"`
	Habits                   json.RawMessage `json:"habits,omitempty"`
	WeeklyProgressGuidelines json.RawMessage `json:"weekly_progress_guidelines,omitempty"`
	Raw                      json.RawMessage `json:"-"`
}

// MarshalJSON emits the plan exactly as the generator returned it.
func (p GeneratedPlan) MarshalJSON() ([]byte, error) {
	if len(p.Raw) > 0 {
		return p.Raw, nil
	}
	type alias GeneratedPlan
	return json.Marshal(alias(p))
}

// UnmarshalJSON decodes the known sections and keeps the full payload in Raw.
func (p *GeneratedPlan) UnmarshalJSON(b []byte) error {
	type alias GeneratedPlan
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*p = GeneratedPlan(a)
	p.Raw = append(json.RawMessage(nil), b...)
	return nil
}
