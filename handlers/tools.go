package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripplanner/planner"
)

// TripPlanner runs the full workflow for one request.
type TripPlanner interface {
	Plan(ctx context.Context, req planner.TripRequest, opts planner.Options) planner.State
}

// PlanTripRequest is the tool payload. Pointers make the fields required
// while still accepting empty strings and zero budgets.
type PlanTripRequest struct {
	Destinations *string `json:"destinations" binding:"required"`
	Dates        *string `json:"dates" binding:"required"`
	Budget       *int    `json:"budget" binding:"required"`
	Interests    *string `json:"interests" binding:"required"`
	UseLive      bool    `json:"use_live"`
	UseRAG       bool    `json:"use_rag"`
}

func (r PlanTripRequest) trip() planner.TripRequest {
	return planner.TripRequest{
		Destinations: *r.Destinations,
		Dates:        *r.Dates,
		Budget:       *r.Budget,
		Interests:    *r.Interests,
	}
}

// PlanTripHandler serves POST /tools/plan_trip and returns the whole state.
func PlanTripHandler(p TripPlanner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlanTripRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}

		st := p.Plan(c.Request.Context(), req.trip(), planner.Options{UseLive: req.UseLive, UseRAG: req.UseRAG})
		c.JSON(http.StatusOK, st)
	}
}
