package server

import (
	"time"

	"github.com/gin-gonic/gin"
	scheduledomain "github.com/storekeeplabs/storekeep/internal/schedule/domain"
)

type createScheduleRequest struct {
	Title       string    `json:"title" binding:"required,max=255"`
	Description *string   `json:"description" binding:"omitempty,max=1000"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	Type        string    `json:"type" binding:"omitempty,max=64"`
	Status      string    `json:"status" binding:"omitempty,oneof=scheduled completed cancelled"`
}

type updateScheduleRequest struct {
	Title       *string    `json:"title" binding:"omitempty,max=255"`
	Description *string    `json:"description" binding:"omitempty,max=1000"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Type        *string    `json:"type" binding:"omitempty,max=64"`
	Status      *string    `json:"status" binding:"omitempty,oneof=scheduled completed cancelled"`
}

func (s *Server) ListSchedules(c *gin.Context) {
	user := currentUser(c)
	resp, err := s.scheduleSvc.List(c.Request.Context(), user.ID)
	if err != nil {
		s.AbortWithError(c, err)
		return
	}
	respondOK(c, "Schedules retrieved successfully", resp)
}

func (s *Server) CreateSchedule(c *gin.Context) {
	var req createScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.AbortWithError(c, bindError(err))
		return
	}

	user := currentUser(c)
	resp, err := s.scheduleSvc.Create(c.Request.Context(), user.ID, scheduledomain.CreateRequest{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Type:        req.Type,
		Status:      req.Status,
	})
	if err != nil {
		s.AbortWithError(c, err)
		return
	}

	respondCreated(c, "Event scheduled successfully", resp)
}

func (s *Server) GetSchedule(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		s.AbortWithError(c, notFoundError("Schedule not found"))
		return
	}

	user := currentUser(c)
	resp, err := s.scheduleSvc.Find(c.Request.Context(), user.ID, id)
	if err != nil {
		s.AbortWithError(c, err)
		return
	}
	respondOK(c, "Schedule retrieved successfully", resp)
}

func (s *Server) UpdateSchedule(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		s.AbortWithError(c, notFoundError("Schedule not found"))
		return
	}

	var req updateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.AbortWithError(c, bindError(err))
		return
	}

	user := currentUser(c)
	resp, err := s.scheduleSvc.Update(c.Request.Context(), user.ID, id, scheduledomain.UpdateRequest{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Type:        req.Type,
		Status:      req.Status,
	})
	if err != nil {
		s.AbortWithError(c, err)
		return
	}

	respondOK(c, "Event updated successfully", resp)
}

func (s *Server) DeleteSchedule(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		s.AbortWithError(c, notFoundError("Schedule not found"))
		return
	}

	user := currentUser(c)
	if err := s.scheduleSvc.Delete(c.Request.Context(), user.ID, id); err != nil {
		s.AbortWithError(c, err)
		return
	}
	respondOK(c, "Event deleted successfully", nil)
}
