package server

import (
	"github.com/gin-gonic/gin"
	taskdomain "github.com/storekeeplabs/storekeep/internal/task/domain"
)

type createTaskRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

type updateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Completed   *bool   `json:"completed"`
}

func (s *Server) ListTasks(c *gin.Context) {
	user := currentUser(c)
	resp, err := s.taskSvc.List(c.Request.Context(), user.ID)
	if err != nil {
		s.AbortWithError(c, err)
		return
	}
	respondOK(c, "Tasks retrieved successfully", resp)
}

func (s *Server) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.AbortWithError(c, bindError(err))
		return
	}

	user := currentUser(c)
	resp, err := s.taskSvc.Create(c.Request.Context(), user.ID, taskdomain.CreateRequest{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		s.AbortWithError(c, err)
		return
	}

	respondCreated(c, "Task created successfully", resp)
}

func (s *Server) GetTask(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		s.AbortWithError(c, notFoundError("Task not found"))
		return
	}

	user := currentUser(c)
	resp, err := s.taskSvc.Find(c.Request.Context(), user.ID, id)
	if err != nil {
		s.AbortWithError(c, err)
		return
	}
	respondOK(c, "Task retrieved successfully", resp)
}

func (s *Server) UpdateTask(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		s.AbortWithError(c, notFoundError("Task not found"))
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.AbortWithError(c, bindError(err))
		return
	}

	user := currentUser(c)
	resp, err := s.taskSvc.Update(c.Request.Context(), user.ID, id, taskdomain.UpdateRequest{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		s.AbortWithError(c, err)
		return
	}

	respondOK(c, "Task updated successfully", resp)
}

func (s *Server) DeleteTask(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		s.AbortWithError(c, notFoundError("Task not found"))
		return
	}

	user := currentUser(c)
	if err := s.taskSvc.Delete(c.Request.Context(), user.ID, id); err != nil {
		s.AbortWithError(c, err)
		return
	}
	respondOK(c, "Task deleted successfully", nil)
}
