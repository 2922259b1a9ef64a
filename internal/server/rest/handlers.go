package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	msgUserNotFound = "User not found"
	msgTaskNotFound = "Task not found"
	msgBadBody      = "invalid request body"
)

func (s *HTTPServer) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, msgBadBody)
		return
	}

	user, token, err := s.users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.respondError(c, err, msgUserNotFound)
		return
	}

	s.logger.Info(c.Request.Context(), "Registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, authResponse{User: toUserResponse(user), Token: token})
}

func (s *HTTPServer) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, msgBadBody)
		return
	}

	user, token, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(c, err, msgUserNotFound)
		return
	}

	c.JSON(http.StatusOK, authResponse{User: toUserResponse(user), Token: token})
}

func (s *HTTPServer) profile(c *gin.Context) {
	user, err := s.users.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.respondError(c, err, msgUserNotFound)
		return
	}

	c.JSON(http.StatusOK, profileResponse{User: toUserResponse(user)})
}

func (s *HTTPServer) createTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, msgBadBody)
		return
	}

	in, err := req.toNewTask()
	if err != nil {
		s.respondError(c, err, msgTaskNotFound)
		return
	}

	task, err := s.tasks.Create(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		s.respondError(c, err, msgTaskNotFound)
		return
	}

	c.JSON(http.StatusCreated, toTaskResponse(task))
}

func (s *HTTPServer) listTasks(c *gin.Context) {
	tasks, err := s.tasks.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.respondError(c, err, msgTaskNotFound)
		return
	}

	c.JSON(http.StatusOK, toTaskResponses(tasks))
}

func (s *HTTPServer) taskStats(c *gin.Context) {
	stats, err := s.tasks.Stats(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.respondError(c, err, msgTaskNotFound)
		return
	}

	c.JSON(http.StatusOK, toStatsResponse(stats))
}

func (s *HTTPServer) getTask(c *gin.Context) {
	task, err := s.tasks.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		s.respondError(c, err, msgTaskNotFound)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

func (s *HTTPServer) updateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, msgBadBody)
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		s.respondError(c, err, msgTaskNotFound)
		return
	}

	task, err := s.tasks.Update(c.Request.Context(), currentUserID(c), c.Param("id"), patch)
	if err != nil {
		s.respondError(c, err, msgTaskNotFound)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

func (s *HTTPServer) deleteTask(c *gin.Context) {
	if err := s.tasks.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		s.respondError(c, err, msgTaskNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task removed"})
}
