package handler

import (
	"github.com/crewdesk/crewdesk/internal/application/scheduler"
	"github.com/crewdesk/crewdesk/internal/application/task"
)

// Server holds the application services the HTTP handlers call into.
type Server struct {
	taskService *task.Service
	scheduler   *scheduler.Scheduler
}

// NewServer creates a new HTTP handler server.
func NewServer(taskService *task.Service, sched *scheduler.Scheduler) *Server {
	return &Server{
		taskService: taskService,
		scheduler:   sched,
	}
}
