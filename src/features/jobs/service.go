package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/cleriovision/musicdb/src/features/config"
	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// terminal reports whether a job in this status will never change again.
func (s JobStatus) terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusCancelled
}

type Job struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Name       string         `json:"name"`
	Status     JobStatus      `json:"status"`
	Progress   int            `json:"progress"`
	Message    string         `json:"message"`
	Error      string         `json:"error,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	cancelFunc context.CancelFunc
	Logger     *slog.Logger `json:"-"`
	LogPath    string       `json:"-"`
	cancelled  bool
}

type JobProgress struct {
	JobID    string
	Progress int
	Message  string
}

// PartialFailure wraps an error from a job that did useful work before some
// of it failed. Such jobs finish as completed, with the failure noted in the
// status message, rather than as failed.
type PartialFailure struct {
	Err error
}

func (e *PartialFailure) Error() string { return e.Err.Error() }

func (e *PartialFailure) Unwrap() error { return e.Err }

type TaskHandler interface {
	Execute(ctx context.Context, job *Job, progressChan chan<- JobProgress) error
	Cancel(jobID string) error
}

// Task defines the specific logic for a job type.
type Task interface {
	MetadataKeys() []string
	Execute(ctx context.Context, job *Job, progressUpdater func(int, string)) (map[string]any, error)
	Cleanup(job *Job) error
}

// BaseTaskHandler adapts a Task into a TaskHandler: it validates the task's
// required metadata, forwards progress onto the channel, merges the task's
// result map into the job metadata and runs cleanup when the task returns.
type BaseTaskHandler struct {
	Task Task
}

// NewBaseTaskHandler creates a new BaseTaskHandler.
func NewBaseTaskHandler(task Task) *BaseTaskHandler {
	return &BaseTaskHandler{Task: task}
}

// Execute runs the job using the provided task.
func (h *BaseTaskHandler) Execute(ctx context.Context, job *Job, progressChan chan<- JobProgress) error {
	job.Logger.Info("Starting job", "name", job.Name)

	for _, key := range h.Task.MetadataKeys() {
		if _, ok := job.Metadata[key]; !ok {
			err := fmt.Errorf("missing %s in job metadata", key)
			job.Logger.Error("Job metadata incomplete", "error", err)
			return err
		}
	}

	progressUpdater := func(percentage int, status string) {
		progressChan <- JobProgress{JobID: job.ID, Progress: percentage, Message: status}
		job.Logger.Info("Progress", "percentage", percentage, "status", status)
	}

	defer func() {
		if err := h.Task.Cleanup(job); err != nil {
			job.Logger.Error("Error during job cleanup", "error", err)
		}
	}()

	result, err := h.Task.Execute(ctx, job, progressUpdater)
	// The result map is kept even when the task failed partway; a partial
	// import still has stats worth reporting.
	if result != nil {
		if job.Metadata == nil {
			job.Metadata = make(map[string]any)
		}
		maps.Copy(job.Metadata, result)
	}
	if err != nil {
		job.Logger.Error("Error during job execution", "error", err)
		return err
	}

	job.Logger.Info("Job finished successfully", "name", job.Name)
	return nil
}

// Cancel is a no-op; cancellation is driven through the job context. Tasks
// needing extra teardown do it in Cleanup.
func (h *BaseTaskHandler) Cancel(jobID string) error {
	return nil
}

// JobService is the surface other features use to run background work.
type JobService interface {
	StartJob(jobType string, name string, metadata map[string]any) (string, error)
	UpdateJobProgress(jobID string, progress int, message string)
	GetJob(jobID string) (*Job, bool)
	CancelJob(jobID string) error
	GetJobs() []*Job
}

type Service struct {
	jobs     map[string]*Job
	handlers map[string]TaskHandler
	mu       sync.RWMutex
	config   *config.Jobs
}

func NewService(cfg *config.Jobs) *Service {
	return &Service{
		jobs:     make(map[string]*Job),
		handlers: make(map[string]TaskHandler),
		config:   cfg,
	}
}

func (s *Service) RegisterHandler(jobType string, handler TaskHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[jobType] = handler
}

// StartJob queues a job of the given type. Only one job per type runs at a
// time; a second request is held pending until the running one finishes.
func (s *Service) StartJob(jobType string, name string, metadata map[string]any) (string, error) {
	job := &Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Name:      name,
		Status:    JobStatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Metadata:  metadata,
	}

	if err := s.attachLogger(job); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	if s.jobTypeBusy(jobType) {
		s.mu.Unlock()
		return job.ID, nil
	}
	job.Status = JobStatusRunning
	s.mu.Unlock()

	go s.runJob(job)
	return job.ID, nil
}

// attachLogger gives the job a per-run log file, or a discard logger when job
// logging is disabled.
func (s *Service) attachLogger(job *Job) error {
	if !s.config.Log {
		job.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		return nil
	}

	if err := os.MkdirAll(s.config.LogPath, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	logName := fmt.Sprintf("%s-%s.log", time.Now().Format("2006-01-02"), job.ID)
	logPath := filepath.Join(s.config.LogPath, logName)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	job.Logger = slog.New(slog.NewTextHandler(logFile, nil))
	job.LogPath = logPath
	return nil
}

func (s *Service) runJob(job *Job) {
	handler, exists := s.handlers[job.Type]
	if !exists {
		s.setJobStatus(job.ID, JobStatusFailed, "No handler registered")
		return
	}

	progressChan := make(chan JobProgress, 10)
	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	job.cancelFunc = cancel
	s.mu.Unlock()
	s.setJobStatus(job.ID, JobStatusRunning, "Starting...")

	go func() {
		for progress := range progressChan {
			s.UpdateJobProgress(progress.JobID, progress.Progress, progress.Message)
		}
	}()
	err := handler.Execute(ctx, job, progressChan)
	close(progressChan)

	s.mu.Lock()
	cancelled := job.cancelled
	s.mu.Unlock()

	s.finishJob(job, err, cancelled)
	s.startNextPending(job.Type)
}

// finishJob moves a job into its terminal state and fires the completion
// webhook.
func (s *Service) finishJob(job *Job, err error, cancelled bool) {
	var partial *PartialFailure
	switch {
	case cancelled || errors.Is(err, context.Canceled):
		s.setJobStatus(job.ID, JobStatusCancelled, "Job cancelled")
	case errors.As(err, &partial):
		s.setJobStatus(job.ID, JobStatusCompleted, "Job completed with errors - "+partial.Error())
	case err != nil:
		s.setJobStatus(job.ID, JobStatusFailed, err.Error())
	default:
		s.setJobStatus(job.ID, JobStatusCompleted, "Job completed successfully")
	}
	s.notifyWebhook(job)
}

func (s *Service) setJobStatus(jobID string, status JobStatus, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, exists := s.jobs[jobID]; exists {
		job.Status = status
		job.Message = message
		job.UpdatedAt = time.Now()
		if status == JobStatusCompleted {
			job.Progress = 100
		}
	}
}

func (s *Service) UpdateJobProgress(jobID string, progress int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, exists := s.jobs[jobID]; exists {
		if job.Status.terminal() {
			return
		}
		job.Progress = progress
		job.Message = message
		job.UpdatedAt = time.Now()
	}
}

func (s *Service) CancelJob(jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, exists := s.jobs[jobID]
	if !exists {
		return errors.New("job not found")
	}

	job.cancelled = true
	job.Status = JobStatusCancelled
	job.Message = "Job cancelled"
	job.UpdatedAt = time.Now()

	if job.cancelFunc != nil {
		job.cancelFunc()
	}
	if handler, exists := s.handlers[job.Type]; exists {
		return handler.Cancel(jobID)
	}
	return nil
}

func (s *Service) GetJob(jobID string) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, exists := s.jobs[jobID]
	return job, exists
}

func (s *Service) GetJobs() []*Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	jobs := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}

// jobTypeBusy reports whether a job of this type is already running. Callers
// must hold the lock.
func (s *Service) jobTypeBusy(jobType string) bool {
	for _, job := range s.jobs {
		if job.Type == jobType && job.Status == JobStatusRunning {
			return true
		}
	}
	return false
}

// startNextPending promotes the oldest pending job of the given type, if any.
func (s *Service) startNextPending(jobType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var next *Job
	for _, job := range s.jobs {
		if job.Type != jobType || job.Status != JobStatusPending {
			continue
		}
		if next == nil || job.CreatedAt.Before(next.CreatedAt) {
			next = job
		}
	}
	if next != nil {
		next.Status = JobStatusRunning
		go s.runJob(next)
	}
}

// ClearFinishedJobs removes all jobs in a terminal state along with their log
// files.
func (s *Service) ClearFinishedJobs() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, job := range s.jobs {
		if job.Status.terminal() {
			if job.LogPath != "" {
				os.Remove(job.LogPath)
			}
			delete(s.jobs, id)
		}
	}
	return nil
}

// CleanupOldJobs removes terminal jobs that have not been touched within
// maxAge.
func (s *Service) CleanupOldJobs(maxAge time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, job := range s.jobs {
		if job.Status.terminal() && now.Sub(job.UpdatedAt) > maxAge {
			if job.LogPath != "" {
				os.Remove(job.LogPath)
			}
			delete(s.jobs, id)
		}
	}
}

// notifyWebhook runs the configured shell command for a finished job. The
// command is a text/template over the job's name, type, status, message and
// duration.
func (s *Service) notifyWebhook(job *Job) {
	if !s.config.Webhooks.Enabled {
		return
	}

	notify := false
	for _, jobType := range s.config.Webhooks.JobTypes {
		if jobType == job.Type || jobType == "*" {
			notify = true
			break
		}
	}
	if !notify {
		return
	}

	// Prefer the task's own result message when it left one.
	message := job.Message
	if msg, ok := job.Metadata["msg"].(string); ok && msg != "" {
		message = msg
	}

	data := struct {
		Name     string
		Type     string
		Status   string
		Message  string
		Duration string
	}{
		Name:     job.Name,
		Type:     job.Type,
		Status:   string(job.Status),
		Message:  message,
		Duration: time.Since(job.CreatedAt).Round(time.Second).String(),
	}

	tmpl, err := template.New("webhook").Parse(s.config.Webhooks.Command)
	if err != nil {
		job.Logger.Error("Failed to parse webhook template", "error", err)
		return
	}
	var command strings.Builder
	if err := tmpl.Execute(&command, data); err != nil {
		job.Logger.Error("Failed to execute webhook template", "error", err)
		return
	}

	go s.runWebhookCommand(command.String(), job)
}

// runWebhookCommand executes the rendered webhook through the shell, killing
// it after 30 seconds.
func (s *Service) runWebhookCommand(command string, job *Job) {
	cmd := exec.Command("/bin/sh", "-c", command)
	cmd.Env = os.Environ()

	timer := time.AfterFunc(30*time.Second, func() {
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
	})
	defer timer.Stop()

	if err := cmd.Run(); err != nil {
		job.Logger.Error("Webhook execution failed", "command", command, "error", err)
		return
	}
	job.Logger.Info("Webhook executed successfully", "command", command)
}
