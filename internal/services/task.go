package services

import (
	"context"

	"gorm.io/gorm"

	repos "github.com/vistral/rentals-backend/internal/data/repos/rentals"
	"github.com/vistral/rentals-backend/internal/domain/rentals"
	"github.com/vistral/rentals-backend/internal/platform/logger"
	"github.com/vistral/rentals-backend/internal/sse"
)

type TaskService interface {
	Upsert(ctx context.Context, t *rentals.PropertyTask) (*rentals.PropertyTask, error)
	Get(ctx context.Context, propertyUniqueID, phase, taskType string) (*rentals.PropertyTask, error)
	ListForProperty(ctx context.Context, propertyUniqueID string) ([]*rentals.PropertyTask, error)
	ListForPhase(ctx context.Context, propertyUniqueID, phase string) ([]*rentals.PropertyTask, error)
	SetCompletion(ctx context.Context, propertyUniqueID, phase, taskType string, completed bool) (*rentals.PropertyTask, error)
	Delete(ctx context.Context, propertyUniqueID, phase, taskType string) error
}

type taskService struct {
	db       *gorm.DB
	log      *logger.Logger
	taskRepo repos.PropertyTaskRepo
	notifier Notifier
}

func NewTaskService(db *gorm.DB, baseLog *logger.Logger, taskRepo repos.PropertyTaskRepo, notifier Notifier) TaskService {
	return &taskService{
		db:       db,
		log:      baseLog.With("service", "TaskService"),
		taskRepo: taskRepo,
		notifier: notifier,
	}
}

func (s *taskService) Upsert(ctx context.Context, t *rentals.PropertyTask) (*rentals.PropertyTask, error) {
	if t.PropertyUniqueID == "" || t.Phase == "" || t.TaskType == "" {
		return nil, invalidf("property_unique_id, phase and task_type are required")
	}
	return s.taskRepo.Upsert(ctx, nil, t)
}

func (s *taskService) Get(ctx context.Context, propertyUniqueID, phase, taskType string) (*rentals.PropertyTask, error) {
	return s.taskRepo.GetByKey(ctx, nil, propertyUniqueID, phase, taskType)
}

func (s *taskService) ListForProperty(ctx context.Context, propertyUniqueID string) ([]*rentals.PropertyTask, error) {
	return s.taskRepo.ListByProperty(ctx, nil, propertyUniqueID)
}

func (s *taskService) ListForPhase(ctx context.Context, propertyUniqueID, phase string) ([]*rentals.PropertyTask, error) {
	return s.taskRepo.ListByPhase(ctx, nil, propertyUniqueID, phase)
}

func (s *taskService) SetCompletion(ctx context.Context, propertyUniqueID, phase, taskType string, completed bool) (*rentals.PropertyTask, error) {
	if err := s.taskRepo.SetCompletion(ctx, nil, propertyUniqueID, phase, taskType, completed); err != nil {
		return nil, err
	}
	task, err := s.taskRepo.GetByKey(ctx, nil, propertyUniqueID, phase, taskType)
	if err != nil {
		return nil, err
	}
	if completed && s.notifier != nil {
		s.notifier.Notify(ctx, sse.SSEMessage{
			Channel: sse.PropertyChannel(propertyUniqueID),
			Event:   sse.SSEEventTaskCompleted,
			Data:    task,
		})
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, propertyUniqueID, phase, taskType string) error {
	if _, err := s.taskRepo.GetByKey(ctx, nil, propertyUniqueID, phase, taskType); err != nil {
		return err
	}
	return s.taskRepo.DeleteByKey(ctx, nil, propertyUniqueID, phase, taskType)
}
