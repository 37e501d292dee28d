package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/logger"
	"pinax-social-backend/internal/repository"
	"pinax-social-backend/internal/tagging"
	"pinax-social-backend/internal/validation"
)

type taskRequest struct {
	Summary string `json:"summary" validate:"required,max=100"`
	Detail  string `json:"detail" validate:"max=20000"`
}

type taskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	tagRepo     repository.TagRepository
	noticeSvc   NotificationService
}

func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	tagRepo repository.TagRepository,
	noticeSvc NotificationService,
) TaskService {
	return &taskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		tagRepo:     tagRepo,
		noticeSvc:   noticeSvc,
	}
}

func taskRef(id int32) domain.ObjectRef {
	return domain.ObjectRef{Type: domain.ObjectTypeTask, ID: id}
}

func (s *taskService) requireMember(ctx context.Context, projectID, userID int32) error {
	_, err := s.projectRepo.GetMember(ctx, projectID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotMember
	}
	return err
}

func (s *taskService) checkAssignee(ctx context.Context, projectID int32, assigneeID *int32) error {
	if assigneeID == nil {
		return nil
	}
	if err := s.requireMember(ctx, projectID, *assigneeID); err != nil {
		if errors.Is(err, ErrNotMember) {
			return invalidf("assignee must be a project member")
		}
		return err
	}
	return nil
}

func (s *taskService) CreateTask(ctx context.Context, actorID int32, projectSlug string, in TaskInput) (*domain.Task, error) {
	logger.EnterMethod("taskService.CreateTask", "actorID", actorID, "project", projectSlug)

	req := taskRequest{Summary: strings.TrimSpace(in.Summary), Detail: strings.TrimSpace(in.Detail)}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	project, err := s.projectRepo.GetBySlug(ctx, projectSlug)
	if err != nil {
		return nil, notFound(err, "project")
	}
	if err := s.requireMember(ctx, project.ID, actorID); err != nil {
		return nil, err
	}
	if err := s.checkAssignee(ctx, project.ID, in.AssigneeID); err != nil {
		return nil, err
	}

	task := &domain.Task{
		ProjectID:  project.ID,
		Summary:    req.Summary,
		Detail:     req.Detail,
		CreatorID:  actorID,
		AssigneeID: in.AssigneeID,
		State:      domain.TaskStateOpen,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		logger.ExitMethodWithError("taskService.CreateTask", err)
		return nil, err
	}
	task.Tags = tagging.ParseTagInput(in.Tags)
	if len(task.Tags) > 0 {
		if err := s.tagRepo.SetTags(ctx, taskRef(task.ID), task.Tags); err != nil {
			return nil, err
		}
	}

	logger.ExitMethod("taskService.CreateTask", "taskID", task.ID)
	return task, nil
}

func (s *taskService) load(ctx context.Context, id int32) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "task")
	}
	tags, err := s.tagRepo.TagsFor(ctx, taskRef(id))
	if err != nil {
		return nil, err
	}
	task.Tags = tags
	return task, nil
}

// taskVisible hides tasks of private projects from non-members
func (s *taskService) taskVisible(ctx context.Context, task *domain.Task, viewerID int32) error {
	project, err := s.projectRepo.GetByID(ctx, task.ProjectID)
	if err != nil {
		return notFound(err, "project")
	}
	if err := projectVisible(ctx, s.projectRepo, project, viewerID); err != nil {
		return fmt.Errorf("task %w", ErrNotFound)
	}
	return nil
}

func (s *taskService) GetTask(ctx context.Context, viewerID, id int32) (*domain.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.taskVisible(ctx, task, viewerID); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context, viewerID int32, projectSlug string, state *domain.TaskState, assigneeID *int32) ([]domain.Task, error) {
	if state != nil && !state.Valid() {
		return nil, invalidf("unknown task state %d", int16(*state))
	}
	project, err := s.projectRepo.GetBySlug(ctx, projectSlug)
	if err != nil {
		return nil, notFound(err, "project")
	}
	if err := projectVisible(ctx, s.projectRepo, project, viewerID); err != nil {
		return nil, err
	}
	return s.taskRepo.List(ctx, repository.TaskFilter{ProjectID: project.ID, State: state, AssigneeID: assigneeID})
}

// memberTask loads a task and checks actorID belongs to its project
func (s *taskService) memberTask(ctx context.Context, actorID, taskID int32) (*domain.Task, error) {
	task, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, task.ProjectID, actorID); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) AssignTask(ctx context.Context, actorID, taskID int32, assigneeID *int32) (*domain.Task, error) {
	task, err := s.memberTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAssignee(ctx, task.ProjectID, assigneeID); err != nil {
		return nil, err
	}
	task.AssigneeID = assigneeID
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) AvailableTransitions(ctx context.Context, actorID, taskID int32) ([]domain.Transition, error) {
	task, err := s.memberTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}
	return domain.AvailableTransitions(task, actorID), nil
}

func (s *taskService) ChangeTaskState(ctx context.Context, actorID, taskID int32, to domain.TaskState, comment string) (*domain.Task, error) {
	logger.EnterMethod("taskService.ChangeTaskState", "actorID", actorID, "taskID", taskID, "to", to)

	task, err := s.memberTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}
	tr, ok := domain.FindTransition(task.State, to)
	if !ok || !tr.Guard(task, actorID) {
		logger.ExitMethodWithError("taskService.ChangeTaskState", ErrInvalidTransition, "from", task.State, "to", to)
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, task.State, to)
	}

	change := &domain.TaskChange{
		TaskID:    task.ID,
		ActorID:   actorID,
		FromState: task.State,
		ToState:   to,
		Comment:   strings.TrimSpace(comment),
	}
	task.State = to
	task.Status = tr.Label
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	if err := s.taskRepo.CreateChange(ctx, change); err != nil {
		return nil, err
	}

	s.notifyChange(ctx, task, actorID, change)
	logger.ExitMethod("taskService.ChangeTaskState", "taskID", task.ID, "state", task.State)
	return task, nil
}

func (s *taskService) notifyChange(ctx context.Context, task *domain.Task, actorID int32, change *domain.TaskChange) {
	recipients := []int32{task.CreatorID}
	if task.AssigneeID != nil {
		recipients = append(recipients, *task.AssigneeID)
	}
	err := s.noticeSvc.Send(ctx, NoticeInput{
		Recipients: recipients,
		SenderID:   &actorID,
		Label:      NoticeTasksChange,
		Message:    fmt.Sprintf("Task %q moved from %s to %s", task.Summary, change.FromState, change.ToState),
		Attributes: map[string]string{
			"task_id": fmt.Sprint(task.ID),
			"from":    change.FromState.String(),
			"to":      change.ToState.String(),
		},
		Queue: true,
	})
	if err != nil {
		logger.Error("Failed to send task change notice", "taskID", task.ID, "error", err)
	}
}

func (s *taskService) TaskHistory(ctx context.Context, viewerID, taskID int32) ([]domain.TaskChange, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, notFound(err, "task")
	}
	if err := s.taskVisible(ctx, task, viewerID); err != nil {
		return nil, err
	}
	return s.taskRepo.ListChanges(ctx, taskID)
}

func (s *taskService) SetTaskTags(ctx context.Context, actorID, taskID int32, input string) (*domain.Task, error) {
	task, err := s.memberTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}
	tags := tagging.ParseTagInput(input)
	if err := s.tagRepo.SetTags(ctx, taskRef(task.ID), tags); err != nil {
		return nil, err
	}
	task.Tags = tags
	return task, nil
}
