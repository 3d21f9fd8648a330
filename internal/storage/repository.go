package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

type Repository interface {
	CreateTask(ctx context.Context, in Task) error
	GetTask(ctx context.Context, id string) (Task, error)
	UpdateTask(ctx context.Context, in Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error)

	CreateEvent(ctx context.Context, in Event) error
	GetEvent(ctx context.Context, id string) (Event, error)
	UpdateEvent(ctx context.Context, in Event) error
	DeleteEvent(ctx context.Context, id string) error
	ListEvents(ctx context.Context, filter EventListFilter) ([]Event, error)

	CreateTemplate(ctx context.Context, in Template) error
	GetTemplate(ctx context.Context, id string) (Template, error)
	UpdateTemplate(ctx context.Context, in Template) error
	DeleteTemplate(ctx context.Context, id string) error
	ListTemplates(ctx context.Context, filter TemplateListFilter) ([]Template, error)
}
