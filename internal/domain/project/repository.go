package project

import "context"

// Repository defines read access to projects
type Repository interface {
	GetByID(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context) ([]Project, error)
}
