package application

import (
	"context"

	"github.com/linskybing/nephra/internal/domain/project"
	"github.com/linskybing/nephra/internal/repository"
)

// ProjectService lists the projects applicants can request to join.
type ProjectService struct {
	Repos *repository.Repos
}

func NewProjectService(repos *repository.Repos) *ProjectService {
	return &ProjectService{
		Repos: repos,
	}
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]project.Project, error) {
	projects, err := s.Repos.Project.List(ctx)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []project.Project{}
	}
	return projects, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id string) (*project.Project, error) {
	return s.Repos.Project.GetByID(ctx, id)
}
