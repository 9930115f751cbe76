package rest

import (
	"context"

	"github.com/linskybing/nephra/internal/domain/project"
	"github.com/linskybing/nephra/internal/domain/review"
)

const projectTable = "projects"

type ProjectRepo struct {
	client *Client
}

func NewProjectRepo(c *Client) *ProjectRepo {
	return &ProjectRepo{client: c}
}

func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*project.Project, error) {
	resp, err := r.client.request(ctx).
		SetQueryParam("id", eq(id)).
		Get(r.client.buildURL(projectTable))
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	rows, err := decodeRows[project.Project](resp)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, review.ErrNotFound
	}
	return &rows[0], nil
}

func (r *ProjectRepo) List(ctx context.Context) ([]project.Project, error) {
	resp, err := r.client.request(ctx).
		SetQueryParam("order", "title.asc").
		Get(r.client.buildURL(projectTable))
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return decodeRows[project.Project](resp)
}
