package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/secretmenu/secretmenu-server/internal/domain"
	"github.com/secretmenu/secretmenu-server/internal/service"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns all tags sorted by name",
		Tags:        []string{"Tags"},
		Security:    bearerSecurity,
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createTag",
		Method:        http.MethodPost,
		Path:          "/api/v1/tags",
		Summary:       "Create tag",
		Description:   "Creates a tag. Colors are kept only for premium accounts",
		Tags:          []string{"Tags"},
		Security:      bearerSecurity,
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTag",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Get tag",
		Tags:        []string{"Tags"},
		Security:    bearerSecurity,
	}, s.handleGetTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTag",
		Method:      http.MethodPut,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Update tag",
		Description: "Renames or recolors a tag. Orders keep the old name",
		Tags:        []string{"Tags"},
		Security:    bearerSecurity,
	}, s.handleUpdateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTag",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Delete tag",
		Tags:        []string{"Tags"},
		Security:    bearerSecurity,
	}, s.handleDeleteTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTagOrders",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{id}/orders",
		Summary:     "Get tag orders",
		Description: "Returns orders carrying this tag's name",
		Tags:        []string{"Tags"},
		Security:    bearerSecurity,
	}, s.handleGetTagOrders)
}

// TagResponse contains tag data in API responses.
type TagResponse struct {
	ID        string    `json:"id" doc:"Tag ID"`
	Name      string    `json:"name" doc:"Tag name"`
	Color     string    `json:"color,omitempty" doc:"#RRGGBB display color"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
}

// ListTagsResponse contains a list of tags.
type ListTagsResponse struct {
	Tags []TagResponse `json:"tags" doc:"List of tags"`
}

// ListTagsOutput wraps the list tags response for Huma.
type ListTagsOutput struct {
	Body ListTagsResponse
}

// TagRequest is the request body for creating or updating a tag.
type TagRequest struct {
	Name  string `json:"name" minLength:"1" maxLength:"50" doc:"Tag name"`
	Color string `json:"color,omitempty" doc:"#RRGGBB display color (premium only)"`
}

// CreateTagInput wraps the create tag request for Huma.
type CreateTagInput struct {
	Body TagRequest
}

// UpdateTagInput wraps the update tag request for Huma.
type UpdateTagInput struct {
	ID   string `path:"id" doc:"Tag ID"`
	Body TagRequest
}

// TagOutput wraps the tag response for Huma.
type TagOutput struct {
	Body TagResponse
}

// TagIDInput identifies a tag.
type TagIDInput struct {
	ID string `path:"id" doc:"Tag ID"`
}

func toTagResponse(t *domain.Tag) TagResponse {
	resp := TagResponse{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt}
	if t.Color != nil {
		resp.Color = *t.Color
	}
	return resp
}

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*ListTagsOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	tags, err := s.services.Tags.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]TagResponse, len(tags))
	for i, t := range tags {
		resp[i] = toTagResponse(t)
	}
	return &ListTagsOutput{Body: ListTagsResponse{Tags: resp}}, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	t, err := s.services.Tags.CreateTag(ctx, service.TagInput{
		Name:  input.Body.Name,
		Color: input.Body.Color,
	})
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: toTagResponse(t)}, nil
}

func (s *Server) handleGetTag(ctx context.Context, input *TagIDInput) (*TagOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	t, err := s.services.Tags.GetTag(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: toTagResponse(t)}, nil
}

func (s *Server) handleUpdateTag(ctx context.Context, input *UpdateTagInput) (*TagOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	t, err := s.services.Tags.UpdateTag(ctx, input.ID, service.TagInput{
		Name:  input.Body.Name,
		Color: input.Body.Color,
	})
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: toTagResponse(t)}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *TagIDInput) (*MessageOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Data.DeleteTag(ctx, input.ID); err != nil {
		return nil, err
	}
	return message("Tag deleted"), nil
}

func (s *Server) handleGetTagOrders(ctx context.Context, input *TagIDInput) (*ListOrdersOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	t, err := s.services.Tags.GetTag(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	orders, err := s.services.Data.FetchOrdersWithTags(ctx, []string{t.Name})
	if err != nil {
		return nil, err
	}
	return &ListOrdersOutput{Body: ListOrdersResponse{Orders: toOrderResponses(orders)}}, nil
}
