package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/secretmenu/secretmenu-server/internal/domain"
	"github.com/secretmenu/secretmenu-server/internal/service"
)

func (s *Server) registerOrderRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listOrders",
		Method:      http.MethodGet,
		Path:        "/api/v1/orders",
		Summary:     "List orders",
		Description: "Returns orders newest first, optionally filtered by place or by any of several tags",
		Tags:        []string{"Orders"},
		Security:    bearerSecurity,
	}, s.handleListOrders)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createOrder",
		Method:        http.MethodPost,
		Path:          "/api/v1/orders",
		Summary:       "Create order",
		Description:   "Adds an order to a place. Over the order or photo limit returns 402 LIMIT_REACHED",
		Tags:          []string{"Orders"},
		Security:      bearerSecurity,
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateOrder)

	huma.Register(s.api, huma.Operation{
		OperationID: "getOrder",
		Method:      http.MethodGet,
		Path:        "/api/v1/orders/{id}",
		Summary:     "Get order",
		Tags:        []string{"Orders"},
		Security:    bearerSecurity,
	}, s.handleGetOrder)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateOrder",
		Method:      http.MethodPatch,
		Path:        "/api/v1/orders/{id}",
		Summary:     "Update order",
		Description: "Changes the title, details, tags or photo of an order",
		Tags:        []string{"Orders"},
		Security:    bearerSecurity,
	}, s.handleUpdateOrder)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteOrder",
		Method:      http.MethodDelete,
		Path:        "/api/v1/orders/{id}",
		Summary:     "Delete order",
		Description: "Deletes an order and its photo",
		Tags:        []string{"Orders"},
		Security:    bearerSecurity,
	}, s.handleDeleteOrder)
}

// OrderResponse contains order data in API responses.
type OrderResponse struct {
	ID            string    `json:"id" doc:"Order ID"`
	PlaceID       string    `json:"place_id" doc:"Owning place"`
	Title         string    `json:"title" doc:"Order title"`
	Details       string    `json:"details" doc:"Free-form order details"`
	Tags          []string  `json:"tags" doc:"Tag names"`
	PhotoURL      string    `json:"photo_url,omitempty" doc:"Relative URL of the attached photo"`
	PhotoBlurHash string    `json:"photo_blur_hash,omitempty" doc:"BlurHash placeholder for the photo"`
	CreatedAt     time.Time `json:"created_at" doc:"Creation time"`
}

// ListOrdersResponse contains a list of orders.
type ListOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}

// ListOrdersOutput wraps the list orders response for Huma.
type ListOrdersOutput struct {
	Body ListOrdersResponse
}

// ListOrdersInput filters the order list.
type ListOrdersInput struct {
	PlaceID string   `query:"place_id" doc:"Only orders of this place"`
	Tags    []string `query:"tags" doc:"Orders carrying any of these tag names (comma separated)"`
}

// CreateOrderRequest is the request body for creating an order.
type CreateOrderRequest struct {
	PlaceID       string   `json:"place_id" minLength:"1" doc:"Place to add the order to"`
	Title         string   `json:"title" minLength:"1" maxLength:"200" doc:"Order title"`
	Details       string   `json:"details,omitempty" maxLength:"5000" doc:"Free-form details"`
	Tags          []string `json:"tags,omitempty" maxItems:"50" doc:"Tag names"`
	PhotoFilename string   `json:"photo_filename,omitempty" doc:"File name returned by the photo upload endpoint"`
	PhotoBlurHash string   `json:"photo_blur_hash,omitempty" maxLength:"64" doc:"BlurHash returned by the photo upload endpoint"`
}

// CreateOrderInput wraps the create order request for Huma.
type CreateOrderInput struct {
	Body CreateOrderRequest
}

// OrderOutput wraps the order response for Huma.
type OrderOutput struct {
	Body OrderResponse
}

// OrderIDInput identifies an order.
type OrderIDInput struct {
	ID string `path:"id" doc:"Order ID"`
}

// UpdateOrderRequest is the request body for updating an order. Omitted
// fields are left unchanged.
type UpdateOrderRequest struct {
	Title         *string   `json:"title,omitempty" maxLength:"200" doc:"Order title"`
	Details       *string   `json:"details,omitempty" maxLength:"5000" doc:"Free-form details"`
	Tags          *[]string `json:"tags,omitempty" doc:"Replacement tag names"`
	PhotoFilename *string   `json:"photo_filename,omitempty" doc:"Uploaded photo file name; empty removes the photo"`
	PhotoBlurHash *string   `json:"photo_blur_hash,omitempty" maxLength:"64" doc:"BlurHash returned by the photo upload endpoint"`
}

// UpdateOrderInput wraps the update order request for Huma.
type UpdateOrderInput struct {
	ID   string `path:"id" doc:"Order ID"`
	Body UpdateOrderRequest
}

func toOrderResponse(o *domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:            o.ID,
		PlaceID:       o.PlaceID,
		Title:         o.Title,
		Details:       o.Details,
		Tags:          o.Tags,
		PhotoBlurHash: o.PhotoBlurHash,
		CreatedAt:     o.CreatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if o.HasPhoto() {
		resp.PhotoURL = photoURL(o.PhotoPath)
	}
	return resp
}

func toOrderResponses(orders []*domain.Order) []OrderResponse {
	resp := make([]OrderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	return resp
}

func (s *Server) handleListOrders(ctx context.Context, input *ListOrdersInput) (*ListOrdersOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	var (
		orders []*domain.Order
		err    error
	)
	if len(input.Tags) > 0 {
		orders, err = s.services.Data.FetchOrdersWithTags(ctx, input.Tags)
		if err == nil && input.PlaceID != "" {
			orders = filterByPlace(orders, input.PlaceID)
		}
	} else {
		orders, err = s.services.Data.FetchOrders(ctx, input.PlaceID)
	}
	if err != nil {
		return nil, err
	}

	return &ListOrdersOutput{Body: ListOrdersResponse{Orders: toOrderResponses(orders)}}, nil
}

func filterByPlace(orders []*domain.Order, placeID string) []*domain.Order {
	out := orders[:0]
	for _, o := range orders {
		if o.PlaceID == placeID {
			out = append(out, o)
		}
	}
	return out
}

func (s *Server) handleCreateOrder(ctx context.Context, input *CreateOrderInput) (*OrderOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	res := s.services.Data.CreateOrder(ctx, service.OrderInput{
		PlaceID:       input.Body.PlaceID,
		Title:         input.Body.Title,
		Details:       input.Body.Details,
		Tags:          input.Body.Tags,
		PhotoPath:     input.Body.PhotoFilename,
		PhotoBlurHash: input.Body.PhotoBlurHash,
	})
	if res.Kind != service.ResultSuccess {
		return nil, res.AsError()
	}
	return &OrderOutput{Body: toOrderResponse(res.Order)}, nil
}

func (s *Server) handleGetOrder(ctx context.Context, input *OrderIDInput) (*OrderOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	o, err := s.services.Data.GetOrder(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &OrderOutput{Body: toOrderResponse(o)}, nil
}

func (s *Server) handleUpdateOrder(ctx context.Context, input *UpdateOrderInput) (*OrderOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	o, err := s.services.Data.UpdateOrder(ctx, input.ID, service.OrderUpdate{
		Title:         input.Body.Title,
		Details:       input.Body.Details,
		Tags:          input.Body.Tags,
		PhotoPath:     input.Body.PhotoFilename,
		PhotoBlurHash: input.Body.PhotoBlurHash,
	})
	if err != nil {
		return nil, err
	}
	return &OrderOutput{Body: toOrderResponse(o)}, nil
}

func (s *Server) handleDeleteOrder(ctx context.Context, input *OrderIDInput) (*MessageOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Data.DeleteOrder(ctx, input.ID); err != nil {
		return nil, err
	}
	return message("Order deleted"), nil
}
