package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/secretmenu/secretmenu-server/internal/domain"
	"github.com/secretmenu/secretmenu-server/internal/service"
)

func (s *Server) registerDeviceRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "pairDevice",
		Method:        http.MethodPost,
		Path:          "/api/v1/devices",
		Summary:       "Pair device",
		Description:   "Exchanges the pairing code shown in the server log for a device token",
		Tags:          []string{"Devices"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   huma.Middlewares{s.pairingRateLimit},
	}, s.handlePairDevice)

	huma.Register(s.api, huma.Operation{
		OperationID: "listDevices",
		Method:      http.MethodGet,
		Path:        "/api/v1/devices",
		Summary:     "List devices",
		Description: "Returns all paired devices",
		Tags:        []string{"Devices"},
		Security:    bearerSecurity,
	}, s.handleListDevices)

	huma.Register(s.api, huma.Operation{
		OperationID: "revokeDevice",
		Method:      http.MethodDelete,
		Path:        "/api/v1/devices/{id}",
		Summary:     "Revoke device",
		Description: "Unpairs a device; its token stops working immediately",
		Tags:        []string{"Devices"},
		Security:    bearerSecurity,
	}, s.handleRevokeDevice)
}

// PairDeviceRequest is the request body for pairing.
type PairDeviceRequest struct {
	Code     string `json:"code" minLength:"1" doc:"Pairing code from the server log"`
	Name     string `json:"name" minLength:"1" maxLength:"100" doc:"Display name for the device"`
	Platform string `json:"platform,omitempty" maxLength:"50" doc:"Client platform, e.g. iOS"`
}

// PairDeviceInput wraps the pairing request for Huma.
type PairDeviceInput struct {
	Body PairDeviceRequest
}

// DeviceResponse is a paired device.
type DeviceResponse struct {
	ID         string    `json:"id" doc:"Device ID"`
	Name       string    `json:"name" doc:"Display name"`
	Platform   string    `json:"platform,omitempty" doc:"Client platform"`
	CreatedAt  time.Time `json:"created_at" doc:"Pairing time"`
	LastSeenAt time.Time `json:"last_seen_at" doc:"Last authenticated request"`
	Current    bool      `json:"current" doc:"Whether this is the calling device"`
}

// PairDeviceResponse carries the new device and its token.
type PairDeviceResponse struct {
	Device    DeviceResponse `json:"device"`
	Token     string         `json:"token" doc:"Bearer token for subsequent requests"`
	ExpiresAt time.Time      `json:"expires_at" doc:"Token expiry"`
}

// PairDeviceOutput wraps the pairing response for Huma.
type PairDeviceOutput struct {
	Body PairDeviceResponse
}

// ListDevicesResponse lists paired devices.
type ListDevicesResponse struct {
	Devices []DeviceResponse `json:"devices"`
}

// ListDevicesOutput wraps the device list for Huma.
type ListDevicesOutput struct {
	Body ListDevicesResponse
}

// DeviceIDInput identifies a device.
type DeviceIDInput struct {
	ID string `path:"id" doc:"Device ID"`
}

func toDeviceResponse(d *domain.Device, currentID string) DeviceResponse {
	return DeviceResponse{
		ID:         d.ID,
		Name:       d.Name,
		Platform:   d.Platform,
		CreatedAt:  d.CreatedAt,
		LastSeenAt: d.LastSeenAt,
		Current:    d.ID == currentID,
	}
}

func (s *Server) handlePairDevice(ctx context.Context, input *PairDeviceInput) (*PairDeviceOutput, error) {
	res, err := s.services.Devices.Pair(ctx, service.PairRequest{
		Code:     input.Body.Code,
		Name:     input.Body.Name,
		Platform: input.Body.Platform,
	})
	if err != nil {
		return nil, err
	}

	return &PairDeviceOutput{Body: PairDeviceResponse{
		Device:    toDeviceResponse(res.Device, res.Device.ID),
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
	}}, nil
}

func (s *Server) handleListDevices(ctx context.Context, _ *struct{}) (*ListDevicesOutput, error) {
	current, err := requireDevice(ctx)
	if err != nil {
		return nil, err
	}

	devices, err := s.services.Devices.ListDevices(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]DeviceResponse, len(devices))
	for i, d := range devices {
		resp[i] = toDeviceResponse(d, current.ID)
	}
	return &ListDevicesOutput{Body: ListDevicesResponse{Devices: resp}}, nil
}

func (s *Server) handleRevokeDevice(ctx context.Context, input *DeviceIDInput) (*MessageOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Devices.RevokeDevice(ctx, input.ID); err != nil {
		return nil, err
	}
	return message("Device revoked"), nil
}
