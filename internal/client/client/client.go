package client

import (
	"context"

	"github.com/dmitrijs2005/visionaq/internal/client/models"
)

// AuthResponse is the body of a successful signup or login.
type AuthResponse struct {
	Token string             `json:"token"`
	User  models.UserProfile `json:"user"`
}

// AnalysisResponse is the body of a successful image analysis.
type AnalysisResponse struct {
	AQI      int    `json:"aqi"`
	Category string `json:"category"`
}

// HealthStatus is the body of the analysis service health probe.
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// AuthAPI is the contract of the remote auth service.
type AuthAPI interface {
	Signup(ctx context.Context, name, email, password string) (AuthResponse, error)
	Login(ctx context.Context, email, password string) (AuthResponse, error)
	Verify(ctx context.Context, token string) (models.UserProfile, error)
}

// AnalysisAPI is the contract of the remote image analysis service.
type AnalysisAPI interface {
	Analyze(ctx context.Context, filename string, image []byte) (AnalysisResponse, error)
	Ping(ctx context.Context) (HealthStatus, error)
}
