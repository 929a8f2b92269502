package controllers

import "github.com/datallboy/toolfetch/internal/domain"

// -- REQUESTS --
type DownloadRequest struct {
	Source string `json:"source"`
	URL    string `json:"url"`
}

type TokenRequest struct {
	Token string `json:"token"`
}

type CookieParam struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type NavigationRequest struct {
	Source string `json:"source"`
	URL    string `json:"url"`
}

// -- RESPONSES --
type StatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type DownloadAccepted struct {
	Status string `json:"status"`
	URL    string `json:"url"`
}

type DownloadList struct {
	Active    []string                `json:"active"`
	Downloads []domain.DownloadStatus `json:"downloads"`
}

type NavigationPolicy struct {
	Policy string `json:"policy"`
}

const (
	PolicyCancel = "cancel"
	PolicyAllow  = "allow"
)
