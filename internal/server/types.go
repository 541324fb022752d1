package server

import (
	"github.com/pdrpinto/gridsearch"
	"github.com/pdrpinto/gridsearch/maze"
)

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// SolveRequest is the request body for POST /api/v1/solve.
type SolveRequest struct {
	Maze     string `json:"maze"`
	Strategy string `json:"strategy,omitempty"`
}

// CreateSessionRequest is the request body for POST /api/v1/sessions.
// Maze and Generate are exclusive; with neither a random maze is generated.
type CreateSessionRequest struct {
	Maze     string                `json:"maze,omitempty"`
	Generate *maze.GenerateOptions `json:"generate,omitempty"`
	Strategy string                `json:"strategy,omitempty"`
}

// SessionResponse describes a stepping session.
type SessionResponse struct {
	ID       string              `json:"id"`
	Strategy gridsearch.Strategy `json:"strategy"`
	Width    int                 `json:"width"`
	Height   int                 `json:"height"`
	Start    gridsearch.State    `json:"start"`
	Goal     gridsearch.State    `json:"goal"`
	Walls    []gridsearch.State  `json:"walls"`
	Maze     string              `json:"maze"`
}
