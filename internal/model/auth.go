package model

import "github.com/golang-jwt/jwt/v5"

// HostClaims are JWT claims for the presenter, issued against the admin PIN.
type HostClaims struct {
	HostID string `json:"hostId"`
	jwt.RegisteredClaims
}

// PlayerClaims are JWT claims handed to a participant at registration.
type PlayerClaims struct {
	ParticipantID string `json:"participantId"`
	Name          string `json:"name"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for presenter login.
type LoginRequest struct {
	PIN string `json:"pin"`
}

// LoginResponse is returned after successful PIN login.
type LoginResponse struct {
	Token  string `json:"token"`
	HostID string `json:"hostId"`
}
