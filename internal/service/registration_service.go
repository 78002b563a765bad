package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"quizlive/internal/model"
	"quizlive/internal/repository"
)

// RegistrationService handles the welcome-screen participant registration and
// the admin-facing registry views.
type RegistrationService struct {
	participants repository.ParticipantRepo
	authSvc      *AuthService
	broadcaster  Broadcaster
}

// NewRegistrationService creates a registration service.
func NewRegistrationService(participants repository.ParticipantRepo, authSvc *AuthService) *RegistrationService {
	return &RegistrationService{participants: participants, authSvc: authSvc}
}

// SetBroadcaster sets the broadcaster for WebSocket events.
func (s *RegistrationService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Register validates and stores a new participant and returns it together
// with the player token the client uses from then on. Name is required;
// email and phone are optional, with the phone normalized to exactly
// 11 digits or dropped to empty.
func (s *RegistrationService) Register(ctx context.Context, name, email, phone string) (*model.Participant, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", model.ErrNameRequired
	}
	name = truncateRunes(name, model.MaxNameLen)
	email = truncateRunes(strings.TrimSpace(email), model.MaxEmailLen)

	p := &model.Participant{
		ID:           "p_" + uuid.New().String()[:8],
		Name:         name,
		Email:        email,
		Phone:        NormalizePhone(phone),
		RegisteredAt: time.Now().UnixMilli(),
	}
	if err := s.participants.Create(ctx, p); err != nil {
		return nil, "", fmt.Errorf("register participant: %w", err)
	}

	token, err := s.authSvc.GeneratePlayerToken(p.ID, p.Name)
	if err != nil {
		return nil, "", fmt.Errorf("generate player token: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToHost("participant_joined", p)
	}
	return p, token, nil
}

// Get looks up a participant by id. Returns model.ErrParticipantNotFound for
// an unknown id, which happens when a stale token outlives a new-game reset.
func (s *RegistrationService) Get(ctx context.Context, id string) (*model.Participant, error) {
	p, err := s.participants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, model.ErrParticipantNotFound
	}
	return p, nil
}

// List returns all registrations in arrival order.
func (s *RegistrationService) List(ctx context.Context) ([]*model.Participant, error) {
	return s.participants.List(ctx)
}

// ExportCSV writes the registry as RFC 4180 CSV with a locale-formatted
// registration timestamp, matching the admin download format.
func (s *RegistrationService) ExportCSV(ctx context.Context, w io.Writer) error {
	participants, err := s.participants.List(ctx)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Name", "Email", "Phone", "Timestamp"}); err != nil {
		return err
	}
	for _, p := range participants {
		ts := time.UnixMilli(p.RegisteredAt).Format("02/01/2006 15:04:05")
		if err := cw.Write([]string{p.Name, p.Email, p.Phone, ts}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// truncateRunes caps s at max characters without splitting a multi-byte rune.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// NormalizePhone strips non-digits and keeps the number only when exactly
// the expected digit count remains; anything else becomes empty rather than
// an error, so a bad phone never blocks registration.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
		if b.Len() == model.PhoneDigits {
			break
		}
	}
	if b.Len() != model.PhoneDigits {
		return ""
	}
	return b.String()
}
