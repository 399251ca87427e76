package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/mindbalance/internal/client/kvstore"
	"github.com/dmitrijs2005/mindbalance/internal/client/models"
	"github.com/dmitrijs2005/mindbalance/internal/common"
)

const SupportAck = "We'll contact you within 2 hours."

// SupportService records priority support requests for Pro users.
type SupportService struct {
	store kvstore.Store
	tier  *TierService
	now   func() time.Time
}

func NewSupportService(s kvstore.Store, tier *TierService) *SupportService {
	return &SupportService{store: s, tier: tier, now: time.Now}
}

func (s *SupportService) Submit(ctx context.Context, uid, subject, message string) (string, error) {
	pro, err := s.tier.IsPro(ctx, uid)
	if err != nil {
		return "", err
	}
	if !pro {
		return "", ErrProRequired
	}

	subject = strings.TrimSpace(subject)
	message = strings.TrimSpace(message)
	if subject == "" {
		return "", &ValidationError{Field: "subject", Message: "Please enter a subject."}
	}
	if message == "" {
		return "", &ValidationError{Field: "message", Message: "Please describe your issue."}
	}

	history, err := s.History(ctx, uid)
	if err != nil {
		return "", err
	}
	history = append(history, models.SupportRequest{
		Subject: subject,
		Message: message,
		SentAt:  s.now().UTC().Format(time.RFC3339),
	})
	if err := kvstore.SetJSON(ctx, s.store, kvstore.SupportKey(uid), history); err != nil {
		return "", err
	}
	return SupportAck, nil
}

// History returns submitted requests, oldest first.
func (s *SupportService) History(ctx context.Context, uid string) ([]models.SupportRequest, error) {
	var list []models.SupportRequest
	err := kvstore.GetJSON(ctx, s.store, kvstore.SupportKey(uid), &list)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	return list, err
}
