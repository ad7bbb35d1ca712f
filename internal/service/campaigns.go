package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/poliux/poliux/pkg/models"
)

// ownedCampaign loads a campaign and checks the actor owns it. Campaigns are
// private folders; there is no sharing model.
func (s *Service) ownedCampaign(actorID, campaignID string) (*models.Campaign, error) {
	c, err := s.repo.GetCampaign(campaignID)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != actorID {
		return nil, ErrForbidden
	}
	return c, nil
}

func (s *Service) CreateCampaign(ctx context.Context, actorID, name, description string) (*models.Campaign, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	c := &models.Campaign{OwnerID: actorID, Name: name, Description: description}
	if err := s.repo.CreateCampaign(c); err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	return c, nil
}

func (s *Service) GetCampaign(ctx context.Context, actorID, campaignID string) (*models.Campaign, error) {
	c, err := s.ownedCampaign(actorID, campaignID)
	if err != nil {
		return nil, err
	}
	s.recordEvent(&models.AnalyticsEvent{
		UserID:    &actorID,
		EventType: models.EventCampaignView,
	})
	return c, nil
}

func (s *Service) ListCampaigns(ctx context.Context, actorID string) ([]*models.Campaign, error) {
	return s.repo.ListCampaigns(actorID)
}

func (s *Service) UpdateCampaign(ctx context.Context, actorID, campaignID, name, description string) error {
	if _, err := s.ownedCampaign(actorID, campaignID); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	return s.repo.UpdateCampaign(campaignID, name, description)
}

func (s *Service) DeleteCampaign(ctx context.Context, actorID, campaignID string) error {
	if _, err := s.ownedCampaign(actorID, campaignID); err != nil {
		return err
	}
	return s.repo.DeleteCampaign(campaignID)
}

func (s *Service) AddCampaignBill(ctx context.Context, actorID, campaignID, billID string) error {
	if _, err := s.ownedCampaign(actorID, campaignID); err != nil {
		return err
	}
	if _, err := s.repo.GetBill(billID); err != nil {
		return err
	}
	return s.repo.AddCampaignBill(campaignID, billID)
}

func (s *Service) RemoveCampaignBill(ctx context.Context, actorID, campaignID, billID string) error {
	if _, err := s.ownedCampaign(actorID, campaignID); err != nil {
		return err
	}
	return s.repo.RemoveCampaignBill(campaignID, billID)
}

func (s *Service) ListCampaignBills(ctx context.Context, actorID, campaignID string) ([]*models.Bill, error) {
	if _, err := s.ownedCampaign(actorID, campaignID); err != nil {
		return nil, err
	}
	return s.repo.ListCampaignBills(campaignID)
}

func (s *Service) AddCampaignLegislator(ctx context.Context, actorID, campaignID, personID string) error {
	if _, err := s.ownedCampaign(actorID, campaignID); err != nil {
		return err
	}
	if _, err := s.repo.GetPerson(personID); err != nil {
		return err
	}
	return s.repo.AddCampaignLegislator(campaignID, personID)
}

func (s *Service) RemoveCampaignLegislator(ctx context.Context, actorID, campaignID, personID string) error {
	if _, err := s.ownedCampaign(actorID, campaignID); err != nil {
		return err
	}
	return s.repo.RemoveCampaignLegislator(campaignID, personID)
}

func (s *Service) ListCampaignLegislators(ctx context.Context, actorID, campaignID string) ([]*models.Person, error) {
	if _, err := s.ownedCampaign(actorID, campaignID); err != nil {
		return nil, err
	}
	return s.repo.ListCampaignLegislators(campaignID)
}

func (s *Service) AddCampaignDocument(ctx context.Context, actorID, campaignID, title, docURL string) (*models.CampaignDocument, error) {
	if _, err := s.ownedCampaign(actorID, campaignID); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	docURL = strings.TrimSpace(docURL)
	if title == "" || docURL == "" {
		return nil, fmt.Errorf("%w: title and url are required", ErrInvalid)
	}
	d := &models.CampaignDocument{CampaignID: campaignID, Title: title, URL: docURL, AddedBy: actorID}
	if err := s.repo.AddCampaignDocument(d); err != nil {
		return nil, fmt.Errorf("add document: %w", err)
	}
	return d, nil
}

func (s *Service) ListCampaignDocuments(ctx context.Context, actorID, campaignID string) ([]*models.CampaignDocument, error) {
	if _, err := s.ownedCampaign(actorID, campaignID); err != nil {
		return nil, err
	}
	return s.repo.ListCampaignDocuments(campaignID)
}

func (s *Service) DeleteCampaignDocument(ctx context.Context, actorID, campaignID, documentID string) error {
	if _, err := s.ownedCampaign(actorID, campaignID); err != nil {
		return err
	}
	return s.repo.DeleteCampaignDocument(campaignID, documentID)
}

func (s *Service) AddCampaignNote(ctx context.Context, actorID, campaignID, body string) (*models.CampaignNote, error) {
	if _, err := s.ownedCampaign(actorID, campaignID); err != nil {
		return nil, err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: body is required", ErrInvalid)
	}
	n := &models.CampaignNote{CampaignID: campaignID, AuthorID: actorID, Body: body}
	if err := s.repo.AddCampaignNote(n); err != nil {
		return nil, fmt.Errorf("add note: %w", err)
	}
	return n, nil
}

func (s *Service) ListCampaignNotes(ctx context.Context, actorID, campaignID string) ([]*models.CampaignNote, error) {
	if _, err := s.ownedCampaign(actorID, campaignID); err != nil {
		return nil, err
	}
	return s.repo.ListCampaignNotes(campaignID)
}

func (s *Service) UpdateCampaignNote(ctx context.Context, actorID, campaignID, noteID, body string) error {
	if _, err := s.ownedCampaign(actorID, campaignID); err != nil {
		return err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return fmt.Errorf("%w: body is required", ErrInvalid)
	}
	return s.repo.UpdateCampaignNote(campaignID, noteID, body)
}

func (s *Service) DeleteCampaignNote(ctx context.Context, actorID, campaignID, noteID string) error {
	if _, err := s.ownedCampaign(actorID, campaignID); err != nil {
		return err
	}
	return s.repo.DeleteCampaignNote(campaignID, noteID)
}
