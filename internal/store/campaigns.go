package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/poliux/poliux/pkg/models"
)

func (p *PgStore) CreateCampaign(c *models.Campaign) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err := p.db.Exec(`
INSERT INTO campaigns (id, owner_id, name, description, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, c.ID, c.OwnerID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt)
	return err
}

func (p *PgStore) GetCampaign(id string) (*models.Campaign, error) {
	c := models.Campaign{}
	err := p.db.Get(&c, `SELECT id,owner_id,name,description,created_at,updated_at FROM campaigns WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (p *PgStore) ListCampaigns(ownerID string) ([]*models.Campaign, error) {
	rows := []*models.Campaign{}
	query := `
SELECT id,owner_id,name,description,created_at,updated_at
FROM campaigns
WHERE owner_id = $1
ORDER BY updated_at DESC
`
	err := p.db.Select(&rows, query, ownerID)
	return rows, err
}

func (p *PgStore) UpdateCampaign(id, name, description string) error {
	res, err := p.db.Exec(`
UPDATE campaigns SET name = $1, description = $2, updated_at = $3 WHERE id = $4
`, name, description, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PgStore) DeleteCampaign(id string) error {
	res, err := p.db.Exec(`DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddCampaignBill links a bill into a campaign. Linking twice surfaces
// ErrAlreadyExists.
func (p *PgStore) AddCampaignBill(campaignID, billID string) error {
	_, err := p.db.Exec(`INSERT INTO campaign_bills (campaign_id, bill_id) VALUES ($1,$2)`, campaignID, billID)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	return err
}

func (p *PgStore) RemoveCampaignBill(campaignID, billID string) error {
	res, err := p.db.Exec(`DELETE FROM campaign_bills WHERE campaign_id = $1 AND bill_id = $2`, campaignID, billID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PgStore) ListCampaignBills(campaignID string) ([]*models.Bill, error) {
	rows := []*models.Bill{}
	query := `
SELECT b.id,b.bill_number,b.title,b.description,b.status,b.session,b.subjects,b.last_action,b.last_action_date,b.url
FROM campaign_bills cb
JOIN bills b ON b.id = cb.bill_id
WHERE cb.campaign_id = $1
ORDER BY b.bill_number ASC
`
	err := p.db.Select(&rows, query, campaignID)
	return rows, err
}

func (p *PgStore) AddCampaignLegislator(campaignID, personID string) error {
	_, err := p.db.Exec(`INSERT INTO campaign_legislators (campaign_id, person_id) VALUES ($1,$2)`, campaignID, personID)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	return err
}

func (p *PgStore) RemoveCampaignLegislator(campaignID, personID string) error {
	res, err := p.db.Exec(`DELETE FROM campaign_legislators WHERE campaign_id = $1 AND person_id = $2`, campaignID, personID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PgStore) ListCampaignLegislators(campaignID string) ([]*models.Person, error) {
	rows := []*models.Person{}
	query := `
SELECT pe.id,pe.name,pe.party,pe.role,pe.state,pe.district
FROM campaign_legislators cl
JOIN people pe ON pe.id = cl.person_id
WHERE cl.campaign_id = $1
ORDER BY pe.name ASC
`
	err := p.db.Select(&rows, query, campaignID)
	return rows, err
}

func (p *PgStore) AddCampaignDocument(d *models.CampaignDocument) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	d.CreatedAt = time.Now().UTC()
	_, err := p.db.Exec(`
INSERT INTO campaign_documents (id, campaign_id, title, url, added_by, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, d.ID, d.CampaignID, d.Title, d.URL, d.AddedBy, d.CreatedAt)
	return err
}

func (p *PgStore) ListCampaignDocuments(campaignID string) ([]*models.CampaignDocument, error) {
	rows := []*models.CampaignDocument{}
	query := `
SELECT id,campaign_id,title,url,added_by,created_at
FROM campaign_documents
WHERE campaign_id = $1
ORDER BY created_at DESC
`
	err := p.db.Select(&rows, query, campaignID)
	return rows, err
}

func (p *PgStore) DeleteCampaignDocument(campaignID, documentID string) error {
	res, err := p.db.Exec(`DELETE FROM campaign_documents WHERE id = $1 AND campaign_id = $2`, documentID, campaignID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PgStore) AddCampaignNote(n *models.CampaignNote) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now
	_, err := p.db.Exec(`
INSERT INTO campaign_notes (id, campaign_id, author_id, body, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, n.ID, n.CampaignID, n.AuthorID, n.Body, n.CreatedAt, n.UpdatedAt)
	return err
}

func (p *PgStore) ListCampaignNotes(campaignID string) ([]*models.CampaignNote, error) {
	rows := []*models.CampaignNote{}
	query := `
SELECT id,campaign_id,author_id,body,created_at,updated_at
FROM campaign_notes
WHERE campaign_id = $1
ORDER BY created_at DESC
`
	err := p.db.Select(&rows, query, campaignID)
	return rows, err
}

func (p *PgStore) UpdateCampaignNote(campaignID, noteID, body string) error {
	res, err := p.db.Exec(`
UPDATE campaign_notes SET body = $1, updated_at = $2 WHERE id = $3 AND campaign_id = $4
`, body, time.Now().UTC(), noteID, campaignID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PgStore) DeleteCampaignNote(campaignID, noteID string) error {
	res, err := p.db.Exec(`DELETE FROM campaign_notes WHERE id = $1 AND campaign_id = $2`, noteID, campaignID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
