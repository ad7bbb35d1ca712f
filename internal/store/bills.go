package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	dbtypes "github.com/poliux/poliux/internal/db"
	"github.com/poliux/poliux/pkg/models"
)

const billColumns = `id,bill_number,title,description,status,session,subjects,last_action,last_action_date,url`

// SaveBills upserts legislative data pulled from the upstream provider.
// Bill numbers are expected in the compact LegiScan form.
func (p *PgStore) SaveBills(bills []*models.Bill) error {
	tx, err := p.db.Beginx()
	if err != nil {
		return err
	}

	stmt := `
INSERT INTO bills (id, bill_number, title, description, status, session, subjects, last_action, last_action_date, url)
VALUES ($1,$2,$3,$4,$5,$6,$7::jsonb,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
 bill_number=EXCLUDED.bill_number,
 title=EXCLUDED.title,
 description=EXCLUDED.description,
 status=EXCLUDED.status,
 session=EXCLUDED.session,
 subjects=EXCLUDED.subjects,
 last_action=EXCLUDED.last_action,
 last_action_date=EXCLUDED.last_action_date,
 url=EXCLUDED.url;
`

	for _, b := range bills {
		if b.ID == "" {
			b.ID = uuid.New().String()
		}
		if b.Subjects == nil {
			b.Subjects = dbtypes.StringSlice{}
		}
		_, err := tx.Exec(stmt,
			b.ID,
			b.BillNumber,
			b.Title,
			b.Description,
			b.Status,
			b.Session,
			b.Subjects,
			b.LastAction,
			b.LastActionDate,
			b.URL,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert bill %s: %w", b.BillNumber, err)
		}
	}

	return tx.Commit()
}

func (p *PgStore) GetBill(id string) (*models.Bill, error) {
	b := models.Bill{}
	err := p.db.Get(&b, `SELECT `+billColumns+` FROM bills WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// SearchBillsByNumber matches the bill_number column against any of the
// supplied citation variants.
func (p *PgStore) SearchBillsByNumber(variants []string, limit int) ([]*models.Bill, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	if len(variants) == 0 {
		return []*models.Bill{}, nil
	}
	rows := []*models.Bill{}
	query := `
SELECT ` + billColumns + `
FROM bills
WHERE UPPER(bill_number) = ANY($1)
ORDER BY last_action_date DESC NULLS LAST
LIMIT $2
`
	upper := make([]string, len(variants))
	for i, v := range variants {
		upper[i] = toUpperNoSpace(v)
	}
	err := p.db.Select(&rows, query, pq.Array(upper), limit)
	return rows, err
}

// SearchBillsText matches title/description with ILIKE; any bill-number
// variants found in the query are OR'd in against bill_number.
func (p *PgStore) SearchBillsText(q string, variants []string, limit int) ([]*models.Bill, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	rows := []*models.Bill{}
	like := fmt.Sprintf("%%%s%%", q)
	upper := make([]string, len(variants))
	for i, v := range variants {
		upper[i] = toUpperNoSpace(v)
	}
	query := `
SELECT ` + billColumns + `
FROM bills
WHERE title ILIKE $1 OR description ILIKE $1 OR UPPER(bill_number) = ANY($2)
ORDER BY last_action_date DESC NULLS LAST
LIMIT $3
`
	err := p.db.Select(&rows, query, like, pq.Array(upper), limit)
	return rows, err
}

func toUpperNoSpace(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' {
			continue
		}
		if 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}

// TrackBill subscribes a user to a bill. Tracking twice surfaces
// ErrAlreadyExists via the primary-key constraint.
func (p *PgStore) TrackBill(userID, billID string) error {
	_, err := p.db.Exec(`
INSERT INTO tracked_bills (user_id, bill_id, created_at) VALUES ($1,$2,$3)
`, userID, billID, time.Now().UTC())
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	return err
}

func (p *PgStore) UntrackBill(userID, billID string) error {
	res, err := p.db.Exec(`DELETE FROM tracked_bills WHERE user_id = $1 AND bill_id = $2`, userID, billID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PgStore) TrackedBills(userID string) ([]*models.Bill, error) {
	rows := []*models.Bill{}
	query := `
SELECT b.id,b.bill_number,b.title,b.description,b.status,b.session,b.subjects,b.last_action,b.last_action_date,b.url
FROM tracked_bills t
JOIN bills b ON b.id = t.bill_id
WHERE t.user_id = $1
ORDER BY t.created_at DESC
`
	err := p.db.Select(&rows, query, userID)
	return rows, err
}

// LatestAnalysis returns the most recent generated analysis for a bill.
func (p *PgStore) LatestAnalysis(billID string) (*models.BillAnalysis, error) {
	a := models.BillAnalysis{}
	query := `
SELECT id,bill_id,summary,generated_at
FROM simple_bill_analysis
WHERE bill_id = $1
ORDER BY generated_at DESC
LIMIT 1
`
	err := p.db.Get(&a, query, billID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (p *PgStore) SavePeople(people []*models.Person) error {
	tx, err := p.db.Beginx()
	if err != nil {
		return err
	}

	stmt := `
INSERT INTO people (id, name, party, role, state, district)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET
 name=EXCLUDED.name,
 party=EXCLUDED.party,
 role=EXCLUDED.role,
 state=EXCLUDED.state,
 district=EXCLUDED.district;
`
	for _, person := range people {
		if person.ID == "" {
			person.ID = uuid.New().String()
		}
		if _, err := tx.Exec(stmt, person.ID, person.Name, person.Party, person.Role, person.State, person.District); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert person %s: %w", person.Name, err)
		}
	}
	return tx.Commit()
}

func (p *PgStore) GetPerson(id string) (*models.Person, error) {
	person := models.Person{}
	err := p.db.Get(&person, `SELECT id,name,party,role,state,district FROM people WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (p *PgStore) SearchPeople(q string, limit int) ([]*models.Person, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	rows := []*models.Person{}
	like := fmt.Sprintf("%%%s%%", q)
	query := `
SELECT id,name,party,role,state,district
FROM people
WHERE name ILIKE $1 OR state ILIKE $1 OR district ILIKE $1
ORDER BY name ASC
LIMIT $2
`
	err := p.db.Select(&rows, query, like, limit)
	return rows, err
}
