package service

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/poliux/poliux/internal/store"
	"github.com/poliux/poliux/internal/webhook"
	"github.com/poliux/poliux/pkg/models"
)

// ErrForbidden marks access to somebody else's campaign.
var ErrForbidden = errors.New("forbidden")

// ErrInvalid marks a request that fails field validation.
var ErrInvalid = errors.New("invalid")

// ErrWorkflow marks a failed delegation to the external analysis workflow.
var ErrWorkflow = errors.New("analysis workflow failed")

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

// Store is the persistence surface the service needs. *store.PgStore
// satisfies it; tests substitute fakes.
type Store interface {
	SaveArticles([]*models.Article) error
	RecentArticles(since time.Time, limit int) ([]*models.Article, error)
	GetArticle(id string) (*models.Article, error)
	PruneArticles(before time.Time) (int64, error)

	UpsertVote(articleID, userID, voteType string) error
	VoteCounts(articleID string) (models.VoteCounts, error)
	VoteCountsFor(articleIDs []string) (map[string]models.VoteCounts, error)
	UserVotes(userID string, articleIDs []string) (map[string]string, error)

	SaveBills([]*models.Bill) error
	GetBill(id string) (*models.Bill, error)
	SearchBillsByNumber(variants []string, limit int) ([]*models.Bill, error)
	SearchBillsText(q string, variants []string, limit int) ([]*models.Bill, error)
	TrackBill(userID, billID string) error
	UntrackBill(userID, billID string) error
	TrackedBills(userID string) ([]*models.Bill, error)
	LatestAnalysis(billID string) (*models.BillAnalysis, error)

	SavePeople([]*models.Person) error
	GetPerson(id string) (*models.Person, error)
	SearchPeople(q string, limit int) ([]*models.Person, error)

	CreateCampaign(c *models.Campaign) error
	GetCampaign(id string) (*models.Campaign, error)
	ListCampaigns(ownerID string) ([]*models.Campaign, error)
	UpdateCampaign(id, name, description string) error
	DeleteCampaign(id string) error
	AddCampaignBill(campaignID, billID string) error
	RemoveCampaignBill(campaignID, billID string) error
	ListCampaignBills(campaignID string) ([]*models.Bill, error)
	AddCampaignLegislator(campaignID, personID string) error
	RemoveCampaignLegislator(campaignID, personID string) error
	ListCampaignLegislators(campaignID string) ([]*models.Person, error)
	AddCampaignDocument(d *models.CampaignDocument) error
	ListCampaignDocuments(campaignID string) ([]*models.CampaignDocument, error)
	DeleteCampaignDocument(campaignID, documentID string) error
	AddCampaignNote(n *models.CampaignNote) error
	ListCampaignNotes(campaignID string) ([]*models.CampaignNote, error)
	UpdateCampaignNote(campaignID, noteID, body string) error
	DeleteCampaignNote(campaignID, noteID string) error

	InsertEvent(e *models.AnalyticsEvent) error
	InsertReport(r *models.Report) error
}

// Workflow triggers external bill-analysis runs.
type Workflow interface {
	TriggerAnalysis(ctx context.Context, req webhook.AnalysisRequest) (string, error)
}

type Service struct {
	repo    Store
	rdb     *redis.Client
	wf      Workflow
	newRand func() *rand.Rand
}

// NewService wires the service. newRand supplies the random source for each
// newsfeed ranking call; nil means time-seeded (production behavior).
func NewService(repo Store, rdb *redis.Client, wf Workflow, newRand func() *rand.Rand) *Service {
	if newRand == nil {
		newRand = func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}
	return &Service{repo: repo, rdb: rdb, wf: wf, newRand: newRand}
}
