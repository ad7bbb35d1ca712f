package models

import (
	"time"

	dbtypes "github.com/poliux/poliux/internal/db"
)

// Article represents a row of the rss_feed table: one collected news article.
type Article struct {
	ID            string    `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	Description   string    `db:"description" json:"description"`
	Link          string    `db:"link" json:"link"`
	CanonicalLink string    `db:"canonical_link" json:"canonical_link,omitempty"`
	SourceDomain  string    `db:"source_domain" json:"source_domain"`
	Publication   string    `db:"publication" json:"publication"`
	Author        string    `db:"author" json:"author,omitempty"`
	PublishedAt   time.Time `db:"published_at" json:"published_at"`
	ImageURL      string    `db:"image_url" json:"image_url,omitempty"`

	// VoteCounts and UserVote are set at response time by the newsfeed and
	// vote services (not persisted).
	VoteCounts *VoteCounts `db:"-" json:"vote_counts,omitempty"`
	UserVote   *string     `db:"-" json:"user_vote,omitempty"`
}

// Vote directions stored in article_votes.vote_type.
const (
	VoteUp   = "up"
	VoteDown = "down"
)

// Vote is one user's current vote on one article. The (article_id, user_id)
// pair is unique: casting again replaces the earlier row.
type Vote struct {
	ArticleID string    `db:"article_id" json:"article_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	VoteType  string    `db:"vote_type" json:"vote_type"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// VoteCounts is the up/down tally for a single article.
type VoteCounts struct {
	Up   int `db:"up" json:"up"`
	Down int `db:"down" json:"down"`
}

// Bill is a tracked piece of legislation (bills table). BillNumber is stored
// in the compact LegiScan form ("HB123").
type Bill struct {
	ID             string              `db:"id" json:"id"`
	BillNumber     string              `db:"bill_number" json:"bill_number"`
	Title          string              `db:"title" json:"title"`
	Description    string              `db:"description" json:"description"`
	Status         string              `db:"status" json:"status"`
	Session        string              `db:"session" json:"session,omitempty"`
	Subjects       dbtypes.StringSlice `db:"subjects" json:"subjects"`
	LastAction     string              `db:"last_action" json:"last_action,omitempty"`
	LastActionDate *time.Time          `db:"last_action_date" json:"last_action_date,omitempty"`
	URL            string              `db:"url" json:"url,omitempty"`
}

// Person is a legislator (people table).
type Person struct {
	ID       string `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Party    string `db:"party" json:"party,omitempty"`
	Role     string `db:"role" json:"role,omitempty"`
	State    string `db:"state" json:"state,omitempty"`
	District string `db:"district" json:"district,omitempty"`
}

// Campaign is a user-defined folder grouping bills, legislators, documents
// and notes.
type Campaign struct {
	ID          string    `db:"id" json:"id"`
	OwnerID     string    `db:"owner_id" json:"owner_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CampaignDocument is an attachment linked from a campaign.
type CampaignDocument struct {
	ID         string    `db:"id" json:"id"`
	CampaignID string    `db:"campaign_id" json:"campaign_id"`
	Title      string    `db:"title" json:"title"`
	URL        string    `db:"url" json:"url"`
	AddedBy    string    `db:"added_by" json:"added_by"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// CampaignNote is a free-text note inside a campaign.
type CampaignNote struct {
	ID         string    `db:"id" json:"id"`
	CampaignID string    `db:"campaign_id" json:"campaign_id"`
	AuthorID   string    `db:"author_id" json:"author_id"`
	Body       string    `db:"body" json:"body"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// BillAnalysis is one generated analysis row (simple_bill_analysis table).
// Generation happens in an external workflow; this service only triggers it
// and reads the result.
type BillAnalysis struct {
	ID          string    `db:"id" json:"id"`
	BillID      string    `db:"bill_id" json:"bill_id"`
	Summary     string    `db:"summary" json:"summary"`
	GeneratedAt time.Time `db:"generated_at" json:"generated_at"`
}

// Recorded analytics event types. Anything else is rejected with a
// validation error.
const (
	EventNewsfeedLoad = "newsfeed_load"
	EventArticleClick = "article_click"
	EventArticleVote  = "article_vote"
	EventBillView     = "bill_view"
	EventBillSearch   = "bill_search"
	EventCampaignView = "campaign_view"
	EventReportSubmit = "report_submit"
)

// ValidEventType reports whether t is one of the recorded event types.
func ValidEventType(t string) bool {
	switch t {
	case EventNewsfeedLoad, EventArticleClick, EventArticleVote,
		EventBillView, EventBillSearch, EventCampaignView, EventReportSubmit:
		return true
	}
	return false
}

// AnalyticsEvent is one row of internal_analytics. UserID is nil for
// anonymous events.
type AnalyticsEvent struct {
	ID        string          `db:"id" json:"id"`
	UserID    *string         `db:"user_id" json:"user_id,omitempty"`
	EventType string          `db:"event_type" json:"event_type"`
	ArticleID *string         `db:"article_id" json:"article_id,omitempty"`
	Metadata  dbtypes.JSONMap `db:"metadata" json:"metadata,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// Report is a user-submitted problem report (report_inbox table).
type Report struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Subject   string    `db:"subject" json:"subject"`
	Body      string    `db:"body" json:"body"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
