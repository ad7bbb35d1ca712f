package store

import (
	"time"

	"github.com/lib/pq"

	"github.com/poliux/poliux/pkg/models"
)

// UpsertVote records a user's vote on an article. A second vote from the
// same user replaces the first; there is never more than one row per
// (article, user) pair.
func (p *PgStore) UpsertVote(articleID, userID, voteType string) error {
	_, err := p.db.Exec(`
INSERT INTO article_votes (article_id, user_id, vote_type, updated_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (article_id, user_id) DO UPDATE SET
 vote_type=EXCLUDED.vote_type,
 updated_at=EXCLUDED.updated_at;
`, articleID, userID, voteType, time.Now().UTC())
	return err
}

// VoteCounts tallies the current up/down votes for one article.
func (p *PgStore) VoteCounts(articleID string) (models.VoteCounts, error) {
	counts := models.VoteCounts{}
	query := `
SELECT
  COUNT(*) FILTER (WHERE vote_type = 'up') AS up,
  COUNT(*) FILTER (WHERE vote_type = 'down') AS down
FROM article_votes
WHERE article_id = $1
`
	err := p.db.Get(&counts, query, articleID)
	return counts, err
}

// VoteCountsFor tallies votes for many articles in one query. Articles with
// no votes are absent from the result map.
func (p *PgStore) VoteCountsFor(articleIDs []string) (map[string]models.VoteCounts, error) {
	out := map[string]models.VoteCounts{}
	if len(articleIDs) == 0 {
		return out, nil
	}

	rows := []struct {
		ArticleID string `db:"article_id"`
		Up        int    `db:"up"`
		Down      int    `db:"down"`
	}{}
	query := `
SELECT article_id,
  COUNT(*) FILTER (WHERE vote_type = 'up') AS up,
  COUNT(*) FILTER (WHERE vote_type = 'down') AS down
FROM article_votes
WHERE article_id = ANY($1::uuid[])
GROUP BY article_id
`
	if err := p.db.Select(&rows, query, pq.Array(articleIDs)); err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ArticleID] = models.VoteCounts{Up: r.Up, Down: r.Down}
	}
	return out, nil
}

// UserVotes returns the caller's current vote direction per article, for the
// given candidate set.
func (p *PgStore) UserVotes(userID string, articleIDs []string) (map[string]string, error) {
	out := map[string]string{}
	if len(articleIDs) == 0 {
		return out, nil
	}

	rows := []struct {
		ArticleID string `db:"article_id"`
		VoteType  string `db:"vote_type"`
	}{}
	query := `
SELECT article_id, vote_type
FROM article_votes
WHERE user_id = $1 AND article_id = ANY($2::uuid[])
`
	if err := p.db.Select(&rows, query, userID, pq.Array(articleIDs)); err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ArticleID] = r.VoteType
	}
	return out, nil
}
