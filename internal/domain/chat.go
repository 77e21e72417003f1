package domain

const (
	ChatRoleUser = "user"
	ChatRoleBot  = "bot"
)

type ChatMessage struct {
	ID        string `db:"id" json:"id"`
	SessionID string `db:"session_id" json:"session_id"`
	Role      string `db:"role" json:"role"`
	Content   string `db:"content" json:"content"`
	Intent    string `db:"intent" json:"intent,omitempty"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

// RetrievedProduct is one vector-search hit enriched with the heuristic
// relevance score used for re-ranking.
type RetrievedProduct struct {
	ProductID    string  `json:"product_id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Price        float64 `json:"price"`
	Availability bool    `json:"availability"`
	Score        float64 `json:"score"`
	Relevance    float64 `json:"relevance_score"`
}
