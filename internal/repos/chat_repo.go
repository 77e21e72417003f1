package repos

import (
	"verdantshop/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ChatRepo struct{ db *sqlx.DB }

func NewChatRepo(db *sqlx.DB) *ChatRepo { return &ChatRepo{db: db} }

func (r *ChatRepo) EnsureSession(sessionID, userID string) error {
	_, err := r.db.Exec(`
	  INSERT INTO chat_sessions(session_id, user_id, created_at)
	  VALUES(?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(session_id) DO NOTHING
	`, sessionID, userID)
	return err
}

func (r *ChatRepo) InsertMessage(m domain.ChatMessage) error {
	_, err := r.db.Exec(`
	  INSERT INTO chat_messages(id, session_id, role, content, intent, created_at)
	  VALUES(?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, m.ID, m.SessionID, m.Role, m.Content, m.Intent)
	return err
}

// History returns the last n messages of a session in insertion order.
// rowid keeps same-second messages ordered; created_at alone cannot.
func (r *ChatRepo) History(sessionID string, n int) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	err := r.db.Select(&out, `
	  SELECT id, session_id, role, content, intent, created_at
	  FROM (
	    SELECT rowid AS seq, id, session_id, role, content, intent, created_at
	    FROM chat_messages
	    WHERE session_id = ?
	    ORDER BY seq DESC
	    LIMIT ?
	  )
	  ORDER BY seq
	`, sessionID, n)
	return out, err
}

func (r *ChatRepo) MessageExists(id string) (bool, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM chat_messages WHERE id = ?`, id)
	return n > 0, err
}

func (r *ChatRepo) InsertFeedback(id, messageID, userID, feedbackType, comment string) error {
	_, err := r.db.Exec(`
	  INSERT INTO chat_feedback(id, message_id, user_id, feedback_type, comment, created_at)
	  VALUES(?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, id, messageID, userID, feedbackType, comment)
	return err
}
