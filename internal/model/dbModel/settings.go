package dbModel

import "time"

type ChatSettings struct {
	ChatID        int64     `db:"chat_id"`
	Theme         string    `db:"theme"`
	DigestEnabled bool      `db:"digest_enabled"`
	TradesPerPage int       `db:"trades_per_page"`
	UpdatedAt     time.Time `db:"updated_at"`
}
