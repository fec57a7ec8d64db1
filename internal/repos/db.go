package repos

import (
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Ensure warehouse staff accounts exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Items
CREATE TABLE IF NOT EXISTS items(
  sku TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  location TEXT NOT NULL,
  condition TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
  notes TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT,
  created_by TEXT,
  updated_by TEXT
);
CREATE INDEX IF NOT EXISTS idx_items_category ON items(category);
CREATE INDEX IF NOT EXISTS idx_items_location ON items(location);
CREATE INDEX IF NOT EXISTS idx_items_name     ON items(LOWER(name));

-- Shipments
CREATE TABLE IF NOT EXISTS shipments(
  id TEXT PRIMARY KEY,
  type TEXT NOT NULL CHECK (type IN ('Inbound','Outbound')),
  partner_name TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'Pending'
    CHECK (status IN ('Pending','Processing','InTransit','Completed','Delayed')),
  priority TEXT NOT NULL DEFAULT 'Medium'
    CHECK (priority IN ('Low','Medium','High','Urgent')),
  eta TEXT NOT NULL,
  notes TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  created_by TEXT,
  completed_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_shipments_type   ON shipments(type);
CREATE INDEX IF NOT EXISTS idx_shipments_status ON shipments(status);

CREATE TABLE IF NOT EXISTS shipment_lines(
  shipment_id TEXT NOT NULL REFERENCES shipments(id) ON DELETE CASCADE,
  sku TEXT NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  notes TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (shipment_id, sku)
);
CREATE INDEX IF NOT EXISTS idx_shipment_lines_sku ON shipment_lines(sku);

-- Activity logs (append-only)
CREATE TABLE IF NOT EXISTS activity_logs(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  action_type TEXT NOT NULL,
  description TEXT NOT NULL,
  item_sku TEXT,
  user_id TEXT,
  user_name TEXT NOT NULL DEFAULT 'System',
  timestamp TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_activity_timestamp ON activity_logs(timestamp);
CREATE INDEX IF NOT EXISTS idx_activity_type      ON activity_logs(action_type);
CREATE INDEX IF NOT EXISTS idx_activity_item      ON activity_logs(item_sku);
CREATE INDEX IF NOT EXISTS idx_activity_user      ON activity_logs(user_id);

-- Stocktakes
CREATE TABLE IF NOT EXISTS stocktakes(
  id TEXT PRIMARY KEY,
  location TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'InProgress' CHECK (status IN ('InProgress','Completed')),
  notes TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  created_by TEXT,
  completed_at TEXT
);

CREATE TABLE IF NOT EXISTS stocktake_lines(
  stocktake_id TEXT NOT NULL REFERENCES stocktakes(id) ON DELETE CASCADE,
  sku TEXT NOT NULL,
  expected_qty INTEGER NOT NULL DEFAULT 0,
  counted_qty INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY (stocktake_id, sku)
);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

// seedUsers ensures the default warehouse accounts exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Hash string
	}
	mk := func(id, email, name, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Hash: string(h)}
	}

	users := []u{
		mk("u-maria", "maria@stockroom.test", "Maria Chen", "Passw0rd!"),
		mk("u-dev", "dev@stockroom.test", "Dev Patel", "Passw0rd!"),
		mk("u-ops", "ops@stockroom.test", "Warehouse Ops", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash)
			VALUES(?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash); err != nil {
			return err
		}
	}

	return tx.Commit()
}
