package localstore

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"

	"shopfront/internal/models"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	slotAuthToken = "auth_token"
	slotUser      = "user"
)

// Store persists the client's session across process restarts: the bearer
// credential and the user object, each in its own named slot. The credential
// slot is sealed with a key derived from the configured secret so the token
// is never written to disk in the clear.
type Store struct {
	db  *sql.DB
	key [32]byte
}

func Initialize(path, secretKey string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	// Single connection: the slots table is tiny and this keeps in-memory
	// databases on one connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping state database: %w", err)
	}

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate state database: %w", err)
	}

	return &Store{
		db:  db,
		key: sha256.Sum256([]byte(secretKey)),
	}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS slots (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSession writes both slots. The token and user are stored together so a
// partial session can never be restored.
func (s *Store) SaveSession(token string, user *models.User) error {
	sealed, err := s.seal([]byte(token))
	if err != nil {
		return fmt.Errorf("failed to seal credential: %w", err)
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO slots (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	if _, err := tx.Exec(query, slotAuthToken, sealed); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	if _, err := tx.Exec(query, slotUser, userJSON); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	return tx.Commit()
}

// LoadSession reads the persisted session. A missing or unreadable slot
// yields no session and no error; the caller simply starts signed out.
func (s *Store) LoadSession() (string, *models.User, error) {
	sealed, err := s.readSlot(slotAuthToken)
	if err != nil {
		return "", nil, err
	}
	userJSON, err := s.readSlot(slotUser)
	if err != nil {
		return "", nil, err
	}
	if sealed == nil || userJSON == nil {
		return "", nil, nil
	}

	token, err := s.open(sealed)
	if err != nil {
		// Secret changed or the slot is corrupt. Treat as signed out.
		return "", nil, nil
	}

	user := &models.User{}
	if err := json.Unmarshal(userJSON, user); err != nil {
		return "", nil, nil
	}

	return string(token), user, nil
}

// ClearSession removes both slots. Clearing an already-empty store succeeds.
func (s *Store) ClearSession() error {
	_, err := s.db.Exec(`DELETE FROM slots WHERE key IN (?, ?)`, slotAuthToken, slotUser)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *Store) readSlot(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) seal(plaintext []byte) ([]byte, error) {
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, err
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, &s.key), nil
}

func (s *Store) open(sealed []byte) ([]byte, error) {
	if len(sealed) < 24 {
		return nil, fmt.Errorf("sealed value too short")
	}
	var nonce [24]byte
	copy(nonce[:], sealed[:24])
	plaintext, ok := secretbox.Open(nil, sealed[24:], &nonce, &s.key)
	if !ok {
		return nil, fmt.Errorf("failed to open sealed value")
	}
	return plaintext, nil
}
