package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	title TEXT NOT NULL,
	bio TEXT,
	experience_level TEXT NOT NULL,
	skills TEXT[] NOT NULL DEFAULT '{}',
	profile_image TEXT,
	is_online BOOLEAN NOT NULL DEFAULT false,
	open_to_collaborate BOOLEAN NOT NULL DEFAULT true,
	last_seen TIMESTAMPTZ NOT NULL DEFAULT now(),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS connections (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	requester_id UUID NOT NULL REFERENCES users(id),
	receiver_id UUID NOT NULL REFERENCES users(id),
	status TEXT NOT NULL DEFAULT 'pending',
	message TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

-- One edge per unordered pair: (A,B) and (B,A) hit the same index entry,
-- which also closes the race between two concurrent creates for the pair.
CREATE UNIQUE INDEX IF NOT EXISTS connections_pair_idx
	ON connections (LEAST(requester_id, receiver_id), GREATEST(requester_id, receiver_id));
CREATE INDEX IF NOT EXISTS connections_receiver_status_idx ON connections (receiver_id, status);
CREATE INDEX IF NOT EXISTS connections_requester_status_idx ON connections (requester_id, status);

CREATE TABLE IF NOT EXISTS messages (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	sender_id UUID NOT NULL REFERENCES users(id),
	receiver_id UUID NOT NULL REFERENCES users(id),
	content TEXT NOT NULL,
	is_read BOOLEAN NOT NULL DEFAULT false,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS messages_pair_idx ON messages (sender_id, receiver_id);
CREATE INDEX IF NOT EXISTS messages_unread_idx ON messages (receiver_id, is_read);
CREATE INDEX IF NOT EXISTS messages_created_idx ON messages (created_at DESC);
`

const userColumns = `id, username, email, password_hash, first_name, last_name, title, bio,
	experience_level, skills, profile_image, is_online, open_to_collaborate,
	last_seen, created_at, updated_at`

// Postgres is the EntityStore backed by a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to databaseURL, verifies the connection and ensures
// the schema exists.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close releases the underlying pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// storeErr maps driver failures onto the store taxonomy.
func storeErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func scanUser(row pgx.Row, u *models.User) error {
	return row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.FirstName, &u.LastName,
		&u.Title, &u.Bio, &u.ExperienceLevel, &u.Skills, &u.ProfileImage,
		&u.IsOnline, &u.OpenToCollaborate, &u.LastSeen, &u.CreatedAt, &u.UpdatedAt)
}

func (p *Postgres) GetUser(ctx context.Context, id string) (models.User, error) {
	var u models.User
	row := p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err := scanUser(row, &u); err != nil {
		return models.User{}, storeErr(err)
	}
	return u, nil
}

func (p *Postgres) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	row := p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	if err := scanUser(row, &u); err != nil {
		return models.User{}, storeErr(err)
	}
	return u, nil
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	row := p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err := scanUser(row, &u); err != nil {
		return models.User{}, storeErr(err)
	}
	return u, nil
}

func (p *Postgres) CreateUser(ctx context.Context, data NewUser) (models.User, error) {
	skills := data.Skills
	if skills == nil {
		skills = []string{}
	}

	var u models.User
	row := p.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, first_name, last_name, title, bio,
			experience_level, skills, profile_image, open_to_collaborate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+userColumns,
		data.Username, data.Email, data.PasswordHash, data.FirstName, data.LastName,
		data.Title, data.Bio, data.ExperienceLevel, skills, data.ProfileImage, data.OpenToCollaborate)

	if err := scanUser(row, &u); err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrDuplicateUser
		}
		return models.User{}, storeErr(err)
	}
	return u, nil
}

func (p *Postgres) UpdateUser(ctx context.Context, id string, updates UserUpdate) (models.User, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if updates.FirstName != nil {
		add("first_name", *updates.FirstName)
	}
	if updates.LastName != nil {
		add("last_name", *updates.LastName)
	}
	if updates.Title != nil {
		add("title", *updates.Title)
	}
	if updates.Bio != nil {
		add("bio", *updates.Bio)
	}
	if updates.ExperienceLevel != nil {
		add("experience_level", *updates.ExperienceLevel)
	}
	if updates.Skills != nil {
		add("skills", updates.Skills)
	}
	if updates.ProfileImage != nil {
		add("profile_image", *updates.ProfileImage)
	}
	if updates.OpenToCollaborate != nil {
		add("open_to_collaborate", *updates.OpenToCollaborate)
	}

	var u models.User
	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + userColumns
	if err := scanUser(p.pool.QueryRow(ctx, query, args...), &u); err != nil {
		return models.User{}, storeErr(err)
	}
	return u, nil
}

func (p *Postgres) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (p *Postgres) SearchUsers(ctx context.Context, filter SearchFilter) ([]models.User, error) {
	where := []string{"TRUE"}
	args := []any{}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(`(first_name ILIKE $%d OR last_name ILIKE $%d
			OR title ILIKE $%d OR bio ILIKE $%d
			OR EXISTS (SELECT 1 FROM unnest(skills) s WHERE s ILIKE $%d))`, n, n, n, n, n))
	}
	if len(filter.ExperienceLevels) > 0 {
		args = append(args, filter.ExperienceLevels)
		where = append(where, fmt.Sprintf("experience_level = ANY($%d)", len(args)))
	}
	if len(filter.Skills) > 0 {
		args = append(args, filter.Skills)
		where = append(where, fmt.Sprintf("skills && $%d", len(args)))
	}
	if filter.OpenToCollaborate != nil {
		args = append(args, *filter.OpenToCollaborate)
		where = append(where, fmt.Sprintf("open_to_collaborate = $%d", len(args)))
	}
	if filter.IsOnline != nil {
		args = append(args, *filter.IsOnline)
		where = append(where, fmt.Sprintf("is_online = $%d", len(args)))
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY created_at DESC`
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (p *Postgres) SetOnlineStatus(ctx context.Context, id string, online bool) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE users SET is_online = $1, last_seen = now(), updated_at = now() WHERE id = $2
	`, online, id)
	if err != nil {
		return storeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectUsers(rows pgx.Rows) ([]models.User, error) {
	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			return nil, storeErr(err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return users, nil
}

const connectionColumns = `id, requester_id, receiver_id, status, message, created_at, updated_at`

func scanConnection(row pgx.Row, c *models.Connection) error {
	return row.Scan(&c.ID, &c.RequesterID, &c.ReceiverID, &c.Status, &c.Message, &c.CreatedAt, &c.UpdatedAt)
}

func (p *Postgres) GetConnection(ctx context.Context, userA, userB string) (models.Connection, error) {
	var c models.Connection
	row := p.pool.QueryRow(ctx, `
		SELECT `+connectionColumns+` FROM connections
		WHERE (requester_id = $1 AND receiver_id = $2) OR (requester_id = $2 AND receiver_id = $1)
	`, userA, userB)
	if err := scanConnection(row, &c); err != nil {
		return models.Connection{}, storeErr(err)
	}
	return c, nil
}

func (p *Postgres) GetConnectionByID(ctx context.Context, id string) (models.Connection, error) {
	var c models.Connection
	row := p.pool.QueryRow(ctx, `SELECT `+connectionColumns+` FROM connections WHERE id = $1`, id)
	if err := scanConnection(row, &c); err != nil {
		return models.Connection{}, storeErr(err)
	}
	return c, nil
}

func (p *Postgres) ConnectionsByUser(ctx context.Context, userID string) ([]models.Connection, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT `+connectionColumns+` FROM connections
		WHERE requester_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()
	return collectConnections(rows)
}

func (p *Postgres) PendingRequests(ctx context.Context, userID string) ([]models.Connection, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT `+connectionColumns+` FROM connections
		WHERE receiver_id = $1 AND status = 'pending'
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()
	return collectConnections(rows)
}

func (p *Postgres) AcceptedConnections(ctx context.Context, userID string) ([]models.User, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name, u.title, u.bio,
			u.experience_level, u.skills, u.profile_image, u.is_online, u.open_to_collaborate,
			u.last_seen, u.created_at, u.updated_at
		FROM users u
		INNER JOIN connections c
			ON (c.requester_id = $1 AND c.receiver_id = u.id)
			OR (c.receiver_id = $1 AND c.requester_id = u.id)
		WHERE c.status = 'accepted'
		ORDER BY c.updated_at DESC
	`, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (p *Postgres) InsertConnection(ctx context.Context, data NewConnection) (models.Connection, error) {
	var c models.Connection
	row := p.pool.QueryRow(ctx, `
		INSERT INTO connections (requester_id, receiver_id, status, message)
		VALUES ($1, $2, 'pending', $3)
		RETURNING `+connectionColumns,
		data.RequesterID, data.ReceiverID, data.Message)

	if err := scanConnection(row, &c); err != nil {
		if isUniqueViolation(err) {
			return models.Connection{}, ErrDuplicateConnection
		}
		return models.Connection{}, storeErr(err)
	}
	return c, nil
}

// UpdateConnectionStatus only matches a pending row, so a terminal status is
// never overwritten even under concurrent transitions.
func (p *Postgres) UpdateConnectionStatus(ctx context.Context, id, status string) (models.Connection, error) {
	var c models.Connection
	row := p.pool.QueryRow(ctx, `
		UPDATE connections SET status = $1, updated_at = now()
		WHERE id = $2 AND status = 'pending'
		RETURNING `+connectionColumns,
		status, id)
	if err := scanConnection(row, &c); err != nil {
		return models.Connection{}, storeErr(err)
	}
	return c, nil
}

func collectConnections(rows pgx.Rows) ([]models.Connection, error) {
	connections := []models.Connection{}
	for rows.Next() {
		var c models.Connection
		if err := scanConnection(rows, &c); err != nil {
			return nil, storeErr(err)
		}
		connections = append(connections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return connections, nil
}

const messageColumns = `id, sender_id, receiver_id, content, is_read, created_at`

func scanMessage(row pgx.Row, m *models.Message) error {
	return row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.IsRead, &m.CreatedAt)
}

func collectMessages(rows pgx.Rows) ([]models.Message, error) {
	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := scanMessage(rows, &m); err != nil {
			return nil, storeErr(err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return messages, nil
}

func (p *Postgres) InsertMessage(ctx context.Context, data NewMessage) (models.Message, error) {
	var m models.Message
	row := p.pool.QueryRow(ctx, `
		INSERT INTO messages (sender_id, receiver_id, content)
		VALUES ($1, $2, $3)
		RETURNING `+messageColumns,
		data.SenderID, data.ReceiverID, data.Content)
	if err := scanMessage(row, &m); err != nil {
		return models.Message{}, storeErr(err)
	}
	return m, nil
}

func (p *Postgres) MessagesWith(ctx context.Context, userID string) ([]models.Message, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()
	return collectMessages(rows)
}

func (p *Postgres) MessagesBetween(ctx context.Context, userA, userB string) ([]models.Message, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC
	`, userA, userB)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()
	return collectMessages(rows)
}

func (p *Postgres) UnreadMessages(ctx context.Context, receiverID, senderID string) ([]models.Message, error) {
	query := `
		SELECT ` + messageColumns + ` FROM messages
		WHERE receiver_id = $1 AND is_read = false`
	args := []any{receiverID}
	if senderID != "" {
		query += ` AND sender_id = $2`
		args = append(args, senderID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()
	return collectMessages(rows)
}

func (p *Postgres) MarkRead(ctx context.Context, receiverID, senderID string) (int64, error) {
	query := `UPDATE messages SET is_read = true WHERE receiver_id = $1 AND is_read = false`
	args := []any{receiverID}
	if senderID != "" {
		query += ` AND sender_id = $2`
		args = append(args, senderID)
	}

	tag, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, storeErr(err)
	}
	return tag.RowsAffected(), nil
}

func (p *Postgres) CountUnread(ctx context.Context, receiverID string) (int64, error) {
	var count int64
	err := p.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND is_read = false
	`, receiverID).Scan(&count)
	if err != nil {
		return 0, storeErr(err)
	}
	return count, nil
}

var _ EntityStore = (*Postgres)(nil)
