// Package store persists the durable side of the service: a single-row
// page view counter, an append-only analytics event log, and an
// append-only contact log. Posts are never persisted here.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// ErrValidation marks contact submissions rejected before any write.
// Callers can unwrap it to distinguish user error from store failure.
var ErrValidation = errors.New("validation failed")

// Event is one analytics occurrence. Data is stored as an opaque JSON
// payload and stays queryable through json_extract.
type Event struct {
	Type      string         `json:"event_type"`
	Data      map[string]any `json:"event_data"`
	PageURL   string         `json:"page_url"`
	UserAgent string         `json:"user_agent"`
	IPAddress string         `json:"ip_address"`
}

// Contact is one contact form submission.
type Contact struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,contact_email"`
	Message   string `json:"message" validate:"required"`
	CreatedAt string `json:"created_at,omitempty"`
}

// TopPost is one entry of the daily view ranking.
type TopPost struct {
	Title string `json:"title"`
	Views int64  `json:"views"`
}

// Summary aggregates today's analytics events.
type Summary struct {
	TotalVisits    int64     `json:"total_visits"`
	UniqueVisitors int64     `json:"unique_visitors"`
	PageViews      int64     `json:"page_views"`
	PostViews      int64     `json:"post_views"`
	TopPosts       []TopPost `json:"top_posts"`
}

const schema = `
	CREATE TABLE IF NOT EXISTS analytics (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		page_views   INTEGER DEFAULT 0,
		last_updated TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	INSERT INTO analytics (id, page_views)
		SELECT 1, 0 WHERE NOT EXISTS (SELECT 1 FROM analytics WHERE id = 1);

	CREATE TABLE IF NOT EXISTS analytics_events (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT,
		event_data TEXT,
		page_url   TEXT,
		user_agent TEXT,
		ip_address TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS contacts (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL,
		message    TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
`

// Store manages the SQLite database behind a small connection pool.
// Every write is a single independent statement; there are no
// multi-statement transactions spanning a request.
type Store struct {
	pool     *sqlitex.Pool
	validate *validator.Validate
}

// Open creates the store, creating the database file and schema if
// absent and seeding the counter row.
func Open(path string) (*Store, error) {
	pool, err := sqlitex.NewPool("file:"+path, sqlitex.PoolOptions{
		PoolSize: 4,
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	s := &Store{
		pool:     pool,
		validate: validator.New(),
	}

	// The email check is deliberately weak: "@" and "." present. The
	// original behavior is a syntactic sanity check, not RFC
	// validation, and stricter rules would reject addresses it accepts.
	if err := s.validate.RegisterValidation("contact_email", func(fl validator.FieldLevel) bool {
		email := fl.Field().String()
		return strings.Contains(email, "@") && strings.Contains(email, ".")
	}); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: register validator: %w", err)
	}

	if err := s.init(context.Background()); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("store: init: %w", err)
	}
	defer s.pool.Put(conn)

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return fmt.Errorf("store: creating schema: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.pool.Close()
}

// IncrementPageView atomically bumps the single counter row. Repeated
// calls keep incrementing; there is no per-visitor deduplication.
func (s *Store) IncrementPageView(ctx context.Context) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("store: increment page view: %w", err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		"UPDATE analytics SET page_views = page_views + 1, last_updated = CURRENT_TIMESTAMP WHERE id = 1",
		nil)
	if err != nil {
		return fmt.Errorf("store: increment page view: %w", err)
	}
	return nil
}

// PageViews returns the current counter value.
func (s *Store) PageViews(ctx context.Context) (int64, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return 0, fmt.Errorf("store: page views: %w", err)
	}
	defer s.pool.Put(conn)

	var views int64
	err = sqlitex.Execute(conn, "SELECT page_views FROM analytics WHERE id = 1", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			views = stmt.ColumnInt64(0)
			return nil
		},
	})
	if err != nil {
		return 0, fmt.Errorf("store: page views: %w", err)
	}
	return views, nil
}

// RecordEvent appends one immutable analytics event. The payload is
// serialized to JSON text.
func (s *Store) RecordEvent(ctx context.Context, event Event) error {
	var payload any
	if len(event.Data) > 0 {
		data, err := json.Marshal(event.Data)
		if err != nil {
			return fmt.Errorf("store: marshal event data: %w", err)
		}
		payload = string(data)
	}

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("store: record event: %w", err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`INSERT INTO analytics_events (event_type, event_data, page_url, user_agent, ip_address)
			VALUES (?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{event.Type, payload, event.PageURL, event.UserAgent, event.IPAddress},
		})
	if err != nil {
		return fmt.Errorf("store: record event: %w", err)
	}
	return nil
}

// RecordContact validates and appends one contact message. Validation
// failures are reported as a specific ErrValidation-wrapped error and
// nothing is written.
func (s *Store) RecordContact(ctx context.Context, contact Contact) error {
	contact.Name = strings.TrimSpace(contact.Name)
	contact.Email = strings.TrimSpace(contact.Email)
	contact.Message = strings.TrimSpace(contact.Message)

	if err := s.validate.Struct(contact); err != nil {
		return validationMessage(err)
	}

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("store: record contact: %w", err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		"INSERT INTO contacts (name, email, message) VALUES (?, ?, ?)",
		&sqlitex.ExecOptions{
			Args: []any{contact.Name, contact.Email, contact.Message},
		})
	if err != nil {
		return fmt.Errorf("store: record contact: %w", err)
	}
	return nil
}

// validationMessage maps validator errors onto the user-facing
// messages.
func validationMessage(err error) error {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		for _, fieldErr := range fieldErrors {
			if fieldErr.Tag() == "contact_email" {
				return fmt.Errorf("%w: please enter a valid email address", ErrValidation)
			}
		}
		return fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

// Contacts returns all contact messages, newest first.
func (s *Store) Contacts(ctx context.Context) ([]Contact, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: contacts: %w", err)
	}
	defer s.pool.Put(conn)

	var contacts []Contact
	err = sqlitex.Execute(conn,
		"SELECT name, email, message, created_at FROM contacts ORDER BY id DESC",
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				contacts = append(contacts, Contact{
					Name:      stmt.ColumnText(0),
					Email:     stmt.ColumnText(1),
					Message:   stmt.ColumnText(2),
					CreatedAt: stmt.ColumnText(3),
				})
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("store: contacts: %w", err)
	}
	return contacts, nil
}

// DailySummary aggregates today's events: totals, distinct visitors by
// IP, per-type counts, and the top five viewed posts ranked by view
// count with titles pulled out of the event payload.
func (s *Store) DailySummary(ctx context.Context) (Summary, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("store: daily summary: %w", err)
	}
	defer s.pool.Put(conn)

	var summary Summary
	err = sqlitex.Execute(conn,
		`SELECT
			COUNT(*) AS total_visits,
			COUNT(DISTINCT ip_address) AS unique_visitors,
			SUM(CASE WHEN event_type = 'page_view' THEN 1 ELSE 0 END) AS page_views,
			SUM(CASE WHEN event_type = 'view_post' THEN 1 ELSE 0 END) AS post_views
		FROM analytics_events
		WHERE DATE(created_at) = DATE('now')`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				summary.TotalVisits = stmt.ColumnInt64(0)
				summary.UniqueVisitors = stmt.ColumnInt64(1)
				summary.PageViews = stmt.ColumnInt64(2)
				summary.PostViews = stmt.ColumnInt64(3)
				return nil
			},
		})
	if err != nil {
		return Summary{}, fmt.Errorf("store: daily summary: %w", err)
	}

	summary.TopPosts = []TopPost{}
	err = sqlitex.Execute(conn,
		`SELECT json_extract(event_data, '$.post_title') AS post_title, COUNT(*) AS views
		FROM analytics_events
		WHERE event_type = 'view_post'
		GROUP BY json_extract(event_data, '$.post_id')
		ORDER BY views DESC
		LIMIT 5`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				title := stmt.ColumnText(0)
				if title == "" {
					title = "Unknown"
				}
				summary.TopPosts = append(summary.TopPosts, TopPost{
					Title: title,
					Views: stmt.ColumnInt64(1),
				})
				return nil
			},
		})
	if err != nil {
		return Summary{}, fmt.Errorf("store: top posts: %w", err)
	}

	return summary, nil
}
