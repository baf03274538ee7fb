package supabase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"keepsake-backend/internal/apperr"
	"keepsake-backend/internal/models"
)

const uniqueViolation = "23505"

const pageColumns = `id, slug, creator_id, recipient_name, template_type, creator_message, creator_name,
	hero_image_url, event_date, status, recipient_email, created_at, updated_at`

const contributionColumns = `id, page_id, contributor_name, message_text, photo_url, photo_path,
	ai_sticker_url, ai_sticker_path, recipient_reply, contributor_email, created_at`

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPage(row scanner) (*models.Page, error) {
	var p models.Page
	err := row.Scan(
		&p.ID, &p.Slug, &p.CreatorID, &p.RecipientName, &p.TemplateType,
		&p.CreatorMessage, &p.CreatorName, &p.HeroImageURL, &p.EventDate,
		&p.Status, &p.RecipientEmail, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanContribution(row scanner) (*models.Contribution, error) {
	var c models.Contribution
	err := row.Scan(
		&c.ID, &c.PageID, &c.ContributorName, &c.MessageText, &c.PhotoURL, &c.PhotoPath,
		&c.AIStickerURL, &c.AIStickerPath, &c.RecipientReply, &c.ContributorEmail, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(what+" not found", err)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// CreatePage inserts p and fills in the generated timestamps. A taken slug
// is reported as a conflict.
func (d *DatabaseClient) CreatePage(ctx context.Context, p *models.Page) error {
	err := d.db.QueryRowContext(ctx, `
		INSERT INTO pages (id, slug, creator_id, recipient_name, template_type, creator_message,
			creator_name, hero_image_url, event_date, status, recipient_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`, p.ID, p.Slug, p.CreatorID, p.RecipientName, p.TemplateType, p.CreatorMessage,
		p.CreatorName, p.HeroImageURL, p.EventDate, p.Status, p.RecipientEmail,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if isUniqueViolation(err) {
		return apperr.E(apperr.KindConflict, "slug already taken", err)
	}
	if err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}
	return nil
}

func (d *DatabaseClient) GetPageBySlug(ctx context.Context, slug string) (*models.Page, error) {
	p, err := scanPage(d.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE slug = $1`, slug))
	if err != nil {
		return nil, notFound(err, "page")
	}
	return p, nil
}

func (d *DatabaseClient) ListPagesByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.Page, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+pageColumns+`
		FROM pages
		WHERE creator_id = $1
		ORDER BY created_at DESC
	`, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer rows.Close()

	var pages []models.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, *p)
	}
	return pages, rows.Err()
}

// UpdatePageStatus moves a page from one status to another. The update only
// applies while the page is still in from, so concurrent transitions cannot
// both succeed.
func (d *DatabaseClient) UpdatePageStatus(ctx context.Context, pageID uuid.UUID, from, to models.PageStatus) error {
	res, err := d.db.ExecContext(ctx, `
		UPDATE pages
		SET status = $1
		WHERE id = $2 AND status = $3
	`, to, pageID, from)
	if err != nil {
		return fmt.Errorf("failed to update page status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update page status: %w", err)
	}
	if n == 0 {
		return apperr.Conflict(fmt.Sprintf("page is no longer %s", from))
	}
	return nil
}

func (d *DatabaseClient) CreateContribution(ctx context.Context, c *models.Contribution) error {
	err := d.db.QueryRowContext(ctx, `
		INSERT INTO contributions (id, page_id, contributor_name, message_text, photo_url, photo_path,
			ai_sticker_url, ai_sticker_path, contributor_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`, c.ID, c.PageID, c.ContributorName, c.MessageText, c.PhotoURL, c.PhotoPath,
		c.AIStickerURL, c.AIStickerPath, c.ContributorEmail,
	).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contribution: %w", err)
	}
	return nil
}

// ListContributions returns the page's contributions oldest first.
func (d *DatabaseClient) ListContributions(ctx context.Context, pageID uuid.UUID) ([]models.Contribution, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+contributionColumns+`
		FROM contributions
		WHERE page_id = $1
		ORDER BY created_at ASC, id ASC
	`, pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	defer rows.Close()

	var contributions []models.Contribution
	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		contributions = append(contributions, *c)
	}
	return contributions, rows.Err()
}

func (d *DatabaseClient) GetContribution(ctx context.Context, pageID, id uuid.UUID) (*models.Contribution, error) {
	c, err := scanContribution(d.db.QueryRowContext(ctx,
		`SELECT `+contributionColumns+` FROM contributions WHERE id = $1 AND page_id = $2`, id, pageID))
	if err != nil {
		return nil, notFound(err, "contribution")
	}
	return c, nil
}

func (d *DatabaseClient) DeleteContribution(ctx context.Context, pageID, id uuid.UUID) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM contributions WHERE id = $1 AND page_id = $2`, id, pageID)
	if err != nil {
		return fmt.Errorf("failed to delete contribution: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("contribution not found", nil)
	}
	return nil
}

// SetRecipientReply stores the reply unless one already exists.
func (d *DatabaseClient) SetRecipientReply(ctx context.Context, id uuid.UUID, reply string) error {
	return d.setOnce(ctx, "recipient_reply", id, reply)
}

// SetContributorEmail stores the email unless one already exists.
func (d *DatabaseClient) SetContributorEmail(ctx context.Context, id uuid.UUID, email string) error {
	return d.setOnce(ctx, "contributor_email", id, email)
}

func (d *DatabaseClient) setOnce(ctx context.Context, column string, id uuid.UUID, value string) error {
	res, err := d.db.ExecContext(ctx,
		`UPDATE contributions SET `+column+` = $1 WHERE id = $2 AND `+column+` IS NULL`, value, id)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", column, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", column, err)
	}
	if n == 0 {
		return apperr.Conflict(column + " is already set")
	}
	return nil
}

func (d *DatabaseClient) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}
