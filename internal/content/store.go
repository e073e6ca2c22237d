package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Store persists all site content in a single SQLite database.
type Store struct {
	db *sql.DB
}

func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS ai_instructions (
		id TEXT PRIMARY KEY,
		instructions TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		title TEXT NOT NULL,
		bio TEXT NOT NULL DEFAULT '',
		avatar_url TEXT NOT NULL DEFAULT '',
		is_available INTEGER NOT NULL DEFAULT 1,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS skills (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		proficiency INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		github_url TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS social_links (
		id TEXT PRIMARY KEY,
		platform TEXT NOT NULL,
		url TEXT NOT NULL,
		icon TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS blog_categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS blog_posts (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		content TEXT NOT NULL DEFAULT '',
		excerpt TEXT NOT NULL DEFAULT '',
		featured_image_url TEXT NOT NULL DEFAULT '',
		published INTEGER NOT NULL DEFAULT 0,
		category_id TEXT NOT NULL DEFAULT '',
		views INTEGER NOT NULL DEFAULT 0,
		reading_time INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_blog_posts_slug ON blog_posts(slug);

	CREATE TABLE IF NOT EXISTS visitor_stats (
		date TEXT PRIMARY KEY,
		page_views INTEGER NOT NULL DEFAULT 0,
		unique_visitors INTEGER NOT NULL DEFAULT 0,
		blog_views INTEGER NOT NULL DEFAULT 0,
		chat_turns INTEGER NOT NULL DEFAULT 0
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Instructions returns the persisted system-prompt text. Satisfies the prompt
// cache's source contract.
func (s *Store) Instructions(ctx context.Context) (string, error) {
	var text string
	err := s.db.QueryRowContext(ctx, `SELECT instructions FROM ai_instructions LIMIT 1`).Scan(&text)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query instructions: %w", err)
	}
	return text, nil
}

// SaveInstructions inserts the record on first save and updates it afterwards.
// The table is treated as a singleton.
func (s *Store) SaveInstructions(ctx context.Context, text string) (Instructions, error) {
	now := time.Now().UTC()

	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM ai_instructions LIMIT 1`).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		id = uuid.NewString()
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO ai_instructions (id, instructions, updated_at) VALUES (?, ?, ?)`,
			id, text, now)
	case err == nil:
		_, err = s.db.ExecContext(ctx,
			`UPDATE ai_instructions SET instructions = ?, updated_at = ? WHERE id = ?`,
			text, now, id)
	}
	if err != nil {
		return Instructions{}, fmt.Errorf("save instructions: %w", err)
	}
	return Instructions{ID: id, Instructions: text, UpdatedAt: now}, nil
}

func (s *Store) Profile(ctx context.Context) (Profile, error) {
	var p Profile
	var avail int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, title, bio, avatar_url, is_available, updated_at FROM profiles LIMIT 1`).
		Scan(&p.ID, &p.Name, &p.Title, &p.Bio, &p.AvatarURL, &avail, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("query profile: %w", err)
	}
	p.IsAvailable = avail != 0
	return p, nil
}

func (s *Store) SaveProfile(ctx context.Context, p Profile) (Profile, error) {
	p.UpdatedAt = time.Now().UTC()

	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM profiles LIMIT 1`).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		p.ID = uuid.NewString()
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO profiles (id, name, title, bio, avatar_url, is_available, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.Title, p.Bio, p.AvatarURL, boolToInt(p.IsAvailable), p.UpdatedAt)
	case err == nil:
		p.ID = id
		_, err = s.db.ExecContext(ctx,
			`UPDATE profiles SET name = ?, title = ?, bio = ?, avatar_url = ?, is_available = ?, updated_at = ? WHERE id = ?`,
			p.Name, p.Title, p.Bio, p.AvatarURL, boolToInt(p.IsAvailable), p.UpdatedAt, id)
	}
	if err != nil {
		return Profile{}, fmt.Errorf("save profile: %w", err)
	}
	return p, nil
}

func (s *Store) Skills(ctx context.Context) ([]Skill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, category, proficiency FROM skills ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("query skills: %w", err)
	}
	defer rows.Close()

	var out []Skill
	for rows.Next() {
		var sk Skill
		if err := rows.Scan(&sk.ID, &sk.Name, &sk.Category, &sk.Proficiency); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		out = append(out, sk)
	}
	return out, rows.Err()
}

func (s *Store) UpsertSkill(ctx context.Context, sk Skill) (Skill, error) {
	if sk.ID == "" {
		sk.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO skills (id, name, category, proficiency) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, category = excluded.category, proficiency = excluded.proficiency`,
		sk.ID, sk.Name, sk.Category, sk.Proficiency)
	if err != nil {
		return Skill{}, fmt.Errorf("upsert skill: %w", err)
	}
	return sk, nil
}

func (s *Store) DeleteSkill(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM skills WHERE id = ?`, id)
	return err
}

func (s *Store) Projects(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, image_url, url, github_url, created_at
		 FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.ImageURL, &p.URL, &p.GithubURL, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) UpsertProject(ctx context.Context, p Project) (Project, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
		p.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (id, title, description, image_url, url, github_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET title = excluded.title, description = excluded.description,
			image_url = excluded.image_url, url = excluded.url, github_url = excluded.github_url`,
		p.ID, p.Title, p.Description, p.ImageURL, p.URL, p.GithubURL, p.CreatedAt)
	if err != nil {
		return Project{}, fmt.Errorf("upsert project: %w", err)
	}
	return p, nil
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	return err
}

func (s *Store) SocialLinks(ctx context.Context) ([]SocialLink, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, platform, url, icon FROM social_links ORDER BY platform`)
	if err != nil {
		return nil, fmt.Errorf("query social links: %w", err)
	}
	defer rows.Close()

	var out []SocialLink
	for rows.Next() {
		var l SocialLink
		if err := rows.Scan(&l.ID, &l.Platform, &l.URL, &l.Icon); err != nil {
			return nil, fmt.Errorf("scan social link: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) UpsertSocialLink(ctx context.Context, l SocialLink) (SocialLink, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO social_links (id, platform, url, icon) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET platform = excluded.platform, url = excluded.url, icon = excluded.icon`,
		l.ID, l.Platform, l.URL, l.Icon)
	if err != nil {
		return SocialLink{}, fmt.Errorf("upsert social link: %w", err)
	}
	return l, nil
}

func (s *Store) DeleteSocialLink(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM social_links WHERE id = ?`, id)
	return err
}

func (s *Store) Categories(ctx context.Context) ([]BlogCategory, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, slug, created_at FROM blog_categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []BlogCategory
	for rows.Next() {
		var c BlogCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) UpsertCategory(ctx context.Context, c BlogCategory) (BlogCategory, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
		c.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blog_categories (id, name, slug, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, slug = excluded.slug`,
		c.ID, c.Name, c.Slug, c.CreatedAt)
	if err != nil {
		return BlogCategory{}, fmt.Errorf("upsert category: %w", err)
	}
	return c, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM blog_categories WHERE id = ?`, id)
	return err
}

// Posts returns blog posts, newest first. With publishedOnly, drafts are
// filtered out (the public listing).
func (s *Store) Posts(ctx context.Context, publishedOnly bool) ([]BlogPost, error) {
	q := `SELECT id, title, slug, content, excerpt, featured_image_url, published, category_id,
		views, reading_time, created_at, updated_at FROM blog_posts`
	if publishedOnly {
		q += ` WHERE published = 1`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var out []BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) PostBySlug(ctx context.Context, slug string) (BlogPost, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, slug, content, excerpt, featured_image_url, published, category_id,
		 views, reading_time, created_at, updated_at FROM blog_posts WHERE slug = ?`, slug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return BlogPost{}, ErrNotFound
	}
	if err != nil {
		return BlogPost{}, err
	}
	return p, nil
}

func (s *Store) UpsertPost(ctx context.Context, p BlogPost) (BlogPost, error) {
	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blog_posts (id, title, slug, content, excerpt, featured_image_url, published,
			category_id, views, reading_time, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET title = excluded.title, slug = excluded.slug,
			content = excluded.content, excerpt = excluded.excerpt,
			featured_image_url = excluded.featured_image_url, published = excluded.published,
			category_id = excluded.category_id, reading_time = excluded.reading_time,
			updated_at = excluded.updated_at`,
		p.ID, p.Title, p.Slug, p.Content, p.Excerpt, p.FeaturedImageURL, boolToInt(p.Published),
		p.CategoryID, p.Views, p.ReadingTime, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return BlogPost{}, fmt.Errorf("upsert post: %w", err)
	}
	return p, nil
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = ?`, id)
	return err
}

// IncrementPostViews bumps a post's view counter. Missing posts are not an
// error, matching the tolerant behavior of the public widget.
func (s *Store) IncrementPostViews(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE blog_posts SET views = views + 1 WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (BlogPost, error) {
	var p BlogPost
	var published int
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.FeaturedImageURL,
		&published, &p.CategoryID, &p.Views, &p.ReadingTime, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return BlogPost{}, err
	}
	p.Published = published != 0
	return p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
