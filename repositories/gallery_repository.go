package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrGalleryNotFound   = errors.New("gallery not found")
	ErrPhotoNotFound     = errors.New("gallery photo not found")
	ErrPhotoNotInGallery = errors.New("photo does not belong to the gallery")
)

type GalleryFilter struct {
	Type  *models.GalleryType
	Page  int
	Limit int
}

type GalleryRepository interface {
	Create(ctx context.Context, gallery *models.Gallery) error
	GetByID(ctx context.Context, id string) (*models.Gallery, error)
	List(ctx context.Context, filter GalleryFilter) ([]models.Gallery, error)
	Count(ctx context.Context, filter GalleryFilter) (int, error)
	Update(ctx context.Context, gallery *models.Gallery) error
	Delete(ctx context.Context, id string) error

	ListPhotos(ctx context.Context, galleryID string) ([]models.GalleryPhoto, error)
	ListPreviewPhotos(ctx context.Context, galleryIDs []string, perGallery int) (map[string][]models.GalleryPhoto, error)
	GetPhotoByID(ctx context.Context, id string) (*models.GalleryPhoto, error)
	CreatePhoto(ctx context.Context, exec SQLExecutor, photo *models.GalleryPhoto) error
	UpdatePhoto(ctx context.Context, photo *models.GalleryPhoto) error
	DeletePhoto(ctx context.Context, id string) error
	MaxDisplayOrder(ctx context.Context, exec SQLExecutor, galleryID string) (int, error)
	UpdatePhotoOrder(ctx context.Context, exec SQLExecutor, galleryID, photoID string, order int) error
}

const (
	galleryColumns = `g.id, g.type, g.title, g.description, g.date, g.created_at, g.updated_at`
	photoColumns   = `id, gallery_id, image_url, caption, display_order, created_at`
)

type postgresGalleryRepository struct {
	db *sql.DB
}

func NewPostgresGalleryRepository(db *sql.DB) GalleryRepository {
	return &postgresGalleryRepository{db: db}
}

func (r *postgresGalleryRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func scanGallery(row rowScanner, extra ...interface{}) (*models.Gallery, error) {
	g := &models.Gallery{}
	dest := []interface{}{&g.ID, &g.Type, &g.Title, &g.Description, &g.Date, &g.CreatedAt, &g.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return g, nil
}

func scanPhoto(row rowScanner) (*models.GalleryPhoto, error) {
	p := &models.GalleryPhoto{}
	if err := row.Scan(&p.ID, &p.GalleryID, &p.ImageURL, &p.Caption, &p.DisplayOrder, &p.CreatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresGalleryRepository) Create(ctx context.Context, g *models.Gallery) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	query := `
		INSERT INTO galleries (id, type, title, description, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	return r.db.QueryRowContext(ctx, query, g.ID, g.Type, g.Title, g.Description, g.Date).Scan(&g.CreatedAt, &g.UpdatedAt)
}

func (r *postgresGalleryRepository) GetByID(ctx context.Context, id string) (*models.Gallery, error) {
	g, err := scanGallery(r.db.QueryRowContext(ctx, `SELECT `+galleryColumns+` FROM galleries g WHERE g.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGalleryNotFound
		}
		return nil, err
	}
	return g, nil
}

func (r *postgresGalleryRepository) filter(f GalleryFilter) *queryBuilder {
	b := &queryBuilder{}
	if f.Type != nil {
		b.where("g.type = " + b.arg(*f.Type))
	}
	return b
}

func (r *postgresGalleryRepository) List(ctx context.Context, f GalleryFilter) ([]models.Gallery, error) {
	b := r.filter(f)
	query := `
		SELECT ` + galleryColumns + `,
			(SELECT COUNT(*) FROM gallery_photos ph WHERE ph.gallery_id = g.id) AS photo_count
		FROM galleries g` + b.clause() + `
		ORDER BY g.date DESC NULLS LAST, g.created_at DESC, g.id` + b.page(f.Page, f.Limit)

	rows, err := r.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	galleries := make([]models.Gallery, 0)
	for rows.Next() {
		var count int
		g, err := scanGallery(rows, &count)
		if err != nil {
			return nil, err
		}
		g.PhotoCount = &count
		galleries = append(galleries, *g)
	}
	return galleries, rows.Err()
}

func (r *postgresGalleryRepository) Count(ctx context.Context, f GalleryFilter) (int, error) {
	b := r.filter(f)
	return countQuery(ctx, r.db, `SELECT COUNT(*) FROM galleries g`+b.clause(), b.args...)
}

func (r *postgresGalleryRepository) Update(ctx context.Context, g *models.Gallery) error {
	query := `
		UPDATE galleries SET type = $1, title = $2, description = $3, date = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, g.Type, g.Title, g.Description, g.Date, g.ID).Scan(&g.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrGalleryNotFound
	}
	return err
}

func (r *postgresGalleryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM galleries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGalleryNotFound)
}

func (r *postgresGalleryRepository) queryPhotos(ctx context.Context, query string, args ...interface{}) ([]models.GalleryPhoto, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	photos := make([]models.GalleryPhoto, 0)
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		photos = append(photos, *p)
	}
	return photos, rows.Err()
}

func (r *postgresGalleryRepository) ListPhotos(ctx context.Context, galleryID string) ([]models.GalleryPhoto, error) {
	query := `SELECT ` + photoColumns + ` FROM gallery_photos WHERE gallery_id = $1 ORDER BY display_order ASC, created_at ASC`
	return r.queryPhotos(ctx, query, galleryID)
}

// ListPreviewPhotos returns at most perGallery photos for each gallery, keyed by gallery id.
// perGallery <= 0 returns every photo.
func (r *postgresGalleryRepository) ListPreviewPhotos(ctx context.Context, galleryIDs []string, perGallery int) (map[string][]models.GalleryPhoto, error) {
	result := make(map[string][]models.GalleryPhoto, len(galleryIDs))
	if len(galleryIDs) == 0 {
		return result, nil
	}
	query := `
		SELECT ` + photoColumns + ` FROM (
			SELECT ` + photoColumns + `,
				ROW_NUMBER() OVER (PARTITION BY gallery_id ORDER BY display_order ASC, created_at ASC) AS rn
			FROM gallery_photos
			WHERE gallery_id = ANY($1)
		) ranked
		WHERE $2 <= 0 OR rn <= $2
		ORDER BY gallery_id, display_order ASC, created_at ASC`

	photos, err := r.queryPhotos(ctx, query, pq.Array(galleryIDs), perGallery)
	if err != nil {
		return nil, err
	}
	for _, p := range photos {
		result[p.GalleryID] = append(result[p.GalleryID], p)
	}
	return result, nil
}

func (r *postgresGalleryRepository) GetPhotoByID(ctx context.Context, id string) (*models.GalleryPhoto, error) {
	p, err := scanPhoto(r.db.QueryRowContext(ctx, `SELECT `+photoColumns+` FROM gallery_photos WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPhotoNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresGalleryRepository) CreatePhoto(ctx context.Context, exec SQLExecutor, p *models.GalleryPhoto) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	query := `
		INSERT INTO gallery_photos (id, gallery_id, image_url, caption, display_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		p.ID, p.GalleryID, p.ImageURL, p.Caption, p.DisplayOrder,
	).Scan(&p.CreatedAt)
	if err != nil {
		if code, _ := pqErrorCode(err); code == pqForeignKeyViolation {
			return ErrGalleryNotFound
		}
		return err
	}
	return nil
}

func (r *postgresGalleryRepository) UpdatePhoto(ctx context.Context, p *models.GalleryPhoto) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE gallery_photos SET image_url = $1, caption = $2, display_order = $3 WHERE id = $4`,
		p.ImageURL, p.Caption, p.DisplayOrder, p.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPhotoNotFound)
}

func (r *postgresGalleryRepository) DeletePhoto(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM gallery_photos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPhotoNotFound)
}

// MaxDisplayOrder returns the highest display order in the gallery, or -1 when it has no photos.
func (r *postgresGalleryRepository) MaxDisplayOrder(ctx context.Context, exec SQLExecutor, galleryID string) (int, error) {
	return countQuery(ctx, r.getExecutor(exec),
		`SELECT COALESCE(MAX(display_order), -1) FROM gallery_photos WHERE gallery_id = $1`, galleryID)
}

func (r *postgresGalleryRepository) UpdatePhotoOrder(ctx context.Context, exec SQLExecutor, galleryID, photoID string, order int) error {
	result, err := r.getExecutor(exec).ExecContext(ctx,
		`UPDATE gallery_photos SET display_order = $1 WHERE id = $2 AND gallery_id = $3`, order, photoID, galleryID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPhotoNotInGallery)
}
