package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/store-locator/internal/domain"
)

// GeoRepo answers proximity queries over store coordinates.
type GeoRepo interface {
	// Nearby returns up to limit stores within maxDistanceMeters of center,
	// nearest first, as map projections.
	Nearby(ctx context.Context, center domain.Point, maxDistanceMeters float64, limit int) ([]domain.StoreProjection, error)
}

// pgGeoRepo is the Postgres implementation of GeoRepo. It relies on the
// cube/earthdistance extensions and the GiST index over ll_to_earth(lat, lng).
type pgGeoRepo struct {
	db db
}

// NewGeoRepo constructs a GeoRepo backed by the provided db connection.
func NewGeoRepo(db db) GeoRepo {
	return &pgGeoRepo{db: db}
}

// Nearby uses earth_box as an indexable bounding-cube prefilter, then
// earth_distance for the exact great-circle cut and ordering.
func (r *pgGeoRepo) Nearby(ctx context.Context, center domain.Point, maxDistanceMeters float64, limit int) ([]domain.StoreProjection, error) {
	const q = `
		SELECT slug, name, description, lng, lat, address, photo
		FROM stores
		WHERE earth_box(ll_to_earth(@lat, @lng), @max_distance) @> ll_to_earth(lat, lng)
		  AND earth_distance(ll_to_earth(@lat, @lng), ll_to_earth(lat, lng)) <= @max_distance
		ORDER BY earth_distance(ll_to_earth(@lat, @lng), ll_to_earth(lat, lng))
		LIMIT @limit`

	args := pgx.NamedArgs{
		"lat":          center.Lat,
		"lng":          center.Lng,
		"max_distance": maxDistanceMeters,
		"limit":        limit,
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.GeoRepo.Nearby: %w", err)
	}
	defer rows.Close()

	out := []domain.StoreProjection{}
	for rows.Next() {
		var p domain.StoreProjection
		err := rows.Scan(&p.Slug, &p.Name, &p.Description,
			&p.Location.Coordinates.Lng, &p.Location.Coordinates.Lat, &p.Location.Address, &p.Photo)
		if err != nil {
			return nil, fmt.Errorf("repo.GeoRepo.Nearby: scan: %w", err)
		}
		p.Location.Type = domain.PointType
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.GeoRepo.Nearby: rows: %w", err)
	}
	return out, nil
}
