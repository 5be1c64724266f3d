package repository

import "github.com/jackc/pgx/v5/pgxpool"

// Set groups the repositories the services are built from.
type Set struct {
	Users      UserRepository
	Properties PropertyRepository
	Images     PropertyImageRepository
	Inquiries  InquiryRepository
	Visits     VisitRequestRepository
	Favorites  FavoriteRepository
}

// NewPostgresSet builds every repository over one pool.
func NewPostgresSet(pool *pgxpool.Pool) Set {
	return Set{
		Users:      NewUserRepository(pool),
		Properties: NewPropertyRepository(pool),
		Images:     NewPropertyImageRepository(pool),
		Inquiries:  NewInquiryRepository(pool),
		Visits:     NewVisitRequestRepository(pool),
		Favorites:  NewFavoriteRepository(pool),
	}
}
