package repositories

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository *StudentRepository
	GroupRepository   *GroupRepository
}

// Options tunes repository behaviour that comes from configuration
type Options struct {
	AcquireTimeout  time.Duration
	IDRetryAttempts int
}

// NewRepositories initializes all repositories over the shared pool and group collection
func NewRepositories(db *pgxpool.Pool, groups *mongo.Collection, opts Options) *Repositories {
	return &Repositories{
		StudentRepository: NewStudentRepository(db, opts.AcquireTimeout),
		GroupRepository:   NewGroupRepository(groups, opts.IDRetryAttempts),
	}
}
