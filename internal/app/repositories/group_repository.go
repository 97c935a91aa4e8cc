package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/roster/internal/app/models"
	"github.com/yigit/roster/internal/pkg/apperrors"
	"github.com/yigit/roster/internal/pkg/dberrors"
	"github.com/yigit/roster/internal/pkg/logger"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const groupIDIndexName = "group_id_unique"

// ErrGroupIDExhausted is returned when every id allocation attempt collided with a concurrent insert.
var ErrGroupIDExhausted = errors.New("could not allocate a group id")

// numericID matches documents whose id can take part in max-id allocation.
var numericID = bson.D{{Key: "id", Value: bson.D{{Key: "$type", Value: "number"}}}}

// GroupRepository handles group documents in MongoDB
type GroupRepository struct {
	coll            *mongo.Collection
	idRetryAttempts int
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(coll *mongo.Collection, idRetryAttempts int) *GroupRepository {
	if idRetryAttempts < 1 {
		idRetryAttempts = 1
	}
	return &GroupRepository{
		coll:            coll,
		idRetryAttempts: idRetryAttempts,
	}
}

// EnsureIndexes creates the unique index on id that makes concurrent allocations collide
// instead of both persisting.
func (r *GroupRepository) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(groupIDIndexName),
	}
	if _, err := r.coll.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("failed to create group id index: %w", err)
	}
	return nil
}

// GetAll retrieves every group ordered by id
func (r *GroupRepository) GetAll(ctx context.Context) ([]*models.Group, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})

	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing find groups")
		return nil, fmt.Errorf("error querying groups: %w", err)
	}

	groups := []*models.Group{}
	if err := cursor.All(ctx, &groups); err != nil {
		logger.Error().Err(err).Msg("Error decoding group documents")
		return nil, fmt.Errorf("error decoding groups: %w", err)
	}

	return groups, nil
}

// GetByID retrieves a group by its application id
func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*models.Group, error) {
	group := &models.Group{}
	err := r.coll.FindOne(ctx, bson.D{{Key: "id", Value: id}}).Decode(group)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrGroupNotFound
		}
		logger.Error().Err(err).Int64("groupID", id).Msg("Error finding group")
		return nil, fmt.Errorf("error getting group by ID: %w", err)
	}
	return group, nil
}

// MaxID returns the largest numeric id in the collection. found is false for an empty collection.
func (r *GroupRepository) MaxID(ctx context.Context) (id int64, found bool, err error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "id", Value: -1}}).
		SetProjection(bson.D{{Key: "id", Value: 1}, {Key: "_id", Value: 0}})

	var doc struct {
		ID int64 `bson:"id"`
	}
	if err := r.coll.FindOne(ctx, numericID, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("error reading max group id: %w", err)
	}
	return doc.ID, true, nil
}

// nextGroupID is one more than the current maximum, or 0 when there is none.
func nextGroupID(maxID int64, found bool) int64 {
	if !found {
		return 0
	}
	return maxID + 1
}

// Create assigns the next id and inserts the group. A duplicate-key collision with a concurrent
// insert re-reads the maximum and tries again.
func (r *GroupRepository) Create(ctx context.Context, name string) (*models.Group, error) {
	for attempt := 1; attempt <= r.idRetryAttempts; attempt++ {
		maxID, found, err := r.MaxID(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Error allocating group id")
			return nil, err
		}

		group := &models.Group{ID: nextGroupID(maxID, found), Name: name}
		_, err = r.coll.InsertOne(ctx, group)
		if err == nil {
			return group, nil
		}
		if !dberrors.IsDuplicateKeyError(err) {
			logger.Error().Err(err).Int64("groupID", group.ID).Msg("Error inserting group")
			return nil, fmt.Errorf("error creating group: %w", err)
		}

		logger.Warn().Int64("groupID", group.ID).Int("attempt", attempt).Msg("Group id taken by a concurrent insert, retrying")
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrGroupIDExhausted, r.idRetryAttempts)
}

// Update renames a group
func (r *GroupRepository) Update(ctx context.Context, id int64, name string) (*models.Group, error) {
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "name", Value: name}}}}

	result, err := r.coll.UpdateOne(ctx, bson.D{{Key: "id", Value: id}}, update)
	if err != nil {
		logger.Error().Err(err).Int64("groupID", id).Msg("Error updating group")
		return nil, fmt.Errorf("error updating group: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, apperrors.ErrGroupNotFound
	}

	return &models.Group{ID: id, Name: name}, nil
}

// Delete removes a group by id
func (r *GroupRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.coll.DeleteOne(ctx, bson.D{{Key: "id", Value: id}})
	if err != nil {
		logger.Error().Err(err).Int64("groupID", id).Msg("Error deleting group")
		return fmt.Errorf("error deleting group: %w", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrGroupNotFound
	}
	return nil
}

// InsertIfEmpty stores groups only when the collection holds no documents yet.
// It returns the number of documents written.
func (r *GroupRepository) InsertIfEmpty(ctx context.Context, groups []models.Group) (int, error) {
	count, err := r.coll.CountDocuments(ctx, bson.D{}, options.Count().SetLimit(1))
	if err != nil {
		return 0, fmt.Errorf("error counting groups: %w", err)
	}
	if count > 0 || len(groups) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, len(groups))
	for i := range groups {
		docs[i] = groups[i]
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			// Another instance seeded first.
			return 0, nil
		}
		return 0, fmt.Errorf("error inserting default groups: %w", err)
	}
	return len(groups), nil
}
