package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/timeclock-platform/shift-service/internal/domain"
	"github.com/timeclock-platform/shift-service/pkg/logging"
	sharedMongo "github.com/timeclock-platform/shift-service/pkg/mongodb"
)

const shiftsCollection = "shifts"

// ShiftRepository persists shifts in MongoDB. The one-open-shift rule is
// enforced by a partial unique index on employeeId over open documents,
// so concurrent starts race at the database rather than in application
// code.
type ShiftRepository struct {
	collection *sharedMongo.InstrumentedCollection
	logger     *logging.Logger
}

func NewShiftRepository(client *sharedMongo.InstrumentedClient, logger *logging.Logger) *ShiftRepository {
	repo := &ShiftRepository{
		collection: client.Collection(shiftsCollection),
		logger:     logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	repo.ensureIndexes(ctx)

	return repo
}

func (r *ShiftRepository) ensureIndexes(ctx context.Context) {
	openShiftIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "employeeId", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"open": true}),
	}
	historyIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "employeeId", Value: 1}, {Key: "startTime", Value: -1}},
	}
	listingIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "startTime", Value: -1}},
	}
	shiftIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "shiftId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	indexes := map[string]mongo.IndexModel{
		"openShift": openShiftIndex,
		"history":   historyIndex,
		"listing":   listingIndex,
		"shiftId":   shiftIDIndex,
	}
	for name, model := range indexes {
		if _, err := r.collection.CreateIndex(ctx, model); err != nil {
			r.logger.WithError(err).Error("Failed to create index",
				"collection", shiftsCollection, "index", name)
		}
	}
}

// Create inserts a new shift. A duplicate key on the partial open index
// means the employee already holds an open shift.
func (r *ShiftRepository) Create(ctx context.Context, shift *domain.Shift) error {
	shift.UpdatedAt = sharedMongo.Now()

	_, err := r.collection.InsertOne(ctx, shift)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrShiftAlreadyOpen
		}
		return fmt.Errorf("failed to insert shift: %w", err)
	}

	return nil
}

// Update replaces the employee's open shift document. The filter
// requires open:true so a stale aggregate cannot overwrite a shift
// another request already completed.
func (r *ShiftRepository) Update(ctx context.Context, shift *domain.Shift) error {
	shift.UpdatedAt = sharedMongo.Now()

	filter := sharedMongo.BuildFilter("shiftId", shift.ShiftID, "open", true)
	result, err := r.collection.ReplaceOne(ctx, filter, shift)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrShiftAlreadyOpen
		}
		return fmt.Errorf("failed to update shift: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNoActiveShift
	}

	return nil
}

func (r *ShiftRepository) FindOpenByEmployee(ctx context.Context, employeeID string) (*domain.Shift, error) {
	var shift domain.Shift
	filter := sharedMongo.BuildFilter("employeeId", employeeID, "open", true)
	err := r.collection.FindOne(ctx, filter).Decode(&shift)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *ShiftRepository) FindByEmployee(ctx context.Context, employeeID string) ([]*domain.Shift, error) {
	opts := options.Find().SetSort(sharedMongo.SortDescending("startTime"))
	cursor, err := r.collection.Find(ctx, sharedMongo.BuildFilter("employeeId", employeeID), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var shifts []*domain.Shift
	err = cursor.All(ctx, &shifts)
	return shifts, err
}

func (r *ShiftRepository) FindAll(ctx context.Context, limit, offset int) ([]*domain.Shift, error) {
	opts := options.Find().
		SetSort(sharedMongo.SortDescending("startTime")).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var shifts []*domain.Shift
	err = cursor.All(ctx, &shifts)
	return shifts, err
}
