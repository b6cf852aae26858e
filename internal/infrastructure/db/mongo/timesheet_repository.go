package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tempoworks/timesheet-system/internal/core/domain"
)

const (
	timesheetsCollection = "timesheets"

	indexUserProjectWeek = "uniq_user_project_week"
)

type TimesheetRepository struct {
	col *mongo.Collection
}

func NewTimesheetRepository(db *mongo.Database) *TimesheetRepository {
	return &TimesheetRepository{col: db.Collection(timesheetsCollection)}
}

type mongoTimesheet struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	UserID        string             `bson:"user_id"`
	ProjectID     string             `bson:"project_id"`
	WeekStartDate time.Time          `bson:"week_start_date"`
	DailyHours    map[string]int     `bson:"daily_hours"`
	Description   string             `bson:"description"`
	Status        string             `bson:"status"`
	SubmittedAt   time.Time          `bson:"submitted_at"`
}

func toMongoTimesheet(t *domain.Timesheet) mongoTimesheet {
	hours := make(map[string]int, len(t.DailyHours))
	for day, h := range t.DailyHours {
		hours[string(day)] = h
	}
	return mongoTimesheet{
		UserID:        t.UserID,
		ProjectID:     t.ProjectID,
		WeekStartDate: domain.DateOf(t.WeekStartDate),
		DailyHours:    hours,
		Description:   t.Description,
		Status:        string(t.Status),
		SubmittedAt:   t.SubmittedAt.UTC(),
	}
}

func (m mongoTimesheet) toDomain() *domain.Timesheet {
	hours := make(domain.DailyHours, len(m.DailyHours))
	for day, h := range m.DailyHours {
		hours[domain.DayOfWeek(day)] = h
	}
	return &domain.Timesheet{
		ID:            m.ID.Hex(),
		UserID:        m.UserID,
		ProjectID:     m.ProjectID,
		WeekStartDate: m.WeekStartDate.UTC(),
		DailyHours:    hours,
		Description:   m.Description,
		Status:        domain.TimesheetStatus(m.Status),
		SubmittedAt:   m.SubmittedAt.UTC(),
	}
}

// Create inserts a timesheet. The compound unique index turns a racing
// second submission for the same week into ErrDuplicateTimesheet.
func (r *TimesheetRepository) Create(ctx context.Context, t *domain.Timesheet) (*domain.Timesheet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoTimesheet(t)
	doc.ID = primitive.NewObjectID()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateTimesheet
		}
		return nil, fmt.Errorf("insert timesheet: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TimesheetRepository) FindByID(ctx context.Context, id string) (*domain.Timesheet, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrTimesheetNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoTimesheet
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTimesheetNotFound
		}
		return nil, fmt.Errorf("find timesheet: %w", err)
	}
	return doc.toDomain(), nil
}

// Delete removes the timesheet with the given id.
func (r *TimesheetRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrTimesheetNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete timesheet: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTimesheetNotFound
	}
	return nil
}

func (r *TimesheetRepository) FindAll(ctx context.Context) ([]*domain.Timesheet, error) {
	return r.find(ctx, bson.M{})
}

func (r *TimesheetRepository) FindByProject(ctx context.Context, projectID string) ([]*domain.Timesheet, error) {
	return r.find(ctx, bson.M{"project_id": projectID})
}

func (r *TimesheetRepository) FindByUserAndWeekRange(ctx context.Context, userID string, start, end time.Time) ([]*domain.Timesheet, error) {
	return r.find(ctx, bson.M{"user_id": userID, "week_start_date": weekRange(start, end)})
}

func (r *TimesheetRepository) FindByProjectAndWeekRange(ctx context.Context, projectID string, start, end time.Time) ([]*domain.Timesheet, error) {
	return r.find(ctx, bson.M{"project_id": projectID, "week_start_date": weekRange(start, end)})
}

func (r *TimesheetRepository) FindByWeekStartAfter(ctx context.Context, after time.Time) ([]*domain.Timesheet, error) {
	return r.find(ctx, bson.M{"week_start_date": bson.M{"$gt": domain.DateOf(after)}})
}

func (r *TimesheetRepository) ExistsForWeek(ctx context.Context, userID, projectID string, week time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": userID, "project_id": projectID, "week_start_date": domain.DateOf(week)}
	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count timesheets: %w", err)
	}
	return n > 0, nil
}

// UpdateReview only matches SUBMITTED documents, so a timesheet is reviewed at most once.
func (r *TimesheetRepository) UpdateReview(ctx context.Context, id string, status domain.TimesheetStatus, description string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrTimesheetNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "status": string(domain.TimesheetSubmitted)},
		bson.M{"$set": bson.M{"status": string(status), "description": description}},
	)
	if err != nil {
		return fmt.Errorf("update timesheet: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("count timesheet: %w", err)
	}
	if n == 0 {
		return domain.ErrTimesheetNotFound
	}
	return domain.ErrTimesheetNotSubmitted
}

func (r *TimesheetRepository) find(ctx context.Context, filter bson.M) ([]*domain.Timesheet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "week_start_date", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find timesheets: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoTimesheet
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode timesheets: %w", err)
	}

	out := make([]*domain.Timesheet, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// weekRange matches week start dates within [start, end].
func weekRange(start, end time.Time) bson.M {
	return bson.M{"$gte": domain.DateOf(start), "$lte": domain.DateOf(end)}
}

// EnsureIndexes creates the one-per-week uniqueness index and the lookup indexes.
func (r *TimesheetRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "project_id", Value: 1},
				{Key: "week_start_date", Value: 1},
			},
			Options: options.Index().SetName(indexUserProjectWeek).SetUnique(true),
		},
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "week_start_date", Value: 1}}},
		{Keys: bson.D{{Key: "week_start_date", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
