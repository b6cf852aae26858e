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
	projectsCollection = "projects"

	indexProjectName = "uniq_project_name"
)

type ProjectRepository struct {
	col *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{col: db.Collection(projectsCollection)}
}

type mongoProject struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Name             string             `bson:"name"`
	Description      string             `bson:"description"`
	StartDate        time.Time          `bson:"start_date"`
	EndDate          time.Time          `bson:"end_date"`
	Status           string             `bson:"status"`
	AssignedUsers    []string           `bson:"assigned_users"`
	TotalBudgetHours int                `bson:"total_budget_hours"`
	TotalBilledHours int                `bson:"total_billed_hours"`
}

func toMongoProject(p *domain.Project) mongoProject {
	return mongoProject{
		Name:             p.Name,
		Description:      p.Description,
		StartDate:        p.StartDate.UTC(),
		EndDate:          p.EndDate.UTC(),
		Status:           string(p.Status),
		AssignedUsers:    nonNil(p.AssignedUsers),
		TotalBudgetHours: p.TotalBudgetHours,
		TotalBilledHours: p.TotalBilledHours,
	}
}

func (m mongoProject) toDomain() *domain.Project {
	return &domain.Project{
		ID:               m.ID.Hex(),
		Name:             m.Name,
		Description:      m.Description,
		StartDate:        m.StartDate.UTC(),
		EndDate:          m.EndDate.UTC(),
		Status:           domain.ProjectStatus(m.Status),
		AssignedUsers:    nonNil(m.AssignedUsers),
		TotalBudgetHours: m.TotalBudgetHours,
		TotalBilledHours: m.TotalBilledHours,
	}
}

// Create inserts a new project document.
func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoProject(p)
	doc.ID = primitive.NewObjectID()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrProjectExists
		}
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrProjectNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoProject
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ProjectRepository) FindAll(ctx context.Context) ([]*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find projects: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoProject
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}

	projects := make([]*domain.Project, 0, len(docs))
	for _, d := range docs {
		projects = append(projects, d.toDomain())
	}
	return projects, nil
}

// UpdateStatus performs a compare-and-set on the status field so two
// concurrent transitions cannot both succeed.
func (r *ProjectRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ProjectStatus) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrProjectNotFound
	}
	return r.update(ctx, oid,
		bson.M{"_id": oid, "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to)}},
		domain.ErrInvalidTransition.WithDetail("project is no longer %s", from),
	)
}

func (r *ProjectRepository) AddAssignedUsers(ctx context.Context, projectID string, userIDs []string) error {
	oid, ok := objectID(projectID)
	if !ok {
		return domain.ErrProjectNotFound
	}
	return r.update(ctx, oid,
		bson.M{"_id": oid},
		bson.M{"$addToSet": bson.M{"assigned_users": bson.M{"$each": nonNil(userIDs)}}},
		nil,
	)
}

func (r *ProjectRepository) RemoveAssignedUser(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateMany(ctx,
		bson.M{"assigned_users": userID},
		bson.M{"$pull": bson.M{"assigned_users": userID}},
	)
	if err != nil {
		return fmt.Errorf("remove user from projects: %w", err)
	}
	return nil
}

func (r *ProjectRepository) IncrementBilledHours(ctx context.Context, projectID string, hours int) error {
	oid, ok := objectID(projectID)
	if !ok {
		return domain.ErrProjectNotFound
	}
	return r.update(ctx, oid,
		bson.M{"_id": oid},
		bson.M{"$inc": bson.M{"total_billed_hours": hours}},
		nil,
	)
}

// update applies change to the document matching filter. When nothing
// matches it returns ErrProjectNotFound if the project is gone, otherwise
// mismatch (a guard in filter did not hold).
func (r *ProjectRepository) update(ctx context.Context, oid primitive.ObjectID, filter, change bson.M, mismatch error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, filter, change)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	if mismatch != nil {
		n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
		if err != nil {
			return fmt.Errorf("count project: %w", err)
		}
		if n > 0 {
			return mismatch
		}
	}
	return domain.ErrProjectNotFound
}

// EnsureIndexes creates the unique name index and the membership index.
func (r *ProjectRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetName(indexProjectName).SetUnique(true)},
		{Keys: bson.D{{Key: "assigned_users", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
