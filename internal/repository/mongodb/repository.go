package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/barbershop/internal/domain/models"
)

// ErrNotFound is returned when a looked-up document does not exist.
var ErrNotFound = errors.New("not found")

const (
	barbersCollection     = "barbers"
	unitsCollection       = "units"
	goalsCollection       = "monthly_goals"
	productionsCollection = "daily_productions"
)

// Repository defines the storage operations of the dashboard. Every write is a
// single-document upsert or delete; the last write wins.
type Repository interface {
	ListUnits(ctx context.Context) ([]models.Unit, error)
	GetUnit(ctx context.Context, id string) (*models.Unit, error)
	SaveUnit(ctx context.Context, unit models.Unit) error
	DeleteUnit(ctx context.Context, id string) error

	ListBarbers(ctx context.Context, unitID string, activeOnly bool) ([]models.Barber, error)
	GetBarber(ctx context.Context, id string) (*models.Barber, error)
	GetBarberByPhone(ctx context.Context, phone string) (*models.Barber, error)
	SaveBarber(ctx context.Context, barber models.Barber) error
	DeleteBarber(ctx context.Context, id string) error

	GetGoal(ctx context.Context, barberID string, year, month int) (*models.MonthlyGoal, error)
	ListGoals(ctx context.Context, barberID string, year int) ([]models.MonthlyGoal, error)
	ListGoalsForMonth(ctx context.Context, year, month int) ([]models.MonthlyGoal, error)
	UpsertGoal(ctx context.Context, goal models.MonthlyGoal) (models.MonthlyGoal, error)
	DeleteGoal(ctx context.Context, barberID string, year, month int) error

	UpsertProduction(ctx context.Context, p models.DailyProduction) error
	DeleteProduction(ctx context.Context, barberID string, date time.Time) error
	ListProductions(ctx context.Context, barberID string, from, to time.Time) ([]models.DailyProduction, error)
	RecentProductions(ctx context.Context, barberID string, limit int) ([]models.DailyProduction, error)
	ListAllProductions(ctx context.Context, from, to time.Time) ([]models.DailyProduction, error)
}

// MongoDBRepository implements Repository on MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoDBRepository connects, pings and makes sure the unique keys exist.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	repo := &MongoDBRepository{client: client, db: client.Database(dbName)}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoDBRepository) ensureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		productionsCollection: {
			{Keys: bson.D{{Key: "barber_id", Value: 1}, {Key: "date", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "date", Value: 1}}},
		},
		goalsCollection: {
			{Keys: bson.D{{Key: "barber_id", Value: 1}, {Key: "year", Value: 1}, {Key: "month", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		barbersCollection: {
			{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
	}

	for coll, idx := range indexes {
		if _, err := r.db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) ListUnits(ctx context.Context) ([]models.Unit, error) {
	var docs []unitDocument
	if err := r.findAll(ctx, unitsCollection, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}), &docs); err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	units := make([]models.Unit, 0, len(docs))
	for _, d := range docs {
		units = append(units, d.model())
	}
	return units, nil
}

func (r *MongoDBRepository) GetUnit(ctx context.Context, id string) (*models.Unit, error) {
	var doc unitDocument
	if err := r.findOne(ctx, unitsCollection, bson.M{"_id": id}, &doc); err != nil {
		return nil, fmt.Errorf("get unit %s: %w", id, err)
	}
	unit := doc.model()
	return &unit, nil
}

func (r *MongoDBRepository) SaveUnit(ctx context.Context, unit models.Unit) error {
	return r.replace(ctx, unitsCollection, bson.M{"_id": unit.ID}, newUnitDocument(unit))
}

func (r *MongoDBRepository) DeleteUnit(ctx context.Context, id string) error {
	return r.deleteOne(ctx, unitsCollection, bson.M{"_id": id})
}

func (r *MongoDBRepository) ListBarbers(ctx context.Context, unitID string, activeOnly bool) ([]models.Barber, error) {
	filter := bson.M{}
	if unitID != "" {
		filter["unit_id"] = unitID
	}
	if activeOnly {
		filter["active"] = true
	}

	var docs []barberDocument
	if err := r.findAll(ctx, barbersCollection, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}), &docs); err != nil {
		return nil, fmt.Errorf("list barbers: %w", err)
	}
	barbers := make([]models.Barber, 0, len(docs))
	for _, d := range docs {
		b, err := d.model()
		if err != nil {
			return nil, fmt.Errorf("list barbers: %w", err)
		}
		barbers = append(barbers, b)
	}
	return barbers, nil
}

func (r *MongoDBRepository) GetBarber(ctx context.Context, id string) (*models.Barber, error) {
	var doc barberDocument
	if err := r.findOne(ctx, barbersCollection, bson.M{"_id": id}, &doc); err != nil {
		return nil, fmt.Errorf("get barber %s: %w", id, err)
	}
	barber, err := doc.model()
	if err != nil {
		return nil, fmt.Errorf("get barber %s: %w", id, err)
	}
	return &barber, nil
}

func (r *MongoDBRepository) GetBarberByPhone(ctx context.Context, phone string) (*models.Barber, error) {
	var doc barberDocument
	if err := r.findOne(ctx, barbersCollection, bson.M{"phone": phone, "active": true}, &doc); err != nil {
		return nil, fmt.Errorf("get barber by phone: %w", err)
	}
	barber, err := doc.model()
	if err != nil {
		return nil, fmt.Errorf("get barber by phone: %w", err)
	}
	return &barber, nil
}

func (r *MongoDBRepository) SaveBarber(ctx context.Context, barber models.Barber) error {
	doc, err := newBarberDocument(barber)
	if err != nil {
		return fmt.Errorf("save barber %s: %w", barber.ID, err)
	}
	return r.replace(ctx, barbersCollection, bson.M{"_id": barber.ID}, doc)
}

func (r *MongoDBRepository) DeleteBarber(ctx context.Context, id string) error {
	return r.deleteOne(ctx, barbersCollection, bson.M{"_id": id})
}

func goalKey(barberID string, year, month int) bson.M {
	return bson.M{"barber_id": barberID, "year": year, "month": month}
}

func (r *MongoDBRepository) GetGoal(ctx context.Context, barberID string, year, month int) (*models.MonthlyGoal, error) {
	var doc goalDocument
	if err := r.findOne(ctx, goalsCollection, goalKey(barberID, year, month), &doc); err != nil {
		return nil, fmt.Errorf("get goal %s %d-%02d: %w", barberID, year, month, err)
	}
	goal, err := doc.model()
	if err != nil {
		return nil, fmt.Errorf("get goal %s %d-%02d: %w", barberID, year, month, err)
	}
	return &goal, nil
}

func (r *MongoDBRepository) ListGoals(ctx context.Context, barberID string, year int) ([]models.MonthlyGoal, error) {
	return r.listGoals(ctx, bson.M{"barber_id": barberID, "year": year})
}

func (r *MongoDBRepository) ListGoalsForMonth(ctx context.Context, year, month int) ([]models.MonthlyGoal, error) {
	return r.listGoals(ctx, bson.M{"year": year, "month": month})
}

func (r *MongoDBRepository) listGoals(ctx context.Context, filter bson.M) ([]models.MonthlyGoal, error) {
	var docs []goalDocument
	opts := options.Find().SetSort(bson.D{{Key: "year", Value: 1}, {Key: "month", Value: 1}})
	if err := r.findAll(ctx, goalsCollection, filter, opts, &docs); err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	goals := make([]models.MonthlyGoal, 0, len(docs))
	for _, d := range docs {
		g, err := d.model()
		if err != nil {
			return nil, fmt.Errorf("list goals: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, nil
}

// UpsertGoal keeps the existing document id when the (barber, year, month) key
// already exists.
func (r *MongoDBRepository) UpsertGoal(ctx context.Context, goal models.MonthlyGoal) (models.MonthlyGoal, error) {
	key := goalKey(goal.BarberID, goal.Year, goal.Month)
	doc, err := newGoalDocument(goal)
	if err != nil {
		return models.MonthlyGoal{}, fmt.Errorf("upsert goal: %w", err)
	}

	update := bson.M{
		"$set": bson.M{
			"target_commission": doc.TargetCommission,
			"work_days":         doc.WorkDays,
			"updated_at":        doc.UpdatedAt,
		},
		"$setOnInsert": bson.M{"_id": doc.ID},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved goalDocument
	if err := r.db.Collection(goalsCollection).FindOneAndUpdate(ctx, key, update, opts).Decode(&saved); err != nil {
		return models.MonthlyGoal{}, fmt.Errorf("upsert goal: %w", err)
	}
	result, err := saved.model()
	if err != nil {
		return models.MonthlyGoal{}, fmt.Errorf("upsert goal: %w", err)
	}
	return result, nil
}

func (r *MongoDBRepository) DeleteGoal(ctx context.Context, barberID string, year, month int) error {
	return r.deleteOne(ctx, goalsCollection, goalKey(barberID, year, month))
}

// UpsertProduction replaces the whole row for (barber, day).
func (r *MongoDBRepository) UpsertProduction(ctx context.Context, p models.DailyProduction) error {
	doc, err := newProductionDocument(p)
	if err != nil {
		return fmt.Errorf("upsert production: %w", err)
	}
	return r.replace(ctx, productionsCollection, bson.M{"barber_id": doc.BarberID, "date": doc.Date}, doc)
}

func (r *MongoDBRepository) DeleteProduction(ctx context.Context, barberID string, date time.Time) error {
	return r.deleteOne(ctx, productionsCollection, bson.M{"barber_id": barberID, "date": models.Day(date)})
}

func dateRange(from, to time.Time) bson.M {
	return bson.M{"$gte": models.Day(from), "$lte": models.Day(to)}
}

func (r *MongoDBRepository) ListProductions(ctx context.Context, barberID string, from, to time.Time) ([]models.DailyProduction, error) {
	filter := bson.M{"barber_id": barberID, "date": dateRange(from, to)}
	return r.listProductions(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
}

// RecentProductions returns up to limit rows, newest first.
func (r *MongoDBRepository) RecentProductions(ctx context.Context, barberID string, limit int) ([]models.DailyProduction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(int64(limit))
	return r.listProductions(ctx, bson.M{"barber_id": barberID}, opts)
}

func (r *MongoDBRepository) ListAllProductions(ctx context.Context, from, to time.Time) ([]models.DailyProduction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "barber_id", Value: 1}})
	return r.listProductions(ctx, bson.M{"date": dateRange(from, to)}, opts)
}

func (r *MongoDBRepository) listProductions(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.DailyProduction, error) {
	var docs []productionDocument
	if err := r.findAll(ctx, productionsCollection, filter, opts, &docs); err != nil {
		return nil, fmt.Errorf("list productions: %w", err)
	}
	rows := make([]models.DailyProduction, 0, len(docs))
	for _, d := range docs {
		row, err := d.model()
		if err != nil {
			return nil, fmt.Errorf("list productions: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *MongoDBRepository) findOne(ctx context.Context, coll string, filter bson.M, out interface{}) error {
	err := r.db.Collection(coll).FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (r *MongoDBRepository) findAll(ctx context.Context, coll string, filter bson.M, opts *options.FindOptions, out interface{}) error {
	cursor, err := r.db.Collection(coll).Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

func (r *MongoDBRepository) replace(ctx context.Context, coll string, filter bson.M, doc interface{}) error {
	_, err := r.db.Collection(coll).ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace into %s: %w", coll, err)
	}
	return nil
}

func (r *MongoDBRepository) deleteOne(ctx context.Context, coll string, filter bson.M) error {
	res, err := r.db.Collection(coll).DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", coll, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
