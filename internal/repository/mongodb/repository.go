package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/smallerp/internal/domain/models"
	"github.com/mamadbah2/smallerp/internal/engine"
)

const (
	ingredientsCollection       = "ingredients"
	productsCollection          = "products"
	salesCollection             = "sales"
	employeesCollection         = "employees"
	salaryAdjustmentsCollection = "salary_adjustments"
	expensesCollection          = "expenses"
	billsCollection             = "monthly_bills"
	billPaymentsCollection      = "bill_payments"
	ownersCollection            = "owners"
	reportsCollection           = "monthly_reports"
)

// Repository defines the operations backed by MongoDB.
type Repository interface {
	Snapshot(ctx context.Context) (engine.Snapshot, error)
	Seed(ctx context.Context, snapshot engine.Snapshot) error
	SaveMonthlyReport(ctx context.Context, report models.MonthlyReport) error
	LatestMonthlyReport(ctx context.Context) (*models.MonthlyReport, error)
	Close(ctx context.Context) error
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
	logger *zap.Logger
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri).SetRegistry(NewRegistry())
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
		logger: logger,
	}, nil
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// Snapshot reads every entity collection, ordered by id.
func (r *MongoDBRepository) Snapshot(ctx context.Context) (engine.Snapshot, error) {
	started := time.Now()
	var (
		snap engine.Snapshot
		err  error
	)
	if snap.Ingredients, err = findAll[models.Ingredient](ctx, r.collection(ingredientsCollection)); err != nil {
		return engine.Snapshot{}, fmt.Errorf("load ingredients: %w", err)
	}
	if snap.Products, err = findAll[models.Product](ctx, r.collection(productsCollection)); err != nil {
		return engine.Snapshot{}, fmt.Errorf("load products: %w", err)
	}
	if snap.Sales, err = findAll[models.Sale](ctx, r.collection(salesCollection)); err != nil {
		return engine.Snapshot{}, fmt.Errorf("load sales: %w", err)
	}
	if snap.Employees, err = findAll[models.Employee](ctx, r.collection(employeesCollection)); err != nil {
		return engine.Snapshot{}, fmt.Errorf("load employees: %w", err)
	}
	if snap.SalaryAdjustments, err = findAll[models.SalaryAdjustment](ctx, r.collection(salaryAdjustmentsCollection)); err != nil {
		return engine.Snapshot{}, fmt.Errorf("load salary adjustments: %w", err)
	}
	if snap.Expenses, err = findAll[models.Expense](ctx, r.collection(expensesCollection)); err != nil {
		return engine.Snapshot{}, fmt.Errorf("load expenses: %w", err)
	}
	if snap.Bills, err = findAll[models.MonthlyBill](ctx, r.collection(billsCollection)); err != nil {
		return engine.Snapshot{}, fmt.Errorf("load monthly bills: %w", err)
	}
	if snap.BillPayments, err = findAll[models.BillPayment](ctx, r.collection(billPaymentsCollection)); err != nil {
		return engine.Snapshot{}, fmt.Errorf("load bill payments: %w", err)
	}
	if snap.Owners, err = findAll[models.Owner](ctx, r.collection(ownersCollection)); err != nil {
		return engine.Snapshot{}, fmt.Errorf("load owners: %w", err)
	}

	r.logger.Debug("snapshot loaded",
		zap.Int("products", len(snap.Products)),
		zap.Int("sales", len(snap.Sales)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return snap, nil
}

// Seed replaces the content of every entity collection with snapshot.
// Nothing is written when snapshot fails validation.
func (r *MongoDBRepository) Seed(ctx context.Context, snapshot engine.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return fmt.Errorf("refusing to seed invalid data: %w", err)
	}
	steps := []struct {
		name string
		docs []interface{}
	}{
		{ingredientsCollection, documents(snapshot.Ingredients)},
		{productsCollection, documents(snapshot.Products)},
		{salesCollection, documents(snapshot.Sales)},
		{employeesCollection, documents(snapshot.Employees)},
		{salaryAdjustmentsCollection, documents(snapshot.SalaryAdjustments)},
		{expensesCollection, documents(snapshot.Expenses)},
		{billsCollection, documents(snapshot.Bills)},
		{billPaymentsCollection, documents(snapshot.BillPayments)},
		{ownersCollection, documents(snapshot.Owners)},
	}
	for _, step := range steps {
		coll := r.collection(step.name)
		if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
			return fmt.Errorf("clear %s: %w", step.name, err)
		}
		if len(step.docs) == 0 {
			continue
		}
		if _, err := coll.InsertMany(ctx, step.docs); err != nil {
			return fmt.Errorf("seed %s: %w", step.name, err)
		}
		r.logger.Info("collection seeded", zap.String("collection", step.name), zap.Int("documents", len(step.docs)))
	}
	return nil
}

// SaveMonthlyReport upserts the report for its month.
func (r *MongoDBRepository) SaveMonthlyReport(ctx context.Context, report models.MonthlyReport) error {
	filter := bson.D{{Key: "month", Value: report.Month}}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection(reportsCollection).ReplaceOne(ctx, filter, report, opts); err != nil {
		return fmt.Errorf("failed to save monthly report: %w", err)
	}
	return nil
}

// LatestMonthlyReport returns the report with the greatest month, or nil when none was saved.
func (r *MongoDBRepository) LatestMonthlyReport(ctx context.Context) (*models.MonthlyReport, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "month", Value: -1}})
	var report models.MonthlyReport
	err := r.collection(reportsCollection).FindOne(ctx, bson.D{}, opts).Decode(&report)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest monthly report: %w", err)
	}
	return &report, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func findAll[T any](ctx context.Context, coll *mongo.Collection) ([]T, error) {
	cursor, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []T
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func documents[T any](items []T) []interface{} {
	docs := make([]interface{}, len(items))
	for i, item := range items {
		docs[i] = item
	}
	return docs
}
