package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fintrack/expense-api/internal/core/aggregate"
	"github.com/fintrack/expense-api/internal/core/domain"
	"github.com/fintrack/expense-api/internal/core/ports"
)

const collectionTransactions = "transactions"

type TransactionRepository struct {
	col *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{col: db.Collection(collectionTransactions)}
}

// transactionDoc stores amounts as Decimal128 so $sum stays exact.
type transactionDoc struct {
	ID        primitive.ObjectID   `bson:"_id"`
	UserID    primitive.ObjectID   `bson:"user_id"`
	Title     string               `bson:"title"`
	Amount    primitive.Decimal128 `bson:"amount"`
	Type      string               `bson:"type"`
	Category  string               `bson:"category"`
	Date      time.Time            `bson:"date"`
	Notes     string               `bson:"notes,omitempty"`
	CreatedAt time.Time            `bson:"created_at"`
}

func toTransactionDoc(t *domain.Transaction) (transactionDoc, error) {
	id, err := primitive.ObjectIDFromHex(t.ID)
	if err != nil {
		return transactionDoc{}, fmt.Errorf("transaction id: %w", err)
	}
	owner, err := primitive.ObjectIDFromHex(t.OwnerID)
	if err != nil {
		return transactionDoc{}, fmt.Errorf("user id: %w", err)
	}
	amount, err := primitive.ParseDecimal128(t.Amount.String())
	if err != nil {
		return transactionDoc{}, fmt.Errorf("amount: %w", err)
	}
	return transactionDoc{
		ID:        id,
		UserID:    owner,
		Title:     t.Title,
		Amount:    amount,
		Type:      string(t.Type),
		Category:  t.Category,
		Date:      t.Date.UTC(),
		Notes:     t.Notes,
		CreatedAt: t.CreatedAt.UTC(),
	}, nil
}

func (d transactionDoc) toDomain() (*domain.Transaction, error) {
	amount, err := amountFromDecimal128(d.Amount)
	if err != nil {
		return nil, err
	}
	return &domain.Transaction{
		ID:        d.ID.Hex(),
		OwnerID:   d.UserID.Hex(),
		Title:     d.Title,
		Amount:    amount,
		Type:      domain.TransactionType(d.Type),
		Category:  d.Category,
		Date:      d.Date.UTC(),
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt.UTC(),
	}, nil
}

func amountFromDecimal128(v primitive.Decimal128) (domain.Amount, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return domain.Amount{}, fmt.Errorf("decode amount %q: %w", v.String(), err)
	}
	return domain.AmountFromDecimal(d), nil
}

// filterDoc translates a TransactionFilter into a query document.
func filterDoc(f ports.TransactionFilter) (bson.M, error) {
	q := bson.M{}
	if f.OwnerID != "" {
		owner, err := primitive.ObjectIDFromHex(f.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("user id: %w", err)
		}
		q["user_id"] = owner
	}
	if f.Type != "" {
		q["type"] = string(f.Type)
	}
	return q, nil
}

// groupPipeline sums amounts per key. Sorting by the smallest _id of each
// group returns groups in first-insert order.
func groupPipeline(match bson.M, key aggregate.GroupKey) mongo.Pipeline {
	var groupID interface{} = "$type"
	if key == aggregate.ByCategory {
		groupID = bson.M{"$cond": bson.A{
			bson.M{"$eq": bson.A{bson.M{"$ifNull": bson.A{"$category", ""}}, ""}},
			domain.DefaultCategory,
			"$category",
		}}
	}
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: groupID},
			{Key: "total", Value: bson.M{"$sum": "$amount"}},
			{Key: "first", Value: bson.M{"$min": "$_id"}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "first", Value: 1}}}},
	}
}

func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if t.ID == "" {
		t.ID = domain.NewID()
	}
	doc, err := toTransactionDoc(t)
	if err != nil {
		return err
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTransactionNotFound
	}

	var doc transactionDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	return doc.toDomain()
}

// Update replaces the whole document; concurrent writers race and the last
// one wins.
func (r *TransactionRepository) Update(ctx context.Context, t *domain.Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toTransactionDoc(t)
	if err != nil {
		return err
	}
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return fmt.Errorf("replace transaction: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTransactionNotFound
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) find(ctx context.Context, q bson.M, opts *options.FindOptions) ([]*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}
	var docs []transactionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}

	out := make([]*domain.Transaction, 0, len(docs))
	for _, d := range docs {
		t, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *TransactionRepository) List(ctx context.Context, filter ports.TransactionFilter) ([]*domain.Transaction, error) {
	q, err := filterDoc(filter)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	return r.find(ctx, q, opts)
}

func (r *TransactionRepository) Latest(ctx context.Context, limit int) ([]*domain.Transaction, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{}, opts)
}

func (r *TransactionRepository) Count(ctx context.Context, filter ports.TransactionFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q, err := filterDoc(filter)
	if err != nil {
		return 0, err
	}
	n, err := r.col.CountDocuments(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

type groupDoc struct {
	Key   string               `bson:"_id"`
	Total primitive.Decimal128 `bson:"total"`
}

func (r *TransactionRepository) GroupAndSum(ctx context.Context, filter ports.TransactionFilter, key aggregate.GroupKey) ([]aggregate.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q, err := filterDoc(filter)
	if err != nil {
		return nil, err
	}
	cur, err := r.col.Aggregate(ctx, groupPipeline(q, key))
	if err != nil {
		return nil, fmt.Errorf("aggregate transactions: %w", err)
	}
	var docs []groupDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode groups: %w", err)
	}

	groups := make([]aggregate.Group, 0, len(docs))
	for _, d := range docs {
		total, err := amountFromDecimal128(d.Total)
		if err != nil {
			return nil, err
		}
		groups = append(groups, aggregate.Group{Key: d.Key, Total: total})
	}
	return groups, nil
}

// EnsureIndexes creates the indexes behind the owner-scoped listing and the
// admin feed.
func (r *TransactionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "type", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
