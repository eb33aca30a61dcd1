// Package docstore implements the persistence ports on MongoDB. It is the
// document-database backend selected with STORE_BACKEND=mongo; the layout
// (one profile document per user carrying a favorites array, one rating
// document per recipe with a "1".."5" bucket map, one document per
// submitted cocktail keyed by slug) follows the collections the mobile
// client reads.
//
// Favorites use $addToSet/$pull and ratings use an upserted $inc, so every
// mutation is a single atomic document update.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tbourn/go-cocktail-backend/internal/domain"
)

// Store is the MongoDB persistence backend.
type Store struct {
	client      *mongo.Client
	users       *mongo.Collection
	ratings     *mongo.Collection
	cocktails   *mongo.Collection
	idempotency *mongo.Collection
	now         func() time.Time
}

// Open connects to uri, verifies the connection and makes sure the indexes
// exist.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	s := New(client, database)
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	log.Info().Str("database", database).Msg("mongo store ready")
	return s, nil
}

// New wraps an existing client. Indexes are not created.
func New(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client:      client,
		users:       db.Collection(UsersCollection),
		ratings:     db.Collection(RatingsCollection),
		cocktails:   db.Collection(CocktailsCollection),
		idempotency: db.Collection(IdempotencyCollection),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// EnsureIndexes creates the unique and TTL indexes the store relies on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.cocktails.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "uniqueId", Value: 1}},
			Options: options.Index().
				SetName(uniqueIDIndex).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"uniqueId": bson.M{"$exists": true}}),
		},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("cocktails indexes: %w", err)
	}
	if _, err := s.idempotency.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "scope", Value: 1}, {Key: "key", Value: 1}},
			Options: options.Index().SetName("ux_user_scope_key").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}); err != nil {
		return fmt.Errorf("idempotency indexes: %w", err)
	}
	return nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error { return s.client.Ping(ctx, nil) }

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrNotFound
	}
	return err
}

// ---- ratings ----

// IncrementRating upserts the recipe's document and adds one vote to star.
func (s *Store) IncrementRating(ctx context.Context, recipeID string, star int) (*domain.RatingHistogram, error) {
	if !domain.ValidStar(star) {
		return nil, fmt.Errorf("star %d out of range", star)
	}
	var doc ratingDoc
	err := s.ratings.FindOneAndUpdate(ctx,
		bson.M{"_id": recipeID},
		ratingUpdate(star, s.now()),
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return doc.histogram(), nil
}

// GetRating returns the histogram for recipeID.
func (s *Store) GetRating(ctx context.Context, recipeID string) (*domain.RatingHistogram, error) {
	var doc ratingDoc
	if err := s.ratings.FindOne(ctx, bson.M{"_id": recipeID}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.histogram(), nil
}

// ---- favorites ----

// HasFavorite reports whether recipeID is in the user's favorites array.
func (s *Store) HasFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	n, err := s.users.CountDocuments(ctx,
		bson.M{"_id": userID, favoritesField: recipeID},
		options.Count().SetLimit(1),
	)
	return n > 0, err
}

// AddFavorite adds recipeID with $addToSet, creating the user document if
// needed.
func (s *Store) AddFavorite(ctx context.Context, userID, recipeID string) error {
	_, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{favoritesField: recipeID}},
		options.Update().SetUpsert(true),
	)
	return err
}

// RemoveFavorite removes recipeID with $pull.
func (s *Store) RemoveFavorite(ctx context.Context, userID, recipeID string) error {
	_, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{favoritesField: recipeID}},
	)
	return err
}

// ListFavorites returns the favorites array newest first.
func (s *Store) ListFavorites(ctx context.Context, userID string) ([]string, error) {
	var doc userDoc
	err := s.users.FindOne(ctx,
		bson.M{"_id": userID},
		options.FindOne().SetProjection(bson.M{favoritesField: 1}),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return newestFirst(doc.Favorites), nil
}

// ---- submissions ----

// CreateSubmission inserts s. Existing documents are never replaced.
func (s *Store) CreateSubmission(ctx context.Context, sub *domain.Submission) error {
	now := s.now()
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = now
	}
	sub.UpdatedAt = now
	_, err := s.cocktails.InsertOne(ctx, cocktailFrom(sub))
	return classifyWrite(err)
}

// GetSubmission fetches one submission by slug.
func (s *Store) GetSubmission(ctx context.Context, slug string) (*domain.Submission, error) {
	var doc cocktailDoc
	if err := s.cocktails.FindOne(ctx, bson.M{"_id": slug}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	out := doc.submission()
	return &out, nil
}

// SubmissionNameExists reports whether a submission has exactly name.
func (s *Store) SubmissionNameExists(ctx context.Context, name string) (bool, error) {
	n, err := s.cocktails.CountDocuments(ctx, bson.M{"name": name}, options.Count().SetLimit(1))
	return n > 0, err
}

// ListSubmissions returns one page sorted by name then slug, plus the total.
func (s *Store) ListSubmissions(ctx context.Context, offset, limit int) ([]domain.Submission, int64, error) {
	total, err := s.cocktails.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	items := make([]domain.Submission, 0)
	if total == 0 {
		return items, 0, nil
	}
	cur, err := s.cocktails.Find(ctx, bson.M{},
		options.Find().
			SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}).
			SetSkip(int64(offset)).
			SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, 0, err
	}
	var docs []cocktailDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, err
	}
	for _, d := range docs {
		items = append(items, d.submission())
	}
	return items, total, nil
}

// SubmissionIDs returns the raw uniqueId value of every document. Values are
// left as decoded (int32, int64, double, string) for the caller to filter.
func (s *Store) SubmissionIDs(ctx context.Context) ([]any, error) {
	cur, err := s.cocktails.Find(ctx,
		bson.M{"uniqueId": bson.M{"$exists": true}},
		options.Find().SetProjection(bson.M{"uniqueId": 1}),
	)
	if err != nil {
		return nil, err
	}
	var rows []bson.M
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, r["uniqueId"])
	}
	return out, nil
}

// SubmissionsStats returns the document count and the latest updatedAt.
func (s *Store) SubmissionsStats(ctx context.Context) (int64, *time.Time, error) {
	count, err := s.cocktails.CountDocuments(ctx, bson.M{})
	if err != nil || count == 0 {
		return 0, nil, err
	}
	var doc cocktailDoc
	err = s.cocktails.FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.D{{Key: "updatedAt", Value: -1}}),
	).Decode(&doc)
	if err != nil {
		return 0, nil, err
	}
	return count, &doc.UpdatedAt, nil
}

// ---- profiles ----

// GetProfile returns the user's profile. A document that only carries
// favorites does not count as a profile.
func (s *Store) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	var doc userDoc
	if err := s.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	if doc.CreatedAt.IsZero() {
		return nil, domain.ErrNotFound
	}
	return doc.profile(), nil
}

// UpsertProfile writes the profile fields. createdAt is set only the first
// time a profile is saved.
func (s *Store) UpsertProfile(ctx context.Context, p *domain.UserProfile) (*domain.UserProfile, error) {
	now := s.now()
	var doc userDoc
	err := s.users.FindOneAndUpdate(ctx,
		bson.M{"_id": p.ID},
		bson.A{
			bson.M{"$set": bson.M{
				"email":     p.Email,
				"fullName":  p.FullName,
				"isOver18":  p.IsOver18,
				"updatedAt": now,
				"createdAt": bson.M{"$ifNull": bson.A{"$createdAt", now}},
			}},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return doc.profile(), nil
}

// ---- idempotency ----

// GetIdempotency returns an unexpired record for the tuple.
func (s *Store) GetIdempotency(ctx context.Context, userID, scope, key string, now time.Time) (*domain.Idempotency, error) {
	if scope == "" || key == "" {
		return nil, domain.ErrNotFound
	}
	var doc idempotencyDoc
	err := s.idempotency.FindOne(ctx, bson.M{
		"userId":    userID,
		"scope":     scope,
		"key":       key,
		"expiresAt": bson.M{"$gt": now},
	}).Decode(&doc)
	if err != nil {
		return nil, notFound(err)
	}
	return doc.record(), nil
}

// CreateIdempotency stores a record valid for ttl. An expired record for the
// same tuple is replaced; the TTL monitor only sweeps periodically.
func (s *Store) CreateIdempotency(ctx context.Context, userID, scope, key, resourceID string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	now := s.now()
	if _, err := s.idempotency.DeleteOne(ctx, bson.M{
		"userId":    userID,
		"scope":     scope,
		"key":       key,
		"expiresAt": bson.M{"$lte": now},
	}); err != nil {
		return nil, err
	}
	doc := idempotencyDoc{
		ID:         uuid.NewString(),
		UserID:     userID,
		Scope:      scope,
		Key:        key,
		ResourceID: resourceID,
		Status:     status,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
	if _, err := s.idempotency.InsertOne(ctx, doc); err != nil {
		return nil, classifyWrite(err)
	}
	return doc.record(), nil
}
