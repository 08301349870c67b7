package mongodb

import (
	"context"
	"fmt"
	"moviefav/movie"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
)

// movieDocument keeps the field names the favorites collection has always used.
type movieDocument struct {
	Title     string `bson:"movieTitle"`
	Year      string `bson:"year"`
	CastStars string `bson:"castStars"`
	Cover     string `bson:"cover"`
}

// storedDocument reads documents written by older clients, which may hold a
// numeric year.
type storedDocument struct {
	Title     string        `bson:"movieTitle"`
	Year      bson.RawValue `bson:"year"`
	CastStars string        `bson:"castStars"`
	Cover     string        `bson:"cover"`
}

// MovieRepository implements movie.Repository on one MongoDB collection.
type MovieRepository struct {
	coll *mongo.Collection
}

func NewMovieRepository(client *mongo.Client, database, collection string) *MovieRepository {
	return &MovieRepository{
		coll: client.Database(database).Collection(collection),
	}
}

func (r *MovieRepository) Insert(ctx context.Context, m movie.Movie) error {
	doc := movieDocument{
		Title:     m.Title,
		Year:      m.Year,
		CastStars: m.CastStars,
		Cover:     m.Cover,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongodb: insert movie: %w", err)
	}
	return nil
}

// All returns documents in natural order.
func (r *MovieRepository) All(ctx context.Context) ([]movie.Movie, error) {
	cursor, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("mongodb: find movies: %w", err)
	}

	var docs []storedDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongodb: decode movies: %w", err)
	}

	movies := make([]movie.Movie, len(docs))
	for i, doc := range docs {
		movies[i] = movie.Movie{
			Title:     doc.Title,
			Year:      yearString(doc.Year),
			CastStars: doc.CastStars,
			Cover:     doc.Cover,
		}
	}
	return movies, nil
}

func (r *MovieRepository) DeleteByTitle(ctx context.Context, title string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.D{{Key: "movieTitle", Value: title}}); err != nil {
		return fmt.Errorf("mongodb: delete movie %q: %w", title, err)
	}
	return nil
}

func (r *MovieRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("mongodb: delete all movies: %w", err)
	}
	return nil
}

func yearString(v bson.RawValue) string {
	switch v.Type {
	case bsontype.String:
		return v.StringValue()
	case bsontype.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case bsontype.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case bsontype.Double:
		return strconv.FormatFloat(v.Double(), 'f', -1, 64)
	default:
		return ""
	}
}
