package dynamodb

import (
	"context"
	"fmt"
	"moviefav/movie"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// MovieRepository stores favorites in a table keyed by a generated id.
// Scan order is the table's natural order.
type MovieRepository struct {
	client *dynamodb.Client
	table  string
}

type movieItem struct {
	ID        string `dynamodbav:"id"`
	Title     string `dynamodbav:"movieTitle"`
	Year      string `dynamodbav:"year"`
	CastStars string `dynamodbav:"castStars"`
	Cover     string `dynamodbav:"cover"`
}

func NewMovieRepository(client *dynamodb.Client, table string) *MovieRepository {
	return &MovieRepository{
		client: client,
		table:  table,
	}
}

func (r *MovieRepository) Insert(ctx context.Context, m movie.Movie) error {
	if err := validateTable(r.table); err != nil {
		return err
	}

	item := movieItem{
		ID:        uuid.NewString(),
		Title:     m.Title,
		Year:      m.Year,
		CastStars: m.CastStars,
		Cover:     m.Cover,
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("dynamodb: marshal movie: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &r.table,
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("dynamodb: put movie: %w", err)
	}

	return nil
}

func (r *MovieRepository) All(ctx context.Context) ([]movie.Movie, error) {
	items, err := r.scan(ctx, &dynamodb.ScanInput{TableName: &r.table}, 0)
	if err != nil {
		return nil, err
	}

	movies := make([]movie.Movie, len(items))
	for i, item := range items {
		movies[i] = movie.Movie{
			Title:     item.Title,
			Year:      item.Year,
			CastStars: item.CastStars,
			Cover:     item.Cover,
		}
	}
	return movies, nil
}

func (r *MovieRepository) DeleteByTitle(ctx context.Context, title string) error {
	items, err := r.scan(ctx, &dynamodb.ScanInput{
		TableName:                &r.table,
		FilterExpression:         aws.String("#t = :title"),
		ExpressionAttributeNames: map[string]string{"#t": "movieTitle"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":title": &types.AttributeValueMemberS{Value: title},
		},
	}, 1)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return r.delete(ctx, items[0].ID)
}

func (r *MovieRepository) DeleteAll(ctx context.Context) error {
	items, err := r.scan(ctx, &dynamodb.ScanInput{
		TableName:            &r.table,
		ProjectionExpression: aws.String("id"),
	}, 0)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := r.delete(ctx, item.ID); err != nil {
			return err
		}
	}
	return nil
}

// scan pages through the table and stops once max items were collected.
// A max of zero reads everything.
func (r *MovieRepository) scan(ctx context.Context, input *dynamodb.ScanInput, max int) ([]movieItem, error) {
	if err := validateTable(r.table); err != nil {
		return nil, err
	}

	var items []movieItem
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb: scan movies: %w", err)
		}

		var page []movieItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("dynamodb: unmarshal movies: %w", err)
		}
		items = append(items, page...)
		if max > 0 && len(items) >= max {
			return items[:max], nil
		}
	}

	return items, nil
}

func (r *MovieRepository) delete(ctx context.Context, id string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &r.table,
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return fmt.Errorf("dynamodb: delete movie %s: %w", id, err)
	}
	return nil
}

// CreateTable creates the favorites table when it does not exist yet.
func CreateTable(ctx context.Context, client *dynamodb.Client, table string) error {
	if err := validateTable(table); err != nil {
		return err
	}

	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: &table})
	if err == nil {
		return nil
	}

	_, err = client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: &table,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		return fmt.Errorf("dynamodb: create table %s: %w", table, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: &table}, tableWaitTimeout); err != nil {
		return fmt.Errorf("dynamodb: wait for table %s: %w", table, err)
	}
	return nil
}
