package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"movieflix/movie"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// counterID is the reserved key of the item holding the id sequence.
const counterID = 0

// MovieRepository stores movies in a single table keyed by a numeric id.
// Paging scans the table and sorts in memory, which suits catalogs that fit
// comfortably in one scan.
type MovieRepository struct {
	client API
	table  string
}

type movieItem struct {
	ID          int64    `dynamodbav:"id"`
	Title       string   `dynamodbav:"title"`
	Director    string   `dynamodbav:"director"`
	Studio      string   `dynamodbav:"studio"`
	Cast        []string `dynamodbav:"cast"`
	ReleaseYear int      `dynamodbav:"release_year"`
	Poster      string   `dynamodbav:"poster"`
}

func NewMovieRepository(client API, table string) *MovieRepository {
	return &MovieRepository{
		client: client,
		table:  table,
	}
}

func (r *MovieRepository) Save(ctx context.Context, m movie.Record) (movie.Record, error) {
	if err := validateTable(r.table); err != nil {
		return movie.Record{}, err
	}

	if m.ID == 0 {
		id, err := r.nextID(ctx)
		if err != nil {
			return movie.Record{}, err
		}
		m.ID = id
	}

	av, err := attributevalue.MarshalMap(toMovieItem(m))
	if err != nil {
		return movie.Record{}, fmt.Errorf("dynamodb: marshal movie: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &r.table,
		Item:      av,
	})
	if err != nil {
		return movie.Record{}, fmt.Errorf("dynamodb: put movie: %w", err)
	}

	return m, nil
}

func (r *MovieRepository) FindByID(ctx context.Context, id int64) (movie.Record, error) {
	if err := validateTable(r.table); err != nil {
		return movie.Record{}, err
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &r.table,
		Key:       movieKey(id),
	})
	if err != nil {
		return movie.Record{}, fmt.Errorf("dynamodb: get movie: %w", err)
	}
	if id == counterID || len(out.Item) == 0 {
		return movie.Record{}, movie.ErrMovieNotFound
	}

	var item movieItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return movie.Record{}, fmt.Errorf("dynamodb: unmarshal movie: %w", err)
	}

	return item.toRecord(), nil
}

func (r *MovieRepository) FindAll(ctx context.Context) ([]movie.Record, error) {
	if err := validateTable(r.table); err != nil {
		return nil, err
	}

	records := []movie.Record{}
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:        &r.table,
		FilterExpression: aws.String("id <> :counter"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":counter": &types.AttributeValueMemberN{Value: strconv.Itoa(counterID)},
		},
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb: scan movies: %w", err)
		}

		var items []movieItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, fmt.Errorf("dynamodb: unmarshal movies: %w", err)
		}
		for _, item := range items {
			records = append(records, item.toRecord())
		}
	}

	return records, nil
}

func (r *MovieRepository) FindPage(ctx context.Context, q movie.PageQuery) (movie.RecordPage, error) {
	less := lessByID
	if q.Sort != nil {
		var ok bool
		less, ok = sortFuncs[q.Sort.Field]
		if !ok {
			return movie.RecordPage{}, movie.ErrInvalidSortField
		}
	}

	records, err := r.FindAll(ctx)
	if err != nil {
		return movie.RecordPage{}, err
	}

	sortRecords(records, less, q.Sort == nil || q.Sort.Ascending)

	return movie.NewRecordPage(pageOf(records, q), int64(len(records)), q), nil
}

func (r *MovieRepository) DeleteByID(ctx context.Context, id int64) error {
	if err := validateTable(r.table); err != nil {
		return err
	}
	if id == counterID {
		return movie.ErrMovieNotFound
	}

	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           &r.table,
		Key:                 movieKey(id),
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return movie.ErrMovieNotFound
		}
		return fmt.Errorf("dynamodb: delete movie: %w", err)
	}

	return nil
}

// nextID atomically increments the sequence stored on the counter item.
func (r *MovieRepository) nextID(ctx context.Context) (int64, error) {
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        &r.table,
		Key:              movieKey(counterID),
		UpdateExpression: aws.String("ADD seq :one"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("dynamodb: next movie id: %w", err)
	}

	var seq struct {
		Seq int64 `dynamodbav:"seq"`
	}
	if err := attributevalue.UnmarshalMap(out.Attributes, &seq); err != nil {
		return 0, fmt.Errorf("dynamodb: unmarshal movie id: %w", err)
	}
	return seq.Seq, nil
}

func movieKey(id int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberN{Value: strconv.FormatInt(id, 10)},
	}
}

type lessFunc func(a, b movie.Record) bool

func lessByID(a, b movie.Record) bool { return a.ID < b.ID }

var sortFuncs = map[string]lessFunc{
	movie.SortByID:          lessByID,
	movie.SortByTitle:       func(a, b movie.Record) bool { return a.Title < b.Title },
	movie.SortByDirector:    func(a, b movie.Record) bool { return a.Director < b.Director },
	movie.SortByStudio:      func(a, b movie.Record) bool { return a.Studio < b.Studio },
	movie.SortByReleaseYear: func(a, b movie.Record) bool { return a.ReleaseYear < b.ReleaseYear },
	movie.SortByPoster:      func(a, b movie.Record) bool { return a.Poster < b.Poster },
}

// sortRecords orders by less in the requested direction, breaking ties by
// ascending id.
func sortRecords(records []movie.Record, less lessFunc, ascending bool) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		switch {
		case less(a, b):
			return ascending
		case less(b, a):
			return !ascending
		default:
			return a.ID < b.ID
		}
	})
}

func pageOf(records []movie.Record, q movie.PageQuery) []movie.Record {
	start := q.Offset()
	if q.Index < 0 || q.Size < 1 || start < 0 || start >= len(records) {
		return []movie.Record{}
	}
	end := len(records)
	if q.Size < end-start {
		end = start + q.Size
	}
	return records[start:end]
}

func toMovieItem(m movie.Record) movieItem {
	return movieItem{
		ID:          m.ID,
		Title:       m.Title,
		Director:    m.Director,
		Studio:      m.Studio,
		Cast:        m.Cast,
		ReleaseYear: m.ReleaseYear,
		Poster:      m.Poster,
	}
}

func (i movieItem) toRecord() movie.Record {
	return movie.Record{
		ID:          i.ID,
		Title:       i.Title,
		Director:    i.Director,
		Studio:      i.Studio,
		Cast:        i.Cast,
		ReleaseYear: i.ReleaseYear,
		Poster:      i.Poster,
	}
}
