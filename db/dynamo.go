package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/jsphweid/harmonycheck/model"
)

// DynamoStore keeps reports in a DynamoDB table keyed by "PK". Expired items
// are removed by the table's TTL on "ExpiresAt" and filtered on read.
type DynamoStore struct {
	client *dynamodb.DynamoDB
	table  string
	ttl    time.Duration
}

func NewDynamoStore(endpoint, region, table string, ttl time.Duration) (*DynamoStore, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create a new DynamoDB session: %w", err)
	}
	return &DynamoStore{client: dynamodb.New(sess), table: table, ttl: ttl}, nil
}

func (s *DynamoStore) Put(ctx context.Context, r *model.StoredReport) error {
	item, err := toItem(r, s.ttl)
	if err != nil {
		return err
	}
	_, err = s.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("error from DynamoDB: %w", err)
	}
	return nil
}

func (s *DynamoStore) Get(ctx context.Context, id string) (*model.StoredReport, error) {
	out, err := s.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(id)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("error from DynamoDB: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}
	return fromItem(out.Item, time.Now())
}

func toItem(r *model.StoredReport, ttl time.Duration) (map[string]*dynamodb.AttributeValue, error) {
	data, err := json.Marshal(r.Report)
	if err != nil {
		return nil, fmt.Errorf("could not encode report: %w", err)
	}
	item := map[string]*dynamodb.AttributeValue{
		"PK":        {S: aws.String(r.ID)},
		"Filename":  {S: aws.String(r.Filename)},
		"CreatedAt": {S: aws.String(r.CreatedAt.UTC().Format(time.RFC3339Nano))},
		"Report":    {S: aws.String(string(data))},
	}
	if ttl > 0 {
		expires := r.CreatedAt.Add(ttl).Unix()
		item["ExpiresAt"] = &dynamodb.AttributeValue{N: aws.String(strconv.FormatInt(expires, 10))}
	}
	return item, nil
}

func fromItem(item map[string]*dynamodb.AttributeValue, now time.Time) (*model.StoredReport, error) {
	if v := item["ExpiresAt"]; v != nil && v.N != nil {
		expires, err := strconv.ParseInt(*v.N, 10, 64)
		if err == nil && now.Unix() > expires {
			return nil, ErrNotFound
		}
	}
	var r model.StoredReport
	if v := item["PK"]; v != nil && v.S != nil {
		r.ID = *v.S
	}
	if v := item["Filename"]; v != nil && v.S != nil {
		r.Filename = *v.S
	}
	if v := item["CreatedAt"]; v != nil && v.S != nil {
		created, err := time.Parse(time.RFC3339Nano, *v.S)
		if err != nil {
			return nil, fmt.Errorf("invalid CreatedAt on report %s: %w", r.ID, err)
		}
		r.CreatedAt = created
	}
	v := item["Report"]
	if v == nil || v.S == nil {
		return nil, fmt.Errorf("report %s has no body", r.ID)
	}
	var report model.AnalysisReport
	if err := json.Unmarshal([]byte(*v.S), &report); err != nil {
		return nil, fmt.Errorf("could not decode report %s: %w", r.ID, err)
	}
	r.Report = &report
	return &r, nil
}
