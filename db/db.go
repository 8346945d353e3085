package db

import (
	"strconv"

	"github.com/jsphweid/choirdex/model"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

// BatchGetItem refuses more keys than this in one request.
const maxBatchKeys = 100

// Index mirrors score summaries into a DynamoDB table keyed by score id.
type Index struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewIndex(endpoint, region, table string) (*Index, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(region),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return nil, model.StorageError("could not create a DynamoDB session: " + err.Error())
	}
	return NewIndexWithClient(dynamodb.New(sess), table), nil
}

func NewIndexWithClient(client dynamodbiface.DynamoDBAPI, table string) *Index {
	return &Index{client: client, table: table}
}

func (ix *Index) Put(summary model.ScoreSummary) error {
	_, err := ix.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(ix.table),
		Item:      toItem(summary),
	})
	if err != nil {
		return model.StorageError("DynamoDB put: " + err.Error())
	}
	return nil
}

func (ix *Index) Delete(id string) error {
	_, err := ix.client.DeleteItem(&dynamodb.DeleteItemInput{
		TableName: aws.String(ix.table),
		Key:       key(id),
	})
	if err != nil {
		return model.StorageError("DynamoDB delete: " + err.Error())
	}
	return nil
}

// GetSummaries looks ids up in batches. Unknown ids are absent from the result.
func (ix *Index) GetSummaries(ids []string) (map[string]model.ScoreSummary, error) {
	res := make(map[string]model.ScoreSummary)
	for start := 0; start < len(ids); start += maxBatchKeys {
		end := start + maxBatchKeys
		if end > len(ids) {
			end = len(ids)
		}

		var keys []map[string]*dynamodb.AttributeValue
		for _, id := range ids[start:end] {
			keys = append(keys, key(id))
		}
		input := &dynamodb.BatchGetItemInput{
			RequestItems: map[string]*dynamodb.KeysAndAttributes{
				ix.table: {Keys: keys},
			},
		}
		dbres, err := ix.client.BatchGetItem(input)
		if err != nil {
			return nil, model.StorageError("DynamoDB batch get: " + err.Error())
		}
		for _, item := range dbres.Responses[ix.table] {
			s := fromItem(item)
			res[s.ID] = s
		}
	}
	return res, nil
}

func key(id string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"PK": {S: aws.String(id)},
	}
}

func toItem(s model.ScoreSummary) map[string]*dynamodb.AttributeValue {
	parts := make([]*dynamodb.AttributeValue, len(s.Parts))
	for i, p := range s.Parts {
		parts[i] = &dynamodb.AttributeValue{S: aws.String(p)}
	}
	item := key(s.ID)
	item["Title"] = &dynamodb.AttributeValue{S: aws.String(s.Title)}
	item["Parts"] = &dynamodb.AttributeValue{L: parts}
	item["MeasureCount"] = &dynamodb.AttributeValue{N: aws.String(strconv.Itoa(s.MeasureCount))}
	item["Tempo"] = &dynamodb.AttributeValue{N: aws.String(strconv.Itoa(s.Tempo))}
	item["DurationSeconds"] = &dynamodb.AttributeValue{
		N: aws.String(strconv.FormatFloat(s.DurationSeconds, 'f', -1, 64)),
	}
	if s.Composer != "" {
		item["Composer"] = &dynamodb.AttributeValue{S: aws.String(s.Composer)}
	}
	return item
}

func fromItem(item map[string]*dynamodb.AttributeValue) model.ScoreSummary {
	s := model.ScoreSummary{Parts: []string{}}
	s.ID = str(item["PK"])
	s.Title = str(item["Title"])
	s.Composer = str(item["Composer"])
	if v := item["Parts"]; v != nil {
		for _, p := range v.L {
			s.Parts = append(s.Parts, str(p))
		}
	}
	if v := item["MeasureCount"]; v != nil && v.N != nil {
		n, _ := strconv.Atoi(*v.N)
		s.MeasureCount = n
	}
	if v := item["Tempo"]; v != nil && v.N != nil {
		n, _ := strconv.Atoi(*v.N)
		s.Tempo = n
	}
	if v := item["DurationSeconds"]; v != nil && v.N != nil {
		f, _ := strconv.ParseFloat(*v.N, 64)
		s.DurationSeconds = f
	}
	return s
}

func str(v *dynamodb.AttributeValue) string {
	if v == nil || v.S == nil {
		return ""
	}
	return *v.S
}
