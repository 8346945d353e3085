package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/choirdex/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamo keeps items in memory keyed by PK.
type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items      map[string]map[string]*dynamodb.AttributeValue
	batchSizes []int
	fail       bool
}

func newFake() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]*dynamodb.AttributeValue)}
}

func (f *fakeDynamo) PutItem(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
	if f.fail {
		return nil, errors.New("throttled")
	}
	f.items[*in.Item["PK"].S] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(in *dynamodb.DeleteItemInput) (*dynamodb.DeleteItemOutput, error) {
	delete(f.items, *in.Key["PK"].S)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) BatchGetItem(in *dynamodb.BatchGetItemInput) (*dynamodb.BatchGetItemOutput, error) {
	if f.fail {
		return nil, errors.New("throttled")
	}
	out := &dynamodb.BatchGetItemOutput{Responses: map[string][]map[string]*dynamodb.AttributeValue{}}
	for table, ka := range in.RequestItems {
		f.batchSizes = append(f.batchSizes, len(ka.Keys))
		for _, k := range ka.Keys {
			if item, ok := f.items[*k["PK"].S]; ok {
				out.Responses[table] = append(out.Responses[table], item)
			}
		}
	}
	return out, nil
}

var summary = model.ScoreSummary{
	ID:              "2f1b7e0c-8d7a-4a43-9d55-3a0c2f2e9b11",
	Title:           "Evening Hymn",
	Composer:        "J. Example",
	Parts:           []string{"Soprano", "Alto"},
	MeasureCount:    3,
	Tempo:           100,
	DurationSeconds: 4.2,
}

func TestItemConversion(t *testing.T) {
	assert.Equal(t, summary, fromItem(toItem(summary)))

	bare := model.ScoreSummary{ID: "x", Title: "Untitled", Parts: []string{}}
	item := toItem(bare)
	assert.NotContains(t, item, "Composer")
	assert.Equal(t, bare, fromItem(item))
}

func TestIndexPutGetDelete(t *testing.T) {
	fake := newFake()
	ix := NewIndexWithClient(fake, "choirdex-scores")

	require.NoError(t, ix.Put(summary))

	got, err := ix.GetSummaries([]string{summary.ID, "missing"})
	require.NoError(t, err)
	assert.Equal(t, map[string]model.ScoreSummary{summary.ID: summary}, got)

	require.NoError(t, ix.Delete(summary.ID))
	got, err = ix.GetSummaries([]string{summary.ID})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = ix.GetSummaries(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestIndexBatchesKeys(t *testing.T) {
	fake := newFake()
	ix := NewIndexWithClient(fake, "choirdex-scores")

	var ids []string
	for i := 0; i < 250; i++ {
		s := summary
		s.ID = fmt.Sprintf("id-%d", i)
		require.NoError(t, ix.Put(s))
		ids = append(ids, s.ID)
	}

	got, err := ix.GetSummaries(ids)
	require.NoError(t, err)
	assert.Len(t, got, 250)
	assert.Equal(t, []int{100, 100, 50}, fake.batchSizes)
}

func TestIndexErrors(t *testing.T) {
	fake := newFake()
	fake.fail = true
	ix := NewIndexWithClient(fake, "choirdex-scores")

	assert.ErrorIs(t, ix.Put(summary), model.ErrStorage)
	_, err := ix.GetSummaries([]string{"a"})
	assert.ErrorIs(t, err, model.ErrStorage)
}
