package dynamodb_test

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"sync"

	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type item = map[string]types.AttributeValue

// fakeDynamo is an in-memory stand-in for the handful of DynamoDB calls the
// store makes. It understands exactly the expressions the store builds.
type fakeDynamo struct {
	mu       sync.Mutex
	tables   map[string]map[string]item
	keyAttr  map[string]string
	pageSize int
	fail     error
	scans    int
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{
		tables:   map[string]map[string]item{},
		keyAttr:  map[string]string{},
		pageSize: 2,
	}
}

func (f *fakeDynamo) table(name string) (map[string]item, string, error) {
	t, ok := f.tables[name]
	if !ok {
		return nil, "", &types.ResourceNotFoundException{Message: &name}
	}
	return t, f.keyAttr[name], nil
}

func keyValue(attr string, key item) string {
	if s, ok := key[attr].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func conditionHolds(cond *string, exists bool) bool {
	if cond == nil {
		return true
	}
	switch {
	case strings.HasPrefix(*cond, "attribute_not_exists("):
		return !exists
	case strings.HasPrefix(*cond, "attribute_exists("):
		return exists
	}
	return true
}

func (f *fakeDynamo) GetItem(_ context.Context, in *ddb.GetItemInput, _ ...func(*ddb.Options)) (*ddb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	t, attr, err := f.table(*in.TableName)
	if err != nil {
		return nil, err
	}
	it, ok := t[keyValue(attr, in.Key)]
	if !ok {
		return &ddb.GetItemOutput{}, nil
	}
	return &ddb.GetItemOutput{Item: maps.Clone(it)}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *ddb.PutItemInput, _ ...func(*ddb.Options)) (*ddb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	t, attr, err := f.table(*in.TableName)
	if err != nil {
		return nil, err
	}
	k := keyValue(attr, in.Item)
	_, exists := t[k]
	if !conditionHolds(in.ConditionExpression, exists) {
		return nil, &types.ConditionalCheckFailedException{}
	}
	t[k] = maps.Clone(in.Item)
	return &ddb.PutItemOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *ddb.UpdateItemInput, _ ...func(*ddb.Options)) (*ddb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	t, attr, err := f.table(*in.TableName)
	if err != nil {
		return nil, err
	}
	k := keyValue(attr, in.Key)
	it, exists := t[k]
	if !conditionHolds(in.ConditionExpression, exists) {
		return nil, &types.ConditionalCheckFailedException{}
	}
	if !exists {
		it = maps.Clone(in.Key)
	}

	setPart, removePart, _ := strings.Cut(strings.TrimPrefix(*in.UpdateExpression, "SET "), " REMOVE ")
	for _, assign := range strings.Split(setPart, ", ") {
		name, val, _ := strings.Cut(assign, " = ")
		it[in.ExpressionAttributeNames[name]] = in.ExpressionAttributeValues[val]
	}
	if removePart != "" {
		for _, name := range strings.Split(removePart, ", ") {
			delete(it, in.ExpressionAttributeNames[name])
		}
	}
	t[k] = it
	return &ddb.UpdateItemOutput{Attributes: maps.Clone(it)}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *ddb.DeleteItemInput, _ ...func(*ddb.Options)) (*ddb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	t, attr, err := f.table(*in.TableName)
	if err != nil {
		return nil, err
	}
	k := keyValue(attr, in.Key)
	old, exists := t[k]
	if !conditionHolds(in.ConditionExpression, exists) {
		return nil, &types.ConditionalCheckFailedException{}
	}
	delete(t, k)
	out := &ddb.DeleteItemOutput{}
	if in.ReturnValues == types.ReturnValueAllOld && exists {
		out.Attributes = old
	}
	return out, nil
}

// Scan pages through the table in key order, pageSize items at a time.
func (f *fakeDynamo) Scan(_ context.Context, in *ddb.ScanInput, _ ...func(*ddb.Options)) (*ddb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	t, attr, err := f.table(*in.TableName)
	if err != nil {
		return nil, err
	}
	f.scans++

	keys := slices.Sorted(maps.Keys(t))
	start := 0
	if in.ExclusiveStartKey != nil {
		after := keyValue(attr, in.ExclusiveStartKey)
		start = len(keys)
		for i, k := range keys {
			if k > after {
				start = i
				break
			}
		}
	}
	end := min(start+f.pageSize, len(keys))

	out := &ddb.ScanOutput{}
	for _, k := range keys[start:end] {
		out.Items = append(out.Items, maps.Clone(t[k]))
	}
	if end < len(keys) {
		out.LastEvaluatedKey = item{attr: &types.AttributeValueMemberS{Value: keys[end-1]}}
	}
	return out, nil
}

func (f *fakeDynamo) TransactWriteItems(_ context.Context, in *ddb.TransactWriteItemsInput, _ ...func(*ddb.Options)) (*ddb.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}

	reasons := make([]types.CancellationReason, len(in.TransactItems))
	cancelled := false
	for i, op := range in.TransactItems {
		code := "None"
		var (
			table, k string
			cond     *string
		)
		switch {
		case op.Put != nil:
			_, attr, err := f.table(*op.Put.TableName)
			if err != nil {
				return nil, err
			}
			table, k, cond = *op.Put.TableName, keyValue(attr, op.Put.Item), op.Put.ConditionExpression
		case op.Delete != nil:
			_, attr, err := f.table(*op.Delete.TableName)
			if err != nil {
				return nil, err
			}
			table, k, cond = *op.Delete.TableName, keyValue(attr, op.Delete.Key), op.Delete.ConditionExpression
		default:
			return nil, errors.New("fake: unsupported transact item")
		}
		_, exists := f.tables[table][k]
		if !conditionHolds(cond, exists) {
			code = "ConditionalCheckFailed"
			cancelled = true
		}
		reasons[i] = types.CancellationReason{Code: &code}
	}
	if cancelled {
		return nil, &types.TransactionCanceledException{CancellationReasons: reasons}
	}

	for _, op := range in.TransactItems {
		if op.Put != nil {
			attr := f.keyAttr[*op.Put.TableName]
			f.tables[*op.Put.TableName][keyValue(attr, op.Put.Item)] = maps.Clone(op.Put.Item)
			continue
		}
		attr := f.keyAttr[*op.Delete.TableName]
		delete(f.tables[*op.Delete.TableName], keyValue(attr, op.Delete.Key))
	}
	return &ddb.TransactWriteItemsOutput{}, nil
}

func (f *fakeDynamo) DescribeTable(_ context.Context, in *ddb.DescribeTableInput, _ ...func(*ddb.Options)) (*ddb.DescribeTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	if _, _, err := f.table(*in.TableName); err != nil {
		return nil, err
	}
	return &ddb.DescribeTableOutput{}, nil
}

func (f *fakeDynamo) CreateTable(_ context.Context, in *ddb.CreateTableInput, _ ...func(*ddb.Options)) (*ddb.CreateTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tables[*in.TableName]; ok {
		return nil, &types.ResourceInUseException{}
	}
	f.tables[*in.TableName] = map[string]item{}
	f.keyAttr[*in.TableName] = *in.KeySchema[0].AttributeName
	return &ddb.CreateTableOutput{}, nil
}
