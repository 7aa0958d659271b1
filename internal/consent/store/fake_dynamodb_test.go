package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamoDB is a stateful, single-table stand-in for DynamoDB that
// understands exactly the requests DynamoDBStore issues: a create condition
// without values, an update condition with the previous version as its only
// value, and a key-condition query on ConsentsByServiceUser.
type fakeDynamoDB struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
}

func newFakeDynamoDB() *fakeDynamoDB {
	return &fakeDynamoDB{items: make(map[string]map[string]types.AttributeValue)}
}

func stringAttr(item map[string]types.AttributeValue, name string) string {
	if s, ok := item[name].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *fakeDynamoDB) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &dynamodb.GetItemOutput{Item: f.items[stringAttr(in.Key, attrID)]}, nil
}

func (f *fakeDynamoDB) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := stringAttr(in.Item, attrID)
	existing, exists := f.items[id]
	if in.ConditionExpression != nil {
		var ok bool
		if len(in.ExpressionAttributeValues) == 0 {
			ok = !exists
		} else {
			ok = exists && f.versionMatches(existing, in.ExpressionAttributeValues)
		}
		if !ok {
			condErr := &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
			if in.ReturnValuesOnConditionCheckFailure == types.ReturnValuesOnConditionCheckFailureAllOld && exists {
				condErr.Item = existing
			}
			return nil, condErr
		}
	}
	f.items[id] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamoDB) versionMatches(existing map[string]types.AttributeValue, values map[string]types.AttributeValue) bool {
	stored, ok := existing[attrConsentVersion].(*types.AttributeValueMemberN)
	if !ok {
		return false
	}
	for _, v := range values {
		n, ok := v.(*types.AttributeValueMemberN)
		if !ok || n.Value != stored.Value {
			return false
		}
	}
	return true
}

func (f *fakeDynamoDB) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if aws.ToString(in.IndexName) != ConsentsByServiceUserIndex {
		return nil, fmt.Errorf("fake: unsupported index %q", aws.ToString(in.IndexName))
	}
	var wanted []string
	for _, v := range in.ExpressionAttributeValues {
		s, ok := v.(*types.AttributeValueMemberS)
		if !ok {
			return nil, fmt.Errorf("fake: unexpected key condition value %T", v)
		}
		wanted = append(wanted, s.Value)
	}
	sort.Strings(wanted)

	var ids []string
	for id, item := range f.items {
		pair := []string{stringAttr(item, attrUserID), stringAttr(item, attrServiceID)}
		sort.Strings(pair)
		if len(wanted) == 2 && pair[0] == wanted[0] && pair[1] == wanted[1] {
			ids = append(ids, id)
		}
	}
	// index key ties resolve by table key
	sort.Strings(ids)

	if in.ExclusiveStartKey != nil {
		start := stringAttr(in.ExclusiveStartKey, attrID)
		idx := sort.SearchStrings(ids, start)
		if idx < len(ids) && ids[idx] == start {
			idx++
		}
		ids = ids[idx:]
	}

	out := &dynamodb.QueryOutput{}
	for _, id := range ids {
		if in.Limit != nil && len(out.Items) == int(*in.Limit) {
			break
		}
		out.Items = append(out.Items, f.items[id])
	}
	// DynamoDB reports a LastEvaluatedKey whenever the limit is reached, even
	// when nothing is left to read.
	if in.Limit != nil && len(out.Items) == int(*in.Limit) {
		last := out.Items[len(out.Items)-1]
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			attrID:        last[attrID],
			attrUserID:    last[attrUserID],
			attrServiceID: last[attrServiceID],
		}
	}
	out.Count = int32(len(out.Items))
	return out, nil
}

func (f *fakeDynamoDB) rawItem(id string) map[string]types.AttributeValue {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[id]
}
