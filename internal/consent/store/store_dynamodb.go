package store

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Consent-Management-Platform/consent-management-api/internal/consent/models"
	"github.com/Consent-Management-Platform/consent-management-api/internal/consent/pagination"
	dErrors "github.com/Consent-Management-Platform/consent-management-api/pkg/domain-errors"
)

//go:generate mockgen -source=store_dynamodb.go -destination=mocks/dynamodb_mock.go -package=mocks DynamoDBAPI

// DynamoDBAPI is the subset of the DynamoDB client the store calls.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// DynamoDBStore persists consents in a DynamoDB table. Uniqueness and
// version checks are conditional writes, so they hold across processes.
type DynamoDBStore struct {
	client    DynamoDBAPI
	tableName string
}

// NewDynamoDB constructs a DynamoDB-backed consent store.
func NewDynamoDB(client DynamoDBAPI, tableName string) *DynamoDBStore {
	return &DynamoDBStore{client: client, tableName: tableName}
}

func (s *DynamoDBStore) CreateServiceUserConsent(ctx context.Context, consent *models.Consent) error {
	if err := models.Validate(consent); err != nil {
		return err
	}
	item, err := marshalConsent(consent)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "create consent")
	}
	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name(attrID))).
		Build()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "build create condition")
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(s.tableName),
		Item:                     item,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return alreadyExists(consent.Key())
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "create consent")
	}
	return nil
}

func (s *DynamoDBStore) GetServiceUserConsent(ctx context.Context, serviceID, userID, consentID string) (*models.Consent, error) {
	key := models.ServiceUserConsentKey{ServiceID: serviceID, UserID: userID, ConsentID: consentID}
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            keyAttributes(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "get consent")
	}
	if len(out.Item) == 0 {
		return nil, notFound(key)
	}
	consent, err := unmarshalConsent(out.Item)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "get consent")
	}
	return consent, nil
}

// UpdateServiceUserConsent replaces the stored item only if it exists and
// still carries consent.ConsentVersion-1. On a failed condition the old item
// tells NotFound and VersionConflict apart without a second read.
func (s *DynamoDBStore) UpdateServiceUserConsent(ctx context.Context, consent *models.Consent) error {
	if err := models.Validate(consent); err != nil {
		return err
	}
	item, err := marshalConsent(consent)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "update consent")
	}
	cond := expression.AttributeExists(expression.Name(attrID)).
		And(expression.Name(attrConsentVersion).Equal(expression.Value(consent.ConsentVersion - 1)))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "build update condition")
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                           aws.String(s.tableName),
		Item:                                item,
		ConditionExpression:                 expr.Condition(),
		ExpressionAttributeNames:            expr.Names(),
		ExpressionAttributeValues:           expr.Values(),
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err == nil {
		return nil
	}

	var condErr *types.ConditionalCheckFailedException
	if !errors.As(err, &condErr) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "update consent")
	}
	if len(condErr.Item) == 0 {
		return notFound(consent.Key())
	}
	existing, err := unmarshalConsent(condErr.Item)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "update consent")
	}
	return dErrors.NewVersionConflict(existing.ConsentVersion+1, consent.ConsentVersion)
}

// ListServiceUserConsents queries the ConsentsByServiceUser index. Page
// tokens are JSON renderings of the index's LastEvaluatedKey.
func (s *DynamoDBStore) ListServiceUserConsents(ctx context.Context, serviceID, userID string, limit *int, pageToken *string) (*pagination.ListPage[models.Consent], error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	startKey, err := ToNativeCursor(pageToken)
	if err != nil {
		return nil, err
	}
	if err := checkStartKey(startKey, serviceID, userID); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, fmt.Sprintf("Unable to parse page token %s", *pageToken))
	}

	keyCond := expression.Key(attrUserID).Equal(expression.Value(userID)).
		And(expression.Key(attrServiceID).Equal(expression.Value(serviceID)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build list key condition")
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		IndexName:                 aws.String(ConsentsByServiceUserIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ExclusiveStartKey:         startKey,
	}
	if limit != nil {
		input.Limit = aws.Int32(int32(min(*limit, math.MaxInt32)))
	}

	out, err := s.client.Query(ctx, input)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list consents")
	}

	page := &pagination.ListPage[models.Consent]{ResultsOnPage: make([]models.Consent, 0, len(out.Items))}
	for _, av := range out.Items {
		consent, err := unmarshalConsent(av)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list consents")
		}
		page.ResultsOnPage = append(page.ResultsOnPage, *consent)
	}
	page.NextPageToken, err = ToJSONToken(out.LastEvaluatedKey)
	if err != nil {
		return nil, err
	}
	return page, nil
}

// checkStartKey accepts only cursors shaped like a ConsentsByServiceUser key
// for the queried pair. Anything else would be rejected by DynamoDB.
func checkStartKey(startKey map[string]types.AttributeValue, serviceID, userID string) error {
	if startKey == nil {
		return nil
	}
	want := map[string]string{attrUserID: userID, attrServiceID: serviceID}
	if len(startKey) != 3 {
		return fmt.Errorf("expected attributes %s, %s and %s", attrID, attrUserID, attrServiceID)
	}
	for _, name := range []string{attrID, attrUserID, attrServiceID} {
		s, ok := startKey[name].(*types.AttributeValueMemberS)
		if !ok {
			return fmt.Errorf("attribute %s must be a string", name)
		}
		if expected, scoped := want[name]; scoped && s.Value != expected {
			return fmt.Errorf("attribute %s does not match the listed %s", name, name)
		}
	}
	return nil
}
