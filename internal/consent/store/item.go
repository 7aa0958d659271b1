package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Consent-Management-Platform/consent-management-api/internal/consent/models"
)

// Table layout
const (
	DefaultTableName = "ServiceUserConsent"

	ConsentsByServiceUserIndex      = "ConsentsByServiceUser"
	ActiveConsentsByExpiryHourIndex = "ActiveConsentsByExpiryHour"

	attrID             = "id"
	attrServiceID      = "serviceId"
	attrUserID         = "userId"
	attrConsentID      = "consentId"
	attrConsentVersion = "consentVersion"
	attrStatus         = "consentStatus"
	attrExpiryTime     = "expiryTime"
	attrExpiryHour     = "expiryHour"
)

// expiryTimeLayout is fixed width so expiry index sort keys order correctly.
const (
	expiryTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"
	expiryHourLayout = "2006-01-02T15"
)

// consentItem is the persisted shape of a consent.
type consentItem struct {
	ID             string            `dynamodbav:"id"`
	ServiceID      string            `dynamodbav:"serviceId"`
	UserID         string            `dynamodbav:"userId"`
	ConsentID      string            `dynamodbav:"consentId"`
	ConsentVersion int               `dynamodbav:"consentVersion"`
	Status         string            `dynamodbav:"consentStatus"`
	ConsentType    string            `dynamodbav:"consentType,omitempty"`
	ConsentData    map[string]string `dynamodbav:"consentData,omitempty"`
	ExpiryTime     string            `dynamodbav:"expiryTime,omitempty"`
	ExpiryHour     string            `dynamodbav:"expiryHour,omitempty"`
}

// partitionKey joins the identity triple into the table's primary key.
func partitionKey(key models.ServiceUserConsentKey) string {
	return strings.Join([]string{key.ServiceID, key.UserID, key.ConsentID}, models.KeySeparator)
}

func keyAttributes(key models.ServiceUserConsentKey) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrID: &types.AttributeValueMemberS{Value: partitionKey(key)},
	}
}

func toItem(consent *models.Consent) consentItem {
	item := consentItem{
		ID:             partitionKey(consent.Key()),
		ServiceID:      consent.ServiceID,
		UserID:         consent.UserID,
		ConsentID:      consent.ConsentID,
		ConsentVersion: consent.ConsentVersion,
		Status:         string(consent.Status),
		ConsentType:    consent.ConsentType,
		ConsentData:    consent.ConsentData,
	}
	if consent.ExpiryTime != nil {
		expiry := consent.ExpiryTime.UTC()
		item.ExpiryTime = expiry.Format(expiryTimeLayout)
		// only active, expiring records are projected into the sweep index
		if consent.EligibleForAutoExpiry() {
			item.ExpiryHour = expiry.Format(expiryHourLayout)
		}
	}
	return item
}

func (i consentItem) toConsent() (*models.Consent, error) {
	consent := &models.Consent{
		ServiceID:      i.ServiceID,
		UserID:         i.UserID,
		ConsentID:      i.ConsentID,
		ConsentVersion: i.ConsentVersion,
		Status:         models.Status(i.Status),
		ConsentType:    i.ConsentType,
		ConsentData:    i.ConsentData,
	}
	if i.ExpiryTime != "" {
		expiry, err := time.Parse(time.RFC3339Nano, i.ExpiryTime)
		if err != nil {
			return nil, fmt.Errorf("parse %s %q: %w", attrExpiryTime, i.ExpiryTime, err)
		}
		consent.ExpiryTime = &expiry
	}
	return consent, nil
}

func marshalConsent(consent *models.Consent) (map[string]types.AttributeValue, error) {
	av, err := attributevalue.MarshalMap(toItem(consent))
	if err != nil {
		return nil, fmt.Errorf("marshal consent item: %w", err)
	}
	return av, nil
}

func unmarshalConsent(av map[string]types.AttributeValue) (*models.Consent, error) {
	var item consentItem
	if err := attributevalue.UnmarshalMap(av, &item); err != nil {
		return nil, fmt.Errorf("unmarshal consent item: %w", err)
	}
	return item.toConsent()
}

// TableDefinition describes the consent table and both secondary indexes.
// It is used to bootstrap DynamoDB Local and integration tests.
func TableDefinition(tableName string) *dynamodb.CreateTableInput {
	return &dynamodb.CreateTableInput{
		TableName:   aws.String(tableName),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(attrID), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(attrServiceID), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(attrUserID), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(attrExpiryHour), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(attrExpiryTime), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(attrID), KeyType: types.KeyTypeHash},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				// user first: far fewer consents per user than per service
				IndexName: aws.String(ConsentsByServiceUserIndex),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String(attrUserID), KeyType: types.KeyTypeHash},
					{AttributeName: aws.String(attrServiceID), KeyType: types.KeyTypeRange},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
			{
				IndexName: aws.String(ActiveConsentsByExpiryHourIndex),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String(attrExpiryHour), KeyType: types.KeyTypeHash},
					{AttributeName: aws.String(attrExpiryTime), KeyType: types.KeyTypeRange},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeKeysOnly},
			},
		},
	}
}
