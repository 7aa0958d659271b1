package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	dErrors "github.com/Consent-Management-Platform/consent-management-api/pkg/domain-errors"
)

// attributeJSON is the typed wrapper form of a DynamoDB attribute value, e.g.
// {"S":"abc"} or {"N":"12"}. Exactly one field is set on a valid wrapper.
type attributeJSON struct {
	S    *string                   `json:"S,omitempty"`
	N    *string                   `json:"N,omitempty"`
	B    []byte                    `json:"B,omitempty"`
	BOOL *bool                     `json:"BOOL,omitempty"`
	NULL *bool                     `json:"NULL,omitempty"`
	M    *map[string]attributeJSON `json:"M,omitempty"`
	L    *[]attributeJSON          `json:"L,omitempty"`
	SS   []string                  `json:"SS,omitempty"`
	NS   []string                  `json:"NS,omitempty"`
	BS   [][]byte                  `json:"BS,omitempty"`
}

// attributeTypeDescriptors are the only keys a wrapper may carry. They are
// matched case-sensitively.
var attributeTypeDescriptors = map[string]bool{
	"S": true, "N": true, "B": true, "BOOL": true, "NULL": true,
	"M": true, "L": true, "SS": true, "NS": true, "BS": true,
}

// UnmarshalJSON rejects descriptors encoding/json would otherwise match
// case-insensitively, such as {"s":"x"}.
func (a *attributeJSON) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for name := range fields {
		if !attributeTypeDescriptors[name] {
			return fmt.Errorf("unknown type descriptor %q", name)
		}
	}
	type plain attributeJSON
	return json.Unmarshal(data, (*plain)(a))
}

// ToNativeCursor parses a page token produced by ToJSONToken back into an
// ExclusiveStartKey. A nil token yields a nil cursor.
func ToNativeCursor(token *string) (map[string]types.AttributeValue, error) {
	if token == nil {
		return nil, nil
	}
	invalid := func(err error) error {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, fmt.Sprintf("Unable to parse page token %s", *token))
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(*token)))
	dec.DisallowUnknownFields()
	var raw map[string]attributeJSON
	if err := dec.Decode(&raw); err != nil {
		return nil, invalid(err)
	}
	if dec.More() {
		return nil, invalid(fmt.Errorf("trailing data after token"))
	}
	if len(raw) == 0 {
		return nil, invalid(fmt.Errorf("token has no key attributes"))
	}

	cursor := make(map[string]types.AttributeValue, len(raw))
	for name, wrapped := range raw {
		av, err := wrapped.toAttributeValue()
		if err != nil {
			return nil, invalid(fmt.Errorf("attribute %s: %w", name, err))
		}
		cursor[name] = av
	}
	return cursor, nil
}

// ToJSONToken renders a LastEvaluatedKey as an HTTP-safe token. A nil or
// empty cursor means there are no more pages and yields a nil token.
func ToJSONToken(cursor map[string]types.AttributeValue) (*string, error) {
	if len(cursor) == 0 {
		return nil, nil
	}
	raw := make(map[string]attributeJSON, len(cursor))
	for name, av := range cursor {
		wrapped, err := fromAttributeValue(av)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, fmt.Sprintf("Unable to serialize page cursor attribute %s", name))
		}
		raw[name] = wrapped
	}
	// encoding/json sorts map keys, so equal cursors always render the same token.
	out, err := json.Marshal(raw)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "Unable to serialize page cursor")
	}
	token := string(out)
	return &token, nil
}

func (a attributeJSON) toAttributeValue() (types.AttributeValue, error) {
	var (
		set int
		av  types.AttributeValue
	)
	if a.S != nil {
		set++
		av = &types.AttributeValueMemberS{Value: *a.S}
	}
	if a.N != nil {
		set++
		av = &types.AttributeValueMemberN{Value: *a.N}
	}
	if a.B != nil {
		set++
		av = &types.AttributeValueMemberB{Value: a.B}
	}
	if a.BOOL != nil {
		set++
		av = &types.AttributeValueMemberBOOL{Value: *a.BOOL}
	}
	if a.NULL != nil {
		set++
		av = &types.AttributeValueMemberNULL{Value: *a.NULL}
	}
	if a.M != nil {
		set++
		m := make(map[string]types.AttributeValue, len(*a.M))
		for k, v := range *a.M {
			inner, err := v.toAttributeValue()
			if err != nil {
				return nil, err
			}
			m[k] = inner
		}
		av = &types.AttributeValueMemberM{Value: m}
	}
	if a.L != nil {
		set++
		l := make([]types.AttributeValue, 0, len(*a.L))
		for _, v := range *a.L {
			inner, err := v.toAttributeValue()
			if err != nil {
				return nil, err
			}
			l = append(l, inner)
		}
		av = &types.AttributeValueMemberL{Value: l}
	}
	if a.SS != nil {
		set++
		av = &types.AttributeValueMemberSS{Value: a.SS}
	}
	if a.NS != nil {
		set++
		av = &types.AttributeValueMemberNS{Value: a.NS}
	}
	if a.BS != nil {
		set++
		av = &types.AttributeValueMemberBS{Value: a.BS}
	}
	if set != 1 {
		return nil, fmt.Errorf("expected exactly one type descriptor, found %d", set)
	}
	return av, nil
}

func fromAttributeValue(av types.AttributeValue) (attributeJSON, error) {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return attributeJSON{S: &v.Value}, nil
	case *types.AttributeValueMemberN:
		return attributeJSON{N: &v.Value}, nil
	case *types.AttributeValueMemberB:
		return attributeJSON{B: v.Value}, nil
	case *types.AttributeValueMemberBOOL:
		return attributeJSON{BOOL: &v.Value}, nil
	case *types.AttributeValueMemberNULL:
		return attributeJSON{NULL: &v.Value}, nil
	case *types.AttributeValueMemberM:
		m := make(map[string]attributeJSON, len(v.Value))
		for k, inner := range v.Value {
			wrapped, err := fromAttributeValue(inner)
			if err != nil {
				return attributeJSON{}, err
			}
			m[k] = wrapped
		}
		return attributeJSON{M: &m}, nil
	case *types.AttributeValueMemberL:
		l := make([]attributeJSON, 0, len(v.Value))
		for _, inner := range v.Value {
			wrapped, err := fromAttributeValue(inner)
			if err != nil {
				return attributeJSON{}, err
			}
			l = append(l, wrapped)
		}
		return attributeJSON{L: &l}, nil
	case *types.AttributeValueMemberSS:
		return attributeJSON{SS: v.Value}, nil
	case *types.AttributeValueMemberNS:
		return attributeJSON{NS: v.Value}, nil
	case *types.AttributeValueMemberBS:
		return attributeJSON{BS: v.Value}, nil
	default:
		return attributeJSON{}, fmt.Errorf("unsupported attribute value type %T", av)
	}
}
