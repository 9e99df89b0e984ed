/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package model

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// YesNo is a boolean persisted as a single-character "Y"/"N" string attribute.
type YesNo bool

// ParseYesNo accepts Y/y and N/n, surrounding whitespace ignored.
func ParseYesNo(s string) (YesNo, error) {
	switch strings.TrimSpace(s) {
	case "Y", "y":
		return true, nil
	case "N", "n":
		return false, nil
	}
	return false, fmt.Errorf("invalid yes/no token %q", s)
}

// String returns "Y" or "N".
func (v YesNo) String() string {
	if v {
		return "Y"
	}
	return "N"
}

// MarshalDynamoDBAttributeValue implements attributevalue.Marshaler.
func (v YesNo) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberS{Value: v.String()}, nil
}

// UnmarshalDynamoDBAttributeValue implements attributevalue.Unmarshaler.
// BOOL and NULL attributes are accepted as well as the Y/N string form.
func (v *YesNo) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	switch tv := av.(type) {
	case *types.AttributeValueMemberS:
		parsed, err := ParseYesNo(tv.Value)
		if err != nil {
			return err
		}
		*v = parsed
	case *types.AttributeValueMemberBOOL:
		*v = YesNo(tv.Value)
	case *types.AttributeValueMemberNULL:
		*v = false
	default:
		return fmt.Errorf("unsupported attribute type %T for yes/no flag", av)
	}
	return nil
}
