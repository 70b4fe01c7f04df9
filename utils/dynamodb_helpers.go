package utils

import (
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Key prefixes for composite partition/sort keys
const (
	UserPrefix      = "USER#"
	CandidatePrefix = "CANDIDATE#"
)

// S wraps a string as a DynamoDB attribute
func S(v string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: v}
}

// BoolAttr wraps a bool as a DynamoDB attribute
func BoolAttr(v bool) types.AttributeValue {
	return &types.AttributeValueMemberBOOL{Value: v}
}

// N wraps an int as a DynamoDB number attribute
func N(v int) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.Itoa(v)}
}

// CompositeKey builds a PK/SK key map
func CompositeKey(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"PK": S(pk), "SK": S(sk)}
}

// ExtractString safely extracts a string from a DynamoDB attribute map
func ExtractString(item map[string]types.AttributeValue, field string) string {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberS); ok {
			return v.Value
		}
	}
	return ""
}

// ExtractInt extracts a number attribute, returning 0 when absent or not an integer
func ExtractInt(item map[string]types.AttributeValue, field string) int {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberN); ok {
			n, err := strconv.Atoi(v.Value)
			if err == nil {
				return n
			}
		}
	}
	return 0
}
