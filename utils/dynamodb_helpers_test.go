package utils

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestExtractHelpers(t *testing.T) {
	item := map[string]types.AttributeValue{
		"name":     S("Luna"),
		"revision": N(3),
		"bad":      &types.AttributeValueMemberN{Value: "1.5"},
	}

	if got := ExtractString(item, "name"); got != "Luna" {
		t.Errorf("ExtractString = %q", got)
	}
	if got := ExtractString(item, "revision"); got != "" {
		t.Errorf("ExtractString on number = %q, want empty", got)
	}
	if got := ExtractInt(item, "revision"); got != 3 {
		t.Errorf("ExtractInt = %d, want 3", got)
	}
	if got := ExtractInt(item, "bad"); got != 0 {
		t.Errorf("ExtractInt on fraction = %d, want 0", got)
	}
	if got := ExtractInt(item, "missing"); got != 0 {
		t.Errorf("ExtractInt on missing = %d, want 0", got)
	}
}

func TestCompositeKey(t *testing.T) {
	key := CompositeKey(UserPrefix+"u1", CandidatePrefix+"c1")
	if ExtractString(key, "PK") != "USER#u1" || ExtractString(key, "SK") != "CANDIDATE#c1" {
		t.Errorf("key = %+v", key)
	}
}
