/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type registeredThing struct {
	ID string
}

type unregisteredThing struct{}

func TestTableRegistry(t *testing.T) {
	RegisterTable[registeredThing](TableSchema{Name: "Things", HashKey: "id"})

	schema, ok := GetTable[registeredThing]()
	if !ok {
		t.Fatal("expected schema for registeredThing")
	}
	if schema.Name != "Things" || schema.HashKey != "id" {
		t.Errorf("unexpected schema: %+v", schema)
	}
	if schema.HashKeyType != types.ScalarAttributeTypeS {
		t.Errorf("hash key type should default to S, got %q", schema.HashKeyType)
	}

	if _, ok := GetTable[unregisteredThing](); ok {
		t.Error("unregistered type should have no schema")
	}
}

func TestDecoderRegistry(t *testing.T) {
	RegisterDecoder[registeredThing](func(item map[string]types.AttributeValue) (*registeredThing, error) {
		s, _ := item["id"].(*types.AttributeValueMemberS)
		return &registeredThing{ID: s.Value}, nil
	})

	fn, ok := GetDecoder[registeredThing]()
	if !ok {
		t.Fatal("expected decoder for registeredThing")
	}
	got, err := fn(map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "x"}})
	if err != nil || got.ID != "x" {
		t.Errorf("decoder returned %+v, %v", got, err)
	}

	if _, ok := GetDecoder[unregisteredThing](); ok {
		t.Error("unregistered type should have no decoder")
	}

	defer func() {
		if recover() == nil {
			t.Error("registering a second decoder should panic")
		}
	}()
	RegisterDecoder[registeredThing](func(map[string]types.AttributeValue) (*registeredThing, error) { return nil, nil })
}

type plainThing struct {
	Name  string `dynamodbav:"name"`
	Count int    `dynamodbav:"count"`
}

func TestDecodeFallsBackToUnmarshal(t *testing.T) {
	got, err := Decode[plainThing](map[string]types.AttributeValue{
		"name":  &types.AttributeValueMemberS{Value: "a"},
		"count": &types.AttributeValueMemberN{Value: "2"},
	})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.Name != "a" || got.Count != 2 {
		t.Errorf("unexpected result %+v", got)
	}

	if _, err := Decode[plainThing](map[string]types.AttributeValue{
		"count": &types.AttributeValueMemberS{Value: "two"},
	}); err == nil {
		t.Error("expected an error for a string count")
	}
}
