/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package changestream

import (
	"fmt"
	"strings"

	streamtypes "github.com/aws/aws-sdk-go-v2/service/dynamodbstreams/types"

	"github.com/suparena/ddbstreams/errors"
)

// ImageKind selects which snapshot of a change record the iterator yields.
type ImageKind int

const (
	// NewImage is the row after the write. Absent on REMOVE records and on OLD_IMAGE / KEYS_ONLY streams.
	NewImage ImageKind = iota
	// OldImage is the row before the write. Absent on INSERT records and on NEW_IMAGE / KEYS_ONLY streams.
	OldImage
	// KeysImage holds only the key attributes. Present on every record.
	KeysImage
)

func (k ImageKind) String() string {
	switch k {
	case NewImage:
		return "NewImage"
	case OldImage:
		return "OldImage"
	case KeysImage:
		return "Keys"
	}
	return fmt.Sprintf("ImageKind(%d)", int(k))
}

// ParseImageKind accepts "new", "old" or "keys", case-insensitively.
func ParseImageKind(s string) (ImageKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "new", "newimage":
		return NewImage, nil
	case "old", "oldimage":
		return OldImage, nil
	case "keys":
		return KeysImage, nil
	}
	return 0, errors.NewValidationError("image", fmt.Sprintf("unknown image kind %q", s))
}

// Extract returns the selected image of r, or nil when the record does not carry it.
func (k ImageKind) Extract(r streamtypes.Record) map[string]streamtypes.AttributeValue {
	if r.Dynamodb == nil {
		return nil
	}
	switch k {
	case NewImage:
		return r.Dynamodb.NewImage
	case OldImage:
		return r.Dynamodb.OldImage
	case KeysImage:
		return r.Dynamodb.Keys
	}
	return nil
}
