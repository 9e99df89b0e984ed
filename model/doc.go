// Package model holds the CustomerReview row and its conversions to DynamoDB
// attributes and to query documents.
package model
