package models

import "strings"

// CustomerInfo is the contact detail supplied with a booking or purchase.
type CustomerInfo struct {
	Name           string `bson:"name" json:"name" binding:"required"`
	Email          string `bson:"email" json:"email" binding:"required,email"`
	Phone          string `bson:"phone,omitempty" json:"phone,omitempty"`
	AdditionalInfo string `bson:"additionalInfo,omitempty" json:"additionalInfo,omitempty"`
}

func equalFoldEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
