// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package animal manages the shelter's animal inventory.

Browsing is public. Creating, editing and changing the placement status of an
animal require a caller who passes access.CanEditAnimalInventory.
*/
package animal

import "time"

// # Enumerations

// Type is the species of an animal.
type Type string

const (
	TypeDog Type = "Dog"
	TypeCat Type = "Cat"
)

// Gender of an animal.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Status is the placement state of an animal.
type Status string

const (
	StatusAvailable Status = "available"
	StatusFostered  Status = "fostered"
	StatusAdopted   Status = "adopted"
)

// # Domain Entities

// Animal is one resident of the shelter.
type Animal struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        Type      `json:"type"`
	Breed       string    `json:"breed"`
	Age         string    `json:"age"`
	Gender      Gender    `json:"gender"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Tags        []string  `json:"tags"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Filter narrows a listing. Empty fields match everything.
type Filter struct {
	Type   Type
	Status Status
}

// Patch carries the mutable fields of an update; nil means unchanged.
type Patch struct {
	Name        *string   `json:"name"`
	Breed       *string   `json:"breed"`
	Age         *string   `json:"age"`
	Gender      *Gender   `json:"gender"`
	Description *string   `json:"description"`
	Image       *string   `json:"image"`
	Tags        *[]string `json:"tags"`
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldType        = "type"
	FieldGender      = "gender"
	FieldImage       = "image"
	FieldStatus      = "status"
	FieldDescription = "description"
)
