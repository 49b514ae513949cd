// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package application handles adoption, foster and volunteer applications.

Any signed-in account may apply and read its own applications. Listing every
application and deciding on one require access.CanApproveApplications.
Approving an adoption marks the animal adopted; approving a foster marks it
fostered. Both writes commit together.
*/
package application

import (
	"time"

	"github.com/taibuivan/shelter/internal/shelter/animal"
)

// # Enumerations

// Kind distinguishes the three application forms.
type Kind string

const (
	KindAdoption  Kind = "adoption"
	KindFoster    Kind = "foster"
	KindVolunteer Kind = "volunteer"
)

// Status is the review state of an application.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// # Domain Entities

// Details holds the kind-specific answers. Unused fields stay empty.
type Details struct {
	HomeType       string `json:"homeType,omitempty"`
	HasOtherPets   bool   `json:"hasOtherPets"`
	Reason         string `json:"reason,omitempty"`
	Address        string `json:"address,omitempty"`
	City           string `json:"city,omitempty"`
	State          string `json:"state,omitempty"`
	Zip            string `json:"zip,omitempty"`
	FosterDuration string `json:"fosterDuration,omitempty"`
	Experience     string `json:"experience,omitempty"`
}

// Application is one submitted form.
type Application struct {
	ID             string     `json:"id"`
	Kind           Kind       `json:"kind"`
	UserID         string     `json:"userId"`
	AnimalID       string     `json:"animalId,omitempty"`
	ApplicantName  string     `json:"applicantName"`
	ApplicantEmail string     `json:"applicantEmail"`
	Details        Details    `json:"details"`
	Status         Status     `json:"status"`
	SubmittedAt    time.Time  `json:"submittedAt"`
	DecidedAt      *time.Time `json:"decidedAt,omitempty"`
	DecidedBy      *string    `json:"decidedBy,omitempty"`
}

// Decision moves a pending application to a final status. AnimalStatus, when
// set, is applied to the application's animal in the same unit of work.
type Decision struct {
	ID           string
	Status       Status
	DecidedBy    string
	DecidedAt    time.Time
	AnimalStatus animal.Status
}

// # Field Identifiers

const (
	FieldKind           = "kind"
	FieldAnimalID       = "animalId"
	FieldApplicantName  = "applicantName"
	FieldApplicantEmail = "applicantEmail"
	FieldHomeType       = "homeType"
	FieldReason         = "reason"
	FieldAddress        = "address"
	FieldCity           = "city"
	FieldState          = "state"
	FieldZip            = "zip"
	FieldFosterDuration = "fosterDuration"
	FieldStatus         = "status"
)
