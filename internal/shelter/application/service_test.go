// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package application_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shelter/internal/platform/apperr"
	"github.com/taibuivan/shelter/internal/shelter/animal"
	"github.com/taibuivan/shelter/internal/shelter/application"
)

type fixture struct {
	animals *animal.MemoryRepository
	service *application.Service
	rex     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	animals := animal.NewMemoryRepository()
	require.NoError(t, animals.Create(context.Background(), &animal.Animal{
		ID: "rex", Name: "Rex", Type: animal.TypeDog, Gender: animal.GenderMale, Status: animal.StatusAvailable,
	}))

	return &fixture{
		animals: animals,
		service: application.NewService(application.NewMemoryRepository(animals), animals, slog.New(slog.DiscardHandler)),
		rex:     "rex",
	}
}

func adoption(animalID string) application.SubmitInput {
	return application.SubmitInput{
		Kind:           application.KindAdoption,
		AnimalID:       animalID,
		ApplicantName:  "Ada",
		ApplicantEmail: "ada@shelter.test",
		Details:        application.Details{HomeType: "House", Reason: "<b>Rex</b> is perfect"},
	}
}

func foster(animalID string) application.SubmitInput {
	return application.SubmitInput{
		Kind:           application.KindFoster,
		AnimalID:       animalID,
		ApplicantName:  "Ada",
		ApplicantEmail: "ada@shelter.test",
		Details: application.Details{
			Address: "1 Main St", City: "Springfield", State: "IL", Zip: "62701", FosterDuration: "3 months",
		},
	}
}

/*
TestService_Submit verifies pending status, server timestamps and sanitised text.
*/
func TestService_Submit(t *testing.T) {
	f := newFixture(t)

	submitted, err := f.service.Submit(context.Background(), "ada", adoption(f.rex))
	require.NoError(t, err)

	assert.Equal(t, application.StatusPending, submitted.Status)
	assert.Equal(t, "ada", submitted.UserID)
	assert.False(t, submitted.SubmittedAt.IsZero())
	assert.Equal(t, "Rex is perfect", submitted.Details.Reason)
}

/*
TestService_Submit_PlainTextPunctuation verifies apostrophes, quotes and
ampersands are stored as typed while tags are still stripped.
*/
func TestService_Submit_PlainTextPunctuation(t *testing.T) {
	f := newFixture(t)

	input := adoption(f.rex)
	input.ApplicantName = "Ada O'Brien"
	input.Details.Reason = `I'm home all day & Rex is "the one" <em>truly</em>`
	input.Details.HomeType = "House & yard"

	submitted, err := f.service.Submit(context.Background(), "ada", input)
	require.NoError(t, err)

	assert.Equal(t, "Ada O'Brien", submitted.ApplicantName)
	assert.Equal(t, `I'm home all day & Rex is "the one" truly`, submitted.Details.Reason)
	assert.Equal(t, "House & yard", submitted.Details.HomeType)
}

/*
TestService_Submit_Rejections covers validation and animal availability.
*/
func TestService_Submit_Rejections(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.animals.Create(context.Background(), &animal.Animal{
		ID: "tom", Name: "Tom", Type: animal.TypeCat, Gender: animal.GenderMale, Status: animal.StatusAdopted,
	}))

	badZip := foster(f.rex)
	badZip.Details.Zip = "ABCDE"

	noReason := adoption(f.rex)
	noReason.Details.Reason = "<script></script>"

	tests := []struct {
		name  string
		input application.SubmitInput
		check func(error) bool
	}{
		{"unknown kind", application.SubmitInput{Kind: "lease"}, func(err error) bool { return apperr.HasCode(err, apperr.CodeValidation) }},
		{"bad zip", badZip, func(err error) bool { return apperr.HasCode(err, apperr.CodeValidation) }},
		{"reason sanitised away", noReason, func(err error) bool { return apperr.HasCode(err, apperr.CodeValidation) }},
		{"missing animal", adoption(""), func(err error) bool { return apperr.HasCode(err, apperr.CodeValidation) }},
		{"unknown animal", adoption("ghost"), apperr.IsNotFound},
		{"placed animal", adoption("tom"), func(err error) bool { return apperr.HasCode(err, apperr.CodeConflict) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Submit(context.Background(), "ada", tc.input)
			assert.True(t, tc.check(err), "got %v", err)
		})
	}
}

/*
TestService_Submit_Volunteer verifies volunteer forms drop any animal reference.
*/
func TestService_Submit_Volunteer(t *testing.T) {
	f := newFixture(t)

	submitted, err := f.service.Submit(context.Background(), "ada", application.SubmitInput{
		Kind:           application.KindVolunteer,
		AnimalID:       "ghost",
		ApplicantName:  "Ada",
		ApplicantEmail: "ada@shelter.test",
		Details:        application.Details{Reason: "I like walking dogs"},
	})
	require.NoError(t, err)
	assert.Empty(t, submitted.AnimalID)
}

/*
TestService_Decide_Placement verifies approvals move the animal and rejections do not.
*/
func TestService_Decide_Placement(t *testing.T) {
	tests := []struct {
		name       string
		input      func(string) application.SubmitInput
		status     application.Status
		wantAnimal animal.Status
	}{
		{"approved adoption", adoption, application.StatusApproved, animal.StatusAdopted},
		{"approved foster", foster, application.StatusApproved, animal.StatusFostered},
		{"rejected adoption", adoption, application.StatusRejected, animal.StatusAvailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			submitted, err := f.service.Submit(context.Background(), "ada", tc.input(f.rex))
			require.NoError(t, err)

			decided, err := f.service.Decide(context.Background(), "staff", submitted.ID, tc.status)
			require.NoError(t, err)
			assert.Equal(t, tc.status, decided.Status)
			require.NotNil(t, decided.DecidedBy)
			assert.Equal(t, "staff", *decided.DecidedBy)

			stored, err := f.animals.FindByID(context.Background(), f.rex)
			require.NoError(t, err)
			assert.Equal(t, tc.wantAnimal, stored.Status)
		})
	}
}

/*
TestService_Decide_Errors covers bad statuses, unknown ids and double decisions.
*/
func TestService_Decide_Errors(t *testing.T) {
	f := newFixture(t)
	submitted, err := f.service.Submit(context.Background(), "ada", adoption(f.rex))
	require.NoError(t, err)

	_, err = f.service.Decide(context.Background(), "staff", submitted.ID, application.StatusPending)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = f.service.Decide(context.Background(), "staff", "ghost", application.StatusApproved)
	assert.True(t, apperr.IsNotFound(err))

	_, err = f.service.Decide(context.Background(), "staff", submitted.ID, application.StatusRejected)
	require.NoError(t, err)

	_, err = f.service.Decide(context.Background(), "staff", submitted.ID, application.StatusApproved)
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
}

/*
TestService_Mine verifies applicants only see their own forms.
*/
func TestService_Mine(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Submit(context.Background(), "ada", adoption(f.rex))
	require.NoError(t, err)
	_, err = f.service.Submit(context.Background(), "bob", foster(f.rex))
	require.NoError(t, err)

	mine, err := f.service.Mine(context.Background(), "ada", "")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, application.KindAdoption, mine[0].Kind)

	mine, err = f.service.Mine(context.Background(), "ada", application.KindFoster)
	require.NoError(t, err)
	assert.Empty(t, mine)

	all, total, err := f.service.List(context.Background(), application.KindFoster, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "bob", all[0].UserID)
}
